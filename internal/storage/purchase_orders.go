package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ongfinanzas/internal/core"
)

const orderColumns = `o.id, o.rubro_id, o.amount_cents, o.order_date, o.active`

func orderJoin(activeOnly bool) string {
	if activeOnly {
		return ` FROM purchase_orders o
			JOIN rubros r ON r.id = o.rubro_id AND r.active = TRUE AND o.active = TRUE
			JOIN projects p ON p.id = r.project_id AND p.active = TRUE`
	}
	return ` FROM purchase_orders o
			JOIN rubros r ON r.id = o.rubro_id
			JOIN projects p ON p.id = r.project_id`
}

const orderDetailColumns = orderColumns + `,
	r.code AS rubro_code, r.name AS rubro_name, p.id AS project_id, p.code AS project_code, p.name AS project_name`

func (s *Store) ListPurchaseOrders(ctx context.Context, activeOnly bool) ([]core.PurchaseOrder, error) {
	var out []core.PurchaseOrder
	if err := s.selectRows(ctx, &out, `SELECT `+orderColumns+orderJoin(activeOnly)+` ORDER BY o.id`); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return out, nil
}

func (s *Store) ListPurchaseOrdersByRubro(ctx context.Context, rubroID int64, activeOnly bool) ([]core.PurchaseOrder, error) {
	var out []core.PurchaseOrder
	q := `SELECT ` + orderColumns + orderJoin(activeOnly) + ` WHERE o.rubro_id = ? ORDER BY o.id`
	if err := s.selectRows(ctx, &out, q, rubroID); err != nil {
		return nil, fmt.Errorf("list purchase orders of rubro %d: %w", rubroID, err)
	}
	return out, nil
}

func (s *Store) GetPurchaseOrder(ctx context.Context, id int64, activeOnly bool) (core.PurchaseOrder, error) {
	var o core.PurchaseOrder
	err := s.getRow(ctx, &o, `SELECT `+orderColumns+orderJoin(activeOnly)+` WHERE o.id = ?`, id)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return o, fmt.Errorf("get purchase order %d: %w", id, err)
	}
	return o, err
}

func (s *Store) ListPurchaseOrderDetails(ctx context.Context, activeOnly bool) ([]core.PurchaseOrderDetail, error) {
	var out []core.PurchaseOrderDetail
	if err := s.selectRows(ctx, &out, `SELECT `+orderDetailColumns+orderJoin(activeOnly)+` ORDER BY o.id`); err != nil {
		return nil, fmt.Errorf("list purchase order details: %w", err)
	}
	return out, nil
}

// ListPurchaseOrdersByDateRange returns visible orders dated within [from, to].
func (s *Store) ListPurchaseOrdersByDateRange(ctx context.Context, from, to core.Date) ([]core.PurchaseOrderDetail, error) {
	var out []core.PurchaseOrderDetail
	q := `SELECT ` + orderDetailColumns + orderJoin(true) + ` WHERE o.order_date BETWEEN ? AND ? ORDER BY o.order_date, o.id`
	if err := s.selectRows(ctx, &out, q, from, to); err != nil {
		return nil, fmt.Errorf("list purchase orders by date range: %w", err)
	}
	return out, nil
}

func (s *Store) PurchaseOrderTotalByRubro(ctx context.Context, rubroID int64) (core.RubroTotal, error) {
	total := core.RubroTotal{RubroID: rubroID}
	q := `SELECT CAST(COALESCE(SUM(o.amount_cents), 0) AS BIGINT) AS total_cents, COUNT(o.id) AS entry_count` +
		orderJoin(true) + ` WHERE o.rubro_id = ?`
	if err := s.getRow(ctx, &total, q, rubroID); err != nil {
		return total, fmt.Errorf("purchase order total of rubro %d: %w", rubroID, err)
	}
	return total, nil
}

func (s *Store) PurchaseOrderStats(ctx context.Context) (core.RubroTotal, error) {
	var total core.RubroTotal
	q := `SELECT CAST(COALESCE(SUM(o.amount_cents), 0) AS BIGINT) AS total_cents, COUNT(o.id) AS entry_count` + orderJoin(true)
	if err := s.getRow(ctx, &total, q); err != nil {
		return total, fmt.Errorf("purchase order stats: %w", err)
	}
	return total, nil
}

func (s *Store) PurchaseOrderReportByProject(ctx context.Context, projectID int64) ([]core.ProjectReportRow, error) {
	return s.projectReport(ctx, "purchase_orders", projectID)
}

func (s *Store) CreatePurchaseOrder(ctx context.Context, o core.PurchaseOrder) (core.Outcome[core.PurchaseOrder], error) {
	return command(ctx, s, OpCreatePurchaseOrder, func(tx *sqlx.Tx) (core.Outcome[core.PurchaseOrder], error) {
		ok, err := rubroVisible(ctx, tx, o.RubroID)
		if err != nil {
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		if !ok {
			return core.Refused[core.PurchaseOrder](MsgRubroInactive), nil
		}

		var id int64
		err = txGet(ctx, tx, &id, `INSERT INTO purchase_orders (rubro_id, amount_cents, order_date, active)
			VALUES (?, ?, ?, TRUE) RETURNING id`, o.RubroID, o.Amount, o.OrderDate)
		if err != nil {
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		row, err := orderByID(ctx, tx, id)
		if err != nil {
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		return core.Done(row, MsgOrderCreated), nil
	})
}

func (s *Store) UpdatePurchaseOrder(ctx context.Context, o core.PurchaseOrder, active *bool) (core.Outcome[core.PurchaseOrder], error) {
	return command(ctx, s, OpUpdatePurchaseOrder, func(tx *sqlx.Tx) (core.Outcome[core.PurchaseOrder], error) {
		if _, err := orderByID(ctx, tx, o.ID); err != nil {
			if isNoRows(err) {
				return core.Missing[core.PurchaseOrder](MsgOrderNotFound), nil
			}
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		ok, err := rubroVisible(ctx, tx, o.RubroID)
		if err != nil {
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		if !ok {
			return core.Refused[core.PurchaseOrder](MsgRubroInactive), nil
		}

		_, err = txExec(ctx, tx, `UPDATE purchase_orders
			SET rubro_id = ?, amount_cents = ?, order_date = ?,
				active = COALESCE(?, active), updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`, o.RubroID, o.Amount, o.OrderDate, nullBool(active), o.ID)
		if err != nil {
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		row, err := orderByID(ctx, tx, o.ID)
		if err != nil {
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		return core.Done(row, MsgOrderUpdated), nil
	})
}

func (s *Store) DeletePurchaseOrder(ctx context.Context, id int64) (core.Outcome[core.PurchaseOrder], error) {
	return command(ctx, s, OpDeletePurchaseOrder, func(tx *sqlx.Tx) (core.Outcome[core.PurchaseOrder], error) {
		n, err := txExec(ctx, tx, `UPDATE purchase_orders SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
		if err != nil {
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		if n == 0 {
			return core.Missing[core.PurchaseOrder](MsgOrderNotFound), nil
		}
		row, err := orderByID(ctx, tx, id)
		if err != nil {
			return core.Outcome[core.PurchaseOrder]{}, err
		}
		return core.Done(row, MsgOrderDeleted), nil
	})
}

func (s *Store) InactivateOrdersByRubro(ctx context.Context, rubroID int64) (core.Outcome[int64], error) {
	return command(ctx, s, OpInactivateOrdersByRubro, func(tx *sqlx.Tx) (core.Outcome[int64], error) {
		ok, err := rubroExists(ctx, tx, rubroID)
		if err != nil {
			return core.Outcome[int64]{}, err
		}
		if !ok {
			return core.Missing[int64](MsgRubroNotFound), nil
		}
		n, err := txExec(ctx, tx, `UPDATE purchase_orders SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE rubro_id = ?`, rubroID)
		if err != nil {
			return core.Outcome[int64]{}, err
		}
		return core.Done(n, fmt.Sprintf(msgBulkInactivated, n, "purchase orders")), nil
	})
}

func orderByID(ctx context.Context, tx *sqlx.Tx, id int64) (core.PurchaseOrder, error) {
	var o core.PurchaseOrder
	err := txGet(ctx, tx, &o, `SELECT id, rubro_id, amount_cents, order_date, active FROM purchase_orders WHERE id = ?`, id)
	return o, err
}
