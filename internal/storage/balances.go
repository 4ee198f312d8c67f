package storage

import (
	"context"
	"errors"
	"fmt"

	"ongfinanzas/internal/core"
)

const balanceColumns = `r.id AS rubro_id,
	(SELECT CAST(COALESCE(SUM(d.amount_cents), 0) AS BIGINT) FROM donations d
		WHERE d.rubro_id = r.id AND d.active = TRUE) AS total_donations_cents,
	(SELECT CAST(COALESCE(SUM(o.amount_cents), 0) AS BIGINT) FROM purchase_orders o
		WHERE o.rubro_id = r.id AND o.active = TRUE) AS total_orders_cents`

// BalanceForRubro returns visible donation and order totals of a visible rubro.
// core.ErrNotFound means the rubro is absent or hidden.
func (s *Store) BalanceForRubro(ctx context.Context, rubroID int64) (core.Balance, error) {
	var b core.Balance
	err := s.getRow(ctx, &b, `SELECT `+balanceColumns+rubroJoin(true)+` WHERE r.id = ?`, rubroID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return b, err
		}
		return b, fmt.Errorf("balance of rubro %d: %w", rubroID, err)
	}
	return b.Settle(), nil
}

// ListBalances returns the balance of every visible rubro, ordered by rubro code.
func (s *Store) ListBalances(ctx context.Context) ([]core.RubroBalance, error) {
	var out []core.RubroBalance
	q := `SELECT ` + balanceColumns + `,
			r.code AS rubro_code, r.name AS rubro_name, p.code AS project_code, p.name AS project_name` +
		rubroJoin(true) + ` ORDER BY p.code, r.code`
	if err := s.selectRows(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	for i := range out {
		out[i].Balance = out[i].Balance.Settle()
	}
	return out, nil
}

func (s *Store) CountActiveProjects(ctx context.Context) (int64, error) {
	var n int64
	if err := s.getRow(ctx, &n, `SELECT COUNT(*) FROM projects WHERE active = TRUE`); err != nil {
		return 0, fmt.Errorf("count active projects: %w", err)
	}
	return n, nil
}

func (s *Store) CountVisibleRubros(ctx context.Context) (int64, error) {
	var n int64
	if err := s.getRow(ctx, &n, `SELECT COUNT(*)`+rubroJoin(true)); err != nil {
		return 0, fmt.Errorf("count visible rubros: %w", err)
	}
	return n, nil
}
