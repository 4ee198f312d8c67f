package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ongfinanzas/internal/core"
	"ongfinanzas/internal/log"
)

// Operation names a persistence command, e.g. create_project. Each one runs
// in its own transaction and answers with a success flag, a message and, on
// success, the stored row.
type Operation struct {
	Action string
	Target string
}

func (o Operation) String() string { return o.Action + "_" + o.Target }

var (
	OpCreateProject              = Operation{log.OpCreate, "project"}
	OpUpdateProject              = Operation{log.OpUpdate, "project"}
	OpDeleteProject              = Operation{log.OpDelete, "project"}
	OpCreateRubro                = Operation{log.OpCreate, "rubro"}
	OpUpdateRubro                = Operation{log.OpUpdate, "rubro"}
	OpDeleteRubro                = Operation{log.OpDelete, "rubro"}
	OpInactivateRubrosByProject  = Operation{log.OpInactivate, "rubros_by_project"}
	OpCreateDonation             = Operation{log.OpCreate, "donation"}
	OpUpdateDonation             = Operation{log.OpUpdate, "donation"}
	OpDeleteDonation             = Operation{log.OpDelete, "donation"}
	OpInactivateDonationsByRubro = Operation{log.OpInactivate, "donations_by_rubro"}
	OpCreatePurchaseOrder        = Operation{log.OpCreate, "purchase_order"}
	OpUpdatePurchaseOrder        = Operation{log.OpUpdate, "purchase_order"}
	OpDeletePurchaseOrder        = Operation{log.OpDelete, "purchase_order"}
	OpInactivateOrdersByRubro    = Operation{log.OpInactivate, "orders_by_rubro"}
)

// Messages returned by commands; callers pass them through verbatim.
const (
	MsgDuplicateCode     = "duplicate code, retry the operation"
	MsgProjectNotFound   = "project not found"
	MsgProjectInactive   = "project does not exist or is inactive"
	MsgRubroNotFound     = "rubro not found"
	MsgRubroInactive     = "rubro does not exist or is inactive"
	MsgDonationNotFound  = "donation not found"
	MsgOrderNotFound     = "purchase order not found"
	MsgProjectCreated    = "project created"
	MsgProjectUpdated    = "project updated"
	MsgProjectDeleted    = "project deactivated"
	MsgRubroCreated      = "rubro created"
	MsgRubroUpdated      = "rubro updated"
	MsgRubroDeleted      = "rubro deactivated"
	MsgDonationCreated   = "donation created"
	MsgDonationUpdated   = "donation updated"
	MsgDonationDeleted   = "donation deactivated"
	MsgOrderCreated      = "purchase order created"
	MsgOrderUpdated      = "purchase order updated"
	MsgOrderDeleted      = "purchase order deactivated"
	msgBulkInactivated   = "%d %s inactivated"
)

// command executes op inside a transaction. Unique violations become a
// refused outcome so a code-generation race is reported, not raised.
func command[T any](ctx context.Context, s *Store, op Operation, fn func(tx *sqlx.Tx) (core.Outcome[T], error)) (core.Outcome[T], error) {
	var out core.Outcome[T]
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		out, err = fn(tx)
		return err
	})

	logger := log.FromContext(ctx).WithComponent(log.ComponentStorage)
	sl := log.NewStructuredLogger(logger)
	if err != nil {
		if isUniqueViolation(err) {
			logger.WarnContext(ctx, "Unique constraint rejected command",
				log.FieldOperation, op.String(), log.FieldErrorType, log.ErrorTypeConflict, log.FieldError, err)
			out = core.Refused[T](MsgDuplicateCode)
			sl.LogCommand(ctx, op.String(), op.Action, false, out.Message)
			return out, nil
		}
		return core.Outcome[T]{}, fmt.Errorf("%s: %w", op, err)
	}

	sl.LogCommand(ctx, op.String(), op.Action, out.Success, out.Message)
	return out, nil
}

func txGet(ctx context.Context, tx *sqlx.Tx, dest any, query string, args ...any) error {
	return tx.GetContext(ctx, dest, tx.Rebind(query), args...)
}

func txExec(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// txCount runs a COUNT query inside tx.
func txCount(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	var n int64
	if err := txGet(ctx, tx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

const (
	countProjectQuery       = `SELECT COUNT(*) FROM projects WHERE id = ?`
	countActiveProjectQuery = `SELECT COUNT(*) FROM projects WHERE id = ? AND active = TRUE`
	countRubroQuery         = `SELECT COUNT(*) FROM rubros WHERE id = ?`
	countVisibleRubroQuery  = `SELECT COUNT(*) FROM rubros r
		JOIN projects p ON p.id = r.project_id AND p.active = TRUE
		WHERE r.id = ? AND r.active = TRUE`
)

func projectExists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	n, err := txCount(ctx, tx, countProjectQuery, id)
	return n > 0, err
}

func projectActive(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	n, err := txCount(ctx, tx, countActiveProjectQuery, id)
	return n > 0, err
}

func rubroExists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	n, err := txCount(ctx, tx, countRubroQuery, id)
	return n > 0, err
}

// rubroVisible holds when the rubro and its project are both active.
func rubroVisible(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	n, err := txCount(ctx, tx, countVisibleRubroQuery, id)
	return n > 0, err
}
