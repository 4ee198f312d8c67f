package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ongfinanzas/internal/core"
)

const rubroColumns = `r.id, r.code, r.name, r.project_id, r.active`

// rubroJoin joins rubros to their project. With activeOnly the visibility
// rule lives in the join predicate: both flags must hold.
func rubroJoin(activeOnly bool) string {
	if activeOnly {
		return ` FROM rubros r JOIN projects p ON p.id = r.project_id AND p.active = TRUE AND r.active = TRUE`
	}
	return ` FROM rubros r JOIN projects p ON p.id = r.project_id`
}

func (s *Store) ListRubros(ctx context.Context, activeOnly bool) ([]core.Rubro, error) {
	var out []core.Rubro
	q := `SELECT ` + rubroColumns + rubroJoin(activeOnly) + ` ORDER BY r.id`
	if err := s.selectRows(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list rubros: %w", err)
	}
	return out, nil
}

func (s *Store) ListRubrosByProject(ctx context.Context, projectID int64, activeOnly bool) ([]core.Rubro, error) {
	var out []core.Rubro
	q := `SELECT ` + rubroColumns + rubroJoin(activeOnly) + ` WHERE r.project_id = ? ORDER BY r.id`
	if err := s.selectRows(ctx, &out, q, projectID); err != nil {
		return nil, fmt.Errorf("list rubros of project %d: %w", projectID, err)
	}
	return out, nil
}

func (s *Store) GetRubroByCode(ctx context.Context, code string, activeOnly bool) (core.Rubro, error) {
	var r core.Rubro
	err := s.getRow(ctx, &r, `SELECT `+rubroColumns+rubroJoin(activeOnly)+` WHERE r.code = ?`, code)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return r, fmt.Errorf("get rubro %s: %w", code, err)
	}
	return r, err
}

// ListRubroDetails returns rubros joined with their project fields.
func (s *Store) ListRubroDetails(ctx context.Context, activeOnly bool) ([]core.RubroDetail, error) {
	var out []core.RubroDetail
	q := `SELECT ` + rubroColumns + `,
			p.code AS project_code, p.name AS project_name, p.municipality, p.department, p.start_date, p.end_date` +
		rubroJoin(activeOnly) + ` ORDER BY r.id`
	if err := s.selectRows(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list rubro details: %w", err)
	}
	return out, nil
}

func (s *Store) LastRubroCode(ctx context.Context) (string, error) {
	return s.lastCode(ctx, "rubros")
}

// CreateRubro inserts a rubro under an active project.
func (s *Store) CreateRubro(ctx context.Context, r core.Rubro) (core.Outcome[core.Rubro], error) {
	return command(ctx, s, OpCreateRubro, func(tx *sqlx.Tx) (core.Outcome[core.Rubro], error) {
		ok, err := projectActive(ctx, tx, r.ProjectID)
		if err != nil {
			return core.Outcome[core.Rubro]{}, err
		}
		if !ok {
			return core.Refused[core.Rubro](MsgProjectInactive), nil
		}

		var id int64
		err = txGet(ctx, tx, &id, `INSERT INTO rubros (code, name, project_id, active) VALUES (?, ?, ?, TRUE) RETURNING id`,
			r.Code, r.Name, r.ProjectID)
		if err != nil {
			return core.Outcome[core.Rubro]{}, err
		}
		row, err := rubroBy(ctx, tx, "id", id)
		if err != nil {
			return core.Outcome[core.Rubro]{}, err
		}
		return core.Done(row, MsgRubroCreated), nil
	})
}

// UpdateRubro renames or moves the rubro identified by r.Code. The target project must be active.
func (s *Store) UpdateRubro(ctx context.Context, r core.Rubro, active *bool) (core.Outcome[core.Rubro], error) {
	return command(ctx, s, OpUpdateRubro, func(tx *sqlx.Tx) (core.Outcome[core.Rubro], error) {
		if _, err := rubroBy(ctx, tx, "code", r.Code); err != nil {
			if isNoRows(err) {
				return core.Missing[core.Rubro](MsgRubroNotFound), nil
			}
			return core.Outcome[core.Rubro]{}, err
		}
		ok, err := projectActive(ctx, tx, r.ProjectID)
		if err != nil {
			return core.Outcome[core.Rubro]{}, err
		}
		if !ok {
			return core.Refused[core.Rubro](MsgProjectInactive), nil
		}

		_, err = txExec(ctx, tx, `UPDATE rubros
			SET name = ?, project_id = ?, active = COALESCE(?, active), updated_at = CURRENT_TIMESTAMP
			WHERE code = ?`, r.Name, r.ProjectID, nullBool(active), r.Code)
		if err != nil {
			return core.Outcome[core.Rubro]{}, err
		}
		row, err := rubroBy(ctx, tx, "code", r.Code)
		if err != nil {
			return core.Outcome[core.Rubro]{}, err
		}
		return core.Done(row, MsgRubroUpdated), nil
	})
}

func (s *Store) DeleteRubro(ctx context.Context, code string) (core.Outcome[core.Rubro], error) {
	return command(ctx, s, OpDeleteRubro, func(tx *sqlx.Tx) (core.Outcome[core.Rubro], error) {
		n, err := txExec(ctx, tx, `UPDATE rubros SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE code = ?`, code)
		if err != nil {
			return core.Outcome[core.Rubro]{}, err
		}
		if n == 0 {
			return core.Missing[core.Rubro](MsgRubroNotFound), nil
		}
		row, err := rubroBy(ctx, tx, "code", code)
		if err != nil {
			return core.Outcome[core.Rubro]{}, err
		}
		return core.Done(row, MsgRubroDeleted), nil
	})
}

// InactivateRubrosByProject deactivates every rubro of a project and reports how many rows it touched.
// Donations and purchase orders keep their own flags.
func (s *Store) InactivateRubrosByProject(ctx context.Context, projectID int64) (core.Outcome[int64], error) {
	return command(ctx, s, OpInactivateRubrosByProject, func(tx *sqlx.Tx) (core.Outcome[int64], error) {
		ok, err := projectExists(ctx, tx, projectID)
		if err != nil {
			return core.Outcome[int64]{}, err
		}
		if !ok {
			return core.Missing[int64](MsgProjectNotFound), nil
		}
		n, err := txExec(ctx, tx, `UPDATE rubros SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE project_id = ?`, projectID)
		if err != nil {
			return core.Outcome[int64]{}, err
		}
		return core.Done(n, fmt.Sprintf(msgBulkInactivated, n, "rubros")), nil
	})
}

// rubroBy loads a rubro by "id" or "code".
func rubroBy(ctx context.Context, tx *sqlx.Tx, column string, value any) (core.Rubro, error) {
	var r core.Rubro
	err := txGet(ctx, tx, &r, `SELECT id, code, name, project_id, active FROM rubros WHERE `+column+` = ?`, value)
	return r, err
}
