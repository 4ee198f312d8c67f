package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ongfinanzas/internal/core"
)

const projectColumns = `id, code, name, municipality, department, start_date, end_date, active`

// ListProjects returns every project, or only active ones when activeOnly is set.
func (s *Store) ListProjects(ctx context.Context, activeOnly bool) ([]core.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY id`

	var out []core.Project
	if err := s.selectRows(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// GetProjectByCode looks up a project by exact, case-sensitive code.
func (s *Store) GetProjectByCode(ctx context.Context, code string) (core.Project, error) {
	var p core.Project
	err := s.getRow(ctx, &p, `SELECT `+projectColumns+` FROM projects WHERE code = ?`, code)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return p, err
		}
		return p, fmt.Errorf("get project %s: %w", code, err)
	}
	return p, nil
}

// LastProjectCode returns the highest assigned project code, or "" when none exists.
func (s *Store) LastProjectCode(ctx context.Context) (string, error) {
	return s.lastCode(ctx, "projects")
}

func (s *Store) lastCode(ctx context.Context, table string) (string, error) {
	var code string
	// Longer codes first so P-10000 sorts above P-9999.
	err := s.getRow(ctx, &code, `SELECT code FROM `+table+` ORDER BY LENGTH(code) DESC, code DESC LIMIT 1`)
	if errors.Is(err, core.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("last %s code: %w", table, err)
	}
	return code, nil
}

func (s *Store) CreateProject(ctx context.Context, p core.Project) (core.Outcome[core.Project], error) {
	return command(ctx, s, OpCreateProject, func(tx *sqlx.Tx) (core.Outcome[core.Project], error) {
		var id int64
		err := txGet(ctx, tx, &id, `INSERT INTO projects (code, name, municipality, department, start_date, end_date, active)
			VALUES (?, ?, ?, ?, ?, ?, TRUE) RETURNING id`,
			p.Code, p.Name, p.Municipality, p.Department, p.StartDate, p.EndDate)
		if err != nil {
			return core.Outcome[core.Project]{}, err
		}
		row, err := projectByID(ctx, tx, id)
		if err != nil {
			return core.Outcome[core.Project]{}, err
		}
		return core.Done(row, MsgProjectCreated), nil
	})
}

// UpdateProject rewrites every mutable field of the project identified by p.Code.
// A nil active keeps the current flag.
func (s *Store) UpdateProject(ctx context.Context, p core.Project, active *bool) (core.Outcome[core.Project], error) {
	return command(ctx, s, OpUpdateProject, func(tx *sqlx.Tx) (core.Outcome[core.Project], error) {
		n, err := txExec(ctx, tx, `UPDATE projects
			SET name = ?, municipality = ?, department = ?, start_date = ?, end_date = ?,
				active = COALESCE(?, active), updated_at = CURRENT_TIMESTAMP
			WHERE code = ?`,
			p.Name, p.Municipality, p.Department, p.StartDate, p.EndDate, nullBool(active), p.Code)
		if err != nil {
			return core.Outcome[core.Project]{}, err
		}
		if n == 0 {
			return core.Missing[core.Project](MsgProjectNotFound), nil
		}
		row, err := projectByCode(ctx, tx, p.Code)
		if err != nil {
			return core.Outcome[core.Project]{}, err
		}
		return core.Done(row, MsgProjectUpdated), nil
	})
}

// DeleteProject deactivates a project. Rubros are left untouched.
func (s *Store) DeleteProject(ctx context.Context, code string) (core.Outcome[core.Project], error) {
	return command(ctx, s, OpDeleteProject, func(tx *sqlx.Tx) (core.Outcome[core.Project], error) {
		n, err := txExec(ctx, tx, `UPDATE projects SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE code = ?`, code)
		if err != nil {
			return core.Outcome[core.Project]{}, err
		}
		if n == 0 {
			return core.Missing[core.Project](MsgProjectNotFound), nil
		}
		row, err := projectByCode(ctx, tx, code)
		if err != nil {
			return core.Outcome[core.Project]{}, err
		}
		return core.Done(row, MsgProjectDeleted), nil
	})
}

func projectByID(ctx context.Context, tx *sqlx.Tx, id int64) (core.Project, error) {
	var p core.Project
	err := txGet(ctx, tx, &p, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return p, err
}

func projectByCode(ctx context.Context, tx *sqlx.Tx, code string) (core.Project, error) {
	var p core.Project
	err := txGet(ctx, tx, &p, `SELECT `+projectColumns+` FROM projects WHERE code = ?`, code)
	return p, err
}

// nullBool turns an optional flag into a nullable SQL parameter.
func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
