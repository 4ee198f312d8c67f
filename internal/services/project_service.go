package services

import (
	"context"
	"fmt"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/core"
)

// ProjectService is the project registry: lifecycle and sequential codes.
type ProjectService struct {
	store  ProjectStore
	events EventPublisher
}

func NewProjectService(store ProjectStore, events EventPublisher) *ProjectService {
	return &ProjectService{store: store, events: events}
}

func (s *ProjectService) List(ctx context.Context, activeOnly bool) (core.Result[[]core.Project], error) {
	rows, err := s.store.ListProjects(ctx, activeOnly)
	return listed(rows, err, "no projects found")
}

func (s *ProjectService) GetByCode(ctx context.Context, code string) (core.Result[core.Project], error) {
	p, err := s.store.GetProjectByCode(ctx, code)
	return found(p, err, "project not found")
}

// LastCode reports the most recent project code, or P-0000 when none exists.
func (s *ProjectService) LastCode(ctx context.Context) (core.Result[core.LastCode], error) {
	return lastCode(ctx, core.ProjectCodePrefix, s.store.LastProjectCode)
}

func lastCode(ctx context.Context, prefix string, read func(context.Context) (string, error)) (core.Result[core.LastCode], error) {
	last, err := read(ctx)
	if err != nil {
		return core.Result[core.LastCode]{}, err
	}
	next, err := core.NextCode(prefix, last)
	if err != nil {
		return core.Result[core.LastCode]{}, fmt.Errorf("next %s code: %w", prefix, err)
	}
	if last == "" {
		last = core.ZeroCode(prefix)
	}
	return core.Success(core.LastCode{LastCode: last, NextCode: next}, "last code retrieved"), nil
}

// Create validates p, assigns the next code and persists it. A concurrent
// create that took the same code comes back as a rejected result.
func (s *ProjectService) Create(ctx context.Context, p core.Project) (core.Result[core.Project], error) {
	if errs := p.Validate(); len(errs) > 0 {
		return core.Invalid[core.Project](errs), nil
	}

	code, err := s.nextCode(ctx)
	if err != nil {
		return core.Result[core.Project]{}, err
	}
	p.Code = code

	out, err := s.store.CreateProject(ctx, p)
	return applied(ctx, s.events, out, err, projectEvent(amqp.ActionCreated))
}

func (s *ProjectService) nextCode(ctx context.Context) (string, error) {
	last, err := s.store.LastProjectCode(ctx)
	if err != nil {
		return "", err
	}
	return core.NextCode(core.ProjectCodePrefix, last)
}

// Update rewrites the mutable fields of the project with the given code.
// A nil active keeps the current flag.
func (s *ProjectService) Update(ctx context.Context, code string, p core.Project, active *bool) (core.Result[core.Project], error) {
	if errs := p.Validate(); len(errs) > 0 {
		return core.Invalid[core.Project](errs), nil
	}
	p.Code = code

	out, err := s.store.UpdateProject(ctx, p, active)
	return applied(ctx, s.events, out, err, projectEvent(amqp.ActionUpdated))
}

// Delete deactivates the project. Its rubros keep their flags but drop out of
// every active listing while the project stays inactive.
func (s *ProjectService) Delete(ctx context.Context, code string) (core.Result[core.Project], error) {
	out, err := s.store.DeleteProject(ctx, code)
	return applied(ctx, s.events, out, err, projectEvent(amqp.ActionDeleted))
}

func projectEvent(action string) func(core.Project) *amqp.LedgerEvent {
	return func(p core.Project) *amqp.LedgerEvent {
		return amqp.NewLedgerEvent(amqp.EntityProject, action, p.ID).WithProject(p.ID)
	}
}
