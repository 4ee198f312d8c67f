package services

import (
	"context"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/core"
)

// RubroService is the rubro ledger. Visibility (rubro and project both
// active) is resolved by the store's join predicates.
type RubroService struct {
	store  RubroStore
	events EventPublisher
}

func NewRubroService(store RubroStore, events EventPublisher) *RubroService {
	return &RubroService{store: store, events: events}
}

func (s *RubroService) List(ctx context.Context, activeOnly bool) (core.Result[[]core.Rubro], error) {
	rows, err := s.store.ListRubros(ctx, activeOnly)
	return listed(rows, err, "no rubros found")
}

func (s *RubroService) ListByProject(ctx context.Context, projectID int64, activeOnly bool) (core.Result[[]core.Rubro], error) {
	rows, err := s.store.ListRubrosByProject(ctx, projectID, activeOnly)
	return listed(rows, err, "no rubros found for the project")
}

func (s *RubroService) GetByCode(ctx context.Context, code string, activeOnly bool) (core.Result[core.Rubro], error) {
	r, err := s.store.GetRubroByCode(ctx, code, activeOnly)
	return found(r, err, "rubro not found")
}

// ListWithProjectDetails returns rubros joined with their project fields.
func (s *RubroService) ListWithProjectDetails(ctx context.Context, activeOnly bool) (core.Result[[]core.RubroDetail], error) {
	rows, err := s.store.ListRubroDetails(ctx, activeOnly)
	return listed(rows, err, "no rubros found")
}

func (s *RubroService) LastCode(ctx context.Context) (core.Result[core.LastCode], error) {
	return lastCode(ctx, core.RubroCodePrefix, s.store.LastRubroCode)
}

func (s *RubroService) Create(ctx context.Context, r core.Rubro) (core.Result[core.Rubro], error) {
	if errs := r.Validate(); len(errs) > 0 {
		return core.Invalid[core.Rubro](errs), nil
	}

	last, err := s.store.LastRubroCode(ctx)
	if err != nil {
		return core.Result[core.Rubro]{}, err
	}
	r.Code, err = core.NextCode(core.RubroCodePrefix, last)
	if err != nil {
		return core.Result[core.Rubro]{}, err
	}

	out, err := s.store.CreateRubro(ctx, r)
	return applied(ctx, s.events, out, err, rubroEvent(amqp.ActionCreated))
}

// Update renames the rubro or moves it to another active project.
func (s *RubroService) Update(ctx context.Context, code string, r core.Rubro, active *bool) (core.Result[core.Rubro], error) {
	if errs := r.Validate(); len(errs) > 0 {
		return core.Invalid[core.Rubro](errs), nil
	}
	r.Code = code

	out, err := s.store.UpdateRubro(ctx, r, active)
	return applied(ctx, s.events, out, err, rubroEvent(amqp.ActionUpdated))
}

func (s *RubroService) Delete(ctx context.Context, code string) (core.Result[core.Rubro], error) {
	out, err := s.store.DeleteRubro(ctx, code)
	return applied(ctx, s.events, out, err, rubroEvent(amqp.ActionDeleted))
}

// InactivateByProject deactivates every rubro of the project. Donations and
// purchase orders under them are left as they are.
func (s *RubroService) InactivateByProject(ctx context.Context, projectID int64) (core.Result[int64], error) {
	if errs := checkID("projectId", projectID); errs != nil {
		return core.Invalid[int64](errs), nil
	}
	out, err := s.store.InactivateRubrosByProject(ctx, projectID)
	return applied(ctx, s.events, out, err, func(int64) *amqp.LedgerEvent {
		return amqp.NewLedgerEvent(amqp.EntityRubro, amqp.ActionInactivated, projectID).WithProject(projectID)
	})
}

func rubroEvent(action string) func(core.Rubro) *amqp.LedgerEvent {
	return func(r core.Rubro) *amqp.LedgerEvent {
		return amqp.NewLedgerEvent(amqp.EntityRubro, action, r.ID).WithRubro(r.ID).WithProject(r.ProjectID)
	}
}
