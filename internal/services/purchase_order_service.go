package services

import (
	"context"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/core"
)

// PurchaseOrderService is the purchase order journal: debits booked against rubros.
type PurchaseOrderService struct {
	store  PurchaseOrderStore
	events EventPublisher
}

func NewPurchaseOrderService(store PurchaseOrderStore, events EventPublisher) *PurchaseOrderService {
	return &PurchaseOrderService{store: store, events: events}
}

func (s *PurchaseOrderService) List(ctx context.Context, activeOnly bool) (core.Result[[]core.PurchaseOrder], error) {
	rows, err := s.store.ListPurchaseOrders(ctx, activeOnly)
	return listed(rows, err, "no purchase orders found")
}

func (s *PurchaseOrderService) ListByRubro(ctx context.Context, rubroID int64, activeOnly bool) (core.Result[[]core.PurchaseOrder], error) {
	rows, err := s.store.ListPurchaseOrdersByRubro(ctx, rubroID, activeOnly)
	return listed(rows, err, "no purchase orders found for the rubro")
}

func (s *PurchaseOrderService) Get(ctx context.Context, id int64, activeOnly bool) (core.Result[core.PurchaseOrder], error) {
	o, err := s.store.GetPurchaseOrder(ctx, id, activeOnly)
	return found(o, err, "purchase order not found")
}

// ListComplete returns orders joined with their rubro and project.
func (s *PurchaseOrderService) ListComplete(ctx context.Context, activeOnly bool) (core.Result[[]core.PurchaseOrderDetail], error) {
	rows, err := s.store.ListPurchaseOrderDetails(ctx, activeOnly)
	return listed(rows, err, "no purchase orders found")
}

func (s *PurchaseOrderService) ListByDateRange(ctx context.Context, from, to core.Date) (core.Result[[]core.PurchaseOrderDetail], error) {
	if errs := checkRange(from, to); errs != nil {
		return core.Invalid[[]core.PurchaseOrderDetail](errs), nil
	}
	rows, err := s.store.ListPurchaseOrdersByDateRange(ctx, from, to)
	return listed(rows, err, "no purchase orders found in the date range")
}

func (s *PurchaseOrderService) TotalByRubro(ctx context.Context, rubroID int64) (core.Result[core.RubroTotal], error) {
	total, err := s.store.PurchaseOrderTotalByRubro(ctx, rubroID)
	return rubroTotal(total, err)
}

func (s *PurchaseOrderService) ReportByProject(ctx context.Context, projectID int64) (core.Result[[]core.ProjectReportRow], error) {
	rows, err := s.store.PurchaseOrderReportByProject(ctx, projectID)
	return listed(rows, err, "no report data for the project")
}

func (s *PurchaseOrderService) Create(ctx context.Context, o core.PurchaseOrder) (core.Result[core.PurchaseOrder], error) {
	if errs := o.Validate(); len(errs) > 0 {
		return core.Invalid[core.PurchaseOrder](errs), nil
	}
	out, err := s.store.CreatePurchaseOrder(ctx, o)
	return applied(ctx, s.events, out, err, orderEvent(amqp.ActionCreated))
}

func (s *PurchaseOrderService) Update(ctx context.Context, id int64, o core.PurchaseOrder, active *bool) (core.Result[core.PurchaseOrder], error) {
	if errs := o.Validate(); len(errs) > 0 {
		return core.Invalid[core.PurchaseOrder](errs), nil
	}
	o.ID = id
	out, err := s.store.UpdatePurchaseOrder(ctx, o, active)
	return applied(ctx, s.events, out, err, orderEvent(amqp.ActionUpdated))
}

func (s *PurchaseOrderService) Delete(ctx context.Context, id int64) (core.Result[core.PurchaseOrder], error) {
	out, err := s.store.DeletePurchaseOrder(ctx, id)
	return applied(ctx, s.events, out, err, orderEvent(amqp.ActionDeleted))
}

func (s *PurchaseOrderService) InactivateByRubro(ctx context.Context, rubroID int64) (core.Result[int64], error) {
	if errs := checkID("rubroId", rubroID); errs != nil {
		return core.Invalid[int64](errs), nil
	}
	out, err := s.store.InactivateOrdersByRubro(ctx, rubroID)
	return applied(ctx, s.events, out, err, func(int64) *amqp.LedgerEvent {
		return amqp.NewLedgerEvent(amqp.EntityPurchaseOrder, amqp.ActionInactivated, rubroID).WithRubro(rubroID)
	})
}

func orderEvent(action string) func(core.PurchaseOrder) *amqp.LedgerEvent {
	return func(o core.PurchaseOrder) *amqp.LedgerEvent {
		return amqp.NewLedgerEvent(amqp.EntityPurchaseOrder, action, o.ID).WithRubro(o.RubroID)
	}
}
