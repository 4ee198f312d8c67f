package services

import (
	"context"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/core"
)

// Ports onto the persistence capability. *storage.Store satisfies all of them.
type (
	ProjectStore interface {
		ListProjects(ctx context.Context, activeOnly bool) ([]core.Project, error)
		GetProjectByCode(ctx context.Context, code string) (core.Project, error)
		LastProjectCode(ctx context.Context) (string, error)
		CreateProject(ctx context.Context, p core.Project) (core.Outcome[core.Project], error)
		UpdateProject(ctx context.Context, p core.Project, active *bool) (core.Outcome[core.Project], error)
		DeleteProject(ctx context.Context, code string) (core.Outcome[core.Project], error)
	}

	RubroStore interface {
		ListRubros(ctx context.Context, activeOnly bool) ([]core.Rubro, error)
		ListRubrosByProject(ctx context.Context, projectID int64, activeOnly bool) ([]core.Rubro, error)
		GetRubroByCode(ctx context.Context, code string, activeOnly bool) (core.Rubro, error)
		ListRubroDetails(ctx context.Context, activeOnly bool) ([]core.RubroDetail, error)
		LastRubroCode(ctx context.Context) (string, error)
		CreateRubro(ctx context.Context, r core.Rubro) (core.Outcome[core.Rubro], error)
		UpdateRubro(ctx context.Context, r core.Rubro, active *bool) (core.Outcome[core.Rubro], error)
		DeleteRubro(ctx context.Context, code string) (core.Outcome[core.Rubro], error)
		InactivateRubrosByProject(ctx context.Context, projectID int64) (core.Outcome[int64], error)
	}

	DonationStore interface {
		ListDonations(ctx context.Context, activeOnly bool) ([]core.Donation, error)
		ListDonationsByRubro(ctx context.Context, rubroID int64, activeOnly bool) ([]core.Donation, error)
		GetDonation(ctx context.Context, id int64, activeOnly bool) (core.Donation, error)
		ListDonationDetails(ctx context.Context, activeOnly bool) ([]core.DonationDetail, error)
		ListDonationsByDonor(ctx context.Context, donor string) ([]core.DonationDetail, error)
		ListDonationsByDateRange(ctx context.Context, from, to core.Date) ([]core.DonationDetail, error)
		DonationTotalByRubro(ctx context.Context, rubroID int64) (core.RubroTotal, error)
		DonationReportByProject(ctx context.Context, projectID int64) ([]core.ProjectReportRow, error)
		TopDonors(ctx context.Context, limit int) ([]core.DonorTotal, error)
		CreateDonation(ctx context.Context, d core.Donation) (core.Outcome[core.Donation], error)
		UpdateDonation(ctx context.Context, d core.Donation, active *bool) (core.Outcome[core.Donation], error)
		DeleteDonation(ctx context.Context, id int64) (core.Outcome[core.Donation], error)
		InactivateDonationsByRubro(ctx context.Context, rubroID int64) (core.Outcome[int64], error)
	}

	PurchaseOrderStore interface {
		ListPurchaseOrders(ctx context.Context, activeOnly bool) ([]core.PurchaseOrder, error)
		ListPurchaseOrdersByRubro(ctx context.Context, rubroID int64, activeOnly bool) ([]core.PurchaseOrder, error)
		GetPurchaseOrder(ctx context.Context, id int64, activeOnly bool) (core.PurchaseOrder, error)
		ListPurchaseOrderDetails(ctx context.Context, activeOnly bool) ([]core.PurchaseOrderDetail, error)
		ListPurchaseOrdersByDateRange(ctx context.Context, from, to core.Date) ([]core.PurchaseOrderDetail, error)
		PurchaseOrderTotalByRubro(ctx context.Context, rubroID int64) (core.RubroTotal, error)
		PurchaseOrderReportByProject(ctx context.Context, projectID int64) ([]core.ProjectReportRow, error)
		CreatePurchaseOrder(ctx context.Context, o core.PurchaseOrder) (core.Outcome[core.PurchaseOrder], error)
		UpdatePurchaseOrder(ctx context.Context, o core.PurchaseOrder, active *bool) (core.Outcome[core.PurchaseOrder], error)
		DeletePurchaseOrder(ctx context.Context, id int64) (core.Outcome[core.PurchaseOrder], error)
		InactivateOrdersByRubro(ctx context.Context, rubroID int64) (core.Outcome[int64], error)
	}

	BalanceStore interface {
		BalanceForRubro(ctx context.Context, rubroID int64) (core.Balance, error)
		ListBalances(ctx context.Context) ([]core.RubroBalance, error)
	}

	// DashboardStore provides the counters shown on the back office landing page.
	DashboardStore interface {
		CountActiveProjects(ctx context.Context) (int64, error)
		CountVisibleRubros(ctx context.Context) (int64, error)
		DonationStats(ctx context.Context) (core.RubroTotal, error)
		PurchaseOrderStats(ctx context.Context) (core.RubroTotal, error)
		TopDonors(ctx context.Context, limit int) ([]core.DonorTotal, error)
	}

	// EventPublisher announces committed ledger changes. *amqp.Client satisfies it.
	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
	}
)
