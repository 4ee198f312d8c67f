package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"ongfinanzas/internal/core"
	"ongfinanzas/internal/log"
)

// BalanceService combines both journals into per-rubro balances.
type BalanceService struct {
	store BalanceStore
}

func NewBalanceService(store BalanceStore) *BalanceService {
	return &BalanceService{store: store}
}

// ForRubro returns donations minus purchase orders for a visible rubro.
// A negative balance is a valid over-spent state.
func (s *BalanceService) ForRubro(ctx context.Context, rubroID int64) (core.Result[core.Balance], error) {
	b, err := s.store.BalanceForRubro(ctx, rubroID)
	res, err := found(b, err, "rubro does not exist or is inactive")
	if res.OK() {
		res.Message = "balance computed"
	}
	return res, err
}

// List returns the balance of every visible rubro.
func (s *BalanceService) List(ctx context.Context) (core.Result[[]core.RubroBalance], error) {
	rows, err := s.store.ListBalances(ctx)
	return listed(rows, err, "no visible rubros")
}

// DashboardService aggregates the landing page counters.
type DashboardService struct {
	store DashboardStore
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store}
}

// Summary runs the independent counters concurrently; the first failure
// cancels the rest.
func (s *DashboardService) Summary(ctx context.Context) (core.Result[core.DashboardSummary], error) {
	start := time.Now()
	var sum core.DashboardSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.store.CountActiveProjects(gctx)
		sum.ActiveProjects = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountVisibleRubros(gctx)
		sum.ActiveRubros = n
		return err
	})
	g.Go(func() error {
		st, err := s.store.DonationStats(gctx)
		sum.ActiveDonations, sum.TotalDonated = st.Count, st.Total
		return err
	})
	g.Go(func() error {
		st, err := s.store.PurchaseOrderStats(gctx)
		sum.ActivePurchaseOrders, sum.TotalSpent = st.Count, st.Total
		return err
	})
	g.Go(func() error {
		top, err := s.store.TopDonors(gctx, 1)
		if len(top) > 0 {
			sum.TopDonor = &top[0]
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return core.Result[core.DashboardSummary]{}, err
	}

	log.FromContext(ctx).WithComponent(log.ComponentLedger).
		DebugContext(ctx, "Dashboard summary computed", log.FieldDurationHuman, time.Since(start).String())
	return core.Success(sum, "summary computed"), nil
}
