package services

import (
	"context"
	"path/filepath"
	"testing"

	"ongfinanzas/internal/core"
	"ongfinanzas/internal/storage"
)

type ledger struct {
	projects  *ProjectService
	rubros    *RubroService
	donations *DonationService
	orders    *PurchaseOrderService
	balances  *BalanceService
	dashboard *DashboardService
}

func newLedger(t *testing.T) ledger {
	t.Helper()
	store, err := storage.Open(context.Background(), storage.Config{
		Dialect:    storage.SQLite,
		SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return ledger{
		projects:  NewProjectService(store, nil),
		rubros:    NewRubroService(store, nil),
		donations: NewDonationService(store, nil),
		orders:    NewPurchaseOrderService(store, nil),
		balances:  NewBalanceService(store),
		dashboard: NewDashboardService(store),
	}
}

// must unwraps a successful result for the test passed to the returned
// func, failing it otherwise. It takes the call directly, as in
// must(svc.Create(ctx, x))(t).
func must[T any](res core.Result[T], err error) func(t *testing.T) T {
	return func(t *testing.T) T {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.OK() {
			t.Fatalf("unexpected %s result: %s %+v", res.Kind, res.Message, res.Errors)
		}
		return res.Value
	}
}

func cents(n int64) core.Money { return core.Money{Cents: n} }

func TestLedgerBalanceScenario(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	p := must(l.projects.Create(ctx, validProject()))(t)
	if p.Code != "P-0001" {
		t.Fatalf("project code = %s", p.Code)
	}
	r := must(l.rubros.Create(ctx, core.Rubro{Name: "Food", ProjectID: p.ID}))(t)
	if r.Code != "R-0001" {
		t.Fatalf("rubro code = %s", r.Code)
	}
	must(l.donations.Create(ctx, core.Donation{RubroID: r.ID, Amount: cents(10000), DonationDate: core.NewDate(2024, 3, 1), DonorName: "Ana"}))(t)
	must(l.orders.Create(ctx, core.PurchaseOrder{RubroID: r.ID, Amount: cents(4000), OrderDate: core.NewDate(2024, 3, 2)}))(t)

	b := must(l.balances.ForRubro(ctx, r.ID))(t)
	if b.TotalDonations.Cents != 10000 || b.TotalPurchaseOrders.Cents != 4000 || b.Balance.Cents != 6000 {
		t.Fatalf("balance = %+v", b)
	}

	// Over-spending is a valid state.
	must(l.orders.Create(ctx, core.PurchaseOrder{RubroID: r.ID, Amount: cents(9000), OrderDate: core.NewDate(2024, 3, 3)}))(t)
	b = must(l.balances.ForRubro(ctx, r.ID))(t)
	if b.Balance.Cents != -3000 {
		t.Fatalf("over-spent balance = %+v", b)
	}

	last := must(l.projects.LastCode(ctx))(t)
	if last.LastCode != "P-0001" || last.NextCode != "P-0002" {
		t.Fatalf("last code = %+v", last)
	}
}

func TestLastCodeSentinel(t *testing.T) {
	l := newLedger(t)
	last := must(l.projects.LastCode(context.Background()))(t)
	if last.LastCode != "P-0000" || last.NextCode != "P-0001" {
		t.Fatalf("last code on empty registry = %+v", last)
	}
}

func TestDeactivatedProjectHidesRubros(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	p := must(l.projects.Create(ctx, validProject()))(t)
	r := must(l.rubros.Create(ctx, core.Rubro{Name: "Food", ProjectID: p.ID}))(t)

	must(l.projects.Delete(ctx, p.Code))(t)

	res, err := l.rubros.ListByProject(ctx, p.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != core.KindNotFound || len(res.Value) != 0 {
		t.Fatalf("visible rubros = %+v", res)
	}

	all := must(l.rubros.ListByProject(ctx, p.ID, false))(t)
	if len(all) != 1 || all[0].ID != r.ID || !all[0].Active {
		t.Fatalf("rubro flag must be untouched, got %+v", all)
	}

	bal, err := l.balances.ForRubro(ctx, r.ID)
	if err != nil || bal.Kind != core.KindNotFound {
		t.Fatalf("balance of hidden rubro = %+v, %v", bal, err)
	}

	// Deleting twice stays inactive without failing.
	again := must(l.projects.Delete(ctx, p.Code))(t)
	if again.Active {
		t.Fatal("project should remain inactive")
	}
}

func TestTopDonorScenario(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	p := must(l.projects.Create(ctx, validProject()))(t)
	r := must(l.rubros.Create(ctx, core.Rubro{Name: "Food", ProjectID: p.ID}))(t)
	for _, d := range []struct {
		donor string
		cents int64
	}{{"Ana", 10000}, {"Luis", 15000}} {
		must(l.donations.Create(ctx, core.Donation{RubroID: r.ID, Amount: cents(d.cents), DonationDate: core.NewDate(2024, 1, 5), DonorName: d.donor}))(t)
	}

	top := must(l.donations.TopDonors(ctx, 1))(t)
	if len(top) != 1 || top[0].DonorName != "Luis" || top[0].Total.Cents != 15000 {
		t.Fatalf("top donors = %+v", top)
	}

	sum := must(l.dashboard.Summary(ctx))(t)
	if sum.ActiveProjects != 1 || sum.ActiveRubros != 1 || sum.ActiveDonations != 2 || sum.TotalDonated.Cents != 25000 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.TopDonor == nil || sum.TopDonor.DonorName != "Luis" {
		t.Fatalf("summary top donor = %+v", sum.TopDonor)
	}
}

func TestRubroInactivationLeavesEntries(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	p := must(l.projects.Create(ctx, validProject()))(t)
	r := must(l.rubros.Create(ctx, core.Rubro{Name: "Food", ProjectID: p.ID}))(t)
	d := must(l.donations.Create(ctx, core.Donation{RubroID: r.ID, Amount: cents(500), DonationDate: core.NewDate(2024, 1, 5), DonorName: "Ana"}))(t)
	o := must(l.orders.Create(ctx, core.PurchaseOrder{RubroID: r.ID, Amount: cents(200), OrderDate: core.NewDate(2024, 1, 6)}))(t)

	n := must(l.rubros.InactivateByProject(ctx, p.ID))(t)
	if n != 1 {
		t.Fatalf("inactivated %d rubros", n)
	}

	gotD := must(l.donations.Get(ctx, d.ID, false))(t)
	gotO := must(l.orders.Get(ctx, o.ID, false))(t)
	if !gotD.Active || !gotO.Active {
		t.Fatalf("entries must keep their flags: donation=%+v order=%+v", gotD, gotO)
	}

	total, err := l.donations.TotalByRubro(ctx, r.ID)
	if err != nil || total.Kind != core.KindNotFound {
		t.Fatalf("total under inactive rubro = %+v, %v", total, err)
	}

	must(l.donations.InactivateByRubro(ctx, r.ID))(t)
	gotD = must(l.donations.Get(ctx, d.ID, false))(t)
	if gotD.Active {
		t.Fatal("donation should be inactive after explicit inactivation")
	}

	missing, err := l.orders.InactivateByRubro(ctx, 999)
	if err != nil || missing.Kind != core.KindNotFound {
		t.Fatalf("unknown rubro = %+v, %v", missing, err)
	}
}

func TestRubroUnderInactiveProjectIsRejected(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	p := must(l.projects.Create(ctx, validProject()))(t)
	must(l.projects.Delete(ctx, p.Code))(t)

	res, err := l.rubros.Create(ctx, core.Rubro{Name: "Food", ProjectID: p.ID})
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != core.KindRejected || res.Message != storage.MsgProjectInactive {
		t.Fatalf("Create() = %+v", res)
	}
}
