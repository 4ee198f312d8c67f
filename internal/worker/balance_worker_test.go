package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/core"
	"ongfinanzas/internal/sheets/memory"
	"ongfinanzas/internal/storage"
)

type fakeSource struct {
	rows  []core.RubroBalance
	err   error
	calls atomic.Int64
}

func (f *fakeSource) ListBalances(context.Context) ([]core.RubroBalance, error) {
	f.calls.Add(1)
	return f.rows, f.err
}

func TestHandleLedgerEvent(t *testing.T) {
	source := &fakeSource{rows: []core.RubroBalance{{RubroCode: "R-0001"}}}
	writer := memory.New(nil)
	w := NewBalanceSyncWorker(source, writer, Config{})

	tests := []struct {
		name       string
		event      *amqp.LedgerEvent
		wantWrites int
	}{
		{"new project has no balance", amqp.NewLedgerEvent(amqp.EntityProject, amqp.ActionCreated, 1), 0},
		{"donation created", amqp.NewLedgerEvent(amqp.EntityDonation, amqp.ActionCreated, 1).WithRubro(1), 1},
		{"project deactivated hides rubros", amqp.NewLedgerEvent(amqp.EntityProject, amqp.ActionDeleted, 1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.HandleLedgerEvent(context.Background(), tt.event); err != nil {
				t.Fatalf("HandleLedgerEvent() error = %v", err)
			}
			if _, n := writer.Last(); n != tt.wantWrites {
				t.Fatalf("writes = %d, want %d", n, tt.wantWrites)
			}
		})
	}
}

func TestSyncBalancesPropagatesSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("database is locked")}
	writer := memory.New(nil)
	w := NewBalanceSyncWorker(source, writer, Config{})

	err := w.SyncBalances(context.Background())
	if err == nil || !errors.Is(err, source.err) {
		t.Fatalf("SyncBalances() error = %v", err)
	}
	if _, n := writer.Last(); n != 0 {
		t.Fatal("nothing should be written when the source fails")
	}
}

func TestSyncBalancesFromStore(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx, storage.Config{Dialect: storage.SQLite, SQLitePath: filepath.Join(t.TempDir(), "w.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	p, err := store.CreateProject(ctx, core.Project{
		Code: "P-0001", Name: "Agua", Municipality: "Cobán", Department: "Alta Verapaz",
		StartDate: core.NewDate(2024, 1, 1), EndDate: core.NewDate(2024, 12, 31),
	})
	if err != nil || !p.Success {
		t.Fatalf("create project: %+v %v", p, err)
	}
	r, err := store.CreateRubro(ctx, core.Rubro{Code: "R-0001", Name: "Food", ProjectID: p.Row.ID})
	if err != nil || !r.Success {
		t.Fatalf("create rubro: %+v %v", r, err)
	}
	if _, err := store.CreateDonation(ctx, core.Donation{RubroID: r.Row.ID, Amount: core.Money{Cents: 10000}, DonationDate: core.NewDate(2024, 2, 1), DonorName: "Ana"}); err != nil {
		t.Fatal(err)
	}

	writer := memory.New(nil)
	w := NewBalanceSyncWorker(store, writer, Config{})
	if err := w.SyncBalances(ctx); err != nil {
		t.Fatalf("SyncBalances() error = %v", err)
	}

	snap, n := writer.Last()
	if n != 1 || len(snap.Rows) != 1 || snap.Rows[0].Balance.Balance.Cents != 10000 || snap.Rows[0].ProjectCode != "P-0001" {
		t.Fatalf("snapshot = %+v (writes %d)", snap, n)
	}
}

func TestWorkerLifecycle(t *testing.T) {
	source := &fakeSource{}
	w := NewBalanceSyncWorker(source, memory.New(nil), Config{Interval: 10 * time.Millisecond})

	if w.IsRunning() {
		t.Fatal("worker should not be running initially")
	}
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := w.Start(ctx); err == nil {
		t.Fatal("second Start() should fail")
	}

	deadline := time.Now().Add(2 * time.Second)
	for source.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if source.calls.Load() < 2 {
		t.Fatalf("expected startup sync plus at least one tick, got %d", source.calls.Load())
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if w.IsRunning() {
		t.Fatal("worker should not be running after Stop")
	}
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("second Stop() should be a no-op, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	w := NewBalanceSyncWorker(&fakeSource{}, memory.New(nil), Config{Interval: -1})
	if w.config.Interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", w.config.Interval)
	}
}
