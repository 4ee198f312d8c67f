package memory

import (
	"context"
	"testing"
	"time"

	"ongfinanzas/internal/core"
	ports "ongfinanzas/internal/sheets"
)

func TestMemoryStoreKeepsLastSnapshot(t *testing.T) {
	s := New(nil)
	if _, n := s.Last(); n != 0 {
		t.Fatalf("expected no writes, got %d", n)
	}

	rows := []core.RubroBalance{{RubroCode: "R-0001"}, {RubroCode: "R-0002"}}
	snap := ports.Snapshot{GeneratedAt: time.Now(), Rows: rows}
	if err := s.WriteBalances(context.Background(), snap); err != nil {
		t.Fatalf("WriteBalances() error = %v", err)
	}
	if err := s.WriteBalances(context.Background(), ports.Snapshot{Rows: rows[:1]}); err != nil {
		t.Fatalf("WriteBalances() error = %v", err)
	}

	last, n := s.Last()
	if n != 2 || len(last.Rows) != 1 || last.Rows[0].RubroCode != "R-0001" {
		t.Fatalf("unexpected snapshot: n=%d rows=%v", n, last.Rows)
	}

	// The stored rows must not alias the caller's slice.
	rows[0].RubroCode = "changed"
	if last, _ := s.Last(); last.Rows[0].RubroCode != "R-0001" {
		t.Fatal("snapshot aliased caller slice")
	}
}

func TestMemoryStoreValues(t *testing.T) {
	s := New(ports.NewFormatter("en", "Q"))
	_ = s.WriteBalances(context.Background(), ports.Snapshot{Rows: []core.RubroBalance{{
		Balance:   core.Balance{TotalDonations: core.Money{Cents: 500}}.Settle(),
		RubroCode: "R-0001",
	}}})

	values := s.Values()
	if len(values) != 4 || values[1][6] != "Q 5.00" {
		t.Fatalf("values = %v", values)
	}
}
