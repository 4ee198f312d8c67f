package sheets

import (
	"testing"
	"time"

	"ongfinanzas/internal/core"
)

func TestFormatterAmount(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		symbol string
		cents  int64
		want   string
	}{
		{"grouping", "en", "Q", 1234567, "Q 12,345.67"},
		{"small", "en", "Q", 5, "Q 0.05"},
		{"negative", "en", "Q", -3000, "Q -30.00"},
		{"no symbol", "en", "", 100, "1.00"},
		{"bad locale falls back", "not a locale!", "$", 250, "$ 2.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatter(tt.locale, tt.symbol)
			if got := f.Amount(core.Money{Cents: tt.cents}); got != tt.want {
				t.Errorf("Amount(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}

func TestFormatterRows(t *testing.T) {
	f := NewFormatter("en", "")
	row := core.RubroBalance{
		Balance: core.Balance{
			RubroID:             1,
			TotalDonations:      core.Money{Cents: 10000},
			TotalPurchaseOrders: core.Money{Cents: 4000},
		}.Settle(),
		RubroCode:   "R-0001",
		RubroName:   "Food",
		ProjectCode: "P-0001",
		ProjectName: "Agua",
	}
	snap := Snapshot{GeneratedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Rows: []core.RubroBalance{row, row}}

	rows := f.Rows(snap)
	if len(rows) != 5 {
		t.Fatalf("expected header + 2 rows + total + timestamp, got %d", len(rows))
	}
	if rows[0][0] != "Project Code" || len(rows[0]) != len(Header) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "R-0001" || rows[1][6] != "60.00" {
		t.Errorf("data row = %v", rows[1])
	}
	total := rows[3]
	if total[3] != "Total" || total[4] != "200.00" || total[5] != "80.00" || total[6] != "120.00" {
		t.Errorf("total row = %v", total)
	}
	if rows[4][1] != "2024-05-01 10:00:00 UTC" {
		t.Errorf("timestamp row = %v", rows[4])
	}
}
