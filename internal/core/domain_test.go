package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2025-01-31", NewDate(2025, 1, 31), true},
		{"2025-03-04T10:20:30Z", NewDate(2025, 3, 4), true},
		{"", Date{}, false},
		{"31/01/2025", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("%q: unexpected err %v", tc.in, err)
		}
		if tc.ok && !got.Equal(tc.want.Time) {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDateJSONAndScan(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 2, 29))
	if err != nil || string(b) != `"2024-02-29"` {
		t.Fatalf("marshal: %s %v", b, err)
	}

	var d Date
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || !d.IsZero() {
		t.Fatalf("null should decode to zero date: %v %v", d, err)
	}

	for _, src := range []any{"2024-02-29", []byte("2024-02-29 00:00:00"), time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC)} {
		var got Date
		if err := got.Scan(src); err != nil {
			t.Fatalf("scan %v: %v", src, err)
		}
		if got.String() != "2024-02-29" {
			t.Fatalf("scan %v: got %s", src, got)
		}
	}
}

func TestProjectValidate(t *testing.T) {
	good := Project{
		Name:         "Agua potable",
		Municipality: "Cobán",
		Department:   "Alta Verapaz",
		StartDate:    NewDate(2025, 1, 1),
		EndDate:      NewDate(2025, 12, 31),
	}
	if errs := good.Validate(); len(errs) != 0 {
		t.Fatalf("expected ok, got %v", errs)
	}

	// End before start is accepted.
	reversed := good
	reversed.StartDate, reversed.EndDate = good.EndDate, good.StartDate
	if errs := reversed.Validate(); len(errs) != 0 {
		t.Fatalf("date order must not be validated, got %v", errs)
	}

	empty := Project{}
	errs := empty.Validate()
	if len(errs) != 5 {
		t.Fatalf("expected 5 field errors, got %d: %v", len(errs), errs)
	}

	long := good
	long.Name = strings.Repeat("a", MaxTextLength+1)
	errs = long.Validate()
	if len(errs) != 1 || errs[0].Field != "name" {
		t.Fatalf("expected name too long, got %v", errs)
	}
}

func TestDonationValidate(t *testing.T) {
	good := Donation{RubroID: 1, Amount: Money{Cents: 100}, DonationDate: NewDate(2025, 5, 1), DonorName: "Ana"}
	if errs := good.Validate(); len(errs) != 0 {
		t.Fatalf("expected ok, got %v", errs)
	}

	bads := []struct {
		name  string
		d     Donation
		field string
	}{
		{"zero amount", Donation{RubroID: 1, Amount: Money{}, DonationDate: NewDate(2025, 5, 1), DonorName: "Ana"}, "amount"},
		{"no rubro", Donation{Amount: Money{Cents: 1}, DonationDate: NewDate(2025, 5, 1), DonorName: "Ana"}, "rubroId"},
		{"blank donor", Donation{RubroID: 1, Amount: Money{Cents: 1}, DonationDate: NewDate(2025, 5, 1), DonorName: "  "}, "donorName"},
		{"long donor", Donation{RubroID: 1, Amount: Money{Cents: 1}, DonationDate: NewDate(2025, 5, 1), DonorName: strings.Repeat("ñ", 256)}, "donorName"},
		{"no date", Donation{RubroID: 1, Amount: Money{Cents: 1}, DonorName: "Ana"}, "donationDate"},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.d.Validate()
			if len(errs) != 1 || errs[0].Field != tc.field {
				t.Fatalf("expected single %s error, got %v", tc.field, errs)
			}
		})
	}
}

func TestPurchaseOrderAndRubroValidate(t *testing.T) {
	if errs := (PurchaseOrder{RubroID: 2, Amount: Money{Cents: 4000}, OrderDate: NewDate(2025, 6, 1)}).Validate(); len(errs) != 0 {
		t.Fatalf("expected ok, got %v", errs)
	}
	if errs := (PurchaseOrder{RubroID: 2, Amount: Money{Cents: -1}, OrderDate: NewDate(2025, 6, 1)}).Validate(); len(errs) != 1 {
		t.Fatalf("expected amount error, got %v", errs)
	}
	if errs := (Rubro{Name: "Food"}).Validate(); len(errs) != 1 || errs[0].Field != "projectId" {
		t.Fatalf("expected projectId error, got %v", errs)
	}
}

func TestDonorKey(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"Ana", "ana", true},
		{"ÁNGEL", "ángel", true},
		{"  María   José ", "maría josé", true},
		{"Ángel", "Angel", false},
		{"Ana", "Anabel", false},
	}
	for _, tt := range tests {
		if got := DonorKey(tt.a) == DonorKey(tt.b); got != tt.same {
			t.Errorf("DonorKey(%q) == DonorKey(%q) is %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}
