package core

import "testing"

func TestFromOutcome(t *testing.T) {
	ok := FromOutcome(Done(Rubro{Code: "R-0001"}, "created"))
	if !ok.OK() || ok.Value.Code != "R-0001" || ok.Message != "created" {
		t.Fatalf("unexpected success result: %+v", ok)
	}

	missing := FromOutcome(Missing[Rubro]("rubro not found"))
	if missing.Kind != KindNotFound || missing.Message != "rubro not found" {
		t.Fatalf("unexpected missing result: %+v", missing)
	}

	refused := FromOutcome(Refused[Rubro]("project is inactive"))
	if refused.Kind != KindRejected || refused.Message != "project is inactive" {
		t.Fatalf("unexpected refused result: %+v", refused)
	}
}

func TestBalanceSettleAllowsNegative(t *testing.T) {
	b := Balance{TotalDonations: Money{Cents: 4000}, TotalPurchaseOrders: Money{Cents: 10000}}.Settle()
	if b.Balance.Cents != -6000 {
		t.Fatalf("expected -6000, got %d", b.Balance.Cents)
	}
}
