package types

import "testing"

func TestMoneyAdd(t *testing.T) {
	total := Money{Amount: 5000, Currency: "USD"}.Add(Money{Amount: 8600, Currency: "USD"})
	if total.Amount != 13600 || total.Currency != "USD" {
		t.Errorf("total = %+v, want 13600 USD", total)
	}
}

func TestMoneyAdd_CurrencyBackfill(t *testing.T) {
	// A caller-supplied base price carries no currency of its own; the
	// sum takes the estimator's.
	total := Money{Amount: 5000}.Add(Money{Amount: 2000, Currency: "USD"})
	if total.Currency != "USD" {
		t.Errorf("currency = %q, want USD", total.Currency)
	}
	if total.Amount != 7000 {
		t.Errorf("amount = %d, want 7000", total.Amount)
	}
}
