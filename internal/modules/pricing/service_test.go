package pricing

import (
	"context"
	"errors"
	"testing"
)

type fakeRates struct {
	rates map[string]Rate
}

func (f *fakeRates) GetRate(_ context.Context, orderType string) (Rate, error) {
	r, ok := f.rates[orderType]
	if !ok {
		return Rate{}, ErrNoRate
	}
	return r, nil
}

func testRates() *fakeRates {
	return &fakeRates{rates: map[string]Rate{
		"simple":  {OrderType: "simple", BaseFare: 2000, Currency: "USD"},
		"package": {OrderType: "package", BaseFare: 3000, PerKm: 150, PerKg: 250, PerLen: 120, Currency: "USD"},
	}}
}

func TestEstimate_SimpleFlatFare(t *testing.T) {
	svc := NewService(testRates())

	// Distance and dimensions must not influence a simple order's fee.
	for _, distance := range []float64{0, 3.5, 120} {
		fee, err := svc.Estimate(context.Background(), EstimateRequest{
			OrderType:  "simple",
			DistanceKm: distance,
			WeightKg:   9,
			LengthCm:   50,
		})
		if err != nil {
			t.Fatalf("estimate: %v", err)
		}
		if fee.Amount != 2000 {
			t.Errorf("simple fee at %f km = %d, want 2000", distance, fee.Amount)
		}
	}
}

func TestEstimate_PackageComponents(t *testing.T) {
	svc := NewService(testRates())

	fee, err := svc.Estimate(context.Background(), EstimateRequest{
		OrderType:  "package",
		DistanceKm: 10,
		WeightKg:   2,
		LengthCm:   30,
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	// 3000 + 150*10 + 250*2 + 120*30 = 8600
	if fee.Amount != 8600 {
		t.Errorf("package fee = %d, want 8600", fee.Amount)
	}
	if fee.Currency != "USD" {
		t.Errorf("currency = %q, want USD", fee.Currency)
	}
}

func TestEstimate_RoundsFractionalCents(t *testing.T) {
	svc := NewService(&fakeRates{rates: map[string]Rate{
		"package": {OrderType: "package", BaseFare: 0, PerKm: 1, Currency: "USD"},
	}})
	fee, err := svc.Estimate(context.Background(), EstimateRequest{OrderType: "package", DistanceKm: 2.5})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if fee.Amount != 3 {
		t.Errorf("fee = %d, want 3 (2.5 rounded)", fee.Amount)
	}
}

func TestEstimate_UnknownType(t *testing.T) {
	svc := NewService(testRates())
	_, err := svc.Estimate(context.Background(), EstimateRequest{OrderType: "freight"})
	if !errors.Is(err, ErrNoRate) {
		t.Fatalf("expected ErrNoRate, got %v", err)
	}
}
