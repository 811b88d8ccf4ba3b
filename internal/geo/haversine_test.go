package geo

import (
	"context"
	"math"
	"testing"

	"courier/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: 25.033, Lng: 121.565},
			b:         types.Point{Lat: 25.033, Lng: 121.565},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Taipei 101 to Taipei Main Station (~5km)",
			a:         types.Point{Lat: 25.0340, Lng: 121.5645},
			b:         types.Point{Lat: 25.0478, Lng: 121.5170},
			wantKm:    5.2,
			tolerance: 1.0,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 25.0, Lng: 121.0}
	b := types.Point{Lat: 26.0, Lng: 122.0}
	d1 := HaversineKm(a, b)
	d2 := HaversineKm(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestMapsService_CoordinateFastPath(t *testing.T) {
	// Both endpoints are coordinate pairs, so no API client is needed.
	svc := &MapsService{}
	got, err := svc.DistanceKm(context.Background(), "25.0340,121.5645", "25.0478,121.5170")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-5.2) > 1.0 {
		t.Errorf("DistanceKm fast path = %f, want ~5.2", got)
	}
}
