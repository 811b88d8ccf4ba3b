// README: Distance service backed by the Google Distance Matrix API.
package geo

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"courier/internal/types"
)

// ErrDistanceUnavailable means the distance service could not resolve a
// route between the two descriptors. Callers must not create orders in a
// partially priced state when they see this.
var ErrDistanceUnavailable = errors.New("distance unavailable")

// Service resolves the road distance in kilometres between two location
// descriptors. A descriptor is either a free-text address or a "lat,lng"
// coordinate pair.
type Service interface {
	DistanceKm(ctx context.Context, origin, destination string) (float64, error)
}

// MapsService is the production Service, calling the Distance Matrix API.
// When both endpoints are coordinate pairs it computes the great-circle
// distance locally and skips the API call entirely, which keeps candidate
// scoring during driver assignment off the network.
type MapsService struct {
	client *maps.Client
}

func NewMapsService(apiKey string) (*MapsService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &MapsService{client: client}, nil
}

func (s *MapsService) DistanceKm(ctx context.Context, origin, destination string) (float64, error) {
	if from, ok := types.ParsePoint(origin); ok {
		if to, ok := types.ParsePoint(destination); ok {
			return HaversineKm(from, to), nil
		}
	}

	resp, err := s.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Units:        maps.UnitsMetric,
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		return 0, fmt.Errorf("distance matrix: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, ErrDistanceUnavailable
	}
	elem := resp.Rows[0].Elements[0]
	if elem.Status != "OK" {
		return 0, ErrDistanceUnavailable
	}
	return float64(elem.Distance.Meters) / 1000.0, nil
}
