// README: Nearest-driver search over the presence registry.
package assign

import (
	"context"
	"log"

	"courier/internal/geo"
	"courier/internal/modules/presence"
	"courier/internal/modules/pricing"
	"courier/internal/types"
)

// Candidate is the winning driver of one search, with the informational
// price quote computed from that driver's distance.
type Candidate struct {
	DriverID   int64
	DistanceKm float64
	Price      types.Money
}

type SearchRequest struct {
	Origin    string
	OrderType string
	LengthCm  float64
	WeightKg  float64
}

// Presence is the slice of the registry the search needs.
type Presence interface {
	Snapshot() []presence.Entry
}

type Estimator interface {
	Estimate(ctx context.Context, req pricing.EstimateRequest) (types.Money, error)
}

type Service struct {
	presence Presence
	distance geo.Service
	pricing  Estimator
}

func NewService(p Presence, d geo.Service, e Estimator) *Service {
	return &Service{presence: p, distance: d, pricing: e}
}

// Nearest scans every currently-connected driver and returns the one
// closest to the origin, or nil when no usable candidate exists. A full
// unordered scan is fine at the scale of the registry. Individual
// candidate failures shrink the pool but never abort the search; ties on
// distance go to whichever entry was scanned first.
func (s *Service) Nearest(ctx context.Context, req SearchRequest) (*Candidate, error) {
	drivers := s.presence.Snapshot()
	if len(drivers) == 0 {
		return nil, nil
	}

	var best *Candidate
	for _, d := range drivers {
		distance, err := s.distance.DistanceKm(ctx, req.Origin, d.Position.String())
		if err != nil {
			log.Printf("assign: distance lookup failed for driver %d: %v", d.DriverID, err)
			continue
		}

		price, err := s.pricing.Estimate(ctx, pricing.EstimateRequest{
			OrderType:  req.OrderType,
			LengthCm:   req.LengthCm,
			WeightKg:   req.WeightKg,
			DistanceKm: distance,
		})
		if err != nil {
			log.Printf("assign: price quote failed for driver %d: %v", d.DriverID, err)
			continue
		}

		if best == nil || distance < best.DistanceKm {
			best = &Candidate{DriverID: d.DriverID, DistanceKm: distance, Price: price}
		}
	}
	return best, nil
}
