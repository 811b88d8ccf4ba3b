// README: Pricing service computes the delivery fee added on top of the base package price.
package pricing

import (
	"context"
	"errors"
	"math"

	"courier/internal/types"
)

var ErrNoRate = errors.New("no tariff for order type")

type RateSource interface {
	GetRate(ctx context.Context, orderType string) (Rate, error)
}

type Service struct {
	rates RateSource
}

func NewService(rates RateSource) *Service {
	return &Service{rates: rates}
}

// Estimate returns the delivery fee for one order. Simple orders pay the
// flat base fare of the "simple" tariff; package orders additionally pay
// per-kilometre, per-kilogram and per-centimetre components. The result
// is rounded to whole cents.
func (s *Service) Estimate(ctx context.Context, req EstimateRequest) (types.Money, error) {
	rate, err := s.rates.GetRate(ctx, req.OrderType)
	if err != nil {
		return types.Money{}, err
	}

	fee := float64(rate.BaseFare)
	if req.OrderType == "package" {
		fee += float64(rate.PerKm)*req.DistanceKm +
			float64(rate.PerKg)*req.WeightKg +
			float64(rate.PerLen)*req.LengthCm
	}
	return types.Money{Amount: int64(math.Round(fee)), Currency: rate.Currency}, nil
}
