// README: Delivery tariff definition for each order type.
package pricing

type Rate struct {
	OrderType string
	// BaseFare is the flat component in cents. Simple orders pay only this.
	BaseFare int64
	// PerKm, PerKg and PerLen are the package-order components in cents
	// per kilometre, kilogram and centimetre respectively.
	PerKm    int64
	PerKg    int64
	PerLen   int64
	Currency string
}

type EstimateRequest struct {
	OrderType  string
	LengthCm   float64
	WeightKg   float64
	DistanceKm float64
}
