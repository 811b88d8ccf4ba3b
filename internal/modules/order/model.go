// README: Order aggregate, status machine, and the delivery-info union type.
package order

import (
	"encoding/json"
	"time"

	"courier/internal/types"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
)

type OrderType string

const (
	TypeSimple  OrderType = "simple"
	TypePackage OrderType = "package"
)

type PaymentMethod string

const (
	PayCash   PaymentMethod = "cash"
	PayWallet PaymentMethod = "wallet"
)

// AllowedTransitions represents the order state flow as code. Delivered
// is reachable only from accepted or in_progress; a pending order cannot
// jump straight to delivered.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted},
	StatusAccepted:   {StatusInProgress, StatusDelivered},
	StatusInProgress: {StatusDelivered},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// DeliveryInfo is the destination descriptor union: a free-text address,
// a phone number, or a coordinate pair. Only coordinate destinations are
// eligible for auto-assignment.
type DeliveryInfo struct {
	Text  string       `json:"text,omitempty"`
	Point *types.Point `json:"point,omitempty"`
}

// UnmarshalJSON accepts a bare string (address or phone), a bare
// {"lat":..,"lng":..} object as clients send it, or the envelope form
// this type marshals to when stored.
func (d *DeliveryInfo) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Text = s
		d.Point = nil
		return nil
	}
	var env struct {
		Text  string       `json:"text"`
		Point *types.Point `json:"point"`
		Lat   *float64     `json:"lat"`
		Lng   *float64     `json:"lng"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	if env.Lat != nil && env.Lng != nil {
		d.Point = &types.Point{Lat: *env.Lat, Lng: *env.Lng}
		d.Text = ""
		return nil
	}
	d.Text = env.Text
	d.Point = env.Point
	return nil
}

func (d DeliveryInfo) IsZero() bool {
	return d.Text == "" && d.Point == nil
}

// Destination renders the info in the form the distance service accepts.
func (d DeliveryInfo) Destination() string {
	if d.Point != nil {
		return d.Point.String()
	}
	return d.Text
}

type Order struct {
	ID            int64
	ExternalID    *string
	CustomerID    int64
	Type          OrderType
	OriginAddress string
	Delivery      DeliveryInfo
	PaymentMethod PaymentMethod
	// BasePrice is the caller-supplied package price in cents.
	// TotalAmount = BasePrice + DeliveryFee, fixed at creation.
	BasePrice    int64
	DeliveryFee  int64
	TotalAmount  int64
	Currency     string
	SerialNumber *string
	LengthCm     *float64
	WeightKg     *float64
	DistanceKm   *float64
	Status       Status
	DriverID     *int64
	CreatedAt    time.Time
}

// Item is a child line of a simple order, created atomically with it and
// never mutated afterward.
type Item struct {
	ID        int64
	OrderID   int64
	Name      string
	Quantity  int
	UnitPrice int64
}
