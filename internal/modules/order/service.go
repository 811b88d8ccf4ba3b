// README: Order service: creation with pricing and wallet payment, acceptance, delivery flow.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"courier/internal/geo"
	"courier/internal/modules/assign"
	"courier/internal/modules/pricing"
	"courier/internal/modules/wallet"
	"courier/internal/types"
)

var (
	ErrValidation        = errors.New("missing required fields")
	ErrNotFound          = errors.New("order not found")
	ErrConflict          = errors.New("order not found or already accepted")
	ErrInvalidState      = errors.New("invalid order state")
	ErrDistance          = errors.New("invalid delivery location")
	ErrPricing           = errors.New("price calculation failed")
	ErrDriverNotVerified = errors.New("driver is not verified")
)

type Estimator interface {
	Estimate(ctx context.Context, req pricing.EstimateRequest) (types.Money, error)
}

type Searcher interface {
	Nearest(ctx context.Context, req assign.SearchRequest) (*assign.Candidate, error)
}

type DriverCheck interface {
	IsVerified(ctx context.Context, driverID int64) (bool, error)
}

// Wallets is the slice of the wallet store the order flow needs: lazy
// creation plus the in-transaction debit.
type Wallets interface {
	Ensure(ctx context.Context, userID int64, userType wallet.UserType) error
	DebitTx(ctx context.Context, tx pgx.Tx, userID int64, userType wallet.UserType, amount int64, description string) error
}

// AssignedNotice is pushed to the winning driver's room after
// auto-assignment.
type AssignedNotice struct {
	OrderID     int64        `json:"orderId"`
	Origin      string       `json:"origin"`
	Destination DeliveryInfo `json:"destination"`
	Total       int64        `json:"total"`
}

// Notifier fans order events out to the real-time layer. Delivery is
// fire-and-forget; a missed event is overwritten by the next one.
type Notifier interface {
	OrderAssigned(driverID int64, notice AssignedNotice)
	OrderAccepted(orderID int64)
}

type Service struct {
	store    *Store
	cache    *Cache
	wallets  Wallets
	pricing  Estimator
	distance geo.Service
	search   Searcher
	drivers  DriverCheck
	notify   Notifier
}

type Deps struct {
	Store    *Store
	Cache    *Cache
	Wallets  Wallets
	Pricing  Estimator
	Distance geo.Service
	Search   Searcher
	Drivers  DriverCheck
	Notify   Notifier
}

func NewService(d Deps) *Service {
	return &Service{
		store:    d.Store,
		cache:    d.Cache,
		wallets:  d.Wallets,
		pricing:  d.Pricing,
		distance: d.Distance,
		search:   d.Search,
		drivers:  d.Drivers,
		notify:   d.Notify,
	}
}

type CreateCommand struct {
	// RequestID is an optional client-supplied idempotency token;
	// resubmitting the same token returns the original order.
	RequestID     string
	CustomerID    int64
	Type          OrderType
	OriginAddress string
	Delivery      DeliveryInfo
	PaymentMethod PaymentMethod
	BasePrice     int64
	SerialNumber  string
	LengthCm      float64
	WeightKg      float64
	Items         []Item
}

type CreateResult struct {
	OrderID          int64
	DeliveryFee      int64
	TotalAmount      int64
	AssignedDriverID *int64
	Idempotent       bool
}

// Create runs the full order-creation flow: validate, price, persist
// (with the wallet debit in the same transaction when paying by wallet),
// then best-effort auto-assignment for coordinate-addressed packages.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*CreateResult, error) {
	if cmd.CustomerID == 0 || cmd.OriginAddress == "" || cmd.Delivery.IsZero() || cmd.BasePrice <= 0 {
		return nil, ErrValidation
	}
	if cmd.Type != TypeSimple && cmd.Type != TypePackage {
		return nil, ErrValidation
	}

	if cmd.RequestID != "" {
		if res, ok := s.replay(ctx, cmd.RequestID); ok {
			return res, nil
		}
	}

	// Package orders are priced by road distance; the order is not
	// persisted at all when the lookup fails.
	var distanceKm float64
	if cmd.Type == TypePackage {
		d, err := s.distance.DistanceKm(ctx, cmd.OriginAddress, cmd.Delivery.Destination())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDistance, err)
		}
		distanceKm = d
	}

	fee, err := s.pricing.Estimate(ctx, pricing.EstimateRequest{
		OrderType:  string(cmd.Type),
		LengthCm:   cmd.LengthCm,
		WeightKg:   cmd.WeightKg,
		DistanceKm: distanceKm,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricing, err)
	}

	total := types.Money{Amount: cmd.BasePrice}.Add(fee)

	o := &Order{
		CustomerID:    cmd.CustomerID,
		Type:          cmd.Type,
		OriginAddress: cmd.OriginAddress,
		Delivery:      cmd.Delivery,
		PaymentMethod: cmd.PaymentMethod,
		BasePrice:     cmd.BasePrice,
		DeliveryFee:   fee.Amount,
		TotalAmount:   total.Amount,
		Currency:      total.Currency,
	}
	if cmd.RequestID != "" {
		o.ExternalID = &cmd.RequestID
	}
	if cmd.SerialNumber != "" {
		o.SerialNumber = &cmd.SerialNumber
	}
	if cmd.Type == TypePackage {
		o.LengthCm = &cmd.LengthCm
		o.WeightKg = &cmd.WeightKg
		o.DistanceKm = &distanceKm
	}

	var pay func(pgx.Tx) error
	if cmd.PaymentMethod == PayWallet {
		if err := s.wallets.Ensure(ctx, cmd.CustomerID, wallet.UserCustomer); err != nil {
			return nil, err
		}
		pay = func(tx pgx.Tx) error {
			return s.wallets.DebitTx(ctx, tx, cmd.CustomerID, wallet.UserCustomer, total.Amount, "Order payment")
		}
	}

	orderID, err := s.store.CreateTx(ctx, o, cmd.Items, pay)
	if err != nil {
		// A unique violation on external_id means a concurrent replay
		// won the insert; hand back its order.
		if cmd.RequestID != "" {
			if res, ok := s.replay(ctx, cmd.RequestID); ok {
				return res, nil
			}
		}
		return nil, err
	}

	s.cache.SetStatus(ctx, orderID, StatusPending)
	if cmd.RequestID != "" {
		s.cache.SetCreateID(ctx, cmd.RequestID, orderID)
	}

	result := &CreateResult{OrderID: orderID, DeliveryFee: fee.Amount, TotalAmount: total.Amount}

	// Auto-assignment is best effort and only for packages addressed by
	// coordinates; a missing driver leaves the order pending.
	if cmd.Type == TypePackage && cmd.Delivery.Point != nil && s.search != nil {
		result.AssignedDriverID = s.autoAssign(ctx, orderID, total.Amount, cmd)
	}
	return result, nil
}

func (s *Service) autoAssign(ctx context.Context, orderID, total int64, cmd CreateCommand) *int64 {
	candidate, err := s.search.Nearest(ctx, assign.SearchRequest{
		Origin:    cmd.OriginAddress,
		OrderType: string(cmd.Type),
		LengthCm:  cmd.LengthCm,
		WeightKg:  cmd.WeightKg,
	})
	if err != nil {
		log.Printf("order %d: auto-assign search failed: %v", orderID, err)
		return nil
	}
	if candidate == nil {
		return nil
	}

	ok, err := s.store.AssignDriver(ctx, orderID, candidate.DriverID)
	if err != nil {
		log.Printf("order %d: auto-assign update failed: %v", orderID, err)
		return nil
	}
	if !ok {
		return nil
	}

	s.cache.SetStatus(ctx, orderID, StatusAccepted)
	if s.notify != nil {
		s.notify.OrderAssigned(candidate.DriverID, AssignedNotice{
			OrderID:     orderID,
			Origin:      cmd.OriginAddress,
			Destination: cmd.Delivery,
			Total:       total,
		})
	}
	return &candidate.DriverID
}

func (s *Service) replay(ctx context.Context, requestID string) (*CreateResult, bool) {
	if id, ok := s.cache.GetCreateID(ctx, requestID); ok {
		if o, err := s.store.Get(ctx, id); err == nil {
			return replayResult(o), true
		}
	}
	o, err := s.store.GetByExternalID(ctx, requestID)
	if err != nil {
		return nil, false
	}
	return replayResult(o), true
}

func replayResult(o *Order) *CreateResult {
	return &CreateResult{
		OrderID:          o.ID,
		DeliveryFee:      o.DeliveryFee,
		TotalAmount:      o.TotalAmount,
		AssignedDriverID: o.DriverID,
		Idempotent:       true,
	}
}

type AcceptCommand struct {
	OrderID  int64
	DriverID int64
}

// Accept lets a driver claim a pending order. The conditional update is
// the only guard against two drivers accepting concurrently: the loser
// matches zero rows and gets ErrConflict.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) error {
	if cmd.OrderID == 0 || cmd.DriverID == 0 {
		return ErrValidation
	}
	if s.drivers != nil {
		verified, err := s.drivers.IsVerified(ctx, cmd.DriverID)
		if err != nil {
			return err
		}
		if !verified {
			return ErrDriverNotVerified
		}
	}

	ok, err := s.store.AssignDriver(ctx, cmd.OrderID, cmd.DriverID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	s.cache.SetStatus(ctx, cmd.OrderID, StatusAccepted)
	if s.notify != nil {
		s.notify.OrderAccepted(cmd.OrderID)
	}
	return nil
}

// Start marks the package as picked up (accepted → in_progress).
func (s *Service) Start(ctx context.Context, orderID int64) error {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusInProgress) {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidState, o.Status)
	}

	ok, err := s.store.Start(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		// The status moved between the read and the update.
		return ErrInvalidState
	}
	s.cache.SetStatus(ctx, orderID, StatusInProgress)
	return nil
}

// MarkDelivered requires the order to have been accepted or picked up
// first; a pending order cannot jump straight to delivered.
func (s *Service) MarkDelivered(ctx context.Context, orderID int64) error {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusDelivered) {
		return fmt.Errorf("%w: cannot deliver from %s", ErrInvalidState, o.Status)
	}

	ok, err := s.store.MarkDelivered(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	s.cache.SetStatus(ctx, orderID, StatusDelivered)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.store.Get(ctx, id)
}

// GetStatus serves from the Redis cache when possible, falling back to
// the database.
func (s *Service) GetStatus(ctx context.Context, id int64) (Status, error) {
	if status, ok := s.cache.GetStatus(ctx, id); ok {
		return status, nil
	}
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	s.cache.SetStatus(ctx, id, o.Status)
	return o.Status, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]Order, error) {
	return s.store.ListAvailable(ctx)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

func (s *Service) ListCurrentByDriver(ctx context.Context, driverID int64) ([]Order, error) {
	return s.store.ListCurrentByDriver(ctx, driverID)
}
