// README: Wallet service for balance reads, deposits, and ledger history.
package wallet

import (
	"context"
	"errors"
)

var ErrBadRequest = errors.New("bad request")

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) AddFunds(ctx context.Context, userID int64, userType UserType, amount int64) error {
	if userID == 0 || amount <= 0 {
		return ErrBadRequest
	}
	if err := s.store.Ensure(ctx, userID, userType); err != nil {
		return err
	}
	return s.store.Credit(ctx, userID, userType, amount, "Funds added")
}

// Get returns the wallet, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID int64, userType UserType) (*Wallet, error) {
	if err := s.store.Ensure(ctx, userID, userType); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, userID, userType)
}

func (s *Service) Transactions(ctx context.Context, userID int64, userType UserType) ([]Transaction, error) {
	return s.store.Transactions(ctx, userID, userType)
}
