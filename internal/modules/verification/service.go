// README: Verification service: admin review and the "is this driver usable" check.
package verification

import (
	"context"
	"errors"
)

var ErrBadStatus = errors.New("status must be verified or rejected")

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Review is the admin decision. Only terminal outcomes are accepted;
// records start as pending when the driver submits a document.
func (s *Service) Review(ctx context.Context, driverID int64, status Status) error {
	if status != StatusVerified && status != StatusRejected {
		return ErrBadStatus
	}
	ok, err := s.store.SetStatus(ctx, driverID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, driverID int64) (*Record, error) {
	return s.store.Get(ctx, driverID)
}

// IsVerified reports whether the driver may take orders. A missing
// record counts as unverified, not as an error.
func (s *Service) IsVerified(ctx context.Context, driverID int64) (bool, error) {
	rec, err := s.store.Get(ctx, driverID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rec.Status == StatusVerified, nil
}
