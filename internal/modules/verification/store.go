// README: Verification store backed by PostgreSQL.
package verification

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("verification record not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, driverID int64) (*Record, error) {
	row := s.db.QueryRow(ctx, `
        SELECT driver_id, status, document_ref, reviewed_at
        FROM driver_verifications
        WHERE driver_id = $1`, driverID,
	)
	var r Record
	var reviewedAt sql.NullTime
	err := row.Scan(&r.DriverID, &r.Status, &r.DocumentRef, &reviewedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		r.ReviewedAt = &t
	}
	return &r, nil
}

func (s *Store) Upsert(ctx context.Context, driverID int64, documentRef string) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO driver_verifications (driver_id, status, document_ref)
        VALUES ($1, 'pending', $2)
        ON CONFLICT (driver_id) DO UPDATE SET document_ref = EXCLUDED.document_ref`,
		driverID, documentRef,
	)
	return err
}

func (s *Store) SetStatus(ctx context.Context, driverID int64, status Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE driver_verifications
        SET status = $1, reviewed_at = NOW()
        WHERE driver_id = $2`,
		string(status), driverID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
