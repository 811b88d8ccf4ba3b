// README: Pricing store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetRate(ctx context.Context, orderType string) (Rate, error) {
	row := s.db.QueryRow(ctx, `
        SELECT order_type, base_fare, per_km, per_kg, per_len, currency
        FROM delivery_rates
        WHERE order_type = $1`, orderType,
	)
	var r Rate
	err := row.Scan(&r.OrderType, &r.BaseFare, &r.PerKm, &r.PerKg, &r.PerLen, &r.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, ErrNoRate
	}
	if err != nil {
		return Rate{}, err
	}
	return r, nil
}
