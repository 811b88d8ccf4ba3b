// README: Order store backed by PostgreSQL; conditional updates carry the concurrency guarantees.
package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const orderColumns = `
        order_id, external_id, customer_id, order_type, origin_address, delivery_info,
        payment_method, price, predicted_price, total_amount, currency, serial_number,
        length_cm, weight_kg, distance_km, status, driver_id, created_at`

// CreateTx inserts the order (plus any item rows) and runs pay inside
// the same database transaction. Everything commits or rolls back
// together, so a failed wallet debit never leaves a half-created order.
func (s *Store) CreateTx(ctx context.Context, o *Order, items []Item, pay func(pgx.Tx) error) (int64, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	deliveryJSON, err := json.Marshal(o.Delivery)
	if err != nil {
		return 0, fmt.Errorf("encode delivery info: %w", err)
	}

	var id int64
	err = tx.QueryRow(ctx, `
        INSERT INTO orders (
            external_id, customer_id, order_type, origin_address, delivery_info,
            payment_method, price, predicted_price, total_amount, currency,
            serial_number, length_cm, weight_kg, distance_km, status
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9, $10,
            $11, $12, $13, $14, 'pending'
        ) RETURNING order_id`,
		o.ExternalID,
		o.CustomerID,
		string(o.Type),
		o.OriginAddress,
		string(deliveryJSON),
		string(o.PaymentMethod),
		o.BasePrice,
		o.DeliveryFee,
		o.TotalAmount,
		o.Currency,
		o.SerialNumber,
		o.LengthCm,
		o.WeightKg,
		o.DistanceKm,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	for _, it := range items {
		_, err := tx.Exec(ctx, `
            INSERT INTO order_items (order_id, name, quantity, unit_price)
            VALUES ($1, $2, $3, $4)`,
			id, it.Name, it.Quantity, it.UnitPrice,
		)
		if err != nil {
			return 0, err
		}
	}

	if pay != nil {
		if err := pay(tx); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id)
	return scanOrder(row)
}

func (s *Store) GetByExternalID(ctx context.Context, externalID string) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE external_id = $1`, externalID)
	return scanOrder(row)
}

// AssignDriver sets the driver and moves pending → accepted as one
// conditional UPDATE. When two drivers race on one order, the database
// evaluates the WHERE clause and the row mutation atomically, so the
// second writer matches zero rows.
func (s *Store) AssignDriver(ctx context.Context, orderID, driverID int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE orders
        SET driver_id = $1, status = 'accepted'
        WHERE order_id = $2 AND status = 'pending'`,
		driverID, orderID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Start(ctx context.Context, orderID int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE orders
        SET status = 'in_progress'
        WHERE order_id = $1 AND status = 'accepted'`,
		orderID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) MarkDelivered(ctx context.Context, orderID int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE orders
        SET status = 'delivered'
        WHERE order_id = $1 AND status IN ('accepted', 'in_progress')`,
		orderID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ListAvailable(ctx context.Context) ([]Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = 'pending' ORDER BY created_at`)
}

func (s *Store) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (s *Store) ListCurrentByDriver(ctx context.Context, driverID int64) ([]Order, error) {
	return s.list(ctx, `
        SELECT `+orderColumns+` FROM orders
        WHERE driver_id = $1 AND status IN ('accepted', 'in_progress')
        ORDER BY created_at`, driverID)
}

func (s *Store) Items(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
        SELECT item_id, order_id, name, quantity, unit_price
        FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var externalID, serialNumber sql.NullString
	var deliveryJSON string
	var lengthCm, weightKg, distanceKm sql.NullFloat64
	var driverID sql.NullInt64

	err := row.Scan(
		&o.ID, &externalID, &o.CustomerID, &o.Type, &o.OriginAddress, &deliveryJSON,
		&o.PaymentMethod, &o.BasePrice, &o.DeliveryFee, &o.TotalAmount, &o.Currency, &serialNumber,
		&lengthCm, &weightKg, &distanceKm, &o.Status, &driverID, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(deliveryJSON), &o.Delivery); err != nil {
		return nil, fmt.Errorf("decode delivery info: %w", err)
	}
	if externalID.Valid {
		o.ExternalID = &externalID.String
	}
	if serialNumber.Valid {
		o.SerialNumber = &serialNumber.String
	}
	if lengthCm.Valid {
		o.LengthCm = &lengthCm.Float64
	}
	if weightKg.Valid {
		o.WeightKg = &weightKg.Float64
	}
	if distanceKm.Valid {
		o.DistanceKm = &distanceKm.Float64
	}
	if driverID.Valid {
		o.DriverID = &driverID.Int64
	}
	return &o, nil
}
