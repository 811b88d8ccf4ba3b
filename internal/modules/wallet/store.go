// README: Wallet store backed by PostgreSQL. Debits run inside a caller-owned transaction.
package wallet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Ensure lazily creates the wallet row for (userID, userType). Safe to
// call on every access.
func (s *Store) Ensure(ctx context.Context, userID int64, userType UserType) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO wallets (user_id, user_type, balance)
        VALUES ($1, $2, 0)
        ON CONFLICT (user_id, user_type) DO NOTHING`,
		userID, string(userType),
	)
	return err
}

func (s *Store) Get(ctx context.Context, userID int64, userType UserType) (*Wallet, error) {
	row := s.db.QueryRow(ctx, `
        SELECT wallet_id, user_id, user_type, balance
        FROM wallets
        WHERE user_id = $1 AND user_type = $2`,
		userID, string(userType),
	)
	var w Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.UserType, &w.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit adds funds and appends the ledger row in one transaction.
func (s *Store) Credit(ctx context.Context, userID int64, userType UserType, amount int64, description string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
        UPDATE wallets SET balance = balance + $1
        WHERE user_id = $2 AND user_type = $3`,
		amount, userID, string(userType),
	)
	if err != nil {
		return err
	}
	if err := appendLedger(ctx, tx, userID, userType, TxDeposit, amount, description); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DebitTx checks the balance and debits it as one atomic statement inside
// the caller's transaction, then appends the ledger row. The conditional
// WHERE balance >= amount is what prevents two concurrent orders against
// one wallet from both passing the balance check.
func (s *Store) DebitTx(ctx context.Context, tx pgx.Tx, userID int64, userType UserType, amount int64, description string) error {
	tag, err := tx.Exec(ctx, `
        UPDATE wallets SET balance = balance - $1
        WHERE user_id = $2 AND user_type = $3 AND balance >= $1`,
		amount, userID, string(userType),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientFunds
	}
	return appendLedger(ctx, tx, userID, userType, TxWithdrawal, amount, description)
}

func (s *Store) Transactions(ctx context.Context, userID int64, userType UserType) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `
        SELECT transaction_id, user_id, user_type, type, amount, description, created_at
        FROM transactions
        WHERE user_id = $1 AND user_type = $2
        ORDER BY created_at DESC`,
		userID, string(userType),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.UserType, &t.Type, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func appendLedger(ctx context.Context, tx pgx.Tx, userID int64, userType UserType, txType TxType, amount int64, description string) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO transactions (user_id, user_type, type, amount, description)
        VALUES ($1, $2, $3, $4, $5)`,
		userID, string(userType), string(txType), amount, description,
	)
	return err
}
