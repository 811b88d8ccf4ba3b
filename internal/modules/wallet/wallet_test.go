// README: Wallet store tests (DB-backed, skipped without COURIER_TEST_DSN).
package wallet

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/jackc/pgx/v5"

	"courier/internal/testutil"
)

func TestEnsureIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	uid := rand.Int63()

	for i := 0; i < 3; i++ {
		if err := store.Ensure(ctx, uid, UserCustomer); err != nil {
			t.Fatalf("ensure #%d: %v", i, err)
		}
	}
	w, err := store.Get(ctx, uid, UserCustomer)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.Balance != 0 {
		t.Errorf("fresh wallet balance = %d, want 0", w.Balance)
	}
}

func TestWalletsArePerRole(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	uid := rand.Int63()

	if err := store.Ensure(ctx, uid, UserCustomer); err != nil {
		t.Fatalf("ensure customer: %v", err)
	}
	if err := store.Ensure(ctx, uid, UserDriver); err != nil {
		t.Fatalf("ensure driver: %v", err)
	}
	if err := store.Credit(ctx, uid, UserDriver, 500, "payout"); err != nil {
		t.Fatalf("credit: %v", err)
	}

	cw, err := store.Get(ctx, uid, UserCustomer)
	if err != nil {
		t.Fatalf("get customer wallet: %v", err)
	}
	if cw.Balance != 0 {
		t.Errorf("customer balance = %d, want 0 (driver credit must not leak)", cw.Balance)
	}
}

func TestCreditAppendsLedgerRow(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	uid := rand.Int63()

	if err := store.Ensure(ctx, uid, UserCustomer); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := store.Credit(ctx, uid, UserCustomer, 1500, "Funds added"); err != nil {
		t.Fatalf("credit: %v", err)
	}

	txs, err := store.Transactions(ctx, uid, UserCustomer)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(txs))
	}
	if txs[0].Type != TxDeposit || txs[0].Amount != 1500 {
		t.Errorf("ledger row = %+v, want deposit of 1500", txs[0])
	}
}

func TestDebitTxInsufficientFundsRollsBack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	uid := rand.Int63()

	if err := store.Ensure(ctx, uid, UserCustomer); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := store.Credit(ctx, uid, UserCustomer, 1000, "Funds added"); err != nil {
		t.Fatalf("credit: %v", err)
	}

	tx, err := store.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	err = store.DebitTx(ctx, tx, uid, UserCustomer, 2000, "Order payment")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	_ = tx.Rollback(ctx)

	w, err := store.Get(ctx, uid, UserCustomer)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.Balance != 1000 {
		t.Errorf("balance after failed debit = %d, want 1000", w.Balance)
	}
}

func TestDebitTxExactBalance(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	uid := rand.Int63()

	if err := store.Ensure(ctx, uid, UserCustomer); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := store.Credit(ctx, uid, UserCustomer, 700, "Funds added"); err != nil {
		t.Fatalf("credit: %v", err)
	}

	tx, err := store.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := store.DebitTx(ctx, tx, uid, UserCustomer, 700, "Order payment"); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	w, err := store.Get(ctx, uid, UserCustomer)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.Balance != 0 {
		t.Errorf("balance = %d, want 0", w.Balance)
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.NewTestPool(t))
}
