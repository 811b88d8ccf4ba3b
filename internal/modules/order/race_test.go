// README: Concurrency tests for the accept and wallet-payment races.
package order

import (
	"context"
	"errors"
	"testing"

	"courier/internal/modules/wallet"
)

// Two verified drivers race to accept one pending order; the conditional
// update must let exactly one through.
func TestAccept_ConcurrentDoubleAccept(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.Create(ctx, packageCommand(nextCustomerID()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	d1, d2 := nextCustomerID(), nextCustomerID()+1
	verifyDriver(t, env, d1)
	verifyDriver(t, env, d2)

	start := make(chan struct{})
	errs := make(chan error, 2)
	for _, driverID := range []int64{d1, d2} {
		go func(id int64) {
			<-start
			errs <- env.svc.Accept(ctx, AcceptCommand{OrderID: res.OrderID, DriverID: id})
		}(driverID)
	}
	close(start)

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("wins = %d, conflicts = %d; want exactly one of each", wins, conflicts)
	}

	o, err := env.store.Get(ctx, res.OrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Status != StatusAccepted || o.DriverID == nil {
		t.Errorf("order = %s/%v, want accepted with a driver", o.Status, o.DriverID)
	}
}

// One wallet funded for a single order, two concurrent wallet-paid
// creations. The balance-guarded debit must reject the second.
func TestCreate_ConcurrentDoubleSpend(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	customerID := nextCustomerID()

	// Seeded package tariff at 10km with the command's dimensions costs
	// 8600 in fees on a 5000 base, so fund exactly one order.
	const total = 5000 + 8600
	if err := env.wallets.Ensure(ctx, customerID, wallet.UserCustomer); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := env.wallets.Credit(ctx, customerID, wallet.UserCustomer, total, "Funds added"); err != nil {
		t.Fatalf("credit: %v", err)
	}

	start := make(chan struct{})
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			cmd := packageCommand(customerID)
			cmd.PaymentMethod = PayWallet
			_, err := env.svc.Create(ctx, cmd)
			errs <- err
		}()
	}
	close(start)

	var wins, rejections int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			wins++
		case errors.Is(err, wallet.ErrInsufficientFunds):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || rejections != 1 {
		t.Fatalf("wins = %d, rejections = %d; want exactly one of each", wins, rejections)
	}

	w, err := env.wallets.Get(ctx, customerID, wallet.UserCustomer)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if w.Balance != 0 {
		t.Errorf("balance = %d, want 0 after exactly one paid order", w.Balance)
	}

	orders, err := env.store.ListByCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("orders = %d, want 1", len(orders))
	}
}
