// README: Wallet aggregate and ledger entry definitions.
package wallet

import "time"

// UserType distinguishes the wallet owner's role. One wallet exists per
// (user, role) pair.
type UserType string

const (
	UserCustomer UserType = "customer"
	UserDriver   UserType = "driver"
)

type Wallet struct {
	ID       int64
	UserID   int64
	UserType UserType
	// Balance is denormalized in cents; the transactions ledger is the
	// audit source of truth.
	Balance int64
}

type TxType string

const (
	TxDeposit    TxType = "deposit"
	TxWithdrawal TxType = "withdrawal"
)

type Transaction struct {
	ID          int64
	UserID      int64
	UserType    UserType
	Type        TxType
	Amount      int64
	Description string
	CreatedAt   time.Time
}
