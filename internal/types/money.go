// README: Common money value object used across modules. Amounts are integer cents.
package types

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) Add(other Money) Money {
	cur := m.Currency
	if cur == "" {
		cur = other.Currency
	}
	return Money{Amount: m.Amount + other.Amount, Currency: cur}
}
