package entity

import "github.com/shopspring/decimal"

// AddressBalance is the balance of a single watched address in the chain's display unit.
// A balance with Found == false is the "not found" sentinel: the address was invalid
// or its balance could not be determined. It is distinct from a zero balance.
type AddressBalance struct {
	Amount decimal.Decimal `json:"amount"`
	Found  bool            `json:"found"`
}

// Balance wraps a resolved amount.
func Balance(amount decimal.Decimal) AddressBalance {
	return AddressBalance{Amount: amount, Found: true}
}

// NotFound returns the per-address sentinel.
func NotFound() AddressBalance {
	return AddressBalance{}
}

// Contributes reports whether the balance counts towards a coin total.
// Sentinels and non-positive amounts never do.
func (b AddressBalance) Contributes() bool {
	return b.Found && b.Amount.IsPositive()
}

// SumContributing adds up every contributing balance.
func SumContributing(balances []AddressBalance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		if b.Contributes() {
			total = total.Add(b.Amount)
		}
	}
	return total
}
