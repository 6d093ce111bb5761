package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rounding applied to reported figures.
const (
	AmountPlaces = 8
	USDPlaces    = 3
	BasePlaces   = 8
)

// Value is a monetary figure that may be unavailable because the coin has no known price.
type Value struct {
	Amount    decimal.Decimal
	Available bool
}

// Available wraps a known value.
func Available(amount decimal.Decimal) Value {
	return Value{Amount: amount, Available: true}
}

// Unavailable is the marker for a value that could not be computed.
func Unavailable() Value {
	return Value{}
}

// String renders the value, or N/A when unavailable.
func (v Value) String() string {
	if !v.Available {
		return "N/A"
	}
	return v.Amount.String()
}

// MarshalJSON encodes an unavailable value as null so it can never be read as zero.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Available {
		return []byte("null"), nil
	}
	return v.Amount.MarshalJSON()
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Unavailable()
		return nil
	}
	if err := v.Amount.UnmarshalJSON(data); err != nil {
		return err
	}
	v.Available = true
	return nil
}

// PortfolioRow is the reconciled position of one tracked coin.
type PortfolioRow struct {
	Symbol    string          `json:"symbol"`
	Amount    decimal.Decimal `json:"amount"`
	ValueUSD  Value           `json:"valueUSD"`
	ValueBase Value           `json:"valueBTC"`
	Lookup    LookupStatus    `json:"addressLookup"`
}

// Report is the portfolio handed to renderers.
type Report struct {
	Rows        []PortfolioRow  `json:"rows"`
	TotalUSD    decimal.Decimal `json:"totalUSD"`
	TotalBase   decimal.Decimal `json:"totalBTC"`
	Empty       bool            `json:"empty"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
