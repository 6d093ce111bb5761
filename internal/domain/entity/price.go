package entity

import "github.com/shopspring/decimal"

// UnitPrice is the price of one unit of a coin in USD and in the base crypto unit.
// Known == false means the symbol is absent from the price feed.
type UnitPrice struct {
	USD   decimal.Decimal `json:"usd"`
	Base  decimal.Decimal `json:"base"`
	Known bool            `json:"known"`
}

// Price builds a known unit price.
func Price(usd, base decimal.Decimal) UnitPrice {
	return UnitPrice{USD: usd, Base: base, Known: true}
}

// Ticker is one entry of the upstream price listing.
type Ticker struct {
	Symbol   string
	PriceUSD decimal.Decimal
	PriceBTC decimal.Decimal
}
