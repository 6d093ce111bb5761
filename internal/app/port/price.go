package port

import (
	"context"

	"cryptowatch/internal/domain/entity"
)

// TickerSource returns the full upstream price listing in one call.
type TickerSource interface {
	Tickers(ctx context.Context) ([]entity.Ticker, error)
}

// PriceLookup resolves unit prices for symbols. The result has the same length and
// order as symbols; unknown symbols, and every symbol when the feed fails, are absent.
type PriceLookup interface {
	Lookup(ctx context.Context, symbols []string) []entity.UnitPrice
}
