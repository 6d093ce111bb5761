package port

import (
	"context"
	"errors"

	"cryptowatch/internal/domain/entity"
)

var (
	// ErrUnsupportedCoin is returned by the dispatcher when no adapter is registered for a symbol.
	// It is an outcome, not a provider failure.
	ErrUnsupportedCoin = errors.New("unsupported coin")

	// ErrProviderFailure marks a total failure of an upstream balance provider:
	// transport error, non-2xx status, timeout or an undecodable payload.
	ErrProviderFailure = errors.New("balance provider failure")

	// ErrOrderMismatch marks a positional response whose ordering does not match the request.
	ErrOrderMismatch = errors.New("balance provider response out of order")
)

// ChainAdapter translates watched addresses of one chain into balances.
// The result has the same length and order as addresses; a non-nil error is a total
// failure and the result must be ignored.
type ChainAdapter interface {
	Lookup(ctx context.Context, addresses []string) ([]entity.AddressBalance, error)
}

// AddressLookup routes a lookup to the adapter registered for a coin symbol.
type AddressLookup interface {
	Lookup(ctx context.Context, symbol string, addresses []string) ([]entity.AddressBalance, error)
	Supported() []string
}
