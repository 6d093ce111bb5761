package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Dispatcher routes address lookups to the chain adapter registered for a coin symbol.
// It implements port.AddressLookup.
type Dispatcher struct {
	mu       sync.RWMutex
	adapters map[string]port.ChainAdapter
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher over adapters, keyed by coin symbol.
func NewDispatcher(adapters map[string]port.ChainAdapter, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		adapters: make(map[string]port.ChainAdapter, len(adapters)),
		logger:   logger.Named("Dispatcher"),
	}
	for sym, a := range adapters {
		d.Register(sym, a)
	}
	return d
}

// Register adds or replaces the adapter for symbol.
func (d *Dispatcher) Register(symbol string, adapter port.ChainAdapter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.adapters[normalizeSymbol(symbol)] = adapter
}

// Supported returns the registered symbols, sorted.
func (d *Dispatcher) Supported() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.adapters))
	for sym := range d.adapters {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Lookup implements port.AddressLookup. An empty address list succeeds with an empty
// result without consulting the registry.
func (d *Dispatcher) Lookup(ctx context.Context, symbol string, addresses []string) ([]entity.AddressBalance, error) {
	if len(addresses) == 0 {
		return []entity.AddressBalance{}, nil
	}
	sym := normalizeSymbol(symbol)

	d.mu.RLock()
	adapter, ok := d.adapters[sym]
	d.mu.RUnlock()
	if !ok {
		d.logger.Debug("No chain adapter registered", zap.String("symbol", sym))
		metrics.ChainLookups.WithLabelValues(sym, metrics.OutcomeUnsupported).Inc()
		return nil, fmt.Errorf("%w: %s", port.ErrUnsupportedCoin, sym)
	}

	balances, err := adapter.Lookup(ctx, addresses)
	if err != nil {
		outcome := metrics.OutcomeFailure
		if errors.Is(err, port.ErrOrderMismatch) {
			outcome = metrics.OutcomeOrderMismatch
		}
		metrics.ChainLookups.WithLabelValues(sym, outcome).Inc()
		d.logger.Warn("Address lookup failed",
			zap.String("symbol", sym),
			zap.Int("addresses", len(addresses)),
			zap.Error(err))
		return nil, err
	}
	if len(balances) != len(addresses) {
		metrics.ChainLookups.WithLabelValues(sym, metrics.OutcomeFailure).Inc()
		d.logger.Error("Chain adapter returned a result of the wrong length",
			zap.String("symbol", sym),
			zap.Int("want", len(addresses)),
			zap.Int("got", len(balances)))
		return nil, fmt.Errorf("%w: %s: adapter returned %d balances for %d addresses",
			port.ErrProviderFailure, sym, len(balances), len(addresses))
	}

	outcome := metrics.OutcomeOK
	if entity.StatusOf(balances) == entity.LookupPartial {
		outcome = metrics.OutcomePartial
	}
	metrics.ChainLookups.WithLabelValues(sym, outcome).Inc()
	return balances, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
