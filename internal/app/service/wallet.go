package service

import (
	"fmt"
	"strings"
	"sync"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/pkg/metrics"
	"cryptowatch/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Wallet owns the tracked coins. Every mutation is serialized and persisted before it
// returns; if persisting fails the in-memory state is left unchanged.
type Wallet struct {
	mu     sync.Mutex
	state  entity.WalletSnapshot
	store  port.SnapshotStore
	logger *zap.Logger
}

// NewWallet creates an empty wallet backed by store. Call Load to read the stored state.
func NewWallet(store port.SnapshotStore, logger *zap.Logger) *Wallet {
	return &Wallet{
		state:  make(entity.WalletSnapshot),
		store:  store,
		logger: logger.Named("Wallet"),
	}
}

// Load replaces the in-memory state with the stored snapshot.
func (w *Wallet) Load() error {
	snap, err := w.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load wallet: %w", err)
	}
	if snap == nil {
		snap = make(entity.WalletSnapshot)
	}

	w.mu.Lock()
	w.state = snap
	w.mu.Unlock()
	w.logger.Info("Wallet loaded", zap.Int("coins", len(snap)))
	return nil
}

// AddAddresses starts watching addrs for coin. Blank addresses are ignored and addresses
// already watched are kept once.
func (w *Wallet) AddAddresses(coin string, addrs []string) error {
	return w.mutate("add_addresses", coin, func(s entity.WalletSnapshot, sym string) {
		c := entryFor(s, sym)
		for _, a := range utils.CleanList(addrs) {
			c.Addresses[a] = struct{}{}
		}
	})
}

// AddManualBalance adds amount to the manual balance of coin. Negative amounts are accepted.
func (w *Wallet) AddManualBalance(coin string, amount decimal.Decimal) error {
	return w.mutate("add_balance", coin, func(s entity.WalletSnapshot, sym string) {
		c := entryFor(s, sym)
		c.ManualBalance = c.ManualBalance.Add(amount)
	})
}

// RemoveAddresses stops watching addrs for coin. Unknown coins and addresses are ignored.
func (w *Wallet) RemoveAddresses(coin string, addrs []string) error {
	return w.mutate("remove_addresses", coin, func(s entity.WalletSnapshot, sym string) {
		c, ok := s[sym]
		if !ok {
			return
		}
		for _, a := range utils.CleanList(addrs) {
			delete(c.Addresses, a)
		}
	})
}

// RemoveManualBalance resets the manual balance of coin to zero.
func (w *Wallet) RemoveManualBalance(coin string) error {
	return w.mutate("remove_balance", coin, func(s entity.WalletSnapshot, sym string) {
		if c, ok := s[sym]; ok {
			c.ManualBalance = decimal.Zero
		}
	})
}

// RemoveCoin stops tracking coin altogether.
func (w *Wallet) RemoveCoin(coin string) error {
	return w.mutate("remove_coin", coin, func(s entity.WalletSnapshot, sym string) {
		delete(s, sym)
	})
}

// DeleteWallet forgets every coin and removes the stored snapshot.
func (w *Wallet) DeleteWallet() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.Delete(); err != nil {
		metrics.WalletMutations.WithLabelValues("delete_wallet", metrics.OutcomeFailure).Inc()
		w.logger.Error("Failed to delete wallet", zap.Error(err))
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	w.state = make(entity.WalletSnapshot)
	metrics.WalletMutations.WithLabelValues("delete_wallet", metrics.OutcomeOK).Inc()
	w.logger.Info("Wallet deleted")
	return nil
}

// Snapshot returns a deep copy of the current state.
func (w *Wallet) Snapshot() entity.WalletSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

// Coins returns the tracked symbols, sorted.
func (w *Wallet) Coins() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Symbols()
}

// Coin returns a copy of the tracked state of symbol.
func (w *Wallet) Coin(symbol string) (*entity.TrackedCoin, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.state[normalizeSymbol(symbol)]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// mutate applies fn to a copy of the state, persists the copy and only then publishes it.
func (w *Wallet) mutate(op, coin string, fn func(s entity.WalletSnapshot, sym string)) error {
	sym := normalizeSymbol(coin)
	if sym == "" {
		metrics.WalletMutations.WithLabelValues(op, metrics.OutcomeFailure).Inc()
		return port.ErrInvalidSymbol
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.state.Clone()
	fn(next, sym)
	if err := w.store.Save(next); err != nil {
		metrics.WalletMutations.WithLabelValues(op, metrics.OutcomeFailure).Inc()
		w.logger.Error("Failed to persist wallet", zap.String("op", op), zap.String("symbol", sym), zap.Error(err))
		return fmt.Errorf("failed to persist wallet after %s %s: %w", strings.ReplaceAll(op, "_", " "), sym, err)
	}
	w.state = next
	metrics.WalletMutations.WithLabelValues(op, metrics.OutcomeOK).Inc()
	w.logger.Debug("Wallet updated", zap.String("op", op), zap.String("symbol", sym))
	return nil
}

func entryFor(s entity.WalletSnapshot, sym string) *entity.TrackedCoin {
	c, ok := s[sym]
	if !ok {
		c = entity.NewTrackedCoin()
		s[sym] = c
	}
	return c
}
