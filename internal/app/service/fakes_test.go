package service

import (
	"context"
	"errors"
	"sync"

	"cryptowatch/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type adapterFunc func(ctx context.Context, addresses []string) ([]entity.AddressBalance, error)

func (f adapterFunc) Lookup(ctx context.Context, addresses []string) ([]entity.AddressBalance, error) {
	return f(ctx, addresses)
}

// fixedAdapter answers every address from balances; unknown addresses are not found.
func fixedAdapter(balances map[string]string) adapterFunc {
	return func(_ context.Context, addresses []string) ([]entity.AddressBalance, error) {
		out := make([]entity.AddressBalance, len(addresses))
		for i, a := range addresses {
			if v, ok := balances[a]; ok {
				out[i] = entity.Balance(decimal.RequireFromString(v))
			} else {
				out[i] = entity.NotFound()
			}
		}
		return out, nil
	}
}

type tickerSource struct {
	mu      sync.Mutex
	tickers []entity.Ticker
	err     error
	calls   int
}

func (s *tickerSource) Tickers(context.Context) ([]entity.Ticker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.tickers, nil
}

func ticker(sym, usd, btc string) entity.Ticker {
	return entity.Ticker{Symbol: sym, PriceUSD: decimal.RequireFromString(usd), PriceBTC: decimal.RequireFromString(btc)}
}

// memStore is an in-memory SnapshotStore.
type memStore struct {
	mu      sync.Mutex
	saved   entity.WalletSnapshot
	saves   int
	deletes int
	failing bool
}

var errDiskFull = errors.New("disk full")

func (m *memStore) Load() (entity.WalletSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return entity.WalletSnapshot{}, nil
	}
	return m.saved.Clone(), nil
}

func (m *memStore) Save(s entity.WalletSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errDiskFull
	}
	m.saves++
	m.saved = s.Clone()
	return nil
}

func (m *memStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errDiskFull
	}
	m.deletes++
	m.saved = nil
	return nil
}

func coin(manual string, addrs ...string) *entity.TrackedCoin {
	c := entity.NewTrackedCoin()
	for _, a := range addrs {
		c.Addresses[a] = struct{}{}
	}
	if manual != "" {
		c.ManualBalance = decimal.RequireFromString(manual)
	}
	return c
}
