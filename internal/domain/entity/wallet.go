package entity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TrackedCoin is a coin the wallet watches: a set of addresses and a manual balance.
type TrackedCoin struct {
	Addresses     map[string]struct{}
	ManualBalance decimal.Decimal
}

// NewTrackedCoin returns an entry with no addresses and a zero manual balance.
func NewTrackedCoin() *TrackedCoin {
	return &TrackedCoin{Addresses: make(map[string]struct{}), ManualBalance: decimal.Zero}
}

// SortedAddresses returns the address set in lexical order.
func (c *TrackedCoin) SortedAddresses() []string {
	out := make([]string, 0, len(c.Addresses))
	for a := range c.Addresses {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (c *TrackedCoin) Clone() *TrackedCoin {
	cp := &TrackedCoin{Addresses: make(map[string]struct{}, len(c.Addresses)), ManualBalance: c.ManualBalance}
	for a := range c.Addresses {
		cp.Addresses[a] = struct{}{}
	}
	return cp
}

// IsUntracked reports whether the entry has neither addresses nor a manual balance.
func (c *TrackedCoin) IsUntracked() bool {
	return len(c.Addresses) == 0 && c.ManualBalance.IsZero()
}

// WalletSnapshot maps an uppercase coin symbol to its tracked state.
type WalletSnapshot map[string]*TrackedCoin

// Symbols returns the tracked symbols sorted alphabetically.
func (s WalletSnapshot) Symbols() []string {
	out := make([]string, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy of the snapshot.
func (s WalletSnapshot) Clone() WalletSnapshot {
	cp := make(WalletSnapshot, len(s))
	for sym, c := range s {
		cp[sym] = c.Clone()
	}
	return cp
}
