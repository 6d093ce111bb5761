package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotCloneDoesNotShareEntries(t *testing.T) {
	orig := WalletSnapshot{"BTC": NewTrackedCoin()}
	orig["BTC"].Addresses["1A"] = struct{}{}

	cp := orig.Clone()
	cp["BTC"].Addresses["1B"] = struct{}{}
	cp["BTC"].ManualBalance = decimal.NewFromInt(2)
	cp["ETH"] = NewTrackedCoin()

	assert.Equal(t, []string{"1A"}, orig["BTC"].SortedAddresses())
	assert.True(t, orig["BTC"].ManualBalance.IsZero())
	assert.Equal(t, []string{"BTC"}, orig.Symbols())
	assert.Equal(t, []string{"BTC", "ETH"}, cp.Symbols())
}

func TestIsUntracked(t *testing.T) {
	c := NewTrackedCoin()
	assert.True(t, c.IsUntracked())

	c.ManualBalance = decimal.RequireFromString("-0.5")
	assert.False(t, c.IsUntracked())

	c.ManualBalance = decimal.Zero
	c.Addresses["1A"] = struct{}{}
	assert.False(t, c.IsUntracked())
}
