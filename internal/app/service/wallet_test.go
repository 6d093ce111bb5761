package service

import (
	"errors"
	"sync"
	"testing"

	"cryptowatch/internal/app/port"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWallet(t *testing.T) (*Wallet, *memStore) {
	t.Helper()
	store := &memStore{}
	w := NewWallet(store, zap.NewNop())
	require.NoError(t, w.Load())
	return w, store
}

func TestAddAddressesNormalizesAndIsIdempotent(t *testing.T) {
	w, store := newWallet(t)

	require.NoError(t, w.AddAddresses("btc", []string{"1A", " 1B ", ""}))
	require.NoError(t, w.AddAddresses("BTC", []string{"1A", "1B"}))

	c, ok := w.Coin("BTC")
	require.True(t, ok)
	assert.Equal(t, []string{"1A", "1B"}, c.SortedAddresses())
	assert.Equal(t, 2, store.saves)
	assert.Equal(t, []string{"1A", "1B"}, store.saved["BTC"].SortedAddresses())
}

func TestAddManualBalanceIsCumulative(t *testing.T) {
	w, _ := newWallet(t)

	require.NoError(t, w.AddManualBalance("eth", decimal.RequireFromString("1.5")))
	require.NoError(t, w.AddManualBalance("ETH", decimal.RequireFromString("0.25")))
	require.NoError(t, w.AddManualBalance("ETH", decimal.RequireFromString("-2")))

	c, _ := w.Coin("ETH")
	assert.True(t, c.ManualBalance.Equal(decimal.RequireFromString("-0.25")))
}

func TestRemoveOperations(t *testing.T) {
	w, store := newWallet(t)
	require.NoError(t, w.AddAddresses("BTC", []string{"1A", "1B"}))
	require.NoError(t, w.AddManualBalance("BTC", decimal.NewFromInt(3)))

	require.NoError(t, w.RemoveAddresses("BTC", []string{"1A", "1Z"}))
	c, _ := w.Coin("BTC")
	assert.Equal(t, []string{"1B"}, c.SortedAddresses())

	require.NoError(t, w.RemoveManualBalance("btc"))
	c, _ = w.Coin("BTC")
	assert.True(t, c.ManualBalance.IsZero())

	require.NoError(t, w.RemoveCoin("BTC"))
	_, ok := w.Coin("BTC")
	assert.False(t, ok)
	assert.Empty(t, store.saved)
}

func TestMutationsOnMissingCoinStillPersist(t *testing.T) {
	w, store := newWallet(t)

	require.NoError(t, w.RemoveCoin("BTC"))
	require.NoError(t, w.RemoveAddresses("ETH", []string{"0xaa"}))
	require.NoError(t, w.RemoveManualBalance("LTC"))

	assert.Equal(t, 3, store.saves)
	assert.Empty(t, w.Coins(), "no entry is created by a removal")
}

func TestPersistenceFailureIsReturnedAndStateKept(t *testing.T) {
	w, store := newWallet(t)
	require.NoError(t, w.AddAddresses("BTC", []string{"1A"}))

	store.failing = true
	err := w.AddAddresses("BTC", []string{"1B"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDiskFull))

	c, _ := w.Coin("BTC")
	assert.Equal(t, []string{"1A"}, c.SortedAddresses(), "failed mutation is not applied")

	assert.Error(t, w.DeleteWallet())
	assert.Equal(t, []string{"BTC"}, w.Coins())
}

func TestBlankSymbolRejected(t *testing.T) {
	w, store := newWallet(t)
	err := w.AddAddresses("  ", []string{"1A"})
	assert.True(t, errors.Is(err, port.ErrInvalidSymbol))
	assert.Equal(t, 0, store.saves)
}

func TestDeleteWallet(t *testing.T) {
	w, store := newWallet(t)
	require.NoError(t, w.AddManualBalance("BTC", decimal.NewFromInt(1)))

	require.NoError(t, w.DeleteWallet())
	assert.Empty(t, w.Coins())
	assert.Equal(t, 1, store.deletes)

	require.NoError(t, w.DeleteWallet(), "deleting twice is fine")
}

func TestLoadRestoresStoredState(t *testing.T) {
	store := &memStore{}
	w := NewWallet(store, zap.NewNop())
	require.NoError(t, w.AddAddresses("BTC", []string{"1A"}))

	reloaded := NewWallet(store, zap.NewNop())
	require.NoError(t, reloaded.Load())
	assert.Equal(t, w.Snapshot(), reloaded.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	w, _ := newWallet(t)
	require.NoError(t, w.AddAddresses("BTC", []string{"1A"}))

	snap := w.Snapshot()
	snap["BTC"].Addresses["evil"] = struct{}{}
	delete(snap, "BTC")

	c, ok := w.Coin("BTC")
	require.True(t, ok)
	assert.Equal(t, []string{"1A"}, c.SortedAddresses())
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	w, store := newWallet(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.AddManualBalance("BTC", decimal.NewFromInt(1)))
		}()
	}
	wg.Wait()

	c, _ := w.Coin("BTC")
	assert.True(t, c.ManualBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, store.saved["BTC"].ManualBalance.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 50, store.saves)
}
