package port

import (
	"errors"

	"cryptowatch/internal/domain/entity"
)

// ErrInvalidSymbol is returned by wallet mutations given a blank coin symbol.
var ErrInvalidSymbol = errors.New("coin symbol is empty")

// SnapshotStore persists the wallet state.
type SnapshotStore interface {
	// Load returns the stored snapshot, or an empty one if nothing has been stored yet.
	Load() (entity.WalletSnapshot, error)
	// Save atomically replaces the stored snapshot.
	Save(snapshot entity.WalletSnapshot) error
	// Delete removes the stored snapshot. Deleting a missing snapshot is not an error.
	Delete() error
}
