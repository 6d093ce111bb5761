package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const formatVersion = 1

type fileFormat struct {
	Version int                  `json:"version"`
	Coins   map[string]coinEntry `json:"coins"`
}

type coinEntry struct {
	Addresses     []string        `json:"addresses"`
	ManualBalance decimal.Decimal `json:"manualBalance"`
}

// FileStore keeps the wallet snapshot in one JSON file. It implements port.SnapshotStore.
type FileStore struct {
	path   string
	logger port.Logger
}

// NewFileStore creates a store for the file at path.
func NewFileStore(path string, logger port.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *FileStore) Load() (entity.WalletSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("Wallet file not found, starting empty", "path", s.path)
		return make(entity.WalletSnapshot), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet file %s: %w", s.path, err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet file %s: %w", s.path, err)
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("wallet file %s has unsupported version %d", s.path, f.Version)
	}

	snap := make(entity.WalletSnapshot, len(f.Coins))
	for sym, e := range f.Coins {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		c := entity.NewTrackedCoin()
		for _, a := range e.Addresses {
			if a = strings.TrimSpace(a); a != "" {
				c.Addresses[a] = struct{}{}
			}
		}
		c.ManualBalance = e.ManualBalance
		snap[sym] = c
	}
	s.logger.Debug("Wallet file loaded", "path", s.path, "coins", len(snap))
	return snap, nil
}

// Save writes the snapshot to a temporary file next to the target, syncs it and renames it
// over the target, so readers see either the old or the new file.
func (s *FileStore) Save(snapshot entity.WalletSnapshot) error {
	f := fileFormat{Version: formatVersion, Coins: make(map[string]coinEntry, len(snapshot))}
	for _, sym := range snapshot.Symbols() {
		c := snapshot[sym]
		if c == nil {
			continue
		}
		f.Coins[sym] = coinEntry{Addresses: c.SortedAddresses(), ManualBalance: c.ManualBalance}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create wallet directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary wallet file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write wallet file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync wallet file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close wallet file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace wallet file %s: %w", s.path, err)
	}

	s.logger.Debug("Wallet file saved", "path", s.path, "coins", len(f.Coins))
	return nil
}

// Delete removes the snapshot file. A missing file is not an error.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete wallet file %s: %w", s.path, err)
	}
	s.logger.Info("Wallet file deleted", "path", s.path)
	return nil
}
