// Package save persists game snapshots into named slots.
package save

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"emberpath/internal/config"
	"emberpath/internal/inventory"
	"emberpath/internal/keybind"
	"emberpath/internal/stores"
)

var (
	ErrNoSave      = errors.New("no save in slot")
	ErrInvalidSlot = errors.New("invalid save slot name")
)

// Snapshot captures everything needed to resume a game
type Snapshot struct {
	SessionID string             `json:"session_id"`
	SavedAt   string             `json:"saved_at"`
	EventID   string             `json:"event_id"`
	Coins     int                `json:"coins"`
	Tick      uint64             `json:"tick,omitempty"`
	Inventory inventory.Snapshot `json:"inventory"`
	Stores    stores.Snapshot    `json:"stores"`
	Keybinds  keybind.Snapshot   `json:"keybinds"`
}

// Summary is lightweight slot info for menus
type Summary struct {
	Slot      string
	SessionID string
	SavedAt   string
	EventID   string
}

// Store is a save-slot backend
type Store interface {
	Save(ctx context.Context, slot string, snap *Snapshot) error
	Load(ctx context.Context, slot string) (*Snapshot, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

// Open returns the backend named in the config
func Open(cfg config.SavesConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		fs, err := NewFileStore(ResolveDir(cfg.Dir))
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.BackendSQLite:
		path := cfg.SQLitePath
		if path != ":memory:" {
			path = ResolveDir(path)
		}
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("unknown save backend %q", cfg.Backend)
}

// checkSlot rejects names that cannot be used as a file name
func checkSlot(slot string) error {
	if strings.TrimSpace(slot) == "" || strings.ContainsAny(slot, `/\:`) || slot == "." || slot == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}
