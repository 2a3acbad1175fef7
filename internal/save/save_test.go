package save

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"emberpath/internal/config"
	"emberpath/internal/inventory"
	"emberpath/internal/items"
	"emberpath/internal/keybind"
	"emberpath/internal/stores"
)

func sampleSnapshot(session string) *Snapshot {
	inv := inventory.New(4, 5)
	inv.AddItem(&items.Item{ID: "bread", Type: items.TypeConsumable, MaxStack: 10,
		DefaultAction: items.ActionEat, AvailableActions: []items.Action{items.ActionEat}}, 12)
	return &Snapshot{
		SessionID: session,
		SavedAt:   "2026-10-19T10:00:00Z",
		EventID:   "shop_1",
		Coins:     42,
		Tick:      7,
		Inventory: inv.Snapshot(),
		Stores: stores.Snapshot{
			Stock:  map[string]map[string]int{"shop_1": {"bread": 4}},
			Prices: map[string]map[string]int{"general_store": {"wolf_pelt": 10}},
		},
		Keybinds: keybind.New().Snapshot(),
	}
}

// exerciseStore runs the same contract against every backend
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "slot1"); !errors.Is(err, ErrNoSave) {
		t.Fatalf("Expected ErrNoSave on empty store, got %v", err)
	}
	if err := s.Save(ctx, "slot1", sampleSnapshot("a")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "slot1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.EventID != "shop_1" || got.Coins != 42 || got.Tick != 7 {
		t.Errorf("Unexpected snapshot: %+v", got)
	}
	if got.Stores.Stock["shop_1"]["bread"] != 4 || got.Stores.Prices["general_store"]["wolf_pelt"] != 10 {
		t.Errorf("Store state not preserved: %+v", got.Stores)
	}
	if len(got.Inventory.Slots) != 2 || got.Inventory.Slots[1].Item.Quantity != 2 {
		t.Errorf("Inventory not preserved: %+v", got.Inventory)
	}
	if len(got.Keybinds.Slots) != 6 || got.Keybinds.Back != "Backspace" {
		t.Errorf("Keybinds not preserved: %+v", got.Keybinds)
	}

	// Overwrite
	second := sampleSnapshot("b")
	second.Coins = 7
	if err := s.Save(ctx, "slot1", second); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	got, _ = s.Load(ctx, "slot1")
	if got.Coins != 7 || got.SessionID != "b" {
		t.Errorf("Expected overwritten save, got %+v", got)
	}

	s.Save(ctx, "autosave", sampleSnapshot("c"))
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Slot != "autosave" || list[1].Slot != "slot1" || list[1].SessionID != "b" {
		t.Errorf("Unexpected list: %+v", list)
	}

	if err := s.Delete(ctx, "slot1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "slot1"); !errors.Is(err, ErrNoSave) {
		t.Errorf("Expected ErrNoSave deleting twice, got %v", err)
	}
	if err := s.Save(ctx, "../escape", sampleSnapshot("x")); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("Expected ErrInvalidSlot, got %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "saves"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	exerciseStore(t, s)
}

func TestSQLiteStore_Memory(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteStore_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "saves.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Save(context.Background(), "slot1", sampleSnapshot("a")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	got, err := reopened.Load(context.Background(), "slot1")
	if err != nil || got.SessionID != "a" {
		t.Errorf("Expected save to survive reopen, got %+v, %v", got, err)
	}
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	if _, err := OpenSQLite(" "); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(config.SavesConfig{Backend: config.BackendFile, Dir: dir})
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if fs, ok := s.(*FileStore); !ok || fs.Dir() != dir {
		t.Errorf("Expected file store in %s, got %T", dir, s)
	}

	s, err = Open(config.SavesConfig{Backend: config.BackendSQLite, SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("Expected sqlite store, got %T", s)
	}

	if _, err := Open(config.SavesConfig{Backend: "redis"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestLoad_Cancelled(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Load(ctx, "slot1"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
