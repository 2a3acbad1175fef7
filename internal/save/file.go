package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const slotExt = ".json"

// ResolveDir places a relative saves directory next to the executable, or
// in the working directory when running from a go build temp dir.
func ResolveDir(name string) string {
	if name == "" {
		name = "saves"
	}
	if filepath.IsAbs(name) {
		return name
	}
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		if !isTempExeDir(exeDir) {
			return filepath.Join(exeDir, name)
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, name)
	}
	return name
}

// isTempExeDir returns true when the executable directory looks like a Go temp build path.
func isTempExeDir(dir string) bool {
	clean := filepath.Clean(dir)
	if strings.Contains(clean, string(filepath.Separator)+"go-build") {
		return true
	}
	if strings.HasPrefix(clean, filepath.Clean(os.TempDir())+string(filepath.Separator)) {
		return true
	}
	return false
}

// FileStore keeps one indented JSON file per slot
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create saves dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the slots live in
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+slotExt)
}

// Save writes snap to the slot, replacing any previous save
func (s *FileStore) Save(ctx context.Context, slot string, snap *Snapshot) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create save file: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// Load reads the slot
func (s *FileStore) Load(ctx context.Context, slot string) (*Snapshot, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoSave, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("open save: %w", err)
	}
	defer f.Close()
	var snap Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode save %s: %w", slot, err)
	}
	return &snap, nil
}

// List summarizes every readable slot, sorted by slot name. Unreadable
// files are skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read saves dir: %w", err)
	}
	var out []Summary
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, slotExt) {
			continue
		}
		slot := strings.TrimSuffix(name, slotExt)
		snap, err := s.Load(ctx, slot)
		if err != nil {
			continue
		}
		out = append(out, Summary{Slot: slot, SessionID: snap.SessionID, SavedAt: snap.SavedAt, EventID: snap.EventID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

// Delete removes the slot
func (s *FileStore) Delete(ctx context.Context, slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	err := os.Remove(s.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNoSave, slot)
	}
	return err
}

// Close is a no-op for files
func (s *FileStore) Close() error { return nil }
