package save

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS saves (
	slot       TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	data       TEXT NOT NULL,
	saved_at   INTEGER NOT NULL
)`

// SQLiteStore keeps every slot as a row in one SQLite database
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. The special
// path ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		cleanPath := filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		dsn = cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts the slot
func (s *SQLiteStore) Save(ctx context.Context, slot string, snap *Snapshot) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO saves (slot, session_id, data, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		    session_id = excluded.session_id,
		    data = excluded.data,
		    saved_at = excluded.saved_at`,
		slot, snap.SessionID, string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put save %s: %w", slot, err)
	}
	return nil
}

// Load reads the slot
func (s *SQLiteStore) Load(ctx context.Context, slot string) (*Snapshot, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	var data string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM saves WHERE slot = ?`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoSave, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("get save %s: %w", slot, err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode save %s: %w", slot, err)
	}
	return &snap, nil
}

// List summarizes every slot, sorted by slot name
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT slot, session_id, data FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var slot, sessionID, data string
		if err := rows.Scan(&slot, &sessionID, &data); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			continue
		}
		out = append(out, Summary{Slot: slot, SessionID: sessionID, SavedAt: snap.SavedAt, EventID: snap.EventID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return out, nil
}

// Delete removes the slot
func (s *SQLiteStore) Delete(ctx context.Context, slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete save %s: %w", slot, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSave, slot)
	}
	return nil
}
