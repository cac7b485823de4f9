// Package sqlite implements the localstore.Store contract on an embedded
// SQLite database. One table, one row per slot; the database file is the
// whole local state of the device.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	name    TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Store is the SQLite-backed slot store.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at path and ensures the
// schema exists. WAL mode keeps readers from blocking the engine's
// synchronous writes.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// The engine serializes writes itself; one connection avoids
	// SQLITE_BUSY churn under the pure-Go driver.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the slot's payload, or localstore.ErrSlotEmpty.
func (s *Store) Load(slot string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM slots WHERE name = ?", slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, localstore.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	return payload, nil
}

// Save upserts the slot's payload. SQLite makes the replacement atomic.
func (s *Store) Save(slot string, payload []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO slots (name, payload, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, slot, payload)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Clear removes the slot row.
func (s *Store) Clear(slot string) error {
	if _, err := s.db.Exec("DELETE FROM slots WHERE name = ?", slot); err != nil {
		return fmt.Errorf("clear slot %s: %w", slot, err)
	}
	return nil
}

// ClearAll truncates the slots table.
func (s *Store) ClearAll() error {
	if _, err := s.db.Exec("DELETE FROM slots"); err != nil {
		return fmt.Errorf("clear all slots: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ localstore.Store = (*Store)(nil)
