// Package sqlite provides a durable key-value store backed by SQLite.
//
// The application's client-local state (saved playlist, preferences) is tiny
// and string-shaped, so a single key/value table is enough. SQLite gives us
// synchronous durability on every write without inventing a file format.
package sqlite

import (
	"database/sql"
	"errors"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
)

// Store implements ports.KeyValueStore on a SQLite database file.
//
// Thread-safe: database/sql serializes access, and the mutex guards the
// closed flag.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if necessary) the key-value database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, domain.NewRepositoryError("open", "kv", "failed to open database", err)
	}

	// Single connection: the store is written from one process and SQLite
	// handles its own locking.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, domain.NewRepositoryError("open", "kv", "failed to create schema", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// String returns the value for key, or "" when the key is absent or the
// store is unreadable. Missing persistence degrades to empty state, never a
// crash.
func (s *Store) String(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ""
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) && s.logger != nil {
			s.logger.Warn("kv read failed", slog.String("key", key), slog.Any("error", err))
		}
		return ""
	}
	return value
}

// SetString stores value under key, replacing any previous value.
func (s *Store) SetString(key, value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.NewRepositoryError("set", "kv", "store closed", nil)
	}

	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return domain.NewRepositoryError("set", "kv", "failed to write key "+key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.NewRepositoryError("remove", "kv", "store closed", nil)
	}

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return domain.NewRepositoryError("remove", "kv", "failed to delete key "+key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
