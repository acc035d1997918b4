// Package memory provides an in-memory key-value store for tests and
// ephemeral runs where nothing should touch the disk.
package memory

import (
	"sync"

	"github.com/songifyapp/songify/internal/ports"
)

// Store implements ports.KeyValueStore with a plain map.
//
// Thread-safe: all operations protected by sync.RWMutex.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// String returns the value for key, or "" when absent.
func (s *Store) String(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values[key]
}

// SetString stores value under key.
func (s *Store) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Remove deletes key.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored keys, for tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
