// Package ports defines repository interfaces for data persistence abstraction.
package ports

import (
	"github.com/songifyapp/songify/internal/domain"
)

// KeyValueStore is the durable client-local storage contract: string keys to
// string values. The core depends only on this get/set/remove shape, not on
// any particular storage technology.
//
// Thread-safety: implementations must be thread-safe.
type KeyValueStore interface {
	// String returns the value for key, or "" when the key is absent.
	String(key string) string

	// SetString stores value under key, replacing any previous value.
	SetString(key, value string) error

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string) error

	// Close releases the underlying storage.
	Close() error
}

// PlaylistRepository persists the saved playlist as a whole.
// The playlist is small and mutations are rare, so the full collection is
// written on every change rather than diffed.
//
// Thread-safety: implementations must be thread-safe.
type PlaylistRepository interface {
	// Save persists the complete playlist, replacing the stored one.
	Save(tracks []domain.Track) error

	// Load retrieves the stored playlist. Absent or corrupt data yields an
	// empty slice, never an error the caller must branch on to stay alive.
	Load() ([]domain.Track, error)

	// Clear removes the stored playlist.
	Clear() error
}

// PreferencesRepository persists user preferences and transient view state.
//
// Thread-safety: implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveVolume persists the volume level.
	SaveVolume(volume float64) error

	// LoadVolume retrieves the saved volume, defaulting when absent.
	LoadVolume() (float64, error)

	// SaveShuffle persists the shuffle flag.
	SaveShuffle(enabled bool) error

	// LoadShuffle retrieves the saved shuffle flag, defaulting to false.
	LoadShuffle() (bool, error)

	// SaveRepeat persists the repeat flag.
	SaveRepeat(enabled bool) error

	// LoadRepeat retrieves the saved repeat flag, defaulting to false.
	LoadRepeat() (bool, error)

	// SaveLastQuery persists the most recent search query.
	SaveLastQuery(query string) error

	// LoadLastQuery retrieves the most recent search query, "" when absent.
	LoadLastQuery() (string, error)

	// Clear removes all saved preferences.
	Clear() error
}
