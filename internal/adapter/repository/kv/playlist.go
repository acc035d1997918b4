// Package kv provides repository implementations over a key-value store.
// State is serialized as JSON strings, matching the layout the web client
// kept in browser local storage.
package kv

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
)

// playlistKey is the storage key for the saved playlist JSON array.
const playlistKey = "playlist"

// PlaylistRepository implements ports.PlaylistRepository over a KeyValueStore.
// The full playlist is written as one JSON array under the "playlist" key on
// every mutation.
//
// Thread-safe: all operations protected by sync.RWMutex.
type PlaylistRepository struct {
	store  ports.KeyValueStore
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewPlaylistRepository creates a new playlist repository.
func NewPlaylistRepository(store ports.KeyValueStore, logger *slog.Logger) *PlaylistRepository {
	return &PlaylistRepository{
		store:  store,
		logger: logger,
	}
}

// Save persists the complete playlist.
func (r *PlaylistRepository) Save(tracks []domain.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(tracks)
	if err != nil {
		return domain.NewRepositoryError("save", "playlist", "failed to marshal playlist", err)
	}

	return r.store.SetString(playlistKey, string(data))
}

// Load retrieves the stored playlist. Absent or corrupt data yields an empty
// playlist: a broken blob is logged and discarded rather than propagated.
func (r *PlaylistRepository) Load() ([]domain.Track, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.store.String(playlistKey)
	if data == "" {
		return []domain.Track{}, nil
	}

	var tracks []domain.Track
	if err := json.Unmarshal([]byte(data), &tracks); err != nil {
		if r.logger != nil {
			r.logger.Warn("saved playlist corrupted, starting empty", slog.Any("error", err))
		}
		return []domain.Track{}, nil
	}

	return tracks, nil
}

// Clear removes the stored playlist.
func (r *PlaylistRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Remove(playlistKey)
}

// Verify interface implementation
var _ ports.PlaylistRepository = (*PlaylistRepository)(nil)
