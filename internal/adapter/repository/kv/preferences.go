package kv

import (
	"strconv"
	"sync"

	"github.com/songifyapp/songify/internal/ports"
)

// Storage keys for preference values.
const (
	volumeKey    = "prefs.volume"
	shuffleKey   = "prefs.shuffle"
	repeatKey    = "prefs.repeat"
	lastQueryKey = "search.last_query"
)

// DefaultVolume is returned when no volume preference has been saved yet.
// Matches the web client's initial slider position.
const DefaultVolume = 0.7

// PreferencesRepository implements ports.PreferencesRepository over a
// KeyValueStore. Each preference lives under its own key so a corrupt value
// only costs that one setting.
//
// Thread-safe: all operations protected by sync.RWMutex.
type PreferencesRepository struct {
	store         ports.KeyValueStore
	defaultVolume float64
	mu            sync.RWMutex
}

// NewPreferencesRepository creates a new preferences repository.
func NewPreferencesRepository(store ports.KeyValueStore) *PreferencesRepository {
	return &PreferencesRepository{store: store, defaultVolume: DefaultVolume}
}

// SetDefaultVolume overrides the volume returned when none has been saved.
// Levels outside [0, 1] are ignored.
func (r *PreferencesRepository) SetDefaultVolume(volume float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if volume >= 0 && volume <= 1 {
		r.defaultVolume = volume
	}
}

// SaveVolume persists the volume level.
func (r *PreferencesRepository) SaveVolume(volume float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.SetString(volumeKey, strconv.FormatFloat(volume, 'f', -1, 64))
}

// LoadVolume retrieves the saved volume, or DefaultVolume when absent or
// unparsable.
func (r *PreferencesRepository) LoadVolume() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw := r.store.String(volumeKey)
	if raw == "" {
		return r.defaultVolume, nil
	}

	volume, err := strconv.ParseFloat(raw, 64)
	if err != nil || volume < 0 || volume > 1 {
		return r.defaultVolume, nil
	}
	return volume, nil
}

// SaveShuffle persists the shuffle flag.
func (r *PreferencesRepository) SaveShuffle(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.SetString(shuffleKey, strconv.FormatBool(enabled))
}

// LoadShuffle retrieves the saved shuffle flag, defaulting to false.
func (r *PreferencesRepository) LoadShuffle() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.String(shuffleKey) == "true", nil
}

// SaveRepeat persists the repeat flag.
func (r *PreferencesRepository) SaveRepeat(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.SetString(repeatKey, strconv.FormatBool(enabled))
}

// LoadRepeat retrieves the saved repeat flag, defaulting to false.
func (r *PreferencesRepository) LoadRepeat() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.String(repeatKey) == "true", nil
}

// SaveLastQuery persists the most recent search query.
func (r *PreferencesRepository) SaveLastQuery(query string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if query == "" {
		return r.store.Remove(lastQueryKey)
	}
	return r.store.SetString(lastQueryKey, query)
}

// LoadLastQuery retrieves the most recent search query, "" when absent.
func (r *PreferencesRepository) LoadLastQuery() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.String(lastQueryKey), nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{volumeKey, shuffleKey, repeatKey, lastQueryKey} {
		if err := r.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
