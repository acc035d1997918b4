// Package service provides business logic for the Songify application.
package service

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
)

// PlaylistService manages the user's saved playlist: an ordered, deduplicated
// favourites collection independent of the play queue. Every mutation is
// written through to the repository so the playlist survives restarts.
// All operations are thread-safe via sync.RWMutex.
type PlaylistService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.PlaylistRepository
	bus        ports.EventBus

	// State
	tracks []domain.Track

	// Concurrency control
	mu sync.RWMutex
}

// NewPlaylistService creates a new playlist service, rehydrating the stored
// playlist. Absent or unreadable stored data yields an empty playlist.
func NewPlaylistService(
	logger *slog.Logger,
	repository ports.PlaylistRepository,
	bus ports.EventBus,
) *PlaylistService {
	service := &PlaylistService{
		logger:     logger,
		repository: repository,
		bus:        bus,
		tracks:     make([]domain.Track, 0),
	}

	stored, err := repository.Load()
	if err != nil {
		logger.Warn("failed to load saved playlist", slog.Any("error", err))
	} else {
		service.tracks = stored
	}

	logger.Debug("playlist service initialized", slog.Int("tracks", len(service.tracks)))

	return service
}

// Add appends a track to the playlist. A track already present (same media
// URL) is rejected with ErrDuplicateTrack so callers can tell the user.
func (s *PlaylistService) Add(track domain.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.containsLocked(track.MediaURL) {
		return domain.ErrDuplicateTrack
	}

	s.tracks = append(s.tracks, track)
	s.persistLocked()

	s.bus.Publish(domain.NewPlaylistUpdatedEvent(s.snapshotLocked()))
	return nil
}

// Remove deletes the track with the given media URL. Removing a track that
// is not in the playlist is a no-op.
func (s *PlaylistService) Remove(mediaURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.containsLocked(mediaURL) {
		return nil
	}

	s.tracks = lo.Reject(s.tracks, func(t domain.Track, _ int) bool {
		return t.MediaURL == mediaURL
	})
	s.persistLocked()

	s.bus.Publish(domain.NewPlaylistUpdatedEvent(s.snapshotLocked()))
	return nil
}

// Clear empties the playlist.
func (s *PlaylistService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracks = make([]domain.Track, 0)
	if err := s.repository.Clear(); err != nil {
		s.logger.Warn("failed to clear stored playlist", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewPlaylistUpdatedEvent(nil))
	return nil
}

// Contains reports whether a track with the given media URL is saved.
func (s *PlaylistService) Contains(mediaURL string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.containsLocked(mediaURL)
}

// Tracks returns the saved playlist in insertion order.
func (s *PlaylistService) Tracks() []domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// Len returns the number of saved tracks.
func (s *PlaylistService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tracks)
}

func (s *PlaylistService) containsLocked(mediaURL string) bool {
	return lo.ContainsBy(s.tracks, func(t domain.Track) bool {
		return t.MediaURL == mediaURL
	})
}

func (s *PlaylistService) snapshotLocked() []domain.Track {
	snapshot := make([]domain.Track, len(s.tracks))
	copy(snapshot, s.tracks)
	return snapshot
}

// persistLocked writes the whole playlist through to the repository. Failures
// keep the in-memory playlist usable and are only logged.
func (s *PlaylistService) persistLocked() {
	if err := s.repository.Save(s.tracks); err != nil {
		s.logger.Warn("failed to persist playlist", slog.Any("error", err))
	}
}
