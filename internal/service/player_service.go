// Package service provides business logic for the Songify application.
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
	"github.com/songifyapp/songify/internal/queue"
)

// PlayerService orchestrates playback over the single shared audio output.
// It owns the play queue, the transport state (current track, playing flag,
// volume, progress) and the shuffle/repeat modes, and publishes state changes
// on the event bus. All operations are thread-safe via sync.RWMutex.
//
// Loading is asynchronous: Play hands the output a set of callbacks tagged
// with a load generation, and every callback first checks that its generation
// is still the latest. A rapid sequence of track changes therefore settles on
// the last requested track, with signals from superseded loads discarded
// instead of corrupting the state.
type PlayerService struct {
	// Dependencies (injected)
	logger *slog.Logger
	output ports.AudioOutput
	bus    ports.EventBus
	queue  *queue.PlayQueue
	prefs  ports.PreferencesRepository

	// State
	current  *domain.Track
	playing  bool
	volume   float64
	progress time.Duration
	duration time.Duration
	shuffle  bool
	repeat   bool
	loadGen  uint64

	updateInterval time.Duration

	// Concurrency control
	mu            sync.RWMutex
	loadMu        sync.Mutex // Serializes Load calls so output order matches generation order
	stopUpdate    chan struct{}
	updateRunning bool
	updateWg      sync.WaitGroup
}

// NewPlayerService creates a new player service, restoring persisted volume,
// shuffle and repeat preferences, and starts the progress update routine.
func NewPlayerService(
	logger *slog.Logger,
	output ports.AudioOutput,
	bus ports.EventBus,
	playQueue *queue.PlayQueue,
	prefs ports.PreferencesRepository,
) *PlayerService {
	service := &PlayerService{
		logger:         logger,
		output:         output,
		bus:            bus,
		queue:          playQueue,
		prefs:          prefs,
		updateInterval: 333 * time.Millisecond, // 3 times per second
		stopUpdate:     make(chan struct{}),
	}

	service.restorePreferences()

	logger.Debug("player service initialized",
		slog.Float64("volume", service.volume),
		slog.Bool("shuffle", service.shuffle),
		slog.Bool("repeat", service.repeat))

	// Start update routine
	service.startUpdateRoutine()

	return service
}

// restorePreferences loads the persisted volume, shuffle and repeat state and
// applies the volume to the output.
func (s *PlayerService) restorePreferences() {
	volume, err := s.prefs.LoadVolume()
	if err != nil {
		s.logger.Warn("failed to load saved volume", slog.Any("error", err))
	}
	s.volume = domain.ClampVolume(volume)

	if s.shuffle, err = s.prefs.LoadShuffle(); err != nil {
		s.logger.Warn("failed to load shuffle preference", slog.Any("error", err))
	}
	if s.repeat, err = s.prefs.LoadRepeat(); err != nil {
		s.logger.Warn("failed to load repeat preference", slog.Any("error", err))
	}

	if err := s.output.SetVolume(s.volume); err != nil {
		s.logger.Warn("failed to apply saved volume", slog.Any("error", err))
	}
}

// Play makes track the current track and starts loading it into the output.
// The track is enqueued first if the queue does not already hold it. Playback
// begins when the output reports readiness; until then the state shows the
// track as current but not playing.
//
// Playing the track that is already current resumes it at its position
// instead of reloading; if it is already playing, nothing changes.
func (s *PlayerService) Play(track domain.Track) error {
	if track.MediaURL == "" {
		return domain.ErrNoMediaLoaded
	}

	s.mu.Lock()
	if s.current != nil && track.SameAs(*s.current) {
		if s.playing {
			s.mu.Unlock()
			return nil
		}
		if err := s.output.Play(); err != nil {
			s.mu.Unlock()
			return err
		}
		s.playing = true
		resumed := *s.current
		s.mu.Unlock()

		s.logger.Debug("resuming current track", slog.String("title", resumed.Title))
		s.bus.Publish(domain.NewTrackResumedEvent(resumed))
		return nil
	}
	s.mu.Unlock()

	return s.restart(track)
}

// restart loads track into the output from the beginning, superseding any
// load still in flight. Track transitions (natural end, next, previous) come
// through here so that landing on the current track again replays it from
// the start rather than resuming it.
func (s *PlayerService) restart(track domain.Track) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()

	s.logger.Debug("playing track", slog.String("title", track.Title), slog.String("url", track.MediaURL))

	added := s.queue.Add(track)

	s.loadGen++
	gen := s.loadGen

	s.current = &track
	s.playing = false
	s.progress = 0
	s.duration = 0
	s.mu.Unlock()

	if added {
		s.bus.Publish(domain.NewQueueChangedEvent(s.queue.Tracks(), track))
	}
	s.bus.Publish(domain.NewTrackLoadingEvent(track))

	s.output.Load(track.MediaURL, ports.OutputCallbacks{
		OnReady: func() { s.handleReady(gen, track) },
		OnEnded: func() { s.handleEnded(gen) },
		OnError: func(err error) { s.handleLoadError(gen, track, err) },
	})

	return nil
}

// handleReady starts playback once the output has the track ready, unless a
// newer load has superseded this one.
func (s *PlayerService) handleReady(gen uint64, track domain.Track) {
	s.mu.Lock()

	if gen != s.loadGen {
		s.mu.Unlock()
		s.logger.Debug("discarding stale ready signal", slog.String("title", track.Title))
		return
	}

	if err := s.output.SetVolume(s.volume); err != nil {
		s.logger.Warn("failed to apply volume to loaded track", slog.Any("error", err))
	}

	if err := s.output.Play(); err != nil {
		s.playing = false
		s.mu.Unlock()
		s.logger.Warn("failed to start playback", slog.Any("error", err))
		s.bus.Publish(domain.NewTrackErrorEvent(track, err))
		return
	}

	s.playing = true
	s.duration = s.output.Duration()
	duration := s.duration
	s.mu.Unlock()

	s.logger.Debug("track started",
		slog.String("title", track.Title),
		slog.String("duration", domain.FormatDuration(duration)))

	s.bus.Publish(domain.NewTrackStartedEvent(track))
}

// handleEnded reacts to the current track playing to its natural end: with
// repeat on it replays the same track from the start, otherwise it advances
// to the next queue entry or stops at the tail.
func (s *PlayerService) handleEnded(gen uint64) {
	s.mu.Lock()

	if gen != s.loadGen || s.current == nil {
		s.mu.Unlock()
		return
	}

	finished := *s.current

	if s.repeat {
		s.mu.Unlock()
		s.bus.Publish(domain.NewTrackCompletedEvent(finished))
		if err := s.restart(finished); err != nil {
			s.logger.Warn("failed to replay track", slog.Any("error", err))
		}
		return
	}

	next, ok := s.queue.ResolveNext(finished, s.shuffle, false)
	if !ok {
		// Tail of the queue: stop, keep the track current.
		s.playing = false
		s.progress = s.duration
		s.mu.Unlock()

		s.logger.Debug("queue exhausted, stopping", slog.String("title", finished.Title))
		s.bus.Publish(domain.NewTrackCompletedEvent(finished))
		s.bus.Publish(domain.NewTrackStoppedEvent(finished))
		return
	}
	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackCompletedEvent(finished))

	// A shuffle pick may land on the finished track again, in which case it
	// replays from the beginning.
	if err := s.restart(next); err != nil {
		s.logger.Warn("failed to advance to next track", slog.Any("error", err))
	}
}

// handleLoadError records a failed load, unless superseded.
func (s *PlayerService) handleLoadError(gen uint64, track domain.Track, err error) {
	s.mu.Lock()

	if gen != s.loadGen {
		s.mu.Unlock()
		s.logger.Debug("discarding stale load error", slog.Any("error", err))
		return
	}

	s.playing = false
	s.mu.Unlock()

	s.logger.Warn("track failed to load",
		slog.String("title", track.Title),
		slog.Any("error", err))
	s.bus.Publish(domain.NewTrackErrorEvent(track, err))
}

// TogglePlay pauses a playing track or resumes a paused one. With no
// current track it is a no-op, not an error.
func (s *PlayerService) TogglePlay() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	if s.playing {
		s.progress = s.output.Position()
		if err := s.output.Pause(); err != nil {
			return err
		}
		s.playing = false
		s.bus.Publish(domain.NewTrackPausedEvent(*s.current, s.progress))
		return nil
	}

	if err := s.output.Play(); err != nil {
		return err
	}
	s.playing = true
	s.bus.Publish(domain.NewTrackResumedEvent(*s.current))
	return nil
}

// PlayNext advances to the next track the queue resolves for the current
// mode. With no candidate (no current track, or the tail of the queue with
// repeat off) the state is left unchanged.
func (s *PlayerService) PlayNext() error {
	s.mu.RLock()
	current := s.current
	shuffle, repeat := s.shuffle, s.repeat
	s.mu.RUnlock()

	if current == nil {
		return nil
	}

	next, ok := s.queue.ResolveNext(*current, shuffle, repeat)
	if !ok {
		s.logger.Debug("no next track to play")
		return nil
	}
	return s.restart(next)
}

// PlayPrevious steps back to the previous queue entry, wrapping to the tail
// when repeat is on. Shuffle never affects the previous direction. With no
// candidate (no current track, or the head of the queue with repeat off)
// the state is left unchanged.
func (s *PlayerService) PlayPrevious() error {
	s.mu.RLock()
	current := s.current
	repeat := s.repeat
	s.mu.RUnlock()

	if current == nil {
		return nil
	}

	previous, ok := s.queue.ResolvePrevious(*current, repeat)
	if !ok {
		s.logger.Debug("no previous track to play")
		return nil
	}
	return s.restart(previous)
}

// Seek sets the playback position, clamped to the current track's duration.
// With no current track it is a no-op.
func (s *PlayerService) Seek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	position = domain.ClampPosition(position, s.duration)
	if err := s.output.Seek(position); err != nil {
		return err
	}

	s.progress = position
	s.bus.Publish(domain.NewTrackProgressEvent(position, s.duration))
	return nil
}

// SetVolume sets the output volume. Out-of-range levels are clamped to
// [0, 1]. The level is persisted so it survives restarts.
func (s *PlayerService) SetVolume(level float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	level = domain.ClampVolume(level)
	s.volume = level

	if err := s.output.SetVolume(level); err != nil {
		return err
	}
	if err := s.prefs.SaveVolume(level); err != nil {
		s.logger.Warn("failed to persist volume", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewVolumeChangedEvent(level))
	return nil
}

// ToggleShuffle flips shuffle mode and returns the new value. The mode only
// changes how future track transitions resolve; nothing is reordered.
func (s *PlayerService) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shuffle = !s.shuffle
	if err := s.prefs.SaveShuffle(s.shuffle); err != nil {
		s.logger.Warn("failed to persist shuffle preference", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewShuffleToggledEvent(s.shuffle))
	return s.shuffle
}

// ToggleRepeat flips repeat mode and returns the new value.
func (s *PlayerService) ToggleRepeat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.repeat = !s.repeat
	if err := s.prefs.SaveRepeat(s.repeat); err != nil {
		s.logger.Warn("failed to persist repeat preference", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewRepeatToggledEvent(s.repeat))
	return s.repeat
}

// Queue returns a snapshot of the play queue in enqueue order.
func (s *PlayerService) Queue() []domain.Track {
	return s.queue.Tracks()
}

// State returns a snapshot of the current playback state.
func (s *PlayerService) State() domain.PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := domain.PlaybackState{
		IsPlaying: s.playing,
		Volume:    s.volume,
		Progress:  s.progress,
		Duration:  s.duration,
		Shuffle:   s.shuffle,
		Repeat:    s.repeat,
	}

	if s.current != nil {
		track := *s.current
		state.CurrentTrack = &track
		if s.playing {
			state.Progress = s.output.Position()
		}
	}

	return state
}

// Shutdown stops the update routine, invalidates in-flight loads and halts
// the output.
func (s *PlayerService) Shutdown() error {
	s.mu.Lock()

	// Stop update routine
	if s.updateRunning {
		close(s.stopUpdate)
		s.updateRunning = false
	}

	// Release lock before waiting for the goroutine to exit (avoids deadlock)
	s.mu.Unlock()
	s.updateWg.Wait()

	s.mu.Lock()
	s.loadGen++ // Invalidate any load still in flight
	wasPlaying := s.playing && s.current != nil
	var stopped domain.Track
	if wasPlaying {
		stopped = *s.current
	}
	s.playing = false
	s.mu.Unlock()

	if wasPlaying {
		s.bus.Publish(domain.NewTrackStoppedEvent(stopped))
	}

	return s.output.Stop()
}

// startUpdateRoutine starts a goroutine that periodically publishes progress events.
func (s *PlayerService) startUpdateRoutine() {
	s.mu.Lock()
	if s.updateRunning {
		s.mu.Unlock()
		return
	}
	s.updateRunning = true
	s.updateWg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.updateWg.Done()
		ticker := time.NewTicker(s.updateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopUpdate:
				return

			case <-ticker.C:
				s.publishProgressUpdate()
			}
		}
	}()
}

// publishProgressUpdate refreshes the progress from the output and publishes
// it while a track is playing.
func (s *PlayerService) publishProgressUpdate() {
	s.mu.Lock()

	if s.current == nil || !s.playing {
		s.mu.Unlock()
		return
	}

	s.progress = s.output.Position()
	position, duration := s.progress, s.duration
	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackProgressEvent(position, duration))
}
