// Package mock provides a controllable implementation of the AudioOutput
// interface. It simulates the output resource in memory so service tests can
// drive readiness, progress and end-of-media deterministically.
package mock

import (
	"sync"
	"time"

	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
)

// LoadRequest records one Load call and its callbacks, so tests can fire
// signals for superseded loads and assert stale-callback handling.
type LoadRequest struct {
	MediaURL  string
	Callbacks ports.OutputCallbacks
}

// Output is a mock implementation of ports.AudioOutput.
//
// By default loads become ready synchronously (autoReady), which matches the
// common test path: Play(track) observably starts the track. Tests that
// exercise the asynchronous window disable autoReady and fire readiness by
// hand via Ready / ReadyAt.
//
// Thread-safety: all state is mutex-guarded; callbacks are always invoked
// with the lock released, since handlers re-enter the output.
type Output struct {
	mu sync.Mutex

	loads     []LoadRequest
	autoReady bool
	failLoad  error

	playing  bool
	closed   bool
	level    float64
	position time.Duration
	duration time.Duration
}

// NewOutput creates a mock output with synchronous readiness.
func NewOutput() *Output {
	return &Output{
		autoReady: true,
		level:     1.0,
		duration:  30 * time.Second, // catalog previews run 30 seconds
	}
}

// SetAutoReady controls whether Load fires OnReady synchronously.
func (m *Output) SetAutoReady(auto bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoReady = auto
}

// SetFailLoad makes subsequent loads fail with err (nil restores success).
func (m *Output) SetFailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = err
}

// SetDuration sets the duration reported for loaded media.
func (m *Output) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// Load records the request and, in autoReady mode, immediately reports
// readiness or the configured failure.
func (m *Output) Load(mediaURL string, callbacks ports.OutputCallbacks) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		if callbacks.OnError != nil {
			callbacks.OnError(domain.ErrOutputClosed)
		}
		return
	}

	m.loads = append(m.loads, LoadRequest{MediaURL: mediaURL, Callbacks: callbacks})
	m.playing = false
	m.position = 0
	auto := m.autoReady
	failErr := m.failLoad
	m.mu.Unlock()

	if !auto {
		return
	}
	if failErr != nil {
		if callbacks.OnError != nil {
			callbacks.OnError(failErr)
		}
		return
	}
	if callbacks.OnReady != nil {
		callbacks.OnReady()
	}
}

// Ready fires OnReady for the most recent load.
func (m *Output) Ready() {
	m.ReadyAt(m.LoadCount() - 1)
}

// ReadyAt fires OnReady for the load at the given index, regardless of
// whether it has been superseded. Tests use old indexes to simulate a
// late-arriving readiness signal for a replaced track.
func (m *Output) ReadyAt(index int) {
	m.mu.Lock()
	if index < 0 || index >= len(m.loads) {
		m.mu.Unlock()
		return
	}
	cb := m.loads[index].Callbacks.OnReady
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// FinishTrack simulates the loaded media playing to its natural end: the
// position jumps to the duration and OnEnded fires for the latest load.
func (m *Output) FinishTrack() {
	m.mu.Lock()
	if len(m.loads) == 0 {
		m.mu.Unlock()
		return
	}
	m.position = m.duration
	m.playing = false
	cb := m.loads[len(m.loads)-1].Callbacks.OnEnded
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Advance moves the simulated position forward while playing.
func (m *Output) Advance(delta time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing {
		return
	}
	m.position += delta
	if m.position > m.duration {
		m.position = m.duration
	}
}

// Play starts or resumes the loaded media.
func (m *Output) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.loads) == 0 {
		return domain.ErrNoMediaLoaded
	}
	m.playing = true
	return nil
}

// Pause pauses the loaded media.
func (m *Output) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.loads) == 0 {
		return domain.ErrNoMediaLoaded
	}
	m.playing = false
	return nil
}

// Stop halts playback and forgets the loaded media.
func (m *Output) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.playing = false
	m.position = 0
	return nil
}

// Seek sets the simulated position, clamped to the duration.
func (m *Output) Seek(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.loads) == 0 {
		return domain.ErrNoMediaLoaded
	}
	if position < 0 {
		position = 0
	}
	if position > m.duration {
		position = m.duration
	}
	m.position = position
	return nil
}

// SetVolume records the applied volume level.
func (m *Output) SetVolume(level float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.level = level
	return nil
}

// Position returns the simulated position.
func (m *Output) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Duration returns the simulated duration.
func (m *Output) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.loads) == 0 {
		return 0
	}
	return m.duration
}

// Close marks the output closed.
func (m *Output) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.playing = false
	return nil
}

// Inspection helpers for tests.

// LoadCount returns how many Load calls the output has seen.
func (m *Output) LoadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loads)
}

// LastLoaded returns the media URL of the most recent load, "" when none.
func (m *Output) LastLoaded() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.loads) == 0 {
		return ""
	}
	return m.loads[len(m.loads)-1].MediaURL
}

// IsPlaying reports the simulated transport state.
func (m *Output) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Level returns the last applied volume level.
func (m *Output) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Verify that Output implements the AudioOutput interface
var _ ports.AudioOutput = (*Output)(nil)
