// Package ports defines interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"time"
)

// OutputCallbacks carries the per-load notifications from the audio output.
// Each Load call gets its own set; the player service captures a load
// generation in these closures so that a late signal from a superseded
// source can be recognised and dropped.
type OutputCallbacks struct {
	// OnReady fires once when the loaded source can start playing.
	OnReady func()

	// OnEnded fires once when the loaded source plays to its natural end.
	// It does not fire for sources replaced by a newer Load.
	OnEnded func()

	// OnError fires once when the source cannot be fetched or decoded.
	// OnReady and OnError are mutually exclusive for a single Load.
	OnError func(err error)
}

// AudioOutput is the single playable-media handle owned by the player service.
// It models one output resource: an assignable source plus transport controls.
// Nothing outside the player service may touch the output directly.
//
// Load is asynchronous: it returns immediately and readiness arrives through
// the callbacks on the output's own schedule. A Load issued while a previous
// source is still loading supersedes it; the superseded source's callbacks
// must not fire afterwards.
//
// Thread-safety: implementations must be safe for concurrent use. Callbacks
// may be invoked from the output's internal goroutines.
type AudioOutput interface {
	// Load replaces the output's active source with the given media URL and
	// begins fetching/decoding it. Any current playback stops.
	Load(mediaURL string, callbacks OutputCallbacks)

	// Play starts or resumes playback of the loaded source.
	// Returns domain.ErrNoMediaLoaded when nothing is loaded.
	Play() error

	// Pause pauses playback, preserving the position.
	Pause() error

	// Stop halts playback and releases the loaded source.
	Stop() error

	// Seek sets the playback position within the loaded source.
	// The caller is responsible for clamping; implementations may clamp again.
	Seek(position time.Duration) error

	// SetVolume applies a volume level in [0, 1] to the output.
	SetVolume(level float64) error

	// Position returns the current playback position, zero when unknown.
	Position() time.Duration

	// Duration returns the loaded source's total length, zero when unknown
	// (for example while media metadata is still loading).
	Duration() time.Duration

	// Close releases the output resource. The output must not invoke any
	// callbacks after Close returns.
	Close() error
}
