// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the Songify playback core.
package domain

import (
	"fmt"
	"time"
)

// Track represents a single playable item from the catalog.
// Tracks are immutable value types: construct a new one instead of mutating.
type Track struct {
	// ID is the catalog identifier for the track, when the catalog provides one.
	// It is a secondary key only; queue and playlist identity use MediaURL.
	ID string `json:"id,omitempty"`

	// Title is the song title.
	Title string `json:"title"`

	// Artist is the performing artist display name.
	Artist string `json:"artist"`

	// ArtworkURL points at the cover image for the track.
	ArtworkURL string `json:"image"`

	// MediaURL points at the playable preview audio. Two tracks are the
	// same entity iff their MediaURL values match.
	MediaURL string `json:"url"`
}

// SameAs reports whether two tracks refer to the same playable media.
func (t Track) SameAs(other Track) bool {
	return t.MediaURL == other.MediaURL
}

// String returns a short human-readable description of the track.
func (t Track) String() string {
	return fmt.Sprintf("%s - %s", t.Title, t.Artist)
}

// Artist is a catalog artist summary used by browsing surfaces.
type Artist struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	PictureURL string `json:"picture,omitempty"`
}

// Album is a catalog album summary used by browsing surfaces.
type Album struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	CoverURL string `json:"cover,omitempty"`
}

// PlaybackState is a snapshot of the player at one moment.
// It is produced exclusively by the player service; consumers read it for display.
type PlaybackState struct {
	// CurrentTrack is the track loaded into the output (nil if none).
	CurrentTrack *Track

	// IsPlaying is true while the output is audibly playing.
	// It is always false when CurrentTrack is nil.
	IsPlaying bool

	// Volume is the output volume, clamped to [0, 1].
	Volume float64

	// Progress is the playback position within the current track.
	Progress time.Duration

	// Duration is the total length of the current track, zero when unknown.
	Duration time.Duration

	// Shuffle indicates whether "next" picks a random queue entry.
	Shuffle bool

	// Repeat indicates whether the queue wraps and finished tracks replay.
	Repeat bool
}

// FormatDuration renders a duration as m:ss for transport displays.
// Negative or unknown durations render as "0:00" rather than propagating
// nonsense into the UI.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ClampVolume clamps a volume level to the valid [0, 1] range.
func ClampVolume(level float64) float64 {
	switch {
	case level < 0:
		return 0
	case level > 1:
		return 1
	default:
		return level
	}
}

// ClampPosition clamps a seek position to [0, duration]. When the duration
// is unknown (zero) only the lower bound applies, since the real length may
// exceed anything we have observed yet.
func ClampPosition(position, duration time.Duration) time.Duration {
	if position < 0 {
		return 0
	}
	if duration > 0 && position > duration {
		return duration
	}
	return position
}
