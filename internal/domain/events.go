// Package domain defines events for the event-driven architecture.
// Events decouple the playback services from the presentation surfaces.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventTrackLoading   EventType = "track.loading"
	EventTrackStarted   EventType = "track.started"
	EventTrackPaused    EventType = "track.paused"
	EventTrackResumed   EventType = "track.resumed"
	EventTrackStopped   EventType = "track.stopped"
	EventTrackCompleted EventType = "track.completed"
	EventTrackProgress  EventType = "track.progress"
	EventTrackError     EventType = "track.error"

	// Transport mode events
	EventVolumeChanged  EventType = "volume.changed"
	EventShuffleToggled EventType = "shuffle.toggled"
	EventRepeatToggled  EventType = "repeat.toggled"

	// Queue / saved playlist events
	EventQueueChanged    EventType = "queue.changed"
	EventPlaylistUpdated EventType = "playlist.updated"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackLoadingEvent is published when a track has been handed to the output
// and the output has not yet signalled readiness.
type TrackLoadingEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackLoadingEvent) Type() EventType {
	return EventTrackLoading
}

// NewTrackLoadingEvent creates a new TrackLoadingEvent.
func NewTrackLoadingEvent(track Track) TrackLoadingEvent {
	return TrackLoadingEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackStartedEvent is published when playback of a track genuinely starts.
type TrackStartedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType {
	return EventTrackStarted
}

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(track Track) TrackStartedEvent {
	return TrackStartedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackPausedEvent is published when playback is paused.
type TrackPausedEvent struct {
	baseEvent
	Track    Track
	Position time.Duration
}

// Type returns the event type.
func (e TrackPausedEvent) Type() EventType {
	return EventTrackPaused
}

// NewTrackPausedEvent creates a new TrackPausedEvent.
func NewTrackPausedEvent(track Track, position time.Duration) TrackPausedEvent {
	return TrackPausedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Position:  position,
	}
}

// TrackResumedEvent is published when paused playback resumes.
type TrackResumedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackResumedEvent) Type() EventType {
	return EventTrackResumed
}

// NewTrackResumedEvent creates a new TrackResumedEvent.
func NewTrackResumedEvent(track Track) TrackResumedEvent {
	return TrackResumedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackStoppedEvent is published when playback stops without a successor,
// for example when the non-repeating queue runs out.
type TrackStoppedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackStoppedEvent) Type() EventType {
	return EventTrackStopped
}

// NewTrackStoppedEvent creates a new TrackStoppedEvent.
func NewTrackStoppedEvent(track Track) TrackStoppedEvent {
	return TrackStoppedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackCompletedEvent is published when a track finishes playing naturally.
type TrackCompletedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackCompletedEvent) Type() EventType {
	return EventTrackCompleted
}

// NewTrackCompletedEvent creates a new TrackCompletedEvent.
func NewTrackCompletedEvent(track Track) TrackCompletedEvent {
	return TrackCompletedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackProgressEvent is published periodically during playback.
type TrackProgressEvent struct {
	baseEvent
	Position time.Duration
	Duration time.Duration
}

// Type returns the event type.
func (e TrackProgressEvent) Type() EventType {
	return EventTrackProgress
}

// NewTrackProgressEvent creates a new TrackProgressEvent.
func NewTrackProgressEvent(position, duration time.Duration) TrackProgressEvent {
	return TrackProgressEvent{
		baseEvent: newBaseEvent(),
		Position:  position,
		Duration:  duration,
	}
}

// TrackErrorEvent is published when the output cannot load or play a track.
type TrackErrorEvent struct {
	baseEvent
	Track Track
	Err   error
}

// Type returns the event type.
func (e TrackErrorEvent) Type() EventType {
	return EventTrackError
}

// NewTrackErrorEvent creates a new TrackErrorEvent.
func NewTrackErrorEvent(track Track, err error) TrackErrorEvent {
	return TrackErrorEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Err:       err,
	}
}

// VolumeChangedEvent is published when the volume changes.
type VolumeChangedEvent struct {
	baseEvent
	Volume float64 // 0.0 to 1.0
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType {
	return EventVolumeChanged
}

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64) VolumeChangedEvent {
	return VolumeChangedEvent{
		baseEvent: newBaseEvent(),
		Volume:    volume,
	}
}

// ShuffleToggledEvent is published when shuffle mode is toggled.
type ShuffleToggledEvent struct {
	baseEvent
	Enabled bool
}

// Type returns the event type.
func (e ShuffleToggledEvent) Type() EventType {
	return EventShuffleToggled
}

// NewShuffleToggledEvent creates a new ShuffleToggledEvent.
func NewShuffleToggledEvent(enabled bool) ShuffleToggledEvent {
	return ShuffleToggledEvent{
		baseEvent: newBaseEvent(),
		Enabled:   enabled,
	}
}

// RepeatToggledEvent is published when repeat mode is toggled.
type RepeatToggledEvent struct {
	baseEvent
	Enabled bool
}

// Type returns the event type.
func (e RepeatToggledEvent) Type() EventType {
	return EventRepeatToggled
}

// NewRepeatToggledEvent creates a new RepeatToggledEvent.
func NewRepeatToggledEvent(enabled bool) RepeatToggledEvent {
	return RepeatToggledEvent{
		baseEvent: newBaseEvent(),
		Enabled:   enabled,
	}
}

// QueueChangedEvent is published when a track joins the play queue.
type QueueChangedEvent struct {
	baseEvent
	Queue []Track
	Added Track
}

// Type returns the event type.
func (e QueueChangedEvent) Type() EventType {
	return EventQueueChanged
}

// NewQueueChangedEvent creates a new QueueChangedEvent.
func NewQueueChangedEvent(queue []Track, added Track) QueueChangedEvent {
	return QueueChangedEvent{
		baseEvent: newBaseEvent(),
		Queue:     queue,
		Added:     added,
	}
}

// PlaylistUpdatedEvent is published when the saved playlist changes.
type PlaylistUpdatedEvent struct {
	baseEvent
	Tracks []Track
}

// Type returns the event type.
func (e PlaylistUpdatedEvent) Type() EventType {
	return EventPlaylistUpdated
}

// NewPlaylistUpdatedEvent creates a new PlaylistUpdatedEvent.
func NewPlaylistUpdatedEvent(tracks []Track) PlaylistUpdatedEvent {
	return PlaylistUpdatedEvent{
		baseEvent: newBaseEvent(),
		Tracks:    tracks,
	}
}
