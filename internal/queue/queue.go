// Package queue maintains the ordered history of distinct tracks requested
// for playback this session, and resolves what plays next or previous under
// the shuffle/repeat policy.
//
// The queue is an append-only log of "songs touched this session", not a
// curated playlist: it grows as new tracks are played and never shrinks.
// Durable curation lives in the saved playlist instead.
package queue

import (
	"math/rand"
	"sync"
	"time"

	"github.com/songifyapp/songify/internal/domain"
)

// PlayQueue is an ordered, de-duplicated sequence of tracks.
// Identity is the track's media URL; repeated plays of the same track leave
// exactly one entry.
//
// Thread-safety: all operations are guarded by a sync.RWMutex. In practice
// the player service is the only writer, but its ticker goroutine and the
// output callbacks read concurrently.
type PlayQueue struct {
	mu     sync.RWMutex
	tracks []domain.Track
	seen   map[string]int // media URL -> index in tracks
	rng    *rand.Rand
}

// New creates an empty play queue.
func New() *PlayQueue {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates an empty play queue using the given random source for
// shuffle resolution. Tests inject a seeded source here.
func NewWithRand(rng *rand.Rand) *PlayQueue {
	return &PlayQueue{
		tracks: make([]domain.Track, 0),
		seen:   make(map[string]int),
		rng:    rng,
	}
}

// Add appends track to the end of the queue iff no existing entry shares its
// media URL. Returns true when the track was appended. Adding an existing
// track is a harmless no-op, so repeat plays never duplicate the history.
func (q *PlayQueue) Add(track domain.Track) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.seen[track.MediaURL]; exists {
		return false
	}

	q.seen[track.MediaURL] = len(q.tracks)
	q.tracks = append(q.tracks, track)
	return true
}

// Contains reports whether a track with the given media URL is queued.
func (q *PlayQueue) Contains(mediaURL string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	_, exists := q.seen[mediaURL]
	return exists
}

// Len returns the number of queued tracks.
func (q *PlayQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return len(q.tracks)
}

// Tracks returns a copy of the queue in insertion order.
func (q *PlayQueue) Tracks() []domain.Track {
	q.mu.RLock()
	defer q.mu.RUnlock()

	tracks := make([]domain.Track, len(q.tracks))
	copy(tracks, q.tracks)
	return tracks
}

// ResolveNext resolves the track that should play after current.
//
// With shuffle enabled the pick is a uniformly random index over the full
// queue; the current track is a legal pick, so an immediate repeat can
// happen. Without shuffle the candidate is the entry after current; past the
// end, repeat wraps to the first entry and otherwise there is no next track.
// A current track that is not in the queue resolves to nothing.
func (q *PlayQueue) ResolveNext(current domain.Track, shuffle, repeat bool) (domain.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return domain.Track{}, false
	}

	if shuffle {
		return q.tracks[q.rng.Intn(len(q.tracks))], true
	}

	i, exists := q.seen[current.MediaURL]
	if !exists {
		return domain.Track{}, false
	}

	next := i + 1
	if next >= len(q.tracks) {
		if !repeat {
			return domain.Track{}, false
		}
		next = 0
	}
	return q.tracks[next], true
}

// ResolvePrevious resolves the track that should play before current.
//
// Shuffle does not affect "previous": only "next" randomizes, mirroring the
// asymmetric policy of the transport. Before the start, repeat wraps to the
// last entry and otherwise there is no previous track.
func (q *PlayQueue) ResolvePrevious(current domain.Track, repeat bool) (domain.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return domain.Track{}, false
	}

	i, exists := q.seen[current.MediaURL]
	if !exists {
		return domain.Track{}, false
	}

	prev := i - 1
	if prev < 0 {
		if !repeat {
			return domain.Track{}, false
		}
		prev = len(q.tracks) - 1
	}
	return q.tracks[prev], true
}
