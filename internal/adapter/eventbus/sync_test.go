package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/logger"
)

func newTestBus() *SyncEventBus {
	return NewSyncEventBus(logger.NewTestLogger())
}

func testTrack() domain.Track {
	return domain.Track{
		Title:    "Test Track",
		Artist:   "Test Artist",
		MediaURL: "https://cdn.example.com/preview.mp3",
	}
}

func TestSyncEventBus_PublishDeliversToSubscriber(t *testing.T) {
	bus := newTestBus()

	var received []domain.Event
	bus.Subscribe(domain.EventTrackStarted, func(e domain.Event) {
		received = append(received, e)
	})

	bus.Publish(domain.NewTrackStartedEvent(testTrack()))

	require.Len(t, received, 1)
	assert.Equal(t, domain.EventTrackStarted, received[0].Type())
}

func TestSyncEventBus_PublishFiltersByType(t *testing.T) {
	bus := newTestBus()

	var count int
	bus.Subscribe(domain.EventTrackPaused, func(domain.Event) {
		count++
	})

	bus.Publish(domain.NewTrackStartedEvent(testTrack()))
	assert.Zero(t, count)
}

func TestSyncEventBus_SubscribeAll(t *testing.T) {
	bus := newTestBus()

	var types []domain.EventType
	bus.SubscribeAll(func(e domain.Event) {
		types = append(types, e.Type())
	})

	bus.Publish(domain.NewTrackStartedEvent(testTrack()))
	bus.Publish(domain.NewVolumeChangedEvent(0.5))

	assert.Equal(t, []domain.EventType{domain.EventTrackStarted, domain.EventVolumeChanged}, types)
}

func TestSyncEventBus_Unsubscribe(t *testing.T) {
	bus := newTestBus()

	var count int
	id := bus.Subscribe(domain.EventTrackStarted, func(domain.Event) {
		count++
	})

	bus.Publish(domain.NewTrackStartedEvent(testTrack()))
	bus.Unsubscribe(id)
	bus.Publish(domain.NewTrackStartedEvent(testTrack()))

	assert.Equal(t, 1, count)
	assert.Zero(t, bus.SubscriberCount())

	// Unknown identifiers are a no-op.
	bus.Unsubscribe("sub-999")
}

func TestSyncEventBus_HandlerPanicRecovered(t *testing.T) {
	bus := newTestBus()

	bus.Subscribe(domain.EventTrackStarted, func(domain.Event) {
		panic("broken consumer")
	})

	var delivered bool
	bus.Subscribe(domain.EventTrackStarted, func(domain.Event) {
		delivered = true
	})

	// The panic must not stop delivery to later subscribers.
	bus.Publish(domain.NewTrackStartedEvent(testTrack()))
	assert.True(t, delivered)
}

func TestSyncEventBus_SubscribeFromHandler(t *testing.T) {
	bus := newTestBus()

	var nested bool
	bus.Subscribe(domain.EventTrackStarted, func(domain.Event) {
		bus.Subscribe(domain.EventTrackStopped, func(domain.Event) {
			nested = true
		})
	})

	bus.Publish(domain.NewTrackStartedEvent(testTrack()))
	bus.Publish(domain.NewTrackStoppedEvent(testTrack()))

	assert.True(t, nested)
}

func TestSyncEventBus_ClosedBusDropsEvents(t *testing.T) {
	bus := newTestBus()

	var count int
	bus.Subscribe(domain.EventTrackStarted, func(domain.Event) {
		count++
	})

	require.NoError(t, bus.Close())
	bus.Publish(domain.NewTrackStartedEvent(testTrack()))

	assert.Zero(t, count)
	assert.Error(t, bus.Close())
}

func TestSyncEventBus_ConcurrentPublish(t *testing.T) {
	bus := newTestBus()

	var mu sync.Mutex
	var count int
	bus.Subscribe(domain.EventTrackProgress, func(domain.Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(domain.NewTrackProgressEvent(0, 0))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, count)
}
