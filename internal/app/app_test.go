package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songifyapp/songify/internal/config"
	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/testutil"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Log.Level = "warn"

	application, err := NewApplication(cfg, Options{
		UseMockAudio:   true,
		UseMemoryStore: true,
	})
	require.NoError(t, err)
	t.Cleanup(application.Shutdown)

	return application
}

func TestNewApplication_WiresServices(t *testing.T) {
	application := newTestApplication(t)

	require.NotNil(t, application.Player())
	require.NotNil(t, application.Playlist())
	require.NotNil(t, application.Search())
	require.NotNil(t, application.EventBus())
	require.NotNil(t, application.Logger())
}

func TestApplication_PlaybackThroughWiring(t *testing.T) {
	application := newTestApplication(t)

	track := domain.Track{
		Title:    "Wired Track",
		Artist:   "Test Artist",
		MediaURL: "https://cdn.example.com/wired.mp3",
	}
	require.NoError(t, application.Player().Play(track))

	state := application.Player().State()
	require.NotNil(t, state.CurrentTrack)
	assert.True(t, state.IsPlaying)

	// The default volume flows from config through preferences.
	assert.Equal(t, config.DefaultConfig().Player.DefaultVolume, state.Volume)
}

func TestApplication_ShutdownReleasesEverything(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	cfg := config.DefaultConfig()
	cfg.Log.Level = "warn"

	application, err := NewApplication(cfg, Options{
		UseMockAudio:   true,
		UseMemoryStore: true,
	})
	require.NoError(t, err)

	require.NoError(t, application.Player().Play(domain.Track{
		Title:    "Short Lived",
		MediaURL: "https://cdn.example.com/short.mp3",
	}))

	application.Shutdown()

	assert.False(t, application.Player().State().IsPlaying)
}
