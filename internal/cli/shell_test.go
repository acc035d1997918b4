package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songifyapp/songify/internal/app"
	"github.com/songifyapp/songify/internal/config"
	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/testutil"
)

func runShell(t *testing.T, application *app.Application, input string) string {
	t.Helper()

	var out bytes.Buffer
	shell := NewShell(application, strings.NewReader(input), &out)
	require.NoError(t, shell.Run(context.Background()))
	return out.String()
}

func newShellApp(t *testing.T) *app.Application {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Log.Level = "warn"

	application, err := app.NewApplication(cfg, app.Options{
		UseMockAudio:   true,
		UseMemoryStore: true,
	})
	require.NoError(t, err)
	t.Cleanup(application.Shutdown)
	return application
}

func TestShell_QuitAndEOF(t *testing.T) {
	application := newShellApp(t)

	out := runShell(t, application, "quit\n")
	assert.Contains(t, out, "songify")

	// EOF without quit also terminates cleanly.
	out = runShell(t, application, "")
	assert.Contains(t, out, "songify")
}

func TestShell_QuitReleasesReaderGoroutine(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	cfg := config.DefaultConfig()
	cfg.Log.Level = "warn"
	application, err := app.NewApplication(cfg, app.Options{
		UseMockAudio:   true,
		UseMemoryStore: true,
	})
	require.NoError(t, err)

	// Input continues past the quit command, so the reader goroutine is
	// mid-send when Run returns; it must still wind down.
	var out bytes.Buffer
	shell := NewShell(application, strings.NewReader("quit\nnever read\n"), &out)
	require.NoError(t, shell.Run(context.Background()))

	application.Shutdown()
}

func TestShell_UnknownCommand(t *testing.T) {
	application := newShellApp(t)

	out := runShell(t, application, "dance\nquit\n")
	assert.Contains(t, out, `unknown command "dance"`)
}

func TestShell_PlayFromPlaylistResults(t *testing.T) {
	application := newShellApp(t)
	require.NoError(t, application.Playlist().Add(domain.Track{
		Title:    "One More Time",
		Artist:   "Daft Punk",
		MediaURL: "https://cdn.example.com/1.mp3",
	}))

	out := runShell(t, application, "playlist\nplay 1\nstatus\nquit\n")

	assert.Contains(t, out, "1. Daft Punk - One More Time")
	assert.Contains(t, out, "now playing: Daft Punk - One More Time")
	assert.Contains(t, out, "playing: Daft Punk - One More Time")

	state := application.Player().State()
	require.NotNil(t, state.CurrentTrack)
	assert.True(t, state.IsPlaying)
}

func TestShell_SaveReportsDuplicate(t *testing.T) {
	application := newShellApp(t)
	require.NoError(t, application.Playlist().Add(domain.Track{
		Title:    "One More Time",
		Artist:   "Daft Punk",
		MediaURL: "https://cdn.example.com/1.mp3",
	}))

	out := runShell(t, application, "playlist\nsave 1\nquit\n")
	assert.Contains(t, out, "already in the playlist")
}

func TestShell_BadIndexIsAnError(t *testing.T) {
	application := newShellApp(t)

	out := runShell(t, application, "play 3\nquit\n")
	assert.Contains(t, out, "no result number 3")
}

func TestShell_VolumeAndModes(t *testing.T) {
	application := newShellApp(t)

	out := runShell(t, application, "vol 40\nvol\nshuffle\nrepeat\nquit\n")

	assert.Contains(t, out, "volume 40%")
	assert.Contains(t, out, "shuffle on")
	assert.Contains(t, out, "repeat on")

	state := application.Player().State()
	assert.InDelta(t, 0.4, state.Volume, 1e-9)
	assert.True(t, state.Shuffle)
	assert.True(t, state.Repeat)
}
