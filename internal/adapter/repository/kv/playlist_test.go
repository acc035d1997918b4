package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songifyapp/songify/internal/adapter/storage/memory"
	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/logger"
)

func sampleTracks() []domain.Track {
	return []domain.Track{
		{Title: "One More Time", Artist: "Daft Punk", MediaURL: "https://cdn.example.com/1.mp3"},
		{Title: "Around the World", Artist: "Daft Punk", MediaURL: "https://cdn.example.com/2.mp3"},
	}
}

func TestPlaylistRepository_SaveAndLoad(t *testing.T) {
	repo := NewPlaylistRepository(memory.NewStore(), logger.NewTestLogger())

	require.NoError(t, repo.Save(sampleTracks()))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleTracks(), loaded)
}

func TestPlaylistRepository_LoadEmpty(t *testing.T) {
	repo := NewPlaylistRepository(memory.NewStore(), logger.NewTestLogger())

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.NotNil(t, loaded)
}

func TestPlaylistRepository_LoadCorruptData(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.SetString("playlist", "{not json"))

	repo := NewPlaylistRepository(store, logger.NewTestLogger())

	// Corrupt state costs the playlist, not the application.
	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestPlaylistRepository_Clear(t *testing.T) {
	repo := NewPlaylistRepository(memory.NewStore(), logger.NewTestLogger())

	require.NoError(t, repo.Save(sampleTracks()))
	require.NoError(t, repo.Clear())

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestPlaylistRepository_StoredFormat(t *testing.T) {
	store := memory.NewStore()
	repo := NewPlaylistRepository(store, logger.NewTestLogger())

	require.NoError(t, repo.Save([]domain.Track{{
		Title:      "One More Time",
		Artist:     "Daft Punk",
		ArtworkURL: "https://cdn.example.com/cover.jpg",
		MediaURL:   "https://cdn.example.com/1.mp3",
	}}))

	// The on-disk layout stays compatible with the web client's local
	// storage schema.
	assert.JSONEq(t,
		`[{"title":"One More Time","artist":"Daft Punk","image":"https://cdn.example.com/cover.jpg","url":"https://cdn.example.com/1.mp3"}]`,
		store.String("playlist"))
}
