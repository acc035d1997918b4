package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songifyapp/songify/internal/adapter/storage/memory"
)

func TestPreferencesRepository_VolumeRoundTrip(t *testing.T) {
	repo := NewPreferencesRepository(memory.NewStore())

	require.NoError(t, repo.SaveVolume(0.35))

	volume, err := repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.35, volume)
}

func TestPreferencesRepository_VolumeDefaults(t *testing.T) {
	repo := NewPreferencesRepository(memory.NewStore())

	volume, err := repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, DefaultVolume, volume)
}

func TestPreferencesRepository_VolumeIgnoresBadValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not a number", raw: "loud"},
		{name: "negative", raw: "-0.5"},
		{name: "above range", raw: "3.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			require.NoError(t, store.SetString("prefs.volume", tt.raw))

			repo := NewPreferencesRepository(store)
			volume, err := repo.LoadVolume()
			require.NoError(t, err)
			assert.Equal(t, DefaultVolume, volume)
		})
	}
}

func TestPreferencesRepository_SetDefaultVolume(t *testing.T) {
	repo := NewPreferencesRepository(memory.NewStore())
	repo.SetDefaultVolume(0.5)

	volume, err := repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.5, volume)

	// Out-of-range overrides are ignored.
	repo.SetDefaultVolume(2.0)
	volume, err = repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.5, volume)
}

func TestPreferencesRepository_ModeFlags(t *testing.T) {
	repo := NewPreferencesRepository(memory.NewStore())

	shuffle, err := repo.LoadShuffle()
	require.NoError(t, err)
	assert.False(t, shuffle)

	require.NoError(t, repo.SaveShuffle(true))
	require.NoError(t, repo.SaveRepeat(true))

	shuffle, err = repo.LoadShuffle()
	require.NoError(t, err)
	assert.True(t, shuffle)

	repeat, err := repo.LoadRepeat()
	require.NoError(t, err)
	assert.True(t, repeat)
}

func TestPreferencesRepository_LastQuery(t *testing.T) {
	repo := NewPreferencesRepository(memory.NewStore())

	query, err := repo.LoadLastQuery()
	require.NoError(t, err)
	assert.Empty(t, query)

	require.NoError(t, repo.SaveLastQuery("daft punk"))

	query, err = repo.LoadLastQuery()
	require.NoError(t, err)
	assert.Equal(t, "daft punk", query)
}
