package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songifyapp/songify/internal/logger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "songify.db"), logger.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestStore_SetAndGet(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetString("playlist", `[{"title":"x"}]`))
	assert.Equal(t, `[{"title":"x"}]`, store.String("playlist"))
}

func TestStore_MissingKey(t *testing.T) {
	store := openTestStore(t)

	assert.Empty(t, store.String("nope"))
}

func TestStore_OverwriteValue(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetString("prefs.volume", "0.7"))
	require.NoError(t, store.SetString("prefs.volume", "0.3"))
	assert.Equal(t, "0.3", store.String("prefs.volume"))
}

func TestStore_Remove(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetString("key", "value"))
	require.NoError(t, store.Remove("key"))
	assert.Empty(t, store.String("key"))

	// Absent key removal is a no-op.
	require.NoError(t, store.Remove("key"))
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songify.db")
	log := logger.NewTestLogger()

	store, err := Open(path, log)
	require.NoError(t, err)
	require.NoError(t, store.SetString("playlist", "[]"))
	require.NoError(t, store.Close())

	reopened, err := Open(path, log)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	assert.Equal(t, "[]", reopened.String("playlist"))
}

func TestStore_ClosedStoreRejectsWrites(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "songify.db"), logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.Error(t, store.SetString("key", "value"))
	assert.Empty(t, store.String("key"))
}
