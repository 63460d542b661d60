package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "pcp-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSetGet(t *testing.T) {
	store := openTestStore(t)

	_, found, err := store.Get("db_type")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("db_type", "supabase"))

	value, found, err := store.Get("db_type")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "supabase", value)
}

func TestStoreSetOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set("sheets_api_key", "old"))
	require.NoError(t, store.Set("sheets_api_key", "new"))

	value, found, err := store.Get("sheets_api_key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", value)
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set("google_oauth_token", "tok"))
	require.NoError(t, store.Delete("google_oauth_token"))

	_, found, err := store.Get("google_oauth_token")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting again is a no-op
	require.NoError(t, store.Delete("google_oauth_token"))
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcp-test.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("db_type", "google_sheets"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get("db_type")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "google_sheets", value)
}
