package kvstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/illmade-knight/go-vacario/pkg/kvstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every Store implementation must share.
func runStoreContract(t *testing.T, store kvstore.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get miss returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("Set then Get round trips", func(t *testing.T) {
		payload := []byte(`[["a",1]]`)
		require.NoError(t, store.Set(ctx, "day-cache", payload))

		got, err := store.Get(ctx, "day-cache")
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("Set replaces the whole value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "activity-cache", []byte("first-and-longer")))
		require.NoError(t, store.Set(ctx, "activity-cache", []byte("second")))

		got, err := store.Get(ctx, "activity-cache")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("Ping succeeds on a reachable store", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("Delete removes and tolerates absent keys", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "to-delete", []byte("x")))
		require.NoError(t, store.Delete(ctx, "to-delete"))

		_, err := store.Get(ctx, "to-delete")
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})
}

func TestInMemoryStore(t *testing.T) {
	runStoreContract(t, kvstore.NewInMemoryStore())
}

func TestInMemoryStore_CopiesPayloads(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewInMemoryStore()

	payload := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", payload))
	payload[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got, "mutating the caller's slice must not change the stored value")

	got[1] = 'z'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	cfg := &kvstore.SQLiteConfig{Path: filepath.Join(t.TempDir(), "vacario.db")}

	store, err := kvstore.NewSQLiteStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	runStoreContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &kvstore.SQLiteConfig{Path: filepath.Join(t.TempDir(), "vacario.db")}

	// Arrange: write through one handle and close it.
	first, err := kvstore.NewSQLiteStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "day-cache", []byte(`[["v1",[]]]`)))
	require.NoError(t, first.Close())

	// Act: reopen the same file.
	second, err := kvstore.NewSQLiteStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	// Assert
	got, err := second.Get(ctx, "day-cache")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[["v1",[]]]`), got)
}

func TestNewSQLiteStore_RequiresPath(t *testing.T) {
	_, err := kvstore.NewSQLiteStore(context.Background(), &kvstore.SQLiteConfig{Path: "  "}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite path is required")
}

func TestSQLiteStore_PathWithURIDelimiters(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "trip?v=1#draft.db")
	cfg := &kvstore.SQLiteConfig{Path: dbPath}

	store, err := kvstore.NewSQLiteStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "day-cache", []byte("[]")))
	require.NoError(t, store.Close())

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "the database file should be created at the literal path")

	reopened, err := kvstore.NewSQLiteStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	got, err := reopened.Get(ctx, "day-cache")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), got)
}

func TestSQLiteStore_PingAfterClose(t *testing.T) {
	ctx := context.Background()
	store, err := kvstore.NewSQLiteStore(ctx, &kvstore.SQLiteConfig{Path: filepath.Join(t.TempDir(), "vacario.db")}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	require.NoError(t, store.Close())

	assert.Error(t, store.Ping(ctx))
}

func TestNewStores_NilConfig(t *testing.T) {
	ctx := context.Background()

	_, err := kvstore.NewSQLiteStore(ctx, nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = kvstore.NewRedisStore(ctx, nil, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis address is required")

	_, err = kvstore.NewFirestoreStore(nil, nil, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection name is required")
}
