package token_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textlens/textlens-api/internal/token"
)

func runRevocationStoreTests(t *testing.T, store token.RevocationStore) {
	t.Helper()
	ctx := t.Context()

	t.Run("unknown session is not revoked", func(t *testing.T) {
		revoked, err := store.IsRevoked(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked session is reported", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("revoking twice is idempotent", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	})

	t.Run("empty session ID is rejected", func(t *testing.T) {
		assert.Error(t, store.Revoke(ctx, "  ", time.Now().Add(time.Hour)))
	})

	t.Run("expired entries no longer count as revoked", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)))

		revoked, err := store.IsRevoked(ctx, "jti-old")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("purge drops only expired entries", func(t *testing.T) {
		require.NoError(t, store.PurgeExpired(ctx))

		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked, "live revocation must survive a purge")
	})
}

func TestMemoryStore(t *testing.T) {
	store := token.NewMemoryStore()
	defer store.Close()

	runRevocationStoreTests(t, store)
}

func TestSQLStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "revocations.db")

	store, err := token.NewSQLStore(t.Context(), dbPath)
	require.NoError(t, err)
	defer store.Close()

	runRevocationStoreTests(t, store)
}

func TestSQLStore_InMemorySQLite(t *testing.T) {
	store, err := token.NewSQLStore(t.Context(), ":memory:")
	require.NoError(t, err)
	defer store.Close()

	runRevocationStoreTests(t, store)
}

func TestSQLStore_UnrecognizedURL(t *testing.T) {
	_, err := token.NewSQLStore(context.Background(), "mysql://nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized database URL format")
}
