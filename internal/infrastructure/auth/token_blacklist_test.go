package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("blacklisted JTI is reported until it expires", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))

		blacklisted, err := bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, blacklisted)

		blacklisted, err = bl.IsBlacklisted(ctx, "jti-unknown")
		require.NoError(t, err)
		assert.False(t, blacklisted)
	})

	t.Run("expired entries are dropped", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		require.NoError(t, bl.AddToBlacklist(ctx, "jti-2", -time.Second))

		blacklisted, err := bl.IsBlacklisted(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, blacklisted)
	})

	t.Run("user invalidation covers tokens issued before it", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()
		userID := "user-1"

		issuedBefore := time.Now().Add(-time.Hour)
		require.NoError(t, bl.AddUserTokensToBlacklist(ctx, userID, 24*time.Hour))

		invalidated, err := bl.IsUserTokenInvalidated(ctx, userID, issuedBefore)
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("tokens issued after the invalidation stay valid", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()
		userID := "user-2"

		require.NoError(t, bl.AddUserTokensToBlacklist(ctx, userID, 24*time.Hour))

		invalidated, err := bl.IsUserTokenInvalidated(ctx, userID, time.Now().Add(time.Second))
		require.NoError(t, err)
		assert.False(t, invalidated)
	})

	t.Run("users without an invalidation record are unaffected", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		invalidated, err := bl.IsUserTokenInvalidated(ctx, "ghost", time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.False(t, invalidated)
	})
}
