package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-access-secret-access",
		RefreshSecret:          "refresh-secret-refresh-secret-refresh",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shoemarket-test",
		MaxRefreshCount:        2,
	})
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	t.Run("issues a valid pair", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID: userID,
			Email:  "jamie@example.com",
			Role:   "customer",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, "Bearer", pair.TokenType)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "jamie@example.com", claims.Email)
		assert.Equal(t, "customer", claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("refresh token carries identity only", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID: userID,
			Email:  "jamie@example.com",
			Role:   "customer",
		})
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Empty(t, claims.Email)
		assert.Equal(t, 0, claims.RefreshCount)
	})
}

func TestValidateToken(t *testing.T) {
	svc := newTestJWTService()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects cross-type use", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		// Access and refresh tokens use different secrets, so a swapped
		// token fails signature validation before the type check
		_, err = svc.ValidateRefreshToken(pair.AccessToken)
		assert.Error(t, err)
		_, err = svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "some-other-secret-entirely",
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
		})
		pair, err := other.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("reports expiry", func(t *testing.T) {
		shortLived := NewJWTService(config.JWTConfig{
			Secret:                 "access-secret-access-secret-access",
			RefreshSecret:          "refresh-secret-refresh-secret-refresh",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
		})
		pair, err := shortLived.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = shortLived.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	freshPair := func(t *testing.T) *TokenPair {
		t.Helper()
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID: userID,
			Email:  "jamie@example.com",
			Role:   "customer",
		})
		require.NoError(t, err)
		return pair
	}

	t.Run("issues a new pair and increments the refresh count", func(t *testing.T) {
		pair := freshPair(t)

		next, err := svc.RefreshTokenPair(pair.RefreshToken, "jamie@example.com", "customer")
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(next.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.RefreshCount)
	})

	t.Run("picks up a role change", func(t *testing.T) {
		pair := freshPair(t)

		next, err := svc.RefreshTokenPair(pair.RefreshToken, "jamie@example.com", "seller")
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "seller", claims.Role)
	})

	t.Run("stops at the refresh limit", func(t *testing.T) {
		pair := freshPair(t)

		var err error
		token := pair.RefreshToken
		for i := 0; i < 2; i++ {
			var next *TokenPair
			next, err = svc.RefreshTokenPair(token, "jamie@example.com", "customer")
			require.NoError(t, err)
			token = next.RefreshToken
		}

		_, err = svc.RefreshTokenPair(token, "jamie@example.com", "customer")
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		pair := freshPair(t)

		_, err := svc.RefreshTokenPair(pair.AccessToken, "jamie@example.com", "customer")
		assert.Error(t, err)
	})
}

func TestClaimsHelpers(t *testing.T) {
	svc := newTestJWTService()

	t.Run("GetUserUUID parses the subject", func(t *testing.T) {
		userID := uuid.New()
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: userID})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("GetRemainingTTL is positive for a live token", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		ttl := claims.GetRemainingTTL()
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, 15*time.Minute)
	})

	t.Run("falls back to the access secret when no refresh secret is set", func(t *testing.T) {
		single := NewJWTService(config.JWTConfig{
			Secret:                 "only-one-secret-here",
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
		})
		pair, err := single.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = single.ValidateRefreshToken(pair.RefreshToken)
		assert.NoError(t, err)
	})
}
