package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	ActorKey      = "actor"
	AccessToken   = "access_token"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// Logger for middleware logging
	Logger *zap.Logger
}

// RequireAuth creates JWT authentication middleware that rejects requests
// without a valid access token
func RequireAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}

		claims, err := authenticate(c, cfg, token)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token validation failed")
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

// OptionalAuth resolves the actor when a valid token is present but lets
// unauthenticated requests through as Anonymous. Used on public catalog and
// review endpoints where sellers and admins see more than visitors.
func OptionalAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token != "" {
			if claims, err := authenticate(c, cfg, token); err == nil {
				setIdentity(c, claims, token)
			}
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, BearerPrefix)
}

func authenticate(c *gin.Context, cfg JWTMiddlewareConfig, token string) (*auth.Claims, error) {
	claims, err := cfg.JWTService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	if cfg.TokenBlacklist != nil {
		ctx := c.Request.Context()

		// Individual logout blacklists the token's JTI
		if claims.ID != "" {
			blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
			if err != nil {
				// Fail open for availability
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check token blacklist",
						zap.String("jti", claims.ID),
						zap.Error(err))
				}
			} else if blacklisted {
				return nil, auth.ErrTokenBlacklisted
			}
		}

		// Password change or forced logout invalidates every token issued
		// before the invalidation timestamp
		if claims.UserID != "" {
			invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check user token invalidation",
						zap.String("user_id", claims.UserID),
						zap.Error(err))
				}
			} else if invalidated {
				return nil, auth.ErrTokenBlacklisted
			}
		}
	}

	return claims, nil
}

func setIdentity(c *gin.Context, claims *auth.Claims, token string) {
	c.Set(JWTClaimsKey, claims)
	c.Set(AccessToken, token)

	userID, err := claims.GetUserUUID()
	if err != nil {
		return
	}
	c.Set(ActorKey, identity.Actor{
		UserID: userID,
		Role:   identity.Role(claims.Role),
	})
}

func abortUnauthorized(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "ERR_UNAUTHORIZED"
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = "ERR_TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errorCode,
			"message": errorMessage,
		},
	})
}

// GetActor retrieves the authenticated actor from the context, returning
// Anonymous when the request carries no valid token
func GetActor(c *gin.Context) identity.Actor {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(identity.Actor); ok {
			return actor
		}
	}
	return identity.Anonymous
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAccessToken retrieves the raw bearer token from gin.Context
func GetAccessToken(c *gin.Context) string {
	return c.GetString(AccessToken)
}

// RequireRole aborts with 403 unless the actor has one of the given roles.
// Must run after RequireAuth.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ERR_FORBIDDEN",
				"message": "Insufficient permissions",
			},
		})
	}
}
