package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shoemarket/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles registration, login, and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a customer account and returns an authenticated session
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user, err := identity.NewUser(req.Email, req.Username, req.Password, identity.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, user)
}

// RegisterSeller creates a seller account with a store name
func (s *AuthService) RegisterSeller(ctx context.Context, req RegisterSellerRequest) (*AuthResponse, error) {
	user, err := identity.NewSeller(req.Email, req.Username, req.Password, req.StoreName)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, user)
}

func (s *AuthService) register(ctx context.Context, user *identity.User) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	return s.issueSession(user)
}

// Login authenticates by email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warn("login for unknown email", zap.String("email", req.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.IsActive() {
		s.logger.Warn("login for suspended account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_SUSPENDED", "Account has been suspended")
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds; the timestamp is informational
		s.logger.Error("failed to record login time", zap.Error(err))
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return s.issueSession(user)
}

// Refresh exchanges a valid refresh token for a fresh pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("failed to check token invalidation", zap.Error(err))
	} else if invalidated {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has been revoked. Please log in again")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_SUSPENDED", "Account is no longer active")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Email, user.Role.String())
	if err != nil {
		return nil, mapTokenError(err)
	}

	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the current access token and all refresh tokens of the user
func (s *AuthService) Logout(ctx context.Context, actor identity.Actor, accessToken string) error {
	if !actor.IsAuthenticated() {
		return shared.ErrUnauthorized
	}

	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err == nil && claims.ID != "" {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("failed to blacklist token", zap.Error(err))
		}
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, actor.UserID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("failed to invalidate user sessions", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("user logged out", zap.String("user_id", actor.UserID.String()))
	return nil
}

// Profile returns the authenticated user's account
func (s *AuthService) Profile(ctx context.Context, actor identity.Actor) (*UserResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes mutable profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, actor identity.Actor, req UpdateProfileRequest) (*UserResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.Username, req.Phone, req.AvatarURL); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword verifies the old password and rotates to a new one,
// revoking existing sessions
func (s *AuthService) ChangePassword(ctx context.Context, actor identity.Actor, req ChangePasswordRequest) error {
	if !actor.IsAuthenticated() {
		return shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(req.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, actor.UserID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("failed to revoke sessions after password change", zap.Error(err))
	}

	s.logger.Info("password changed", zap.String("user_id", actor.UserID.String()))
	return nil
}

func (s *AuthService) issueSession(user *identity.User) (*AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.String(),
	})
	if err != nil {
		s.logger.Error("failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &AuthResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}, nil
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken, auth.ErrInvalidClaims, auth.ErrInvalidTokenType:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
