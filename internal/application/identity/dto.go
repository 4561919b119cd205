package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/identity"
)

// RegisterRequest creates a customer account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RegisterSellerRequest creates a seller account with a store
type RegisterSellerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=2,max=50"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	StoreName string `json:"store_name" binding:"required,min=2,max=100"`
}

// LoginRequest authenticates a user by email
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest changes mutable profile fields
type UpdateProfileRequest struct {
	Username  string `json:"username" binding:"omitempty,min=2,max=50"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

// ChangePasswordRequest rotates the account password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Phone       string     `json:"phone,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	StoreName   string     `json:"store_name,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse bundles tokens with the authenticated user
type AuthResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// TokenResponse carries a refreshed token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ToUserResponse maps a user aggregate to its public view
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Role:        u.Role.String(),
		Status:      string(u.Status),
		Phone:       u.Phone,
		AvatarURL:   u.AvatarURL,
		StoreName:   u.StoreName,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
