package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shoemarket/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the role of a user in the marketplace
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a marketplace account (customer, seller, or admin)
type User struct {
	shared.BaseAggregateRoot
	Email        string     `gorm:"uniqueIndex;not null"`
	Username     string     `gorm:"not null"`
	PasswordHash string     `gorm:"not null"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'customer'"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Phone        string
	AvatarURL    string
	StoreName    string // Only meaningful for sellers
	LastLoginAt  *time.Time
}

// NewUser creates a new active user with a hashed password
func NewUser(email, username, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	if len(username) < 2 || len(username) > 50 {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be between 2 and 50 characters")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Username:          username,
		PasswordHash:      string(hash),
		Role:              role,
		Status:            UserStatusActive,
	}

	return user, nil
}

// NewSeller creates a seller account with a store name
func NewSeller(email, username, password, storeName string) (*User, error) {
	if strings.TrimSpace(storeName) == "" {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	user, err := NewUser(email, username, password, RoleSeller)
	if err != nil {
		return nil, err
	}
	user.StoreName = strings.TrimSpace(storeName)
	return user, nil
}

// CheckPassword verifies the given plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword validates and replaces the password hash
func (u *User) ChangePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// UpdateProfile updates mutable profile fields
func (u *User) UpdateProfile(username, phone, avatarURL string) error {
	username = strings.TrimSpace(username)
	if username != "" {
		if len(username) < 2 || len(username) > 50 {
			return shared.NewDomainError("INVALID_USERNAME", "Username must be between 2 and 50 characters")
		}
		u.Username = username
	}
	if phone != "" {
		u.Phone = phone
	}
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	u.UpdatedAt = time.Now()
	return nil
}

// RecordLogin updates the last login timestamp
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// Suspend marks the user as suspended
func (u *User) Suspend() error {
	if u.Status == UserStatusSuspended {
		return shared.ErrInvalidState
	}
	u.Status = UserStatusSuspended
	u.UpdatedAt = time.Now()
	return nil
}

// Activate re-activates a suspended user
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.ErrInvalidState
	}
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if the user can authenticate
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// DisplayName returns the store name for sellers, otherwise the username
func (u *User) DisplayName() string {
	if u.Role == RoleSeller && u.StoreName != "" {
		return u.StoreName
	}
	return u.Username
}

// IsSeller returns true for seller accounts
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// IsAdmin returns true for admin accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
