package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService implements admin account management
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// List returns accounts for the admin console
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetByID returns one account
func (s *UserService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, shared.ErrForbidden
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Suspend blocks an account from authenticating
func (s *UserService) Suspend(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserResponse, error) {
	return s.setStatus(ctx, actor, id, func(u *identity.User) error { return u.Suspend() })
}

// Activate re-enables a suspended account
func (s *UserService) Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserResponse, error) {
	return s.setStatus(ctx, actor, id, func(u *identity.User) error { return u.Activate() })
}

func (s *UserService) setStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, apply func(*identity.User) error) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	if actor.UserID == id {
		return nil, shared.NewDomainError("SELF_STATUS_CHANGE", "Admins cannot change their own account status")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user status changed",
		zap.String("user_id", id.String()),
		zap.String("status", string(user.Status)))

	resp := ToUserResponse(user)
	return &resp, nil
}
