package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
