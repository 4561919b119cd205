package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines persistence operations for carts
type CartRepository interface {
	// FindByUser returns the user's cart, or shared.ErrNotFound
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	// DeleteByUser removes the user's cart and all its items
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
