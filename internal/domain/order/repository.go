package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)
	// FindBySeller returns orders containing at least one item from the seller
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)
	CountBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// ExistsDeliveredWithProduct reports whether the user has a delivered
	// order containing the product (review eligibility check)
	ExistsDeliveredWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Save(ctx context.Context, o *Order) error
	// SaveWithLock saves with an optimistic version check, returning
	// shared.ErrConcurrencyConflict when the stored version moved on
	SaveWithLock(ctx context.Context, o *Order) error
	// GenerateOrderNumber produces the next order number (date-prefixed,
	// unique across the store)
	GenerateOrderNumber(ctx context.Context) (string, error)
}
