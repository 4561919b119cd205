package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock performs a conditional atomic decrement of a variant's
	// stock: the update only applies when the variant is available and has at
	// least qty units left. A zero-row update reports ErrInsufficientStock,
	// which is the authoritative oversell signal; callers must not rely on a
	// prior read of the stock value.
	DecrementStock(ctx context.Context, productID uuid.UUID, sku string, qty int) error

	// RestoreStock adds qty units back to a variant (order cancellation)
	RestoreStock(ctx context.Context, productID uuid.UUID, sku string, qty int) error

	// AdjustSoldCount shifts the product's sold counter by delta
	AdjustSoldCount(ctx context.Context, productID uuid.UUID, delta int64) error

	// IncrementViewCount bumps the product's view counter
	IncrementViewCount(ctx context.Context, productID uuid.UUID, delta int64) error

	// UpdateRating writes the recomputed aggregate rating
	UpdateRating(ctx context.Context, productID uuid.UUID, average decimal.Decimal, count int64) error
}
