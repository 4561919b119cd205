package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RatingSummary is the aggregate over a product's approved reviews
type RatingSummary struct {
	Average decimal.Decimal
	Count   int64
}

// ReviewRepository defines persistence operations for reviews
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Review, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	ExistsByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	// SummarizeApproved computes average and count over approved reviews only
	SummarizeApproved(ctx context.Context, productID uuid.UUID) (RatingSummary, error)
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
