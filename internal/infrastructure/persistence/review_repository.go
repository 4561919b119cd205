package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/review"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindByProduct finds a product's reviews matching the filter
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&review.Review{}).Where("product_id = ?", productID),
		filter,
	)
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByUser finds a user's reviews matching the filter
func (r *GormReviewRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&review.Review{}).Where("user_id = ?", userID),
		filter,
	)
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountByProduct counts a product's approved reviews
func (r *GormReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("product_id = ? AND status = ?", productID, review.StatusApproved).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByProductAndUser checks the one-review-per-product rule
func (r *GormReviewRepository) ExistsByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SummarizeApproved computes average and count over approved reviews only
func (r *GormReviewRepository) SummarizeApproved(ctx context.Context, productID uuid.UUID) (review.RatingSummary, error) {
	var row struct {
		Average decimal.NullDecimal
		Count   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id = ? AND status = ?", productID, review.StatusApproved).
		Scan(&row).Error; err != nil {
		return review.RatingSummary{}, err
	}

	summary := review.RatingSummary{Count: row.Count, Average: decimal.Zero}
	if row.Average.Valid {
		summary.Average = row.Average.Decimal.Round(2)
	}
	return summary, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Save(rev).Error
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&review.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "rating":
			query = query.Where("rating = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReviewSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

var _ review.ReviewRepository = (*GormReviewRepository)(nil)
