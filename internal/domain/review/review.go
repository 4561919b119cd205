package review

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
)

// ModerationStatus represents the moderation state of a review
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// Review is a user rating for a product, gated by a delivered order that
// contains the product. One review per (product, user) pair.
type Review struct {
	shared.BaseAggregateRoot
	ProductID          uuid.UUID `gorm:"type:uuid;index:idx_reviews_product_user,unique;not null"`
	UserID             uuid.UUID `gorm:"type:uuid;index:idx_reviews_product_user,unique;not null"`
	OrderID            uuid.UUID `gorm:"type:uuid;not null"`
	Rating             int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Title              string
	Comment            string
	IsVerifiedPurchase bool             `gorm:"not null;default:false"`
	Status             ModerationStatus `gorm:"type:varchar(20);not null;default:'approved'"`
}

// NewReview creates a verified-purchase review. Eligibility (delivered order
// owned by the user containing the product) is checked by the service before
// this constructor runs.
func NewReview(productID, userID, orderID uuid.UUID, rating int, title, comment string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if len(title) > 150 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 150 characters")
	}

	return &Review{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		ProductID:          productID,
		UserID:             userID,
		OrderID:            orderID,
		Rating:             rating,
		Title:              strings.TrimSpace(title),
		Comment:            strings.TrimSpace(comment),
		IsVerifiedPurchase: true,
		Status:             StatusApproved,
	}, nil
}

// Update changes the rating, title, or comment
func (r *Review) Update(rating *int, title, comment *string) error {
	if rating != nil {
		if *rating < 1 || *rating > 5 {
			return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
		}
		r.Rating = *rating
	}
	if title != nil {
		if len(*title) > 150 {
			return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 150 characters")
		}
		r.Title = strings.TrimSpace(*title)
	}
	if comment != nil {
		r.Comment = strings.TrimSpace(*comment)
	}
	r.UpdatedAt = time.Now()
	return nil
}

// Moderate sets the moderation status (admin operation)
func (r *Review) Moderate(status ModerationStatus) error {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown moderation status")
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return nil
}

// IsApproved returns true when the review counts toward the product rating
func (r *Review) IsApproved() bool {
	return r.Status == StatusApproved
}
