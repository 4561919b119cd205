package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/review"
)

// CreateReviewRequest submits a review for a delivered product
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Title     string    `json:"title" binding:"max=150"`
	Comment   string    `json:"comment" binding:"max=2000"`
}

// UpdateReviewRequest edits an existing review; nil fields are left alone
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Title   *string `json:"title" binding:"omitempty,max=150"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

// ModerateReviewRequest sets the moderation status (admin only)
type ModerateReviewRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// Response is a review as returned by the API
type Response struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"product_id"`
	UserID             uuid.UUID `json:"user_id"`
	OrderID            uuid.UUID `json:"order_id"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title,omitempty"`
	Comment            string    `json:"comment,omitempty"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ToResponse maps a review aggregate to its API response
func ToResponse(r *review.Review) Response {
	return Response{
		ID:                 r.ID,
		ProductID:          r.ProductID,
		UserID:             r.UserID,
		OrderID:            r.OrderID,
		Rating:             r.Rating,
		Title:              r.Title,
		Comment:            r.Comment,
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		Status:             string(r.Status),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// ToResponses maps a slice of reviews
func ToResponses(reviews []review.Review) []Response {
	out := make([]Response, len(reviews))
	for i := range reviews {
		out[i] = ToResponse(&reviews[i])
	}
	return out
}
