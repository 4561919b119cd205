package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/order"
	"github.com/shoemarket/backend/internal/domain/review"
	"github.com/shoemarket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReviewService implements review use cases. Reviews are gated by a delivered
// order owned by the reviewer that contains the product.
type ReviewService struct {
	reviewRepo  review.ReviewRepository
	orderRepo   order.OrderRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo review.ReviewRepository,
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create submits a review after checking purchase eligibility and the
// one-review-per-product rule
func (s *ReviewService) Create(ctx context.Context, actor identity.Actor, req CreateReviewRequest) (*Response, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	o, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.UserID {
		return nil, shared.ErrForbidden
	}
	if o.Status != order.StatusDelivered {
		return nil, shared.ErrNotEligible
	}
	if !o.ContainsProduct(req.ProductID) {
		return nil, shared.ErrNotEligible
	}

	exists, err := s.reviewRepo.ExistsByProductAndUser(ctx, req.ProductID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	r, err := review.NewReview(req.ProductID, actor.UserID, req.OrderID, req.Rating, req.Title, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.refreshProductRating(ctx, req.ProductID)

	s.logger.Info("review created",
		zap.String("review_id", r.ID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("rating", req.Rating))

	resp := ToResponse(r)
	return &resp, nil
}

// GetByID returns a single review
func (s *ReviewService) GetByID(ctx context.Context, id uuid.UUID) (*Response, error) {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(r)
	return &resp, nil
}

// ListByProduct returns approved reviews for a product
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[Response], error) {
	filter.Filters["status"] = string(review.StatusApproved)

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	total, err := s.reviewRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	result := shared.NewPaginated(ToResponses(reviews), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByUser returns the acting user's own reviews
func (s *ReviewService) ListByUser(ctx context.Context, actor identity.Actor, filter shared.Filter) ([]Response, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	reviews, err := s.reviewRepo.FindByUser(ctx, actor.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return ToResponses(reviews), nil
}

// Update edits a review; only the author or an admin may update
func (s *ReviewService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateReviewRequest) (*Response, error) {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	if err := r.Update(req.Rating, req.Title, req.Comment); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	if req.Rating != nil {
		s.refreshProductRating(ctx, r.ProductID)
	}

	resp := ToResponse(r)
	return &resp, nil
}

// Delete removes a review; only the author or an admin may delete
func (s *ReviewService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r.UserID != actor.UserID && !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.refreshProductRating(ctx, r.ProductID)
	return nil
}

// Moderate sets the moderation status of a review (admin only)
func (s *ReviewService) Moderate(ctx context.Context, actor identity.Actor, id uuid.UUID, req ModerateReviewRequest) (*Response, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.Moderate(review.ModerationStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.refreshProductRating(ctx, r.ProductID)

	resp := ToResponse(r)
	return &resp, nil
}

// refreshProductRating recomputes the product's aggregate rating from its
// approved reviews. A failed recompute is logged and does not fail the
// triggering operation; the next write will converge the value.
func (s *ReviewService) refreshProductRating(ctx context.Context, productID uuid.UUID) {
	summary, err := s.reviewRepo.SummarizeApproved(ctx, productID)
	if err != nil {
		s.logger.Warn("failed to summarize reviews",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return
	}
	if err := s.productRepo.UpdateRating(ctx, productID, summary.Average, summary.Count); err != nil {
		s.logger.Warn("failed to update product rating",
			zap.String("product_id", productID.String()),
			zap.Error(err))
	}
}
