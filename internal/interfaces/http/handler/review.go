package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoemarket/backend/internal/application/review"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shoemarket/backend/internal/interfaces/http/dto"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
)

// ReviewHandler handles product review HTTP requests
type ReviewHandler struct {
	BaseHandler
	reviewService *review.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *review.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func toSharedFilter(req dto.ListRequest) shared.Filter {
	req.Normalize()
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	filter.OrderDir = req.OrderDir
	filter.Search = req.Search
	return filter
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req review.CreateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.reviewService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.reviewService.ListByProduct(c.Request.Context(), productID, toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

func (h *ReviewHandler) ListMine(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.reviewService.ListByUser(c.Request.Context(), middleware.GetActor(c), toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req review.UpdateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.reviewService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ReviewHandler) Moderate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req review.ModerateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.reviewService.Moderate(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
