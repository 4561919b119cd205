package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/application/catalog"
	"github.com/shoemarket/backend/internal/interfaces/http/dto"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductListRequest carries catalog listing query parameters
type ProductListRequest struct {
	dto.ListRequest
	Brand    string `form:"brand"`
	Category string `form:"category"`
	SellerID string `form:"seller_id" binding:"omitempty,uuid"`
}

func (r *ProductListRequest) toFilter() catalog.ListFilter {
	r.Normalize()
	filter := catalog.ListFilter{
		Page:     r.Page,
		PageSize: r.PageSize,
		OrderBy:  r.OrderBy,
		OrderDir: r.OrderDir,
		Search:   r.Search,
		Brand:    r.Brand,
		Category: r.Category,
	}
	if r.SellerID != "" {
		id, err := uuid.Parse(r.SellerID)
		if err == nil {
			filter.SellerID = &id
		}
	}
	return filter
}

func (h *ProductHandler) List(c *gin.Context) {
	var req ProductListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.productService.List(c.Request.Context(), req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListMine returns the authenticated seller's own listings, inactive ones included.
func (h *ProductHandler) ListMine(c *gin.Context) {
	var req ProductListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.productService.ListBySeller(c.Request.Context(), middleware.GetActor(c), req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.productService.GetByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ProductHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Missing slug")
		return
	}

	result, err := h.productService.GetBySlug(c.Request.Context(), middleware.GetActor(c), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req catalog.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.productService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.productService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ProductHandler) AddVariant(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req catalog.VariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.productService.AddVariant(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req catalog.UpdateVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.productService.UpdateVariant(c.Request.Context(), middleware.GetActor(c), id, c.Param("sku"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ProductHandler) RemoveVariant(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.productService.RemoveVariant(c.Request.Context(), middleware.GetActor(c), id, c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
