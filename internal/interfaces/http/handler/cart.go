package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoemarket/backend/internal/application/cart"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
)

// CartHandler handles shopping cart HTTP requests
type CartHandler struct {
	BaseHandler
	cartService *cart.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(c *gin.Context) {
	result, err := h.cartService.Get(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req cart.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), middleware.GetActor(c), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetActor(c), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.GetActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
