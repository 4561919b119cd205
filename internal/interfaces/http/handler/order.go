package handler

import (
	"github.com/gin-gonic/gin"
	appOrder "github.com/shoemarket/backend/internal/application/order"
	"github.com/shoemarket/backend/internal/domain/order"
	"github.com/shoemarket/backend/internal/interfaces/http/dto"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order lifecycle HTTP requests
type OrderHandler struct {
	BaseHandler
	orderService *appOrder.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *appOrder.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderListRequest carries order listing query parameters
type OrderListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled returned refunded"`
}

func (r *OrderListRequest) toFilter() appOrder.ListFilter {
	r.Normalize()
	filter := appOrder.ListFilter{
		Page:     r.Page,
		PageSize: r.PageSize,
		OrderBy:  r.OrderBy,
		OrderDir: r.OrderDir,
	}
	if r.Status != "" {
		status := order.Status(r.Status)
		filter.Status = &status
	}
	return filter
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req appOrder.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

func (h *OrderHandler) List(c *gin.Context) {
	var req OrderListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	filter := req.toFilter()
	items, total, err := h.orderService.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.orderService.GetByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus advances an order through its lifecycle. Allowed transitions
// depend on the caller's role.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appOrder.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appOrder.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Cancel(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
