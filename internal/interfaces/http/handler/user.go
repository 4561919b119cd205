package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoemarket/backend/internal/application/identity"
	"github.com/shoemarket/backend/internal/interfaces/http/dto"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
)

// UserHandler handles admin user management HTTP requests
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserListRequest carries user listing query parameters
type UserListRequest struct {
	dto.ListRequest
	Role   string `form:"role" binding:"omitempty,oneof=admin seller customer"`
	Status string `form:"status" binding:"omitempty,oneof=active suspended"`
}

func (h *UserHandler) List(c *gin.Context) {
	var req UserListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	filter := toSharedFilter(req.ListRequest)
	if req.Role != "" {
		filter.Filters["role"] = req.Role
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	result, err := h.userService.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.userService.GetByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *UserHandler) Suspend(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.userService.Suspend(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.userService.Activate(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
