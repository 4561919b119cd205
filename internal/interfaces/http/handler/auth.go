package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoemarket/backend/internal/application/identity"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

func (h *AuthHandler) RegisterSeller(c *gin.Context) {
	var req identity.RegisterSellerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.RegisterSeller(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	actor := middleware.GetActor(c)
	token := middleware.GetAccessToken(c)

	if err := h.authService.Logout(c.Request.Context(), actor, token); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	result, err := h.authService.Profile(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req identity.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.UpdateProfile(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req identity.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), middleware.GetActor(c), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
