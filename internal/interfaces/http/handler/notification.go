package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoemarket/backend/internal/application/notification"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	BaseHandler
	notificationService *notification.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationListRequest carries notification listing query parameters
type NotificationListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=unread read archived"`
	Type     string `form:"type"`
}

func (h *NotificationHandler) List(c *gin.Context) {
	var req NotificationListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), middleware.GetActor(c), notification.ListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Status:   req.Status,
		Type:     req.Type,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.notificationService.MarkRead(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": updated})
}

func (h *NotificationHandler) Archive(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Archive(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
