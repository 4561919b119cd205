package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/notification"
)

// ListFilter narrows a user's notification listing
type ListFilter struct {
	Page     int
	PageSize int
	Status   string
	Type     string
}

// Response is a notification as returned by the API
type Response struct {
	ID               uuid.UUID  `json:"id"`
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	RelatedOrderID   *uuid.UUID `json:"related_order_id,omitempty"`
	RelatedProductID *uuid.UUID `json:"related_product_id,omitempty"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToResponse maps a notification entity to its API response
func ToResponse(n *notification.Notification) Response {
	return Response{
		ID:               n.ID,
		Type:             string(n.Type),
		Title:            n.Title,
		Message:          n.Message,
		Priority:         string(n.Priority),
		Status:           string(n.Status),
		RelatedOrderID:   n.RelatedOrderID,
		RelatedProductID: n.RelatedProductID,
		ReadAt:           n.ReadAt,
		CreatedAt:        n.CreatedAt,
	}
}

// ToResponses maps a slice of notifications
func ToResponses(notifications []notification.Notification) []Response {
	out := make([]Response, len(notifications))
	for i := range notifications {
		out[i] = ToResponse(&notifications[i])
	}
	return out
}
