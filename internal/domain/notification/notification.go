package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
)

// Type classifies what a notification is about
type Type string

const (
	TypeOrderPlaced    Type = "order_placed"
	TypeOrderStatus    Type = "order_status"
	TypeOrderCancelled Type = "order_cancelled"
	TypeRefund         Type = "refund"
	TypeReview         Type = "review"
	TypeStockLow       Type = "stock_low"
	TypePromotion      Type = "promotion"
)

// IsValid checks if the type is a known Type
func (t Type) IsValid() bool {
	switch t {
	case TypeOrderPlaced, TypeOrderStatus, TypeOrderCancelled,
		TypeRefund, TypeReview, TypeStockLow, TypePromotion:
		return true
	}
	return false
}

// Priority ranks how prominently a notification is shown
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// ReadStatus is the user-facing read state
type ReadStatus string

const (
	StatusUnread   ReadStatus = "unread"
	StatusRead     ReadStatus = "read"
	StatusArchived ReadStatus = "archived"
)

// Notification is a user-facing message created as a side effect of order,
// catalog, or review activity. Notifications never mutate other entities and
// creation failures never roll back the triggering operation.
type Notification struct {
	shared.BaseEntity
	UserID           uuid.UUID  `gorm:"type:uuid;index;not null"`
	Type             Type       `gorm:"type:varchar(30);not null"`
	Title            string     `gorm:"not null"`
	Message          string     `gorm:"not null"`
	Priority         Priority   `gorm:"type:varchar(10);not null;default:'normal'"`
	Status           ReadStatus `gorm:"type:varchar(10);not null;default:'unread'"`
	RelatedOrderID   *uuid.UUID `gorm:"type:uuid"`
	RelatedProductID *uuid.UUID `gorm:"type:uuid"`
	ExpiresAt        *time.Time `gorm:"index"`
	ReadAt           *time.Time
}

// New creates an unread notification
func New(userID uuid.UUID, typ Type, title, message string, priority Priority) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown notification type")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	if priority == "" {
		priority = PriorityNormal
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
		Priority:   priority,
		Status:     StatusUnread,
	}, nil
}

// RelateOrder links the notification to an order
func (n *Notification) RelateOrder(orderID uuid.UUID) {
	n.RelatedOrderID = &orderID
}

// RelateProduct links the notification to a product
func (n *Notification) RelateProduct(productID uuid.UUID) {
	n.RelatedProductID = &productID
}

// ExpireAt sets an optional expiry; expired notifications are excluded from
// reads and periodically purged.
func (n *Notification) ExpireAt(t time.Time) {
	n.ExpiresAt = &t
}

// MarkRead flips an unread notification to read
func (n *Notification) MarkRead() {
	if n.Status != StatusUnread {
		return
	}
	now := time.Now()
	n.Status = StatusRead
	n.ReadAt = &now
	n.UpdatedAt = now
}

// Archive hides the notification from the default listing
func (n *Notification) Archive() {
	n.Status = StatusArchived
	n.UpdatedAt = time.Now()
}

// IsExpired returns true when the notification is past its expiry
func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
