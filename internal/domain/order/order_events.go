package order

import (
	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the order context
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is raised once an order has been finalized
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	SellerIDs   []uuid.UUID     `json:"seller_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		SellerIDs:       o.SellerIDs(),
		TotalAmount:     o.TotalAmount,
	}
}

// OrderStatusChangedEvent is raised on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		From:            from,
		To:              to,
	}
}
