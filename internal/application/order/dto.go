package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CreateOrderLine is one requested line when ordering without a cart
type CreateOrderLine struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	VariantSKU string    `json:"variant_sku"`
	Quantity   int       `json:"quantity" binding:"required,gt=0"`
}

// ShippingAddressRequest carries the checkout delivery address
type ShippingAddressRequest struct {
	FullName   string `json:"full_name" binding:"required,max=100"`
	Phone      string `json:"phone" binding:"max=30"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"required,max=100"`
}

// CreateOrderRequest creates an order from the user's cart when Items is
// empty, or from the explicit lines otherwise
type CreateOrderRequest struct {
	Items           []CreateOrderLine      `json:"items"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required,oneof=card cod bank_transfer wallet"`
}

// UpdateStatusRequest moves an order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListFilter carries order listing parameters
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Status   *order.Status
}

// ItemResponse is one snapshotted order line
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	ProductName string          `json:"product_name"`
	BrandName   string          `json:"brand_name,omitempty"`
	SellerName  string          `json:"seller_name,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	VariantSKU  string          `json:"variant_sku"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// StatusChangeResponse is one audit log entry
type StatusChangeResponse struct {
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	ChangedBy uuid.UUID `json:"changed_by,omitempty"`
	Note      string    `json:"note,omitempty"`
	At        time.Time `json:"at"`
}

// Response is the full order detail
type Response struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	UserID          uuid.UUID              `json:"user_id"`
	Status          string                 `json:"status"`
	PaymentMethod   string                 `json:"payment_method"`
	PaymentStatus   string                 `json:"payment_status"`
	ShippingAddress order.ShippingAddress  `json:"shipping_address"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingFee     decimal.Decimal        `json:"shipping_fee"`
	Tax             decimal.Decimal        `json:"tax"`
	Discount        decimal.Decimal        `json:"discount"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	Items           []ItemResponse         `json:"items"`
	StatusHistory   []StatusChangeResponse `json:"status_history"`
	TrackingCode    string                 `json:"tracking_code,omitempty"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ListItemResponse is the condensed listing row
type ListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse maps an order aggregate to its detail response
func ToResponse(o *order.Order) Response {
	items := make([]ItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			SellerID:    item.SellerID,
			ProductName: item.ProductName,
			BrandName:   item.BrandName,
			SellerName:  item.SellerName,
			ImageURL:    item.ImageURL,
			VariantSKU:  item.VariantSKU,
			Size:        item.Size,
			Color:       item.Color,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		}
	}

	history := make([]StatusChangeResponse, len(o.StatusHistory))
	for i, change := range o.StatusHistory {
		history[i] = StatusChangeResponse{
			From:      string(change.From),
			To:        string(change.To),
			ChangedBy: change.ChangedBy,
			Note:      change.Note,
			At:        change.CreatedAt,
		}
	}

	return Response{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   string(o.PaymentStatus),
		ShippingAddress: o.ShippingAddress,
		Subtotal:        o.Subtotal,
		ShippingFee:     o.ShippingFee,
		Tax:             o.Tax,
		Discount:        o.Discount,
		TotalAmount:     o.TotalAmount,
		Items:           items,
		StatusHistory:   history,
		TrackingCode:    o.TrackingCode,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToListItemResponses maps orders to listing rows
func ToListItemResponses(orders []order.Order) []ListItemResponse {
	out := make([]ListItemResponse, len(orders))
	for i := range orders {
		out[i] = ListItemResponse{
			ID:          orders[i].ID,
			OrderNumber: orders[i].OrderNumber,
			Status:      orders[i].Status.String(),
			TotalAmount: orders[i].TotalAmount,
			ItemCount:   len(orders[i].Items),
			CreatedAt:   orders[i].CreatedAt,
		}
	}
	return out
}
