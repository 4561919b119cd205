package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/cart"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product variant to the cart. VariantSKU may be empty,
// in which case the first available in-stock variant is chosen.
type AddItemRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	VariantSKU string    `json:"variant_sku"`
	Quantity   int       `json:"quantity" binding:"omitempty,gt=0"`
}

// UpdateItemRequest replaces the quantity of a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// ItemResponse is one cart line joined with live product data
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	VariantSKU  string          `json:"variant_sku"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	InStock     bool            `json:"in_stock"`
	AddedAt     time.Time       `json:"added_at"`
}

// Response is the full cart
type Response struct {
	ID       uuid.UUID       `json:"id"`
	UserID   uuid.UUID       `json:"user_id"`
	Items    []ItemResponse  `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// toItemResponse joins a cart line with the live product it references
func toItemResponse(item cart.CartItem, product *catalog.Product) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		SellerID:    item.SellerID,
		ProductName: product.Name,
		ImageURL:    product.ImageURL,
		VariantSKU:  item.VariantSKU,
		UnitPrice:   item.PriceAtAdd,
		Quantity:    item.Quantity,
		AddedAt:     item.CreatedAt,
	}
	if variant := product.FindVariant(item.VariantSKU); variant != nil {
		resp.Size = variant.Size
		resp.Color = variant.Color
		resp.UnitPrice = variant.Price
		resp.InStock = variant.IsAvailable && variant.Stock >= item.Quantity
	}
	resp.LineTotal = resp.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return resp
}
