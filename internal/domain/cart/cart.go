package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CartItem is one line in a user's cart. PriceAtAdd is informational only;
// authoritative pricing is snapshotted at order creation.
type CartItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	SellerID   uuid.UUID       `gorm:"type:uuid;not null"`
	VariantSKU string          `gorm:"not null"`
	Quantity   int             `gorm:"not null"`
	PriceAtAdd decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName maps cart lines to their own table
func (CartItem) TableName() string { return "cart_items" }

// Cart holds the pending purchases for a single user. There is at most one
// cart per user and at most one item per (product, variant SKU) pair.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
	}, nil
}

// AddItem merges quantity into an existing (product, SKU) line or appends a
// new one. Stock validation against the live variant happens in the service.
func (c *Cart) AddItem(productID, sellerID uuid.UUID, sku string, quantity int, price decimal.Decimal) (*CartItem, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	now := time.Now()
	if existing := c.FindItemByVariant(productID, sku); existing != nil {
		existing.Quantity += quantity
		existing.PriceAtAdd = price
		existing.UpdatedAt = now
		c.UpdatedAt = now
		return existing, nil
	}

	item := CartItem{
		ID:         uuid.New(),
		CartID:     c.ID,
		ProductID:  productID,
		SellerID:   sellerID,
		VariantSKU: sku,
		Quantity:   quantity,
		PriceAtAdd: price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = now
	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity replaces the quantity of an existing line
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	item := c.FindItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	c.UpdatedAt = item.UpdatedAt
	return nil
}

// RemoveItem deletes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for idx, item := range c.Items {
		if item.ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// Clear removes all lines
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the line with the given ID, or nil
func (c *Cart) FindItem(itemID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}

// FindItemByVariant returns the line for a (product, SKU) pair, or nil
func (c *Cart) FindItemByVariant(productID uuid.UUID, sku string) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID && c.Items[idx].VariantSKU == sku {
			return &c.Items[idx]
		}
	}
	return nil
}

// Subtotal sums quantity times the price each line was added at
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.PriceAtAdd.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
