package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Variant represents a purchasable SKU-level configuration of a product
// (a specific size/color/material combination) with its own price and stock.
type Variant struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	SKU         string    `gorm:"not null"`
	Size        string
	Color       string
	Material    string
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"`
	IsAvailable bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName maps variants to their own table
func (Variant) TableName() string { return "product_variants" }

// InStock returns true if the variant can currently be purchased
func (v *Variant) InStock() bool {
	return v.IsAvailable && v.Stock > 0
}

// Product represents a shoe listing aggregate root with embedded variants
type Product struct {
	shared.BaseAggregateRoot
	Name          string `gorm:"not null"`
	Slug          string `gorm:"uniqueIndex;not null"`
	Description   string
	Brand         string          `gorm:"index"`
	Category      string          `gorm:"index"`
	BasePrice     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ImageURL      string
	SellerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	SellerName    string
	Variants      []Variant       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	SoldCount     int64           `gorm:"not null;default:0"`
	ViewCount     int64           `gorm:"not null;default:0"`
	RatingAverage decimal.Decimal `gorm:"type:numeric(3,2);not null;default:0"`
	RatingCount   int64           `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// NewProduct creates a new product listing for a seller
func NewProduct(sellerID uuid.UUID, sellerName, name, brand, category string, basePrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              makeSlug(name),
		Brand:             strings.TrimSpace(brand),
		Category:          strings.TrimSpace(category),
		BasePrice:         basePrice,
		SellerID:          sellerID,
		SellerName:        sellerName,
		Variants:          make([]Variant, 0),
		RatingAverage:     decimal.Zero,
		IsActive:          true,
	}

	return product, nil
}

// AddVariant appends a new variant; SKU must be unique within the product
func (p *Product) AddVariant(sku, size, color, material string, price decimal.Decimal, stock int) (*Variant, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Variant SKU cannot be empty")
	}
	if p.FindVariant(sku) != nil {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "A variant with this SKU already exists")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Variant stock cannot be negative")
	}

	now := time.Now()
	variant := Variant{
		ID:          uuid.New(),
		ProductID:   p.ID,
		SKU:         sku,
		Size:        size,
		Color:       color,
		Material:    material,
		Price:       price,
		Stock:       stock,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Variants = append(p.Variants, variant)
	p.UpdatedAt = now

	return &p.Variants[len(p.Variants)-1], nil
}

// UpdateVariant changes price, stock, or availability of an existing variant
func (p *Product) UpdateVariant(sku string, price *decimal.Decimal, stock *int, available *bool) error {
	variant := p.FindVariant(sku)
	if variant == nil {
		return shared.NewDomainError("VARIANT_NOT_FOUND", "Product variant not found")
	}
	if price != nil {
		if price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
		}
		variant.Price = *price
	}
	if stock != nil {
		if *stock < 0 {
			return shared.NewDomainError("INVALID_STOCK", "Variant stock cannot be negative")
		}
		variant.Stock = *stock
	}
	if available != nil {
		variant.IsAvailable = *available
	}
	variant.UpdatedAt = time.Now()
	p.UpdatedAt = variant.UpdatedAt
	return nil
}

// RemoveVariant deletes a variant by SKU
func (p *Product) RemoveVariant(sku string) error {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	for idx, v := range p.Variants {
		if v.SKU == sku {
			p.Variants = append(p.Variants[:idx], p.Variants[idx+1:]...)
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("VARIANT_NOT_FOUND", "Product variant not found")
}

// FindVariant returns the variant with the given SKU, or nil
func (p *Product) FindVariant(sku string) *Variant {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	for idx := range p.Variants {
		if p.Variants[idx].SKU == sku {
			return &p.Variants[idx]
		}
	}
	return nil
}

// FirstAvailableVariant returns the first variant that is available and in
// stock. Used when a cart add does not name a specific SKU.
func (p *Product) FirstAvailableVariant() *Variant {
	for idx := range p.Variants {
		if p.Variants[idx].InStock() {
			return &p.Variants[idx]
		}
	}
	return nil
}

// TotalStock returns the stock summed across all variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// UpdateDetails changes the mutable listing fields
func (p *Product) UpdateDetails(name, description, brand, category, imageURL string, basePrice *decimal.Decimal) error {
	if name != "" {
		if len(name) > 200 {
			return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
		}
		p.Name = strings.TrimSpace(name)
		p.Slug = makeSlug(p.Name)
	}
	if description != "" {
		p.Description = description
	}
	if brand != "" {
		p.Brand = strings.TrimSpace(brand)
	}
	if category != "" {
		p.Category = strings.TrimSpace(category)
	}
	if imageURL != "" {
		p.ImageURL = imageURL
	}
	if basePrice != nil {
		if basePrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
		}
		p.BasePrice = *basePrice
	}
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// Activate makes the product visible again
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
}

// ApplyRating replaces the aggregate rating values. Recomputation from
// approved reviews happens in the review service.
func (p *Product) ApplyRating(average decimal.Decimal, count int64) {
	p.RatingAverage = average.Round(2)
	p.RatingCount = count
	p.UpdatedAt = time.Now()
}

// makeSlug produces a URL-safe identifier from the product name.
// Uniqueness is finalized by appending a short ID suffix.
func makeSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, slug)
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return slug + "-" + uuid.NewString()[:8]
}
