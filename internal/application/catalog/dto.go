package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// VariantRequest describes one variant on create/update
type VariantRequest struct {
	SKU      string          `json:"sku" binding:"required,max=50"`
	Size     string          `json:"size" binding:"max=20"`
	Color    string          `json:"color" binding:"max=50"`
	Material string          `json:"material" binding:"max=50"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Stock    int             `json:"stock" binding:"gte=0"`
}

// CreateProductRequest publishes a new listing
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	Brand       string           `json:"brand" binding:"max=100"`
	Category    string           `json:"category" binding:"max=100"`
	BasePrice   decimal.Decimal  `json:"base_price" binding:"required"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url"`
	Variants    []VariantRequest `json:"variants" binding:"required,min=1,dive"`
}

// UpdateProductRequest changes listing fields; nil/empty fields are left alone
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"max=200"`
	Description string           `json:"description" binding:"max=5000"`
	Brand       string           `json:"brand" binding:"max=100"`
	Category    string           `json:"category" binding:"max=100"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url"`
	IsActive    *bool            `json:"is_active"`
}

// UpdateVariantRequest changes one variant's price, stock, or availability
type UpdateVariantRequest struct {
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	IsAvailable *bool            `json:"is_available"`
}

// ListFilter carries product listing parameters
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Brand    string
	Category string
	SellerID *uuid.UUID
}

// VariantResponse is one variant in a product response
type VariantResponse struct {
	SKU         string          `json:"sku"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Material    string          `json:"material,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"is_available"`
}

// Response is the full product detail
type Response struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description,omitempty"`
	Brand         string            `json:"brand,omitempty"`
	Category      string            `json:"category,omitempty"`
	BasePrice     decimal.Decimal   `json:"base_price"`
	ImageURL      string            `json:"image_url,omitempty"`
	SellerID      uuid.UUID         `json:"seller_id"`
	SellerName    string            `json:"seller_name,omitempty"`
	Variants      []VariantResponse `json:"variants"`
	SoldCount     int64             `json:"sold_count"`
	ViewCount     int64             `json:"view_count"`
	RatingAverage decimal.Decimal   `json:"rating_average"`
	RatingCount   int64             `json:"rating_count"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ListItemResponse is the condensed listing row
type ListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Brand         string          `json:"brand,omitempty"`
	Category      string          `json:"category,omitempty"`
	BasePrice     decimal.Decimal `json:"base_price"`
	ImageURL      string          `json:"image_url,omitempty"`
	RatingAverage decimal.Decimal `json:"rating_average"`
	RatingCount   int64           `json:"rating_count"`
	SoldCount     int64           `json:"sold_count"`
	InStock       bool            `json:"in_stock"`
}

// ToResponse maps a product aggregate to its detail response
func ToResponse(p *catalog.Product) Response {
	variants := make([]VariantResponse, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = VariantResponse{
			SKU:         v.SKU,
			Size:        v.Size,
			Color:       v.Color,
			Material:    v.Material,
			Price:       v.Price,
			Stock:       v.Stock,
			IsAvailable: v.IsAvailable,
		}
	}
	return Response{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Brand:         p.Brand,
		Category:      p.Category,
		BasePrice:     p.BasePrice,
		ImageURL:      p.ImageURL,
		SellerID:      p.SellerID,
		SellerName:    p.SellerName,
		Variants:      variants,
		SoldCount:     p.SoldCount,
		ViewCount:     p.ViewCount,
		RatingAverage: p.RatingAverage,
		RatingCount:   p.RatingCount,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToListItemResponses maps products to listing rows
func ToListItemResponses(products []catalog.Product) []ListItemResponse {
	out := make([]ListItemResponse, len(products))
	for i := range products {
		p := &products[i]
		out[i] = ListItemResponse{
			ID:            p.ID,
			Name:          p.Name,
			Slug:          p.Slug,
			Brand:         p.Brand,
			Category:      p.Category,
			BasePrice:     p.BasePrice,
			ImageURL:      p.ImageURL,
			RatingAverage: p.RatingAverage,
			RatingCount:   p.RatingCount,
			SoldCount:     p.SoldCount,
			InStock:       p.FirstAvailableVariant() != nil,
		}
	}
	return out
}
