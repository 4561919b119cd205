package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with its variants by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug finds a product with its variants by URL slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds multiple products with their variants by IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Preload("Variants"), filter)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindBySeller finds a seller's products matching the filter
func (r *GormProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).Preload("Variants").
			Where("seller_id = ?", sellerID),
		filter,
	)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product and its variants. Variant rows removed
// from the aggregate are deleted so the stored set always mirrors it.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(product.Variants))
		for _, v := range product.Variants {
			keep = append(keep, v.ID)
		}

		query := tx.Where("product_id = ?", product.ID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}
		return query.Delete(&catalog.Variant{}).Error
	})
}

// Delete deletes a product; variants cascade
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementStock atomically decrements a variant's stock. The WHERE clause
// guards against oversell: when stock is short the update touches zero rows
// and ErrInsufficientStock is returned. The decision is made by the database,
// never by a prior read.
func (r *GormProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, sku string, qty int) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("product_id = ? AND sku = ? AND is_available = ? AND stock >= ?",
			productID, strings.ToUpper(strings.TrimSpace(sku)), true, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// RestoreStock adds qty units back to a variant
func (r *GormProductRepository) RestoreStock(ctx context.Context, productID uuid.UUID, sku string, qty int) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("product_id = ? AND sku = ?", productID, strings.ToUpper(strings.TrimSpace(sku))).
		Update("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustSoldCount shifts the product's sold counter by delta
func (r *GormProductRepository) AdjustSoldCount(ctx context.Context, productID uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", productID).
		Update("sold_count", gorm.Expr("GREATEST(sold_count + ?, 0)", delta)).Error
}

// IncrementViewCount bumps the product's view counter
func (r *GormProductRepository) IncrementViewCount(ctx context.Context, productID uuid.UUID, delta int64) error {
	if delta <= 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", productID).
		Update("view_count", gorm.Expr("view_count + ?", delta)).Error
}

// UpdateRating writes the recomputed aggregate rating
func (r *GormProductRepository) UpdateRating(ctx context.Context, productID uuid.UUID, average decimal.Decimal, count int64) error {
	return r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating_average": average.Round(2),
			"rating_count":   count,
		}).Error
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "brand":
			query = query.Where("brand = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "seller_id":
			query = query.Where("seller_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "min_price":
			query = query.Where("base_price >= ?", value)
		case "max_price":
			query = query.Where("base_price <= ?", value)
		}
	}

	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
