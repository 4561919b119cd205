package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/cart"
	"github.com/shoemarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser finds the user's cart with its items
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save creates or updates the cart. Removed lines are deleted so the stored
// item set always mirrors the aggregate.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(c.Items))
		for _, item := range c.Items {
			keep = append(keep, item.ID)
		}

		query := tx.Where("cart_id = ?", c.ID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}
		return query.Delete(&cart.CartItem{}).Error
	})
}

// DeleteByUser removes the user's cart and its items
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c cart.Cart
		if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

var _ cart.CartRepository = (*GormCartRepository)(nil)
