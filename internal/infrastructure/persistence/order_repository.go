package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/order"
	"github.com/shoemarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items and status history
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its store-unique number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("order_number = ?", orderNumber).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUser finds the buyer's orders matching the filter
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).Preload("Items").
			Where("user_id = ?", userID),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySeller finds orders containing at least one item from the seller
func (r *GormOrderRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).Preload("Items").
			Where("id IN (?)", r.sellerOrderIDs(ctx, sellerID)),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds orders matching the filter (admin listing)
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).Preload("Items"),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByUser counts the buyer's orders matching the filter
func (r *GormOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&order.Order{}).Where("user_id = ?", userID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySeller counts orders containing the seller's items
func (r *GormOrderRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&order.Order{}).
			Where("id IN (?)", r.sellerOrderIDs(ctx, sellerID)),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsDeliveredWithProduct reports whether the user has a delivered order
// containing the product
func (r *GormOrderRepository) ExistsDeliveredWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, order.StatusDelivered, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an order with its items and history. The only
// unique constraint a new order can trip is the order number index, so a
// duplicated-key error maps to ErrAlreadyExists for the caller to retry
// with a fresh number.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// SaveWithLock saves with an optimistic version check. The guard compares
// against the version the aggregate was loaded with; the stored row moves to
// the next version only when no other writer got there first, and the
// in-memory aggregate is bumped to match on success.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, o.Version).
			Updates(map[string]interface{}{
				"status":         o.Status,
				"payment_status": o.PaymentStatus,
				"tracking_code":  o.TrackingCode,
				"cancel_reason":  o.CancelReason,
				"delivered_at":   o.DeliveredAt,
				"cancelled_at":   o.CancelledAt,
				"version":        o.Version + 1,
				"updated_at":     o.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		// Append new status history rows; existing ones are immutable
		for i := range o.StatusHistory {
			change := &o.StatusHistory[i]
			if err := tx.Where("id = ?", change.ID).
				FirstOrCreate(change).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	o.IncrementVersion()
	return nil
}

// GenerateOrderNumber produces the next date-prefixed order number,
// e.g. ORD-20260831-00042
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("ORD-%s-", time.Now().Format("20060102"))

	var last order.Order
	err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && len(last.OrderNumber) > len(prefix) {
		var num int64
		if _, parseErr := fmt.Sscanf(last.OrderNumber[len(prefix):], "%d", &num); parseErr == nil {
			nextNum = num + 1
		}
	}

	for i := 0; i < 100; i++ {
		candidate := fmt.Sprintf("%s%05d", prefix, nextNum)
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&order.Order{}).
			Where("order_number = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		nextNum++
	}
	return "", fmt.Errorf("failed to generate a unique order number for prefix %s", prefix)
}

// sellerOrderIDs is a subquery returning the IDs of orders containing any of
// the seller's items
func (r *GormOrderRepository) sellerOrderIDs(ctx context.Context, sellerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&order.Item{}).
		Select("DISTINCT order_id").
		Where("seller_id = ?", sellerID)
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
