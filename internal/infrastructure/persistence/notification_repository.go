package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/notification"
	"github.com/shoemarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM.
// All read methods treat expired rows as if they were already purged.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	err := r.notExpired(r.db.WithContext(ctx)).First(&n, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindByUser lists a user's notifications matching the filter
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.applyFilter(r.userScope(ctx, userID), filter)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountByUser counts a user's notifications matching the filter
func (r *GormNotificationRepository) CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.userScope(ctx, userID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.userScope(ctx, userID).
		Where("status = ?", notification.StatusUnread).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// MarkAllRead marks every unread notification of the user as read,
// returning the number of rows changed
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.userScope(ctx, userID).
		Where("status = ?", notification.StatusUnread).
		Updates(map[string]interface{}{
			"status":     notification.StatusRead,
			"read_at":    now,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// PurgeExpired deletes notifications past their expiry
func (r *GormNotificationRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&notification.Notification{})
	return result.RowsAffected, result.Error
}

// Delete deletes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&notification.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormNotificationRepository) userScope(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.notExpired(
		r.db.WithContext(ctx).Model(&notification.Notification{}).Where("user_id = ?", userID),
	)
}

func (r *GormNotificationRepository) notExpired(query *gorm.DB) *gorm.DB {
	return query.Where("expires_at IS NULL OR expires_at > ?", time.Now())
}

func (r *GormNotificationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, NotificationSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormNotificationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}
	return query
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
