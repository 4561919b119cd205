package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
)

// NotificationRepository defines persistence operations for notifications.
// All read methods exclude expired rows.
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Notification, error)
	CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	// PurgeExpired deletes notifications past their expiry, returning the
	// number of rows removed
	PurgeExpired(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
