package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/notification"
	"github.com/shoemarket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationService implements notification use cases and serves as the
// best-effort dispatcher used by the order service.
type NotificationService struct {
	repo   notification.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Send creates an unread notification for a user. It satisfies the order
// service's Notifier; callers treat failures as non-fatal.
func (s *NotificationService) Send(ctx context.Context, userID uuid.UUID, typ notification.Type, title, message string, relatedOrderID *uuid.UUID) error {
	n, err := notification.New(userID, typ, title, message, priorityFor(typ))
	if err != nil {
		return err
	}
	if relatedOrderID != nil {
		n.RelateOrder(*relatedOrderID)
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// List returns the acting user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, actor identity.Actor, filter ListFilter) (*shared.Paginated[Response], error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		f.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}

	notifications, err := s.repo.FindByUser(ctx, actor.UserID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	total, err := s.repo.CountByUser(ctx, actor.UserID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	result := shared.NewPaginated(ToResponses(notifications), total, f.Page, f.PageSize)
	return &result, nil
}

// UnreadCount returns the number of unread, unexpired notifications
func (s *NotificationService) UnreadCount(ctx context.Context, actor identity.Actor) (int64, error) {
	if !actor.IsAuthenticated() {
		return 0, shared.ErrUnauthorized
	}
	return s.repo.CountUnread(ctx, actor.UserID)
}

// MarkRead marks a single notification as read
func (s *NotificationService) MarkRead(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Response, error) {
	n, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	n.MarkRead()
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	resp := ToResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns the number updated
func (s *NotificationService) MarkAllRead(ctx context.Context, actor identity.Actor) (int64, error) {
	if !actor.IsAuthenticated() {
		return 0, shared.ErrUnauthorized
	}
	return s.repo.MarkAllRead(ctx, actor.UserID)
}

// Archive hides a notification from the default listing
func (s *NotificationService) Archive(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	n, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	n.Archive()
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// PurgeExpired removes notifications past their expiry. Intended to run
// periodically from the server's background loop.
func (s *NotificationService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.repo.PurgeExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	if purged > 0 {
		s.logger.Info("purged expired notifications", zap.Int64("count", purged))
	}
	return purged, nil
}

func (s *NotificationService) owned(ctx context.Context, actor identity.Actor, id uuid.UUID) (*notification.Notification, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.UserID {
		return nil, shared.ErrForbidden
	}
	return n, nil
}

func priorityFor(typ notification.Type) notification.Priority {
	switch typ {
	case notification.TypeOrderCancelled, notification.TypeRefund, notification.TypeStockLow:
		return notification.PriorityHigh
	case notification.TypePromotion:
		return notification.PriorityLow
	}
	return notification.PriorityNormal
}
