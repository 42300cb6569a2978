package ports

import (
	"context"

	"tutam/internal/core/domain/model/notification"
)

// NotificationOutboxRepository persists notifications inside the same
// transaction as the state change that caused them. A background job drains
// unsent rows, so dispatch failures never roll back a transition.
type NotificationOutboxRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
	Update(ctx context.Context, n *notification.Notification) error

	// GetUnsent retrieves up to limit unsent notifications, oldest first.
	GetUnsent(ctx context.Context, limit int) ([]*notification.Notification, error)
}
