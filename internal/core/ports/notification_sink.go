package ports

import (
	"context"

	"tutam/internal/core/domain/model/notification"
)

// NotificationSink delivers a notification to one channel (push, websocket).
// Delivery is best-effort: the outbox drainer retries later on error.
type NotificationSink interface {
	Deliver(ctx context.Context, n *notification.Notification) error
}
