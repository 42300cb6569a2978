package commands

import (
	"context"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/ports"
)

// queueNotification commits one outbox row inside the caller's transaction.
// The drainer dispatches it later; dispatch failure never rolls back the
// state transition that produced it.
func queueNotification(
	ctx context.Context,
	outbox ports.NotificationOutboxRepository,
	receiver kernel.UUID,
	title, body, dataType string,
	dataID kernel.UUID,
	now time.Time,
) error {
	n, err := notification.NewNotification(
		kernel.NewUUID(), receiver, title, body, dataType, dataID, now)
	if err != nil {
		return err
	}
	return outbox.Add(ctx, n)
}
