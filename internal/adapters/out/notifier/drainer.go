package notifier

import (
	"context"
	"log/slog"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/ports"
)

// maxAttempts is how many times a row is offered to the sinks before it is
// marked sent anyway. A receiver that was unreachable this long will learn the
// state change from the API.
const maxAttempts = 5

// OutboxDrainer moves committed outbox rows to the delivery channels. It runs
// outside any business transaction: a sink failure leaves the row unsent and
// the next pass retries it.
type OutboxDrainer struct {
	outbox ports.NotificationOutboxRepository
	sinks  []ports.NotificationSink
	clock  kernel.Clock
	logger *slog.Logger
}

// NewOutboxDrainer creates a drainer over the given sinks.
func NewOutboxDrainer(
	outbox ports.NotificationOutboxRepository,
	sinks []ports.NotificationSink,
	clock kernel.Clock,
	logger *slog.Logger,
) *OutboxDrainer {
	return &OutboxDrainer{
		outbox: outbox,
		sinks:  sinks,
		clock:  clock,
		logger: logger.With("component", "outbox_drainer"),
	}
}

// DrainOnce delivers up to limit unsent notifications, oldest first. A row is
// marked sent when every sink accepted it or its attempt budget ran out.
func (d *OutboxDrainer) DrainOnce(ctx context.Context, limit int) error {
	unsent, err := d.outbox.GetUnsent(ctx, limit)
	if err != nil {
		return err
	}

	for _, n := range unsent {
		n.MarkAttempted()

		delivered := true
		for _, sink := range d.sinks {
			if sinkErr := sink.Deliver(ctx, n); sinkErr != nil {
				delivered = false
				d.logger.WarnContext(ctx, "notification delivery failed",
					"notification_id", n.ID().String(),
					"attempts", n.Attempts(),
					"error", sinkErr)
			}
		}

		if delivered || n.Attempts() >= maxAttempts {
			n.MarkSent(d.clock.Now())
		}

		if updateErr := d.outbox.Update(ctx, n); updateErr != nil {
			return updateErr
		}
	}

	return nil
}
