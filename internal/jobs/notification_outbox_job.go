package jobs

import (
	"context"
	"log/slog"

	"tutam/internal/adapters/out/notifier"

	"github.com/robfig/cron/v3"
)

// outboxBatchSize caps how many rows one drain pass picks up.
const outboxBatchSize = 100

// NotificationOutboxJob drains committed outbox rows to the delivery channels
// every few seconds. Dispatch failures are retried on the next pass and never
// affect the transactions that queued the rows.
type NotificationOutboxJob struct {
	drainer *notifier.OutboxDrainer
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewNotificationOutboxJob creates the outbox drain job.
func NewNotificationOutboxJob(drainer *notifier.OutboxDrainer, logger *slog.Logger) *NotificationOutboxJob {
	return &NotificationOutboxJob{
		drainer: drainer,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "notification_outbox_job"),
	}
}

// Start begins draining every five seconds.
func (j *NotificationOutboxJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		if err := j.drainer.DrainOnce(ctx, outboxBatchSize); err != nil {
			j.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("notification outbox drain started (running every five seconds)")
	return nil
}

// Stop stops the drain job.
func (j *NotificationOutboxJob) Stop() {
	j.cron.Stop()
	j.logger.Info("notification outbox drain stopped")
}
