package jobs

import (
	"fmt"
	"log/slog"

	"tutam/internal/adapters/out/notifier"
	"tutam/internal/core/application/usecases/commands"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	latenessSweepJob *RouteLatenessSweepJob
	rescheduleJob    *RescheduleJob
	expiryJob        *StockExpiryReminderJob
	outboxJob        *NotificationOutboxJob
}

// NewJobManager creates a job manager over the shared reschedule job and the
// remaining jobs wired to their handlers and dependencies. The reschedule job
// is built by the caller because command handlers also prompt it directly.
func NewJobManager(
	markLateHandler commands.MarkLateRoutesCommandHandler,
	rescheduleJob *RescheduleJob,
	uowFactory ports.UnitOfWorkFactory,
	drainer *notifier.OutboxDrainer,
	clock kernel.Clock,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		latenessSweepJob: NewRouteLatenessSweepJob(markLateHandler, logger),
		rescheduleJob:    rescheduleJob,
		expiryJob:        NewStockExpiryReminderJob(uowFactory, clock, logger),
		outboxJob:        NewNotificationOutboxJob(drainer, logger),
	}
}

// StartAll starts all scheduled jobs. If one fails to start, the already
// started jobs are stopped before returning.
func (jm *JobManager) StartAll() error {
	started := make([]interface{ Stop() }, 0, 4)

	start := func(name string, job interface {
		Start() error
		Stop()
	}) error {
		if err := job.Start(); err != nil {
			for _, s := range started {
				s.Stop()
			}
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		started = append(started, job)
		return nil
	}

	if err := start("route lateness sweep", jm.latenessSweepJob); err != nil {
		return err
	}
	if err := start("reschedule job", jm.rescheduleJob); err != nil {
		return err
	}
	if err := start("stock expiry reminder", jm.expiryJob); err != nil {
		return err
	}
	if err := start("notification outbox drain", jm.outboxJob); err != nil {
		return err
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxJob.Stop()
	jm.expiryJob.Stop()
	jm.rescheduleJob.Stop()
	jm.latenessSweepJob.Stop()
}
