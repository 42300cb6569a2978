package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/model/stock"
	"tutam/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// preExpiryOffset is how far ahead of a lot's expiration the early reminder
// fires.
const preExpiryOffset = 72 * time.Hour

// reminderWindow matches the job's hourly schedule so each lot falls into
// exactly one run's window per reminder.
const reminderWindow = time.Hour

// StockExpiryReminderJob notifies branch staff about lots approaching and
// reaching their expiration date, so stock can be prioritized for export
// before it is lost.
type StockExpiryReminderJob struct {
	uowFactory ports.UnitOfWorkFactory
	clock      kernel.Clock
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStockExpiryReminderJob creates the expiry reminder running every hour.
func NewStockExpiryReminderJob(
	uowFactory ports.UnitOfWorkFactory,
	clock kernel.Clock,
	logger *slog.Logger,
) *StockExpiryReminderJob {
	return &StockExpiryReminderJob{
		uowFactory: uowFactory,
		clock:      clock,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stock_expiry_reminder_job"),
	}
}

// Start begins the hourly reminder schedule.
func (j *StockExpiryReminderJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		ctx := context.Background()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "stock expiry reminder failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("stock expiry reminder started (running every hour)")
	return nil
}

// RunOnce queues reminders for lots expiring three days out and for lots
// expiring within the next hour. Both reminders commit atomically.
func (j *StockExpiryReminderJob) RunOnce(ctx context.Context) error {
	now := j.clock.Now()
	uow := j.uowFactory.Create()

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback(ctx) //nolint:errcheck //rollback after commit returns ErrInvalidTransaction

	expiringSoon, err := uow.StockRepository().GetLotsExpiringBetween(
		ctx, now.Add(preExpiryOffset), now.Add(preExpiryOffset+reminderWindow))
	if err != nil {
		return err
	}

	for _, lot := range expiringSoon {
		if err := j.queueReminder(ctx, uow, lot, "Stock expiring soon", now); err != nil {
			return err
		}
	}

	expiringNow, err := uow.StockRepository().GetLotsExpiringBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return err
	}

	for _, lot := range expiringNow {
		if err := j.queueReminder(ctx, uow, lot, "Stock expires today", now); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

func (j *StockExpiryReminderJob) queueReminder(
	ctx context.Context,
	uow ports.UnitOfWork,
	lot *stock.Lot,
	title string,
	now time.Time,
) error {
	body := fmt.Sprintf("%g units expire on %s",
		lot.Quantity(), lot.ExpirationDate().Format("2006-01-02"))

	reminder, err := notification.NewNotification(
		kernel.NewUUID(),
		lot.BranchID(),
		title,
		body,
		notification.DataTypeStockLot,
		lot.ID(),
		now,
	)
	if err != nil {
		return err
	}

	return uow.OutboxRepository().Add(ctx, reminder)
}

// Stop stops the reminder job.
func (j *StockExpiryReminderJob) Stop() {
	j.cron.Stop()
	j.logger.Info("stock expiry reminder stopped")
}
