// Package jobs provides scheduled background tasks for the scheduling engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the delivery scheduling workflow needs.
//
// # Available Jobs
//
// 1. RouteLatenessSweepJob - Runs every minute to mark stale accepted routes
// Late and expire their member requests.
// 2. RescheduleJob - Periodically re-batches the pending backlog of every
// served branch and direction into new scheduled routes.
// 3. StockExpiryReminderJob - Runs every hour to remind branch staff about
// lots approaching or reaching their expiration date.
// 4. NotificationOutboxJob - Drains committed notification outbox rows to the
// push and websocket channels every few seconds.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(markLateHandler, rescheduleHandler,
//		branches, rescheduleSpec, uowFactory, drainer, clock, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Each job logs and swallows its own failures; one failing pass never stops
// the schedule. A job that fails to start stops the jobs started before it.
package jobs
