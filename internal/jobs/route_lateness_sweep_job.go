package jobs

import (
	"context"
	"log/slog"

	"tutam/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RouteLatenessSweepJob periodically marks stale accepted routes Late and
// expires their member requests. The sweep is idempotent: a route already
// marked Late is skipped by the state machine.
type RouteLatenessSweepJob struct {
	handler commands.MarkLateRoutesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRouteLatenessSweepJob creates the lateness sweep running every minute.
func NewRouteLatenessSweepJob(
	handler commands.MarkLateRoutesCommandHandler,
	logger *slog.Logger,
) *RouteLatenessSweepJob {
	return &RouteLatenessSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "route_lateness_sweep_job"),
	}
}

// Start begins the sweep on its minute schedule.
func (j *RouteLatenessSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewMarkLateRoutesCommand()
		if err != nil {
			j.logger.ErrorContext(ctx, "building mark late routes command failed", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "route lateness sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("route lateness sweep started (running every minute)")
	return nil
}

// Stop stops the sweep.
func (j *RouteLatenessSweepJob) Stop() {
	j.cron.Stop()
	j.logger.Info("route lateness sweep stopped")
}
