package jobs

import (
	"context"
	"log/slog"

	"tutam/internal/core/application/usecases/commands"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"

	"github.com/robfig/cron/v3"
)

// BranchTarget is one branch the scheduler serves: its identifier and the
// depot location vehicles are homed at.
type BranchTarget struct {
	BranchID kernel.UUID
	Location kernel.GeoLocation
}

// rescheduleDirections are the backlogs a scheduling pass covers, one pass
// per direction since routes never mix directions.
var rescheduleDirections = []request.Direction{
	request.DonorToBranch,
	request.BranchToAid,
	request.BranchToBranch,
}

// RescheduleJob periodically re-batches the pending backlog of every served
// branch and direction. Requests left unassigned by one pass re-enter the next.
type RescheduleJob struct {
	handler  commands.TriggerRescheduleCommandHandler
	branches []BranchTarget
	spec     string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewRescheduleJob creates the reschedule job over the configured branches.
// The cron spec uses seconds granularity, e.g. "0 */5 * * * *" for every five
// minutes.
func NewRescheduleJob(
	handler commands.TriggerRescheduleCommandHandler,
	branches []BranchTarget,
	spec string,
	logger *slog.Logger,
) *RescheduleJob {
	return &RescheduleJob{
		handler:  handler,
		branches: branches,
		spec:     spec,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "reschedule_job"),
	}
}

// Start begins the periodic scheduling passes.
func (j *RescheduleJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("reschedule job started", "spec", j.spec, "branches", len(j.branches))
	return nil
}

// RunOnce triggers one scheduling pass per branch and direction. A failing
// pass is logged and does not stop the others; each pass commits on its own.
func (j *RescheduleJob) RunOnce(ctx context.Context) {
	for _, branch := range j.branches {
		for _, direction := range rescheduleDirections {
			j.runPass(ctx, branch, direction)
		}
	}
}

// PromptReschedule runs one out-of-band pass for a single branch backlog,
// typically right after a finished route frees demand. A prompt for a branch
// this job does not serve is logged and dropped.
func (j *RescheduleJob) PromptReschedule(
	ctx context.Context,
	branchID kernel.UUID,
	direction request.Direction,
) {
	for _, branch := range j.branches {
		if branch.BranchID.IsEqual(branchID) {
			j.runPass(ctx, branch, direction)
			return
		}
	}

	j.logger.WarnContext(ctx, "reschedule prompt for unserved branch",
		"branch_id", branchID.String())
}

func (j *RescheduleJob) runPass(ctx context.Context, branch BranchTarget, direction request.Direction) {
	cmd, err := commands.NewTriggerRescheduleCommand(branch.BranchID, direction, branch.Location)
	if err != nil {
		j.logger.ErrorContext(ctx, "building reschedule command failed",
			"branch_id", branch.BranchID.String(), "error", err)
		return
	}

	if err := j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "scheduling pass failed",
			"branch_id", branch.BranchID.String(),
			"direction", direction.String(),
			"error", err)
	}
}

// Stop stops the reschedule job.
func (j *RescheduleJob) Stop() {
	j.cron.Stop()
	j.logger.Info("reschedule job stopped")
}
