package commands

import (
	"context"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
)

// ReschedulePrompter asks the scheduler to re-batch one branch backlog ahead
// of its periodic pass. A finished route frees demand (fresh stock for
// imports, released claims for exports), so the waiting backlog gets a pass
// right away instead of at the next cron tick. Prompting is best effort; a
// missed prompt is covered by the periodic pass.
type ReschedulePrompter interface {
	PromptReschedule(ctx context.Context, branchID kernel.UUID, direction request.Direction)
}
