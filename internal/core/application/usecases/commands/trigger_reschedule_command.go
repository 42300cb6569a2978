package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrTriggerRescheduleCommandIsNotConstructed = errors.New(
	"TriggerRescheduleCommand is not constructed. Use NewTriggerRescheduleCommand")

// TriggerRescheduleCommand runs one scheduling pass for one branch in one
// direction. The branch geolocation travels with the command because the
// scheduling core has no branch aggregate of its own.
type TriggerRescheduleCommand struct { //nolint:recvcheck //using for validation
	branchID       kernel.UUID
	direction      request.Direction
	branchLocation kernel.GeoLocation

	guard guard.ConstructorGuard
}

func NewTriggerRescheduleCommand(
	branchID kernel.UUID,
	direction request.Direction,
	branchLocation kernel.GeoLocation,
) (TriggerRescheduleCommand, error) {
	var errBranchID, errDirection, errLocation error

	if branchID.Validate() != nil {
		errBranchID = errs.NewValueIsRequiredError("branchID")
	}
	errDirection = direction.Validate()
	errLocation = branchLocation.Validate()

	if err := errors.Join(errBranchID, errDirection, errLocation); err != nil {
		return TriggerRescheduleCommand{}, err
	}

	return TriggerRescheduleCommand{
		guard: guard.NewConstructorGuard(),

		branchID:       branchID,
		direction:      direction,
		branchLocation: branchLocation,
	}, nil
}

func (c TriggerRescheduleCommand) BranchID() kernel.UUID {
	return c.branchID
}

func (c TriggerRescheduleCommand) Direction() request.Direction {
	return c.direction
}

func (c TriggerRescheduleCommand) BranchLocation() kernel.GeoLocation {
	return c.branchLocation
}

func (c TriggerRescheduleCommand) Validate() error {
	return c.guard.Validate(ErrTriggerRescheduleCommandIsNotConstructed)
}
