package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand is not constructed. Use NewConfirmDeliveryCommand")

// ConfirmDeliveryCommand closes out an export route at the aid recipient's
// door. The proof images are keyed by member request and attached before the
// request finishes.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	volunteerID kernel.UUID
	routeID     kernel.UUID
	proofImages map[kernel.UUID]string

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(
	volunteerID kernel.UUID,
	routeID kernel.UUID,
	proofImages map[kernel.UUID]string,
) (ConfirmDeliveryCommand, error) {
	var errVolunteerID, errRouteID error

	if volunteerID.Validate() != nil {
		errVolunteerID = errs.NewValueIsRequiredError("volunteerID")
	}
	if routeID.Validate() != nil {
		errRouteID = errs.NewValueIsRequiredError("routeID")
	}

	if err := errors.Join(errVolunteerID, errRouteID); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return ConfirmDeliveryCommand{
		guard: guard.NewConstructorGuard(),

		volunteerID: volunteerID,
		routeID:     routeID,
		proofImages: proofImages,
	}, nil
}

func (c ConfirmDeliveryCommand) VolunteerID() kernel.UUID {
	return c.volunteerID
}

func (c ConfirmDeliveryCommand) RouteID() kernel.UUID {
	return c.routeID
}

func (c ConfirmDeliveryCommand) ProofImages() map[kernel.UUID]string {
	return c.proofImages
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}
