package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/guard"
)

var ErrCancelRouteCommandIsNotConstructed = errors.New(
	"CancelRouteCommand must be created via NewCancelRouteCommand constructor",
)

// CancelRouteCommand represents a volunteer giving back a route they hold.
type CancelRouteCommand struct { //nolint:recvcheck //using for validation
	volunteerID kernel.UUID
	routeID     kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelRouteCommand creates a command for a volunteer to cancel a route.
func NewCancelRouteCommand(volunteerID, routeID kernel.UUID) (CancelRouteCommand, error) {
	cmd := CancelRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(volunteerID.Validate(), routeID.Validate()); err != nil {
		return CancelRouteCommand{}, err
	}

	cmd.volunteerID = volunteerID
	cmd.routeID = routeID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelRouteCommand) Validate() error {
	return c.guard.Validate(ErrCancelRouteCommandIsNotConstructed)
}

// VolunteerID returns the volunteer canceling the route.
func (c CancelRouteCommand) VolunteerID() kernel.UUID {
	return c.volunteerID
}

// RouteID returns the route being canceled.
func (c CancelRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}
