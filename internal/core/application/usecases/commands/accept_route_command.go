package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/guard"
)

var ErrAcceptRouteCommandIsNotConstructed = errors.New(
	"AcceptRouteCommand must be created via NewAcceptRouteCommand constructor",
)

// AcceptRouteCommand represents a volunteer claiming a pending scheduled
// route from their reported location.
type AcceptRouteCommand struct { //nolint:recvcheck //using for validation
	volunteerID kernel.UUID
	routeID     kernel.UUID
	location    kernel.GeoLocation

	guard guard.ConstructorGuard
}

// NewAcceptRouteCommand creates a command for a volunteer to claim a route.
func NewAcceptRouteCommand(
	volunteerID kernel.UUID,
	routeID kernel.UUID,
	location kernel.GeoLocation,
) (AcceptRouteCommand, error) {
	cmd := AcceptRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		volunteerID.Validate(),
		routeID.Validate(),
		location.Validate(),
	); err != nil {
		return AcceptRouteCommand{}, err
	}

	cmd.volunteerID = volunteerID
	cmd.routeID = routeID
	cmd.location = location
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptRouteCommand) Validate() error {
	return c.guard.Validate(ErrAcceptRouteCommandIsNotConstructed)
}

// VolunteerID returns the claiming volunteer.
func (c AcceptRouteCommand) VolunteerID() kernel.UUID {
	return c.volunteerID
}

// RouteID returns the route being claimed.
func (c AcceptRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// Location returns where the volunteer claimed the route from.
func (c AcceptRouteCommand) Location() kernel.GeoLocation {
	return c.location
}
