package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/guard"
)

var ErrStartRouteCommandIsNotConstructed = errors.New(
	"StartRouteCommand must be created via NewStartRouteCommand constructor",
)

// StartRouteCommand represents a volunteer beginning an accepted route.
type StartRouteCommand struct { //nolint:recvcheck //using for validation
	volunteerID kernel.UUID
	routeID     kernel.UUID
	location    kernel.GeoLocation

	guard guard.ConstructorGuard
}

// NewStartRouteCommand creates a command to start an accepted route.
func NewStartRouteCommand(
	volunteerID kernel.UUID,
	routeID kernel.UUID,
	location kernel.GeoLocation,
) (StartRouteCommand, error) {
	cmd := StartRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		volunteerID.Validate(),
		routeID.Validate(),
		location.Validate(),
	); err != nil {
		return StartRouteCommand{}, err
	}

	cmd.volunteerID = volunteerID
	cmd.routeID = routeID
	cmd.location = location
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartRouteCommand) Validate() error {
	return c.guard.Validate(ErrStartRouteCommandIsNotConstructed)
}

// VolunteerID returns the volunteer starting the route.
func (c StartRouteCommand) VolunteerID() kernel.UUID {
	return c.volunteerID
}

// RouteID returns the route being started.
func (c StartRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// Location returns where the volunteer started the route from.
func (c StartRouteCommand) Location() kernel.GeoLocation {
	return c.location
}
