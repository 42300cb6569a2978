package commands

import (
	"context"
	"errors"

	"tutam/internal/core/domain/model/kernel"
)

// ErrNotRouteVolunteer is returned when someone other than the assigned
// volunteer operates on a route.
var ErrNotRouteVolunteer = errors.New("route is assigned to another volunteer")

// StartRouteCommandHandler moves an accepted route to Processing and its
// member requests to Shipping. A route cannot start before its start date.
type StartRouteCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
}

// NewStartRouteCommandHandler creates a handler for route starts.
func NewStartRouteCommandHandler(uowFactory UoWFactory, clock kernel.Clock) StartRouteCommandHandler {
	return StartRouteCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle starts the route and ships its live members in one transaction.
func (h StartRouteCommandHandler) Handle(ctx context.Context, command StartRouteCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	requestRepo := uow.RequestRepository()

	started, err := routeRepo.Get(ctx, command.RouteID())
	if err != nil {
		return err
	}

	if v := started.VolunteerID(); v == nil || !v.IsEqual(command.VolunteerID()) {
		return ErrNotRouteVolunteer
	}

	if err := started.Start(now); err != nil {
		return err
	}

	for _, requestID := range started.ScheduledMemberIDs() {
		member, err := requestRepo.Get(ctx, requestID)
		if err != nil {
			return err
		}

		if err := member.StartShipping(); err != nil {
			return err
		}

		if err := requestRepo.Update(ctx, member); err != nil {
			return err
		}
	}

	if err := routeRepo.Update(ctx, started); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
