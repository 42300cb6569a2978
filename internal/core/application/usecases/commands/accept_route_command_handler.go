package commands

import (
	"context"
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/model/route"
)

// ErrVolunteerBusy is returned when the volunteer already holds an accepted
// or processing route whose window overlaps the claimed one.
var ErrVolunteerBusy = errors.New("volunteer already holds an overlapping route")

// AcceptRouteCommandHandler processes route claims.
//
// The claim is a compare-and-swap on the route's Pending status, and the
// volunteer's other active routes are rechecked for window overlap inside the
// same transaction, so two concurrent accepts can never both succeed.
type AcceptRouteCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
}

// NewAcceptRouteCommandHandler creates a handler for route claims.
func NewAcceptRouteCommandHandler(uowFactory UoWFactory, clock kernel.Clock) AcceptRouteCommandHandler {
	return AcceptRouteCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle claims the route for the volunteer and moves every live member
// request to Accepted, in one transaction.
func (h AcceptRouteCommandHandler) Handle(ctx context.Context, command AcceptRouteCommand) error {
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

	claimed, err := routeRepo.Get(ctx, command.RouteID())
	if err != nil {
		return err
	}

	active, err := routeRepo.GetActiveByVolunteer(ctx, command.VolunteerID())
	if err != nil {
		return err
	}
	for _, other := range active {
		if claimed.OverlapsWindow(other) {
			return ErrVolunteerBusy
		}
	}

	if err := claimed.Accept(command.VolunteerID(), now); err != nil {
		return err
	}

	for _, requestID := range claimed.ScheduledMemberIDs() {
		member, err := requestRepo.Get(ctx, requestID)
		if err != nil {
			return err
		}

		if err := member.Accept(); err != nil {
			return err
		}

		if err := requestRepo.Update(ctx, member); err != nil {
			return err
		}
	}

	// The write carries the Pending guard down to the database, so of two
	// concurrent accepts only the first commit survives.
	if err := routeRepo.UpdateFrom(ctx, claimed, route.StatusPending); err != nil {
		return err
	}

	if err := queueNotification(ctx, uow.OutboxRepository(),
		claimed.BranchID(), "Route accepted",
		"A volunteer accepted a scheduled route.",
		notification.DataTypeScheduledRoute, claimed.ID(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
