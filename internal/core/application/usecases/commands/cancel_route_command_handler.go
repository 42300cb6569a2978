package commands

import (
	"context"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/services"
)

// CancelRouteCommandHandler processes a volunteer giving back a route.
//
// Before the window's end the route becomes CanceledByVolunteer, its members
// return to Pending, and a fresh Pending clone carrying the same ordered
// members is spawned so they re-enter the solver next pass. After the
// window's end the route goes Late instead: members expire and no clone is
// spawned. Export routes additionally get their consumed stock fragments
// reversed.
type CancelRouteCommandHandler struct {
	uowFactory UoWFactory
	reconciler services.StockReconciler
	clock      kernel.Clock
}

// NewCancelRouteCommandHandler creates a handler for route cancellations.
func NewCancelRouteCommandHandler(
	uowFactory UoWFactory,
	reconciler services.StockReconciler,
	clock kernel.Clock,
) CancelRouteCommandHandler {
	return CancelRouteCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		clock:      clock,
	}
}

// Handle cancels the route with the member cascade and, when canceled in
// time, spawns the retry clone, in one transaction.
func (h CancelRouteCommandHandler) Handle(ctx context.Context, command CancelRouteCommand) error {
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

	canceled, err := routeRepo.Get(ctx, command.RouteID())
	if err != nil {
		return err
	}

	if v := canceled.VolunteerID(); v == nil || !v.IsEqual(command.VolunteerID()) {
		return ErrNotRouteVolunteer
	}

	memberIDs := canceled.ScheduledMemberIDs()

	late, err := canceled.CancelByVolunteer(now)
	if err != nil {
		return err
	}

	for _, requestID := range memberIDs {
		member, err := requestRepo.Get(ctx, requestID)
		if err != nil {
			return err
		}

		if late {
			err = member.Expire()
		} else {
			err = member.BackToPending()
		}
		if err != nil {
			return err
		}

		if canceled.Direction().IsExport() {
			if err := h.reconciler.ReverseFulfillment(
				ctx, uow.StockRepository(), member.ID(),
				"route canceled by volunteer", now); err != nil {
				return err
			}
		}

		if err := requestRepo.Update(ctx, member); err != nil {
			return err
		}

		if late {
			if err := settleParent(ctx, requestRepo, member); err != nil {
				return err
			}
		}
	}

	if err := routeRepo.Update(ctx, canceled); err != nil {
		return err
	}

	if !late {
		clone, err := canceled.CloneForRetry(kernel.NewUUID(), now)
		if err != nil {
			return err
		}
		if err := routeRepo.Add(ctx, clone); err != nil {
			return err
		}
	}

	if err := queueNotification(ctx, uow.OutboxRepository(),
		canceled.BranchID(), "Route canceled",
		"The volunteer gave back a scheduled route.",
		notification.DataTypeScheduledRoute, canceled.ID(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
