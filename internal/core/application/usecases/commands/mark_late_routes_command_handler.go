package commands

import (
	"context"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/model/route"
)

// MarkLateRoutesCommandHandler is the periodic lateness sweep. A started
// route whose window ended more than the grace period ago goes Late, and its
// still-live members expire so the backlog stops waiting for them.
type MarkLateRoutesCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
}

func NewMarkLateRoutesCommandHandler(uowFactory UoWFactory, clock kernel.Clock) MarkLateRoutesCommandHandler {
	return MarkLateRoutesCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h MarkLateRoutesCommandHandler) Handle(ctx context.Context, command MarkLateRoutesCommand) error {
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

	stale, err := routeRepo.GetStaleActive(ctx, now.Add(-route.StaleAfter))
	if err != nil {
		return err
	}

	for _, r := range stale {
		memberIDs := r.ScheduledMemberIDs()

		marked, err := r.MarkLateIfStale(now)
		if err != nil {
			return err
		}
		if !marked {
			continue
		}

		for _, requestID := range memberIDs {
			member, err := requestRepo.Get(ctx, requestID)
			if err != nil {
				return err
			}

			if err := member.Expire(); err != nil {
				return err
			}

			if err := requestRepo.Update(ctx, member); err != nil {
				return err
			}

			if err := settleParent(ctx, requestRepo, member); err != nil {
				return err
			}
		}

		if err := routeRepo.Update(ctx, r); err != nil {
			return err
		}

		if v := r.VolunteerID(); v != nil {
			if err := queueNotification(ctx, uow.OutboxRepository(),
				*v, "Route marked late",
				"A started route passed its operating window without finishing.",
				notification.DataTypeScheduledRoute, r.ID(), now); err != nil {
				return err
			}
		}
	}

	return uow.Commit(ctx)
}
