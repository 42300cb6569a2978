package commands

import (
	"context"
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/services"
)

var ErrRouteIsNotImport = errors.New("only branch-bound routes deliver goods into stock")

// ReceivePickupCommandHandler closes out an import route at the branch door:
// every declared receipt line lands in a stock lot, the member requests
// finish, and the route itself finishes.
type ReceivePickupCommandHandler struct {
	uowFactory UoWFactory
	reconciler services.StockReconciler
	prompter   ReschedulePrompter
	clock      kernel.Clock
}

func NewReceivePickupCommandHandler(
	uowFactory UoWFactory,
	reconciler services.StockReconciler,
	prompter ReschedulePrompter,
	clock kernel.Clock,
) ReceivePickupCommandHandler {
	return ReceivePickupCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		prompter:   prompter,
		clock:      clock,
	}
}

func (h ReceivePickupCommandHandler) Handle(ctx context.Context, command ReceivePickupCommand) error {
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

	arrived, err := routeRepo.Get(ctx, command.RouteID())
	if err != nil {
		return err
	}

	if arrived.Direction().IsExport() {
		return ErrRouteIsNotImport
	}

	for _, requestID := range arrived.ScheduledMemberIDs() {
		member, err := requestRepo.Get(ctx, requestID)
		if err != nil {
			return err
		}

		lines := command.Receipts()[requestID]
		if len(lines) > 0 {
			if _, err := h.reconciler.Receive(
				ctx, uow.StockRepository(), requestID,
				arrived.BranchID(), lines, now); err != nil {
				return err
			}
		}

		// The branch confirming receipt implies the remaining progression
		// stages even when the volunteer never tapped through them.
		for member.Status() != request.StatusDelivered {
			if err := member.Advance(); err != nil {
				return err
			}
		}

		if err := member.Finish(); err != nil {
			return err
		}

		if err := requestRepo.Update(ctx, member); err != nil {
			return err
		}

		if err := settleParent(ctx, requestRepo, member); err != nil {
			return err
		}
	}

	if err := arrived.Finish(now); err != nil {
		return err
	}

	if err := routeRepo.Update(ctx, arrived); err != nil {
		return err
	}

	if err := queueNotification(ctx, uow.OutboxRepository(),
		arrived.BranchID(), "Route finished",
		"An inbound route delivered its goods to the branch.",
		notification.DataTypeScheduledRoute, arrived.ID(), now); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// The received goods may unblock exports that were waiting on stock.
	h.prompter.PromptReschedule(ctx, arrived.BranchID(), request.BranchToAid)

	return nil
}
