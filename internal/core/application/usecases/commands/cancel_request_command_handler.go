package commands

import (
	"context"
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/services"
	"tutam/internal/pkg/errs"
)

// CancelRequestCommandHandler terminalizes one request. Pre-pickup
// cancellation is always legal; in-transit cancellation is legal only for
// export requests and additionally reverses their consumed stock fragments.
// A live route membership is voided alongside.
type CancelRequestCommandHandler struct {
	uowFactory UoWFactory
	reconciler services.StockReconciler
	clock      kernel.Clock
}

// NewCancelRequestCommandHandler creates a handler for request cancellations.
func NewCancelRequestCommandHandler(
	uowFactory UoWFactory,
	reconciler services.StockReconciler,
	clock kernel.Clock,
) CancelRequestCommandHandler {
	return CancelRequestCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		clock:      clock,
	}
}

// Handle cancels the request, reverses export stock if it was in transit, and
// voids its route membership, in one transaction.
func (h CancelRequestCommandHandler) Handle(ctx context.Context, command CancelRequestCommand) error {
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

	requestRepo := uow.RequestRepository()
	routeRepo := uow.RouteRepository()

	canceled, err := requestRepo.Get(ctx, command.RequestID())
	if err != nil {
		return err
	}

	wasInTransit := canceled.Status().IsInTransit()

	if err := canceled.Cancel(command.Reason()); err != nil {
		return err
	}

	if wasInTransit && canceled.Direction().IsExport() {
		if err := h.reconciler.ReverseFulfillment(
			ctx, uow.StockRepository(), canceled.ID(), command.Reason(), now); err != nil {
			return err
		}
	}

	if err := requestRepo.Update(ctx, canceled); err != nil {
		return err
	}

	if err := settleParent(ctx, requestRepo, canceled); err != nil {
		return err
	}

	member, err := routeRepo.GetByScheduledMember(ctx, canceled.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		// Backlog request, nothing to void.
	case err != nil:
		return err
	default:
		if err := member.CancelMember(canceled.ID()); err != nil {
			return err
		}
		if err := routeRepo.Update(ctx, member); err != nil {
			return err
		}
	}

	if err := queueNotification(ctx, uow.OutboxRepository(),
		canceled.BranchID(), "Delivery request canceled", command.Reason(),
		notification.DataTypeDeliveryRequest, canceled.ID(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
