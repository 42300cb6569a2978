package commands

import (
	"context"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/model/request"
)

// ConfirmDeliveryCommandHandler closes out an export route once the volunteer
// hands the goods to the aid recipient: every member request gets its proof
// image, finishes, and the route itself finishes. Stock was already consumed
// at handover, so no reconciliation happens here.
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
	prompter   ReschedulePrompter
	clock      kernel.Clock
}

func NewConfirmDeliveryCommandHandler(
	uowFactory UoWFactory,
	prompter ReschedulePrompter,
	clock kernel.Clock,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		prompter:   prompter,
		clock:      clock,
	}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, command ConfirmDeliveryCommand) error {
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

	if !arrived.Direction().IsExport() {
		return ErrRouteIsNotExport
	}

	if v := arrived.VolunteerID(); v == nil || !v.IsEqual(command.VolunteerID()) {
		return ErrNotRouteVolunteer
	}

	for _, requestID := range arrived.ScheduledMemberIDs() {
		member, err := requestRepo.Get(ctx, requestID)
		if err != nil {
			return err
		}

		// The volunteer confirming the handover implies the remaining
		// progression stages even when they never tapped through them.
		for member.Status() != request.StatusDelivered {
			if err := member.Advance(); err != nil {
				return err
			}
		}

		if err := member.AttachProofImage(command.ProofImages()[requestID]); err != nil {
			return err
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
		"An outbound route delivered its goods to the recipient.",
		notification.DataTypeScheduledRoute, arrived.ID(), now); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// The finished members release their stock claims, which may unblock
	// exports that were waiting on availability.
	h.prompter.PromptReschedule(ctx, arrived.BranchID(), request.BranchToAid)

	return nil
}
