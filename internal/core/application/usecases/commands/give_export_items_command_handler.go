package commands

import (
	"context"
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/services"
)

var ErrRouteIsNotExport = errors.New("only outbound routes take goods out of stock")

// GiveExportItemsCommandHandler consumes stock lots for every member of an
// export route at the moment the branch hands the goods to the volunteer.
// The consumption is FIFO by expiration and audited per lot fragment, so a
// later cancellation can put exactly the consumed quantities back.
type GiveExportItemsCommandHandler struct {
	uowFactory UoWFactory
	reconciler services.StockReconciler
	clock      kernel.Clock
}

func NewGiveExportItemsCommandHandler(
	uowFactory UoWFactory,
	reconciler services.StockReconciler,
	clock kernel.Clock,
) GiveExportItemsCommandHandler {
	return GiveExportItemsCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		clock:      clock,
	}
}

func (h GiveExportItemsCommandHandler) Handle(ctx context.Context, command GiveExportItemsCommand) error {
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

	departing, err := routeRepo.Get(ctx, command.RouteID())
	if err != nil {
		return err
	}

	if !departing.Direction().IsExport() {
		return ErrRouteIsNotExport
	}

	for _, requestID := range departing.ScheduledMemberIDs() {
		member, err := requestRepo.Get(ctx, requestID)
		if err != nil {
			return err
		}

		demands := make([]services.ExportDemand, 0, len(member.LineItems()))
		for _, li := range member.LineItems() {
			demands = append(demands, services.ExportDemand{
				ItemID:   li.ItemID(),
				Quantity: li.Quantity(),
			})
		}

		if _, err := h.reconciler.Fulfill(
			ctx, uow.StockRepository(), requestID, departing.BranchID(),
			demands, command.Note(), command.LotNotes(), now); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
