package commands

import (
	"context"
	"log/slog"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/services"
	"tutam/internal/core/ports"
)

// TriggerRescheduleCommandHandler runs one full scheduling pass for a branch
// and direction: it expires out-of-date backlog, groups the rest by window
// overlap, splits groups into solver-sized batches, solves each batch into
// vehicle tours, and assembles accepted tours into scheduled routes.
//
// A solver failure or stock shortage skips only the affected batch; the rest
// of the pass proceeds and commits. Unassigned requests from a batch get one
// isolated single-vehicle retry before they fall back to the next pass.
type TriggerRescheduleCommandHandler struct {
	uowFactory UoWFactory
	grouper    services.DemandGrouper
	batcher    services.CapacityBatcher
	planner    services.RoutePlanner
	assembler  services.RouteAssembler
	reconciler services.StockReconciler
	solver     ports.RouteSolver
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewTriggerRescheduleCommandHandler(
	uowFactory UoWFactory,
	grouper services.DemandGrouper,
	batcher services.CapacityBatcher,
	planner services.RoutePlanner,
	assembler services.RouteAssembler,
	reconciler services.StockReconciler,
	solver ports.RouteSolver,
	clock kernel.Clock,
	logger *slog.Logger,
) TriggerRescheduleCommandHandler {
	return TriggerRescheduleCommandHandler{
		uowFactory: uowFactory,
		grouper:    grouper,
		batcher:    batcher,
		planner:    planner,
		assembler:  assembler,
		reconciler: reconciler,
		solver:     solver,
		clock:      clock,
		logger:     logger.With("component", "reschedule"),
	}
}

func (h TriggerRescheduleCommandHandler) Handle(ctx context.Context, command TriggerRescheduleCommand) error {
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

	backlog, err := requestRepo.GetPendingBacklog(ctx, command.BranchID(), command.Direction())
	if err != nil {
		return err
	}

	grouping, err := h.grouper.Group(backlog, now)
	if err != nil {
		return err
	}

	for _, expired := range grouping.Expired {
		if err := requestRepo.Update(ctx, expired); err != nil {
			return err
		}
		if err := settleParent(ctx, requestRepo, expired); err != nil {
			return err
		}
		if err := queueNotification(ctx, uow.OutboxRepository(),
			command.BranchID(), "Delivery request expired",
			"All availability windows passed before the request could be scheduled.",
			notification.DataTypeDeliveryRequest, expired.ID(), now); err != nil {
			return err
		}
	}

	skillTag := 1
	for _, group := range grouping.Groups {
		for _, batch := range h.batcher.Split(group) {
			if err := h.scheduleBatch(ctx, uow, command, batch, &skillTag, now); err != nil {
				return err
			}
		}
	}

	return uow.Commit(ctx)
}

// scheduleBatch solves one batch and assembles the resulting tour segments
// into routes. Solver and availability failures are logged and skip the
// batch; everything else aborts the pass.
func (h TriggerRescheduleCommandHandler) scheduleBatch(
	ctx context.Context,
	uow UoW,
	command TriggerRescheduleCommand,
	batch services.Batch,
	skillTag *int,
	now time.Time,
) error {
	if command.Direction().IsExport() {
		ok, err := h.checkBatchStock(ctx, uow.StockRepository(), command.BranchID(), batch, now)
		if err != nil {
			return err
		}
		if !ok {
			h.logger.Warn("insufficient stock, batch skipped",
				"branchId", command.BranchID().String(),
				"members", len(batch.Members))
			return nil
		}
	}

	segments, unassigned, err := h.solveBatch(ctx, command, batch, skillTag)
	if err != nil {
		h.logger.Error("solver failed, batch skipped",
			"branchId", command.BranchID().String(),
			"members", len(batch.Members),
			"error", err)
		return nil
	}

	for _, r := range unassigned {
		retry := services.Batch{
			Window:            batch.Window,
			Members:           []*request.DeliveryRequest{r},
			ProposedFleetSize: 1,
		}

		retrySegments, _, err := h.solveBatch(ctx, command, retry, skillTag)
		if err != nil {
			h.logger.Warn("isolated retry failed, request deferred",
				"requestId", r.ID().String(),
				"error", err)
			continue
		}
		segments = append(segments, retrySegments...)
	}

	for _, segment := range segments {
		if err := h.assembleSegment(ctx, uow, command, batch, segment, now); err != nil {
			return err
		}
	}

	return nil
}

// solveBatch builds the solver problem for one batch, calls the solver, and
// decodes the answer into ordered tour segments plus the leftovers the solver
// could not fit.
func (h TriggerRescheduleCommandHandler) solveBatch(
	ctx context.Context,
	command TriggerRescheduleCommand,
	batch services.Batch,
	skillTag *int,
) ([]services.Segment, []*request.DeliveryRequest, error) {
	problem, shipments, err := h.planner.BuildProblem(batch, *skillTag, command.BranchLocation())
	if err != nil {
		return nil, nil, err
	}
	*skillTag++

	solution, err := h.solver.Solve(ctx, problem)
	if err != nil {
		return nil, nil, err
	}

	segments := h.planner.DecodeSolution(solution, shipments, command.Direction())
	return segments, h.planner.UnassignedRequests(solution, shipments), nil
}

// assembleSegment turns one solved tour segment into a scheduled route,
// dropping members that got a live membership since the backlog was read.
func (h TriggerRescheduleCommandHandler) assembleSegment(
	ctx context.Context,
	uow UoW,
	command TriggerRescheduleCommand,
	batch services.Batch,
	segment services.Segment,
	now time.Time,
) error {
	routeRepo := uow.RouteRepository()
	requestRepo := uow.RequestRepository()

	kept := segment.Members[:0:0]
	for _, sm := range segment.Members {
		scheduled, err := routeRepo.HasScheduledMember(ctx, sm.Request.ID())
		if err != nil {
			return err
		}
		if !scheduled {
			kept = append(kept, sm)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	segment.Members = kept

	assembled, accepted, err := h.assembler.Assemble(
		kernel.NewUUID(), command.BranchID(), command.Direction(),
		batch.Window, segment, now)
	if err != nil {
		return err
	}
	if !accepted {
		return nil
	}

	if err := routeRepo.Add(ctx, assembled); err != nil {
		return err
	}

	for _, sm := range segment.Members {
		if err := requestRepo.Update(ctx, sm.Request); err != nil {
			return err
		}
	}

	return queueNotification(ctx, uow.OutboxRepository(),
		command.BranchID(), "Route scheduled",
		"A new route is waiting for a volunteer.",
		notification.DataTypeScheduledRoute, assembled.ID(), now)
}

// checkBatchStock aggregates the batch's demand per item and asks the stock
// reconciler whether the branch can cover it, net of claims already held by
// other pending export requests.
func (h TriggerRescheduleCommandHandler) checkBatchStock(
	ctx context.Context,
	stockRepo ports.StockRepository,
	branchID kernel.UUID,
	batch services.Batch,
	now time.Time,
) (bool, error) {
	byItem := make(map[kernel.UUID]float64)
	order := make([]kernel.UUID, 0)
	ids := make([]kernel.UUID, 0, len(batch.Members))

	for _, r := range batch.Members {
		ids = append(ids, r.ID())
		for _, li := range r.LineItems() {
			if _, seen := byItem[li.ItemID()]; !seen {
				order = append(order, li.ItemID())
			}
			byItem[li.ItemID()] += li.Quantity()
		}
	}

	demands := make([]services.ExportDemand, 0, len(order))
	for _, itemID := range order {
		demands = append(demands, services.ExportDemand{
			ItemID:   itemID,
			Quantity: byItem[itemID],
		})
	}

	return h.reconciler.CheckAvailability(ctx, stockRepo, branchID, batch.Window, ids, demands, now)
}
