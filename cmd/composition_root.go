package cmd

import (
	"context"
	"log/slog"

	httpin "tutam/internal/adapters/in/http"
	"tutam/internal/adapters/out/notifier"
	"tutam/internal/adapters/out/postgres"
	"tutam/internal/adapters/out/solver"
	"tutam/internal/core/application/usecases/commands"
	"tutam/internal/core/application/usecases/queries"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/services"
	"tutam/internal/core/ports"
	"tutam/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services and use case handlers. All
// handlers share the same unit-of-work factory and clock.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *slog.Logger

	grouper    services.DemandGrouper
	batcher    services.CapacityBatcher
	planner    services.RoutePlanner
	assembler  services.RouteAssembler
	reconciler services.StockReconciler

	solverClient *solver.Client
	hub          *notifier.Hub
	drainer      *notifier.OutboxDrainer

	// Shared between the cron schedule and the handlers that prompt an
	// out-of-band pass after a route finishes.
	rescheduleJob *jobs.RescheduleJob
}

// NewCompositionRoot builds the object graph from the parsed configuration.
// The FCM sink is attached only when credentials are configured.
func NewCompositionRoot(
	ctx context.Context,
	configs Config,
	gormDB *gorm.DB,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	grouper, err := services.NewDemandGrouper(configs.MinWindowOverlap)
	if err != nil {
		return nil, err
	}

	batcher, err := services.NewCapacityBatcher(
		configs.SolverPageSize,
		configs.VehicleCapacityPercent,
		configs.MaxFleetSize,
		configs.ProposedFleetSize,
	)
	if err != nil {
		return nil, err
	}

	planner, err := services.NewRoutePlanner(
		configs.VehicleCapacityPercent,
		configs.MaxHoursPerRoute,
		configs.SpeedFactor,
		configs.ServiceDuration,
	)
	if err != nil {
		return nil, err
	}

	assembler, err := services.NewRouteAssembler(
		configs.MinVolumePercent,
		configs.MaxVolumePercent,
		configs.UrgencyHorizon,
	)
	if err != nil {
		return nil, err
	}

	solverClient, err := solver.NewClient(configs.SolverBaseURL, configs.SolverAPIKey)
	if err != nil {
		return nil, err
	}

	branches, err := configs.BranchTargets()
	if err != nil {
		return nil, err
	}

	clock := kernel.NewSystemClock()
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	hub := notifier.NewHub(logger)

	sinks := []ports.NotificationSink{hub}
	if configs.FCMCredentialsFile != "" {
		fcm, fcmErr := notifier.NewFCMSender(
			ctx, configs.FCMCredentialsFile, notifier.NewGormTokenStore(gormDB), logger)
		if fcmErr != nil {
			return nil, fcmErr
		}
		sinks = append(sinks, fcm)
	}

	drainer := notifier.NewOutboxDrainer(
		uowFactory.Create().OutboxRepository(), sinks, clock, logger)

	root := &CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   uowFactory,
		clock:        clock,
		logger:       logger,
		grouper:      grouper,
		batcher:      batcher,
		planner:      planner,
		assembler:    assembler,
		reconciler:   services.NewStockReconciler(),
		solverClient: solverClient,
		hub:          hub,
		drainer:      drainer,
	}

	root.rescheduleJob = jobs.NewRescheduleJob(
		root.CreateTriggerRescheduleCommandHandler(), branches, configs.RescheduleCron, logger)

	return root, nil
}

func (c *CompositionRoot) commandUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateTriggerRescheduleCommandHandler() commands.TriggerRescheduleCommandHandler {
	return commands.NewTriggerRescheduleCommandHandler(
		c.commandUoWFactory(),
		c.grouper,
		c.batcher,
		c.planner,
		c.assembler,
		c.reconciler,
		c.solverClient,
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateAcceptRouteCommandHandler() commands.AcceptRouteCommandHandler {
	return commands.NewAcceptRouteCommandHandler(c.commandUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateStartRouteCommandHandler() commands.StartRouteCommandHandler {
	return commands.NewStartRouteCommandHandler(c.commandUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCancelRouteCommandHandler() commands.CancelRouteCommandHandler {
	return commands.NewCancelRouteCommandHandler(c.commandUoWFactory(), c.reconciler, c.clock)
}

func (c *CompositionRoot) CreateAdvanceRequestCommandHandler() commands.AdvanceRequestCommandHandler {
	return commands.NewAdvanceRequestCommandHandler(c.commandUoWFactory())
}

func (c *CompositionRoot) CreateCancelRequestCommandHandler() commands.CancelRequestCommandHandler {
	return commands.NewCancelRequestCommandHandler(c.commandUoWFactory(), c.reconciler, c.clock)
}

func (c *CompositionRoot) CreateReceivePickupCommandHandler() commands.ReceivePickupCommandHandler {
	return commands.NewReceivePickupCommandHandler(
		c.commandUoWFactory(), c.reconciler, c.rescheduleJob, c.clock)
}

func (c *CompositionRoot) CreateGiveExportItemsCommandHandler() commands.GiveExportItemsCommandHandler {
	return commands.NewGiveExportItemsCommandHandler(c.commandUoWFactory(), c.reconciler, c.clock)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(
		c.commandUoWFactory(), c.rescheduleJob, c.clock)
}

func (c *CompositionRoot) CreateResolveReportCommandHandler() commands.ResolveReportCommandHandler {
	return commands.NewResolveReportCommandHandler(c.commandUoWFactory())
}

func (c *CompositionRoot) CreateMarkLateRoutesCommandHandler() commands.MarkLateRoutesCommandHandler {
	return commands.NewMarkLateRoutesCommandHandler(c.commandUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateGetPendingRequestsQueryHandler() queries.GetPendingRequestsQueryHandler {
	return queries.NewGetPendingRequestsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetVolunteerRoutesQueryHandler() queries.GetVolunteerRoutesQueryHandler {
	return queries.NewGetVolunteerRoutesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRouteDetailQueryHandler() queries.GetRouteDetailQueryHandler {
	return queries.NewGetRouteDetailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStockAvailabilityQueryHandler() queries.GetStockAvailabilityQueryHandler {
	return queries.NewGetStockAvailabilityQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST server over all handlers and the
// notification hub.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateTriggerRescheduleCommandHandler(),
		c.CreateAcceptRouteCommandHandler(),
		c.CreateStartRouteCommandHandler(),
		c.CreateCancelRouteCommandHandler(),
		c.CreateAdvanceRequestCommandHandler(),
		c.CreateCancelRequestCommandHandler(),
		c.CreateReceivePickupCommandHandler(),
		c.CreateGiveExportItemsCommandHandler(),
		c.CreateConfirmDeliveryCommandHandler(),
		c.CreateResolveReportCommandHandler(),
		c.CreateGetPendingRequestsQueryHandler(),
		c.CreateGetVolunteerRoutesQueryHandler(),
		c.CreateGetRouteDetailQueryHandler(),
		c.CreateGetStockAvailabilityQueryHandler(),
		c.hub,
	)
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateMarkLateRoutesCommandHandler(),
		c.rescheduleJob,
		c.uowFactory,
		c.drainer,
		c.clock,
		c.logger,
	)
}

// FuncUoWFactory adapts a closure to the commands.UoWFactory interface.
type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
