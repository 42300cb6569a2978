package commands_test

import (
	"context"
	"time"

	"tutam/internal/core/application/usecases/commands"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/core/domain/model/stock"
	"tutam/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) Add(ctx context.Context, r *request.DeliveryRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) Update(ctx context.Context, r *request.DeliveryRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) Get(ctx context.Context, id kernel.UUID) (*request.DeliveryRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.DeliveryRequest), args.Error(1)
}

func (m *MockRequestRepository) GetPendingBacklog(
	ctx context.Context,
	branchID kernel.UUID,
	direction request.Direction,
) ([]*request.DeliveryRequest, error) {
	args := m.Called(ctx, branchID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.DeliveryRequest), args.Error(1)
}

func (m *MockRequestRepository) GetSiblings(
	ctx context.Context,
	donationID, aidRequestID *kernel.UUID,
) ([]*request.DeliveryRequest, error) {
	args := m.Called(ctx, donationID, aidRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.DeliveryRequest), args.Error(1)
}

func (m *MockRequestRepository) SetParentOutcome(
	ctx context.Context,
	donationID, aidRequestID *kernel.UUID,
	outcome request.ParentOutcome,
) error {
	args := m.Called(ctx, donationID, aidRequestID, outcome)
	return args.Error(0)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.ScheduledRoute) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, r *route.ScheduledRoute) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) UpdateFrom(
	ctx context.Context,
	r *route.ScheduledRoute,
	expected route.Status,
) error {
	args := m.Called(ctx, r, expected)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.ScheduledRoute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.ScheduledRoute), args.Error(1)
}

func (m *MockRouteRepository) GetActiveByVolunteer(
	ctx context.Context,
	volunteerID kernel.UUID,
) ([]*route.ScheduledRoute, error) {
	args := m.Called(ctx, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*route.ScheduledRoute), args.Error(1)
}

func (m *MockRouteRepository) GetStaleActive(
	ctx context.Context,
	startedBefore time.Time,
) ([]*route.ScheduledRoute, error) {
	args := m.Called(ctx, startedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*route.ScheduledRoute), args.Error(1)
}

func (m *MockRouteRepository) HasScheduledMember(ctx context.Context, requestID kernel.UUID) (bool, error) {
	args := m.Called(ctx, requestID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRouteRepository) GetByScheduledMember(
	ctx context.Context,
	requestID kernel.UUID,
) (*route.ScheduledRoute, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.ScheduledRoute), args.Error(1)
}

type MockStockRepository struct{ mock.Mock }

func (m *MockStockRepository) AddLot(ctx context.Context, lot *stock.Lot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockStockRepository) UpdateLot(ctx context.Context, lot *stock.Lot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockStockRepository) GetLot(ctx context.Context, id kernel.UUID) (*stock.Lot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Lot), args.Error(1)
}

func (m *MockStockRepository) FindLot(ctx context.Context, key stock.LotKey) (*stock.Lot, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Lot), args.Error(1)
}

func (m *MockStockRepository) GetConsumableLots(
	ctx context.Context,
	itemID, branchID kernel.UUID,
	now time.Time,
) ([]*stock.Lot, error) {
	args := m.Called(ctx, itemID, branchID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stock.Lot), args.Error(1)
}

func (m *MockStockRepository) GetLotsExpiringBetween(ctx context.Context, from, to time.Time) ([]*stock.Lot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stock.Lot), args.Error(1)
}

func (m *MockStockRepository) AddAuditEntry(ctx context.Context, entry *stock.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStockRepository) UpdateAuditEntry(ctx context.Context, entry *stock.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStockRepository) GetFulfillmentEntries(
	ctx context.Context,
	requestID kernel.UUID,
) ([]*stock.AuditEntry, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stock.AuditEntry), args.Error(1)
}

func (m *MockStockRepository) GetOpenTargets(
	ctx context.Context,
	itemID, branchID kernel.UUID,
) ([]*stock.CampaignTarget, error) {
	args := m.Called(ctx, itemID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stock.CampaignTarget), args.Error(1)
}

func (m *MockStockRepository) UpdateTarget(ctx context.Context, target *stock.CampaignTarget) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockStockRepository) GetPendingExportClaims(
	ctx context.Context,
	branchID kernel.UUID,
	excludedRequestIDs []kernel.UUID,
) (map[kernel.UUID]float64, error) {
	args := m.Called(ctx, branchID, excludedRequestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]float64), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockOutboxRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetUnsent(ctx context.Context, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) RequestRepository() ports.DeliveryRequestRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRequestRepository)
}

func (m *MockUoW) RouteRepository() ports.ScheduledRouteRepository {
	args := m.Called()
	return args.Get(0).(ports.ScheduledRouteRepository)
}

func (m *MockUoW) StockRepository() ports.StockRepository {
	args := m.Called()
	return args.Get(0).(ports.StockRepository)
}

func (m *MockUoW) OutboxRepository() ports.NotificationOutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationOutboxRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockRouteSolver struct{ mock.Mock }

func (m *MockRouteSolver) Solve(ctx context.Context, problem ports.Problem) (ports.Solution, error) {
	args := m.Called(ctx, problem)
	return args.Get(0).(ports.Solution), args.Error(1)
}

type MockReschedulePrompter struct{ mock.Mock }

func (m *MockReschedulePrompter) PromptReschedule(
	ctx context.Context,
	branchID kernel.UUID,
	direction request.Direction,
) {
	m.Called(ctx, branchID, direction)
}
