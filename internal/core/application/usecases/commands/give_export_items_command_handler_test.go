package commands_test

import (
	"testing"
	"time"

	"tutam/internal/core/application/usecases/commands"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/core/domain/model/stock"
	"tutam/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGiveExportItemsCommandHandler_Handle_PerLotNotes(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(11 * time.Hour))
	now := day.Add(11 * time.Hour)

	branchID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	member := mustExportRequest(t, branchID, []schedule.ScheduledTime{mustWindow(t, day, 12, 14)}, 30)
	departing := mustPendingRoute(t, branchID, request.BranchToAid, window, member)
	itemID := member.LineItems()[0].ItemID()

	sooner, err := stock.NewLot(kernel.NewUUID(), stock.LotKey{
		ItemID: itemID, BranchID: branchID, ContributorID: kernel.NewUUID(),
		Expiration: day.Add(5 * 24 * time.Hour),
	}, 20)
	require.NoError(t, err)
	later, err := stock.NewLot(kernel.NewUUID(), stock.LotKey{
		ItemID: itemID, BranchID: branchID, ContributorID: kernel.NewUUID(),
		Expiration: day.Add(40 * 24 * time.Hour),
	}, 20)
	require.NoError(t, err)

	cmd, err := commands.NewGiveExportItemsCommand(kernel.NewUUID(), departing.ID(), "handover",
		map[kernel.UUID]string{sooner.ID(): "short-dated, load last"})
	require.NoError(t, err)

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	stockRepo := new(MockStockRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, departing.ID()).Return(departing, nil).Once(),
		requestRepo.On("Get", ctx, member.ID()).Return(member, nil).Once(),
		uow.On("StockRepository").Return(stockRepo).Once(),
		stockRepo.On("GetConsumableLots", ctx, itemID, branchID, now).
			Return([]*stock.Lot{sooner, later}, nil).Once(),
		stockRepo.On("UpdateLot", ctx, sooner).Return(nil).Once(),
		stockRepo.On("AddAuditEntry", ctx, mock.AnythingOfType("*stock.AuditEntry")).Return(nil).Once(),
		stockRepo.On("UpdateLot", ctx, later).Return(nil).Once(),
		stockRepo.On("AddAuditEntry", ctx, mock.AnythingOfType("*stock.AuditEntry")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewGiveExportItemsCommandHandler(factory, services.NewStockReconciler(), clock)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	// The 30-unit demand split FIFO: 20 from the sooner lot, 10 from the
	// later one. Only the annotated lot's fragment carries the lot note.
	entries := make([]*stock.AuditEntry, 0, 2)
	for _, call := range stockRepo.Calls {
		if call.Method == "AddAuditEntry" {
			entries = append(entries, call.Arguments[1].(*stock.AuditEntry))
		}
	}
	require.Len(t, entries, 2)
	assert.True(t, entries[0].LotID().IsEqual(sooner.ID()))
	assert.InDelta(t, 20, entries[0].Quantity(), 1e-9)
	assert.Equal(t, "short-dated, load last", entries[0].Note())
	assert.True(t, entries[1].LotID().IsEqual(later.ID()))
	assert.InDelta(t, 10, entries[1].Quantity(), 1e-9)
	assert.Equal(t, "handover", entries[1].Note())

	assert.InDelta(t, 0, sooner.Quantity(), 1e-9)
	assert.InDelta(t, 10, later.Quantity(), 1e-9)

	stockRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestGiveExportItemsCommandHandler_Handle_ImportRouteRejected(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(11 * time.Hour))

	branchID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	member := mustImportRequest(t, branchID, []schedule.ScheduledTime{mustWindow(t, day, 12, 14)}, 30)
	inbound := mustPendingRoute(t, branchID, request.DonorToBranch, window, member)

	cmd, err := commands.NewGiveExportItemsCommand(kernel.NewUUID(), inbound.ID(), "handover", nil)
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(new(MockRequestRepository)).Once(),
		routeRepo.On("Get", ctx, inbound.ID()).Return(inbound, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewGiveExportItemsCommandHandler(factory, services.NewStockReconciler(), clock)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrRouteIsNotExport)
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}
