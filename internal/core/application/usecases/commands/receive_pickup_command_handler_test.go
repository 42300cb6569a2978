package commands_test

import (
	"testing"
	"time"

	"tutam/internal/core/application/usecases/commands"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/core/domain/model/stock"
	"tutam/internal/core/domain/services"
	"tutam/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReceivePickupCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(13 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	held, member := acceptedRouteFixture(t, branchID, volunteerID, window)
	require.NoError(t, held.Start(window.Start))
	require.NoError(t, member.StartShipping())

	line := services.ReceiptLine{
		ItemID:        kernel.NewUUID(),
		ContributorID: kernel.NewUUID(),
		Expiration:    day.Add(30 * 24 * time.Hour),
		Quantity:      12,
	}
	cmd, err := commands.NewReceivePickupCommand(kernel.NewUUID(), held.ID(),
		map[kernel.UUID][]services.ReceiptLine{member.ID(): {line}})
	require.NoError(t, err)

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	stockRepo := new(MockStockRepository)
	outbox := new(MockOutboxRepository)
	prompter := new(MockReschedulePrompter)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, held.ID()).Return(held, nil).Once(),
		requestRepo.On("Get", ctx, member.ID()).Return(member, nil).Once(),
		uow.On("StockRepository").Return(stockRepo).Once(),
		stockRepo.On("GetOpenTargets", ctx, line.ItemID, branchID).
			Return([]*stock.CampaignTarget{}, nil).Once(),
		stockRepo.On("FindLot", ctx, mock.AnythingOfType("stock.LotKey")).
			Return(nil, errs.ErrObjectNotFound).Once(),
		stockRepo.On("AddLot", ctx, mock.AnythingOfType("*stock.Lot")).Return(nil).Once(),
		stockRepo.On("AddAuditEntry", ctx, mock.AnythingOfType("*stock.AuditEntry")).Return(nil).Once(),
		requestRepo.On("Update", ctx, mock.AnythingOfType("*request.DeliveryRequest")).Return(nil).Once(),
		requestRepo.On("GetSiblings", ctx, member.DonationID(), member.AidRequestID()).
			Return([]*request.DeliveryRequest{member}, nil).Once(),
		requestRepo.On("SetParentOutcome", ctx, member.DonationID(), member.AidRequestID(),
			request.ParentOutcomeFinished).Return(nil).Once(),
		routeRepo.On("Update", ctx, mock.AnythingOfType("*route.ScheduledRoute")).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outbox).Once(),
		outbox.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		prompter.On("PromptReschedule", ctx, branchID, request.BranchToAid).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReceivePickupCommandHandler(
		factory, services.NewStockReconciler(), prompter, clock)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, route.StatusFinished, held.Status())
	assert.Equal(t, request.StatusFinished, member.Status())

	queued := outbox.Calls[0].Arguments[1].(*notification.Notification)
	assert.Equal(t, notification.DataTypeScheduledRoute, queued.DataType())

	requestRepo.AssertExpectations(t)
	routeRepo.AssertExpectations(t)
	stockRepo.AssertExpectations(t)
	outbox.AssertExpectations(t)
	prompter.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestReceivePickupCommandHandler_Handle_ExportRouteRejected(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(13 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	outbound, member := processingExportRouteFixture(t, branchID, volunteerID, window)

	line := services.ReceiptLine{
		ItemID:        kernel.NewUUID(),
		ContributorID: kernel.NewUUID(),
		Expiration:    day.Add(30 * 24 * time.Hour),
		Quantity:      5,
	}
	cmd, err := commands.NewReceivePickupCommand(kernel.NewUUID(), outbound.ID(),
		map[kernel.UUID][]services.ReceiptLine{member.ID(): {line}})
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(new(MockRequestRepository)).Once(),
		routeRepo.On("Get", ctx, outbound.ID()).Return(outbound, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReceivePickupCommandHandler(
		factory, services.NewStockReconciler(), new(MockReschedulePrompter), clock)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrRouteIsNotImport)
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}
