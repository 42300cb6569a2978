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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// processingExportRouteFixture builds a Processing export route held by the
// volunteer, with its member request already in Shipping status.
func processingExportRouteFixture(
	t *testing.T,
	branchID, volunteerID kernel.UUID,
	window schedule.Interval,
) (*route.ScheduledRoute, *request.DeliveryRequest) {
	t.Helper()

	day := testDay()
	member := mustExportRequest(t, branchID, []schedule.ScheduledTime{mustWindow(t, day, 12, 14)}, 30)
	held := mustPendingRoute(t, branchID, request.BranchToAid, window, member)

	require.NoError(t, held.Accept(volunteerID, window.Start.Add(-time.Hour)))
	require.NoError(t, member.Accept())
	require.NoError(t, held.Start(window.Start))
	require.NoError(t, member.StartShipping())
	return held, member
}

func TestConfirmDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(13 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	held, member := processingExportRouteFixture(t, branchID, volunteerID, window)

	cmd, err := commands.NewConfirmDeliveryCommand(volunteerID, held.ID(),
		map[kernel.UUID]string{member.ID(): "https://storage.example.com/proof/handover.jpg"})
	require.NoError(t, err)

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	outbox := new(MockOutboxRepository)
	prompter := new(MockReschedulePrompter)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, held.ID()).Return(held, nil).Once(),
		requestRepo.On("Get", ctx, member.ID()).Return(member, nil).Once(),
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

	handler := commands.NewConfirmDeliveryCommandHandler(factory, prompter, clock)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, route.StatusFinished, held.Status())
	require.NotNil(t, held.FinishedDate())
	assert.Equal(t, request.StatusFinished, member.Status())

	queued := outbox.Calls[0].Arguments[1].(*notification.Notification)
	assert.Equal(t, notification.DataTypeScheduledRoute, queued.DataType())

	requestRepo.AssertExpectations(t)
	routeRepo.AssertExpectations(t)
	outbox.AssertExpectations(t)
	prompter.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestConfirmDeliveryCommandHandler_Handle_MissingProofImage(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(13 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	held, member := processingExportRouteFixture(t, branchID, volunteerID, window)

	cmd, err := commands.NewConfirmDeliveryCommand(volunteerID, held.ID(), nil)
	require.NoError(t, err)

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	prompter := new(MockReschedulePrompter)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, held.ID()).Return(held, nil).Once(),
		requestRepo.On("Get", ctx, member.ID()).Return(member, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewConfirmDeliveryCommandHandler(factory, prompter, clock)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.NotEqual(t, route.StatusFinished, held.Status())
	uow.AssertNotCalled(t, "Commit", ctx)
	prompter.AssertNotCalled(t, "PromptReschedule", ctx, branchID, request.BranchToAid)
	uow.AssertExpectations(t)
}

func TestConfirmDeliveryCommandHandler_Handle_WrongVolunteer(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(13 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	held, member := processingExportRouteFixture(t, branchID, volunteerID, window)

	cmd, err := commands.NewConfirmDeliveryCommand(kernel.NewUUID(), held.ID(),
		map[kernel.UUID]string{member.ID(): "https://storage.example.com/proof/handover.jpg"})
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(new(MockRequestRepository)).Once(),
		routeRepo.On("Get", ctx, held.ID()).Return(held, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewConfirmDeliveryCommandHandler(factory, new(MockReschedulePrompter), clock)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrNotRouteVolunteer)
	assert.Equal(t, route.StatusProcessing, held.Status())
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}

func TestConfirmDeliveryCommandHandler_Handle_NotExportRoute(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(13 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	inbound, _ := acceptedRouteFixture(t, branchID, volunteerID, window)

	cmd, err := commands.NewConfirmDeliveryCommand(volunteerID, inbound.ID(), nil)
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

	handler := commands.NewConfirmDeliveryCommandHandler(factory, new(MockReschedulePrompter), clock)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrRouteIsNotExport)
	uow.AssertExpectations(t)
}
