package commands_test

import (
	"testing"
	"time"

	"tutam/internal/core/application/usecases/commands"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// acceptedRouteFixture builds an Accepted route held by the volunteer, with
// its member request already in Accepted status.
func acceptedRouteFixture(
	t *testing.T,
	branchID, volunteerID kernel.UUID,
	window schedule.Interval,
) (*route.ScheduledRoute, *request.DeliveryRequest) {
	t.Helper()

	day := testDay()
	member := mustImportRequest(t, branchID, []schedule.ScheduledTime{mustWindow(t, day, 12, 14)}, 30)
	held := mustPendingRoute(t, branchID, request.DonorToBranch, window, member)

	require.NoError(t, held.Accept(volunteerID, window.Start.Add(-time.Hour)))
	require.NoError(t, member.Accept())
	return held, member
}

func TestCancelRouteCommandHandler_Handle_InTime_SpawnsClone(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(13 * time.Hour)) // window still open

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	held, member := acceptedRouteFixture(t, branchID, volunteerID, window)

	cmd, err := commands.NewCancelRouteCommand(volunteerID, held.ID())
	require.NoError(t, err)

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	outbox := new(MockOutboxRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, held.ID()).Return(held, nil).Once(),
		requestRepo.On("Get", ctx, member.ID()).Return(member, nil).Once(),
		requestRepo.On("Update", ctx, mock.AnythingOfType("*request.DeliveryRequest")).Return(nil).Once(),
		routeRepo.On("Update", ctx, mock.AnythingOfType("*route.ScheduledRoute")).Return(nil).Once(),
		routeRepo.On("Add", ctx, mock.AnythingOfType("*route.ScheduledRoute")).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outbox).Once(),
		outbox.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelRouteCommandHandler(factory, services.NewStockReconciler(), clock)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, route.StatusCanceledByVolunteer, held.Status())
	assert.Equal(t, request.StatusPending, member.Status())

	addCall := routeRepo.Calls[len(routeRepo.Calls)-1]
	clone := addCall.Arguments[1].(*route.ScheduledRoute)
	assert.Equal(t, route.StatusPending, clone.Status())
	assert.NotEqual(t, held.ID(), clone.ID())
	require.Len(t, clone.Members(), 1)
	assert.True(t, clone.Members()[0].RequestID().IsEqual(member.ID()))

	routeRepo.AssertExpectations(t)
	requestRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelRouteCommandHandler_Handle_Late_ExpiresMembers(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(15 * time.Hour)) // window passed

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	held, member := acceptedRouteFixture(t, branchID, volunteerID, window)

	cmd, err := commands.NewCancelRouteCommand(volunteerID, held.ID())
	require.NoError(t, err)

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	outbox := new(MockOutboxRepository)
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
			request.ParentOutcomeCanceled).Return(nil).Once(),
		routeRepo.On("Update", ctx, mock.AnythingOfType("*route.ScheduledRoute")).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outbox).Once(),
		outbox.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelRouteCommandHandler(factory, services.NewStockReconciler(), clock)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, route.StatusLate, held.Status())
	assert.Equal(t, request.StatusExpired, member.Status())
	routeRepo.AssertNotCalled(t, "Add", ctx, mock.Anything)
	routeRepo.AssertExpectations(t)
	requestRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelRouteCommandHandler_Handle_WrongVolunteer(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(13 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	held, _ := acceptedRouteFixture(t, branchID, volunteerID, window)

	cmd, err := commands.NewCancelRouteCommand(kernel.NewUUID(), held.ID())
	require.NoError(t, err)

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, held.ID()).Return(held, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelRouteCommandHandler(factory, services.NewStockReconciler(), clock)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrNotRouteVolunteer)
	assert.Equal(t, route.StatusAccepted, held.Status())
	uow.AssertExpectations(t)
}
