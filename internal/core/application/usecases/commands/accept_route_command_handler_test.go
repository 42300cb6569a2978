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
	"gorm.io/gorm"
)

func mustAcceptCommand(t *testing.T, volunteerID, routeID kernel.UUID) commands.AcceptRouteCommand {
	t.Helper()
	location, err := kernel.NewGeoLocation(10.75, 106.65)
	require.NoError(t, err)
	cmd, err := commands.NewAcceptRouteCommand(volunteerID, routeID, location)
	require.NoError(t, err)
	return cmd
}

func TestAcceptRouteCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(9 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	member := mustImportRequest(t, branchID, []schedule.ScheduledTime{mustWindow(t, day, 12, 14)}, 30)
	claimed := mustPendingRoute(t, branchID, request.DonorToBranch, window, member)

	cmd := mustAcceptCommand(t, volunteerID, claimed.ID())

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	outbox := new(MockOutboxRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, claimed.ID()).Return(claimed, nil).Once(),
		routeRepo.On("GetActiveByVolunteer", ctx, volunteerID).Return([]*route.ScheduledRoute{}, nil).Once(),
		requestRepo.On("Get", ctx, member.ID()).Return(member, nil).Once(),
		requestRepo.On("Update", ctx, mock.AnythingOfType("*request.DeliveryRequest")).Return(nil).Once(),
		routeRepo.On("UpdateFrom", ctx, mock.AnythingOfType("*route.ScheduledRoute"), route.StatusPending).
			Return(nil).Once(),
		uow.On("OutboxRepository").Return(outbox).Once(),
		outbox.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptRouteCommandHandler(factory, clock)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, route.StatusAccepted, claimed.Status())
	require.NotNil(t, claimed.VolunteerID())
	assert.True(t, claimed.VolunteerID().IsEqual(volunteerID))
	assert.Equal(t, request.StatusAccepted, member.Status())

	queued := outbox.Calls[0].Arguments[1].(*notification.Notification)
	assert.Equal(t, notification.DataTypeScheduledRoute, queued.DataType())

	requestRepo.AssertExpectations(t)
	routeRepo.AssertExpectations(t)
	outbox.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAcceptRouteCommandHandler_Handle_VolunteerBusy(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(9 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}
	overlapping := schedule.Interval{Start: day.Add(13 * time.Hour), End: day.Add(15 * time.Hour)}

	member := mustImportRequest(t, branchID, []schedule.ScheduledTime{mustWindow(t, day, 12, 14)}, 30)
	claimed := mustPendingRoute(t, branchID, request.DonorToBranch, window, member)

	other := mustImportRequest(t, branchID, []schedule.ScheduledTime{mustWindow(t, day, 13, 15)}, 20)
	held := mustPendingRoute(t, branchID, request.DonorToBranch, overlapping, other)

	cmd := mustAcceptCommand(t, volunteerID, claimed.ID())

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, claimed.ID()).Return(claimed, nil).Once(),
		routeRepo.On("GetActiveByVolunteer", ctx, volunteerID).
			Return([]*route.ScheduledRoute{held}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptRouteCommandHandler(factory, clock)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrVolunteerBusy)
	assert.Equal(t, route.StatusPending, claimed.Status())
	routeRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

// Two volunteers racing for the same Pending route each read it as Pending
// and pass the in-memory transition; the guarded write lets only the first
// commit through and the loser's transaction aborts.
func TestAcceptRouteCommandHandler_Handle_LostClaimRace(t *testing.T) {
	ctx := t.Context()
	day := testDay()
	clock := kernel.NewFixedClock(day.Add(9 * time.Hour))

	branchID := kernel.NewUUID()
	volunteerID := kernel.NewUUID()
	window := schedule.Interval{Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour)}

	member := mustImportRequest(t, branchID, []schedule.ScheduledTime{mustWindow(t, day, 12, 14)}, 30)
	claimed := mustPendingRoute(t, branchID, request.DonorToBranch, window, member)

	cmd := mustAcceptCommand(t, volunteerID, claimed.ID())

	requestRepo := new(MockRequestRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		uow.On("RequestRepository").Return(requestRepo).Once(),
		routeRepo.On("Get", ctx, claimed.ID()).Return(claimed, nil).Once(),
		routeRepo.On("GetActiveByVolunteer", ctx, volunteerID).Return([]*route.ScheduledRoute{}, nil).Once(),
		requestRepo.On("Get", ctx, member.ID()).Return(member, nil).Once(),
		requestRepo.On("Update", ctx, mock.AnythingOfType("*request.DeliveryRequest")).Return(nil).Once(),
		// The other volunteer's claim committed first: the Pending guard
		// matches no row anymore.
		routeRepo.On("UpdateFrom", ctx, mock.AnythingOfType("*route.ScheduledRoute"), route.StatusPending).
			Return(gorm.ErrRecordNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptRouteCommandHandler(factory, clock)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	uow.AssertNotCalled(t, "Commit", ctx)
	routeRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptRouteCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	clock := kernel.NewFixedClock(testDay())

	factory := new(MockUoWFactory)
	handler := commands.NewAcceptRouteCommandHandler(factory, clock)

	err := handler.Handle(ctx, commands.AcceptRouteCommand{})

	require.ErrorIs(t, err, commands.ErrAcceptRouteCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
