package commands_test

import (
	"testing"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/core/domain/model/schedule"

	"github.com/stretchr/testify/require"
)

func testDay() time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func mustWindow(t *testing.T, day time.Time, startHour, endHour int) schedule.ScheduledTime {
	t.Helper()
	w, err := schedule.NewScheduledTime(
		day, time.Duration(startHour)*time.Hour, time.Duration(endHour)*time.Hour)
	require.NoError(t, err)
	return w
}

func mustImportRequest(
	t *testing.T,
	branchID kernel.UUID,
	windows []schedule.ScheduledTime,
	volumePercent float64,
) *request.DeliveryRequest {
	t.Helper()

	donationID := kernel.NewUUID()
	location, err := kernel.NewGeoLocation(10.8, 106.7)
	require.NoError(t, err)

	item, err := request.NewLineItem(kernel.NewUUID(), volumePercent, 100)
	require.NoError(t, err)

	r, err := request.NewDeliveryRequest(
		kernel.NewUUID(), branchID, &donationID, nil, false,
		location, windows, []request.LineItem{item})
	require.NoError(t, err)
	return r
}

func mustExportRequest(
	t *testing.T,
	branchID kernel.UUID,
	windows []schedule.ScheduledTime,
	volumePercent float64,
) *request.DeliveryRequest {
	t.Helper()

	aidRequestID := kernel.NewUUID()
	location, err := kernel.NewGeoLocation(10.9, 106.6)
	require.NoError(t, err)

	item, err := request.NewLineItem(kernel.NewUUID(), volumePercent, 100)
	require.NoError(t, err)

	r, err := request.NewDeliveryRequest(
		kernel.NewUUID(), branchID, nil, &aidRequestID, false,
		location, windows, []request.LineItem{item})
	require.NoError(t, err)
	return r
}

// mustPendingRoute builds a Pending route whose members wrap the given
// requests in order.
func mustPendingRoute(
	t *testing.T,
	branchID kernel.UUID,
	direction request.Direction,
	window schedule.Interval,
	requests ...*request.DeliveryRequest,
) *route.ScheduledRoute {
	t.Helper()

	members := make([]*route.Member, 0, len(requests))
	for i, r := range requests {
		m, err := route.NewMember(r.ID(), i+1, 600, 1500)
		require.NoError(t, err)
		members = append(members, m)
	}

	assembled, err := route.NewScheduledRoute(
		kernel.NewUUID(), branchID, direction, window,
		window.Start, window.Start.Add(-time.Hour), members)
	require.NoError(t, err)
	return assembled
}
