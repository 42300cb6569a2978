package request_test

import (
	"testing"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func testLocation(t *testing.T) kernel.GeoLocation {
	t.Helper()
	loc, err := kernel.NewGeoLocation(10.76, 106.66)
	require.NoError(t, err)
	return loc
}

func testWindow(t *testing.T, start, end time.Duration) schedule.ScheduledTime {
	t.Helper()
	w, err := schedule.NewScheduledTime(testDay, start, end)
	require.NoError(t, err)
	return w
}

func testItems(t *testing.T) []request.LineItem {
	t.Helper()
	li, err := request.NewLineItem(kernel.NewUUID(), 20, 100)
	require.NoError(t, err)
	return []request.LineItem{li}
}

func newImportRequest(t *testing.T, windows ...schedule.ScheduledTime) *request.DeliveryRequest {
	t.Helper()
	donationID := kernel.NewUUID()
	r, err := request.NewDeliveryRequest(
		kernel.NewUUID(), kernel.NewUUID(), &donationID, nil, false,
		testLocation(t), windows, testItems(t),
	)
	require.NoError(t, err)
	return r
}

func newExportRequest(t *testing.T, windows ...schedule.ScheduledTime) *request.DeliveryRequest {
	t.Helper()
	aidID := kernel.NewUUID()
	r, err := request.NewDeliveryRequest(
		kernel.NewUUID(), kernel.NewUUID(), nil, &aidID, false,
		testLocation(t), windows, testItems(t),
	)
	require.NoError(t, err)
	return r
}

func TestNewDeliveryRequest(t *testing.T) {
	window := testWindow(t, 9*time.Hour, 11*time.Hour)

	t.Run("derives_direction_from_parent_link", func(t *testing.T) {
		imp := newImportRequest(t, window)
		assert.Equal(t, request.DonorToBranch, imp.Direction())
		assert.True(t, imp.Direction().IsImport())

		exp := newExportRequest(t, window)
		assert.Equal(t, request.BranchToAid, exp.Direction())
		assert.True(t, exp.Direction().IsExport())
	})

	t.Run("inter_branch_transfer", func(t *testing.T) {
		donationID := kernel.NewUUID()
		r, err := request.NewDeliveryRequest(
			kernel.NewUUID(), kernel.NewUUID(), &donationID, nil, true,
			testLocation(t), []schedule.ScheduledTime{window}, testItems(t),
		)
		require.NoError(t, err)
		assert.Equal(t, request.BranchToBranch, r.Direction())
		assert.True(t, r.Direction().IsImport())
		assert.False(t, r.Direction().IsExport())
	})

	t.Run("rejects_both_parent_links", func(t *testing.T) {
		donationID := kernel.NewUUID()
		aidID := kernel.NewUUID()
		_, err := request.NewDeliveryRequest(
			kernel.NewUUID(), kernel.NewUUID(), &donationID, &aidID, false,
			testLocation(t), []schedule.ScheduledTime{window}, testItems(t),
		)
		require.Error(t, err)
	})

	t.Run("rejects_missing_parent_link", func(t *testing.T) {
		_, err := request.NewDeliveryRequest(
			kernel.NewUUID(), kernel.NewUUID(), nil, nil, false,
			testLocation(t), []schedule.ScheduledTime{window}, testItems(t),
		)
		require.Error(t, err)
	})

	t.Run("rejects_empty_windows_and_items", func(t *testing.T) {
		donationID := kernel.NewUUID()
		_, err := request.NewDeliveryRequest(
			kernel.NewUUID(), kernel.NewUUID(), &donationID, nil, false,
			testLocation(t), nil, testItems(t),
		)
		assert.ErrorIs(t, err, request.ErrWindowsAreRequired)

		_, err = request.NewDeliveryRequest(
			kernel.NewUUID(), kernel.NewUUID(), &donationID, nil, false,
			testLocation(t), []schedule.ScheduledTime{window}, nil,
		)
		assert.ErrorIs(t, err, request.ErrLineItemsAreRequired)
	})

	t.Run("zero_value_fails_validate", func(t *testing.T) {
		var r request.DeliveryRequest
		require.Error(t, r.Validate())
	})
}

func TestDeliveryRequest_TotalVolumePercent(t *testing.T) {
	itemA, err := request.NewLineItem(kernel.NewUUID(), 30, 100)
	require.NoError(t, err)
	itemB, err := request.NewLineItem(kernel.NewUUID(), 5, 50)
	require.NoError(t, err)

	donationID := kernel.NewUUID()
	r, err := request.NewDeliveryRequest(
		kernel.NewUUID(), kernel.NewUUID(), &donationID, nil, false,
		testLocation(t),
		[]schedule.ScheduledTime{testWindow(t, 9*time.Hour, 11*time.Hour)},
		[]request.LineItem{itemA, itemB},
	)
	require.NoError(t, err)

	// 30/100 + 5/50 = 40%
	assert.InDelta(t, 40.0, r.TotalVolumePercent(), 1e-9)
}

func TestDeliveryRequest_ScheduleAt(t *testing.T) {
	w1 := testWindow(t, 9*time.Hour, 11*time.Hour)
	w2 := testWindow(t, 14*time.Hour, 16*time.Hour)
	r := newImportRequest(t, w1, w2)

	t.Run("stamps_candidate_window", func(t *testing.T) {
		require.NoError(t, r.ScheduleAt(w2))
		require.NotNil(t, r.CurrentScheduledTime())
		assert.True(t, r.CurrentScheduledTime().IsEqual(w2))
	})

	t.Run("rejects_non_candidate_window", func(t *testing.T) {
		foreign := testWindow(t, 18*time.Hour, 20*time.Hour)
		assert.ErrorIs(t, r.ScheduleAt(foreign), request.ErrWindowNotCandidate)
	})

	t.Run("clear_schedule_resets", func(t *testing.T) {
		r.ClearSchedule()
		assert.Nil(t, r.CurrentScheduledTime())
	})
}

func TestDeliveryRequest_IsAlreadyScheduled(t *testing.T) {
	w1 := testWindow(t, 9*time.Hour, 11*time.Hour)
	w2 := testWindow(t, 14*time.Hour, 16*time.Hour)
	now := testDay.Add(8 * time.Hour)

	r := newImportRequest(t, w1, w2)
	assert.False(t, r.IsAlreadyScheduled(now))

	require.NoError(t, r.ScheduleAt(w1))
	assert.True(t, r.IsAlreadyScheduled(now))

	// Once the first window passes, the stamped slot no longer matches the
	// first available one and the request re-enters grouping.
	assert.False(t, r.IsAlreadyScheduled(testDay.Add(12*time.Hour)))
}

func TestDeliveryRequest_Finish(t *testing.T) {
	window := testWindow(t, 9*time.Hour, 11*time.Hour)

	advanceToDelivered := func(t *testing.T, r *request.DeliveryRequest) {
		t.Helper()
		require.NoError(t, r.Accept())
		require.NoError(t, r.StartShipping())
		for i := 0; i < 4; i++ {
			require.NoError(t, r.Advance())
		}
		require.Equal(t, request.StatusDelivered, r.Status())
	}

	t.Run("import_finishes_without_proof", func(t *testing.T) {
		r := newImportRequest(t, window)
		advanceToDelivered(t, r)

		require.NoError(t, r.Finish())
		assert.Equal(t, request.StatusFinished, r.Status())
	})

	t.Run("export_requires_proof_image", func(t *testing.T) {
		r := newExportRequest(t, window)
		advanceToDelivered(t, r)

		assert.ErrorIs(t, r.Finish(), request.ErrProofImageRequired)

		require.NoError(t, r.AttachProofImage("https://img.example/proof.jpg"))
		require.NoError(t, r.Finish())
		assert.Equal(t, request.StatusFinished, r.Status())
	})
}

func TestDeliveryRequest_Cancel(t *testing.T) {
	window := testWindow(t, 9*time.Hour, 11*time.Hour)

	t.Run("import_cannot_cancel_in_transit", func(t *testing.T) {
		r := newImportRequest(t, window)
		require.NoError(t, r.Accept())
		require.NoError(t, r.StartShipping())

		require.Error(t, r.Cancel("truck broke down"))
		assert.Equal(t, request.StatusShipping, r.Status())
	})

	t.Run("export_cancels_in_transit_with_reason", func(t *testing.T) {
		r := newExportRequest(t, window)
		require.NoError(t, r.Accept())
		require.NoError(t, r.StartShipping())

		require.NoError(t, r.Cancel("recipient unreachable"))
		assert.Equal(t, request.StatusCanceled, r.Status())
		assert.Equal(t, "recipient unreachable", r.CancelReason())
	})
}

func TestDeliveryRequest_BackToPending(t *testing.T) {
	window := testWindow(t, 9*time.Hour, 11*time.Hour)
	r := newImportRequest(t, window)

	require.NoError(t, r.ScheduleAt(window))
	require.NoError(t, r.Accept())

	require.NoError(t, r.BackToPending())
	assert.Equal(t, request.StatusPending, r.Status())
	assert.Nil(t, r.CurrentScheduledTime())
}

func TestDeliveryRequest_ResolveReport(t *testing.T) {
	window := testWindow(t, 9*time.Hour, 11*time.Hour)
	r := newImportRequest(t, window)

	require.NoError(t, r.Accept())
	require.NoError(t, r.StartShipping())
	require.NoError(t, r.Report())
	require.Equal(t, request.StatusReported, r.Status())

	require.NoError(t, r.ResolveReport(request.StatusPending))
	assert.Equal(t, request.StatusPending, r.Status())
	assert.Nil(t, r.CurrentScheduledTime())
}
