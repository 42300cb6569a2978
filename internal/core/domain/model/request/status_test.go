package request_test

import (
	"testing"

	"tutam/internal/core/domain/model/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ForwardProgression(t *testing.T) {
	s := request.StatusPending

	s, err := s.Accept()
	require.NoError(t, err)
	assert.Equal(t, request.StatusAccepted, s)

	s, err = s.Ship()
	require.NoError(t, err)
	assert.Equal(t, request.StatusShipping, s)

	for _, want := range []request.Status{
		request.StatusArrivedPickup,
		request.StatusCollected,
		request.StatusArrivedDelivery,
		request.StatusDelivered,
	} {
		s, err = s.Advance()
		require.NoError(t, err)
		assert.Equal(t, want, s)
	}

	s, err = s.Finish()
	require.NoError(t, err)
	assert.Equal(t, request.StatusFinished, s)
	assert.True(t, s.IsTerminal())
}

func TestStatus_Cancel(t *testing.T) {
	t.Run("pre_pickup_cancel_is_always_legal", func(t *testing.T) {
		for _, s := range []request.Status{request.StatusPending, request.StatusAccepted} {
			got, err := s.Cancel(false)
			require.NoError(t, err)
			assert.Equal(t, request.StatusCanceled, got)
		}
	})

	t.Run("in_transit_cancel_legal_only_for_export", func(t *testing.T) {
		inTransit := []request.Status{
			request.StatusShipping,
			request.StatusArrivedPickup,
			request.StatusCollected,
			request.StatusArrivedDelivery,
		}

		for _, s := range inTransit {
			assert.True(t, s.IsInTransit())

			got, err := s.Cancel(true)
			require.NoError(t, err)
			assert.Equal(t, request.StatusCanceled, got)

			_, err = s.Cancel(false)
			require.Error(t, err)
		}
	})

	t.Run("terminal_statuses_cannot_cancel", func(t *testing.T) {
		for _, s := range []request.Status{
			request.StatusFinished, request.StatusCanceled, request.StatusExpired,
		} {
			_, err := s.Cancel(true)
			require.Error(t, err)
		}
	})
}

func TestStatus_Expire(t *testing.T) {
	t.Run("pending_and_in_flight_can_expire", func(t *testing.T) {
		for _, s := range []request.Status{
			request.StatusPending,
			request.StatusAccepted,
			request.StatusShipping,
			request.StatusArrivedDelivery,
		} {
			got, err := s.Expire()
			require.NoError(t, err)
			assert.Equal(t, request.StatusExpired, got)
		}
	})

	t.Run("terminal_and_reported_cannot_expire", func(t *testing.T) {
		for _, s := range []request.Status{
			request.StatusFinished,
			request.StatusCanceled,
			request.StatusExpired,
			request.StatusReported,
		} {
			_, err := s.Expire()
			require.Error(t, err)
		}
	})
}

func TestStatus_Report(t *testing.T) {
	t.Run("reachable_from_shipping_arrived_pickup_and_finished", func(t *testing.T) {
		for _, s := range []request.Status{
			request.StatusShipping,
			request.StatusArrivedPickup,
			request.StatusFinished,
		} {
			got, err := s.Report()
			require.NoError(t, err)
			assert.Equal(t, request.StatusReported, got)
		}
	})

	t.Run("not_reachable_from_backlog", func(t *testing.T) {
		_, err := request.StatusPending.Report()
		require.Error(t, err)
	})
}

func TestStatus_ResolveReport(t *testing.T) {
	t.Run("resolves_to_pending_or_expired_only", func(t *testing.T) {
		got, err := request.StatusReported.ResolveReport(request.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, request.StatusPending, got)

		got, err = request.StatusReported.ResolveReport(request.StatusExpired)
		require.NoError(t, err)
		assert.Equal(t, request.StatusExpired, got)

		_, err = request.StatusReported.ResolveReport(request.StatusFinished)
		require.Error(t, err)
	})

	t.Run("only_reported_requests_resolve", func(t *testing.T) {
		_, err := request.StatusShipping.ResolveReport(request.StatusPending)
		require.Error(t, err)
	})
}

func TestStatus_Validate(t *testing.T) {
	require.Error(t, request.StatusUnknown.Validate())
	require.Error(t, request.Status(99).Validate())
	require.NoError(t, request.StatusPending.Validate())
	require.NoError(t, request.StatusReported.Validate())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Pending", request.StatusPending.String())
	assert.Equal(t, "ArrivedDelivery", request.StatusArrivedDelivery.String())
	assert.Equal(t, "Unknown", request.Status(42).String())
}
