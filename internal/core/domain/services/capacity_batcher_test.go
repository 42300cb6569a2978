package services_test

import (
	"testing"
	"time"

	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleWindowGroup(t *testing.T, volumes ...float64) services.DemandGroup {
	t.Helper()

	day := testDay()
	window := mustWindow(t, day, 11*time.Hour, 13*time.Hour)

	members := make([]*request.DeliveryRequest, 0, len(volumes))
	for _, v := range volumes {
		members = append(members, mustRequest(t, []schedule.ScheduledTime{window}, v))
	}

	return services.DemandGroup{Window: window.Interval(), Members: members}
}

func TestCapacityBatcher_Split(t *testing.T) {
	// Budget: 100% per vehicle × 3 vehicles = 300%.
	batcher, err := services.NewCapacityBatcher(50, 100, 3, 3)
	require.NoError(t, err)

	t.Run("should keep a group under budget in one batch", func(t *testing.T) {
		group := singleWindowGroup(t, 120, 90, 60)

		batches := batcher.Split(group)

		require.Len(t, batches, 1)
		assert.Len(t, batches[0].Members, 3)
		assert.InDelta(t, 270, batches[0].TotalVolumePercent(), 1e-9)
		assert.Equal(t, 3, batches[0].ProposedFleetSize)
		assert.Equal(t, group.Window, batches[0].Window)
	})

	t.Run("should close a batch before exceeding the budget", func(t *testing.T) {
		group := singleWindowGroup(t, 150, 150, 120, 90)

		batches := batcher.Split(group)

		require.Len(t, batches, 2)
		for _, b := range batches {
			assert.LessOrEqual(t, b.TotalVolumePercent(), batcher.MaxVehicleVolumeBudget())
		}
	})

	t.Run("should place every member in exactly one batch", func(t *testing.T) {
		group := singleWindowGroup(t, 40, 250, 90, 130, 20, 180, 60)

		batches := batcher.Split(group)

		seen := make(map[string]int)
		for _, b := range batches {
			for _, m := range b.Members {
				seen[m.ID().String()]++
			}
		}

		assert.Len(t, seen, len(group.Members))
		for _, m := range group.Members {
			assert.Equal(t, 1, seen[m.ID().String()])
		}
	})

	t.Run("should sort members descending by volume before packing", func(t *testing.T) {
		group := singleWindowGroup(t, 10, 290, 40)

		batches := batcher.Split(group)

		require.NotEmpty(t, batches)
		first := batches[0].Members
		assert.InDelta(t, 290, first[0].TotalVolumePercent(), 1e-9)
	})

	t.Run("should chunk into solver pages before packing", func(t *testing.T) {
		paged, err := services.NewCapacityBatcher(2, 100, 3, 3)
		require.NoError(t, err)

		// All five fit one budget, but the page size forces three batches.
		group := singleWindowGroup(t, 10, 10, 10, 10, 10)

		batches := paged.Split(group)

		require.Len(t, batches, 3)
		assert.Len(t, batches[0].Members, 2)
		assert.Len(t, batches[1].Members, 2)
		assert.Len(t, batches[2].Members, 1)
	})

	t.Run("should reject a proposed fleet larger than the max fleet", func(t *testing.T) {
		_, err := services.NewCapacityBatcher(50, 100, 3, 4)
		assert.Error(t, err)
	})
}
