package services

import (
	"fmt"
	"sort"

	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/pkg/errs"
)

// Batch is one solver-sized unit of work: a capacity-bounded slice of a demand
// group, carrying the group's representative window and the fleet size the
// solver will be offered.
type Batch struct {
	Window            schedule.Interval
	Members           []*request.DeliveryRequest
	ProposedFleetSize int
}

// TotalVolumePercent sums the batch members' loads.
func (b Batch) TotalVolumePercent() float64 {
	var total float64
	for _, m := range b.Members {
		total += m.TotalVolumePercent()
	}
	return total
}

// CapacityBatcher splits one demand group into batches the solver can handle:
// at most solverPageSize shipments per call, at most
// vehicleCapacityPercent × maxFleetSize total volume per batch.
//
// The proposed fleet size is a fixed configured value rather than a function
// of batch volume. Keeping it constant trades some fleet efficiency for a
// predictable solver problem shape.
type CapacityBatcher struct {
	solverPageSize         int
	vehicleCapacityPercent float64
	maxFleetSize           int
	proposedFleetSize      int
}

// NewCapacityBatcher creates a batcher from the scheduling constants.
func NewCapacityBatcher(
	solverPageSize int,
	vehicleCapacityPercent float64,
	maxFleetSize int,
	proposedFleetSize int,
) (CapacityBatcher, error) {
	if solverPageSize <= 0 {
		return CapacityBatcher{}, errs.NewValueIsInvalidErrorWithCause(
			"solverPageSize", fmt.Errorf("%d is not greater than 0", solverPageSize))
	}
	if vehicleCapacityPercent <= 0 {
		return CapacityBatcher{}, errs.NewValueIsInvalidErrorWithCause(
			"vehicleCapacityPercent",
			fmt.Errorf("%g is not greater than 0", vehicleCapacityPercent))
	}
	if maxFleetSize <= 0 {
		return CapacityBatcher{}, errs.NewValueIsInvalidErrorWithCause(
			"maxFleetSize", fmt.Errorf("%d is not greater than 0", maxFleetSize))
	}
	if proposedFleetSize <= 0 || proposedFleetSize > maxFleetSize {
		return CapacityBatcher{}, errs.NewValueIsOutOfRangeError(
			"proposedFleetSize", proposedFleetSize, 1, maxFleetSize)
	}

	return CapacityBatcher{
		solverPageSize:         solverPageSize,
		vehicleCapacityPercent: vehicleCapacityPercent,
		maxFleetSize:           maxFleetSize,
		proposedFleetSize:      proposedFleetSize,
	}, nil
}

// MaxVehicleVolumeBudget is the volume ceiling of one batch.
func (b CapacityBatcher) MaxVehicleVolumeBudget() float64 {
	return b.vehicleCapacityPercent * float64(b.maxFleetSize)
}

// Split partitions one group into batches. Members are sorted descending by
// total volume, chunked into solver-page slices, and each slice is greedily
// accumulated into sub-batches closed whenever the next member would push the
// running volume over the budget.
//
// Every input member lands in exactly one batch, and no batch exceeds the
// budget as long as no single member does on its own.
func (b CapacityBatcher) Split(group DemandGroup) []Batch {
	members := make([]*request.DeliveryRequest, len(group.Members))
	copy(members, group.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].TotalVolumePercent() > members[j].TotalVolumePercent()
	})

	var batches []Batch
	for start := 0; start < len(members); start += b.solverPageSize {
		end := start + b.solverPageSize
		if end > len(members) {
			end = len(members)
		}
		batches = b.splitPage(batches, group.Window, members[start:end])
	}

	return batches
}

func (b CapacityBatcher) splitPage(
	batches []Batch,
	window schedule.Interval,
	page []*request.DeliveryRequest,
) []Batch {
	budget := b.MaxVehicleVolumeBudget()

	current := b.emptyBatch(window)
	var volume float64

	for _, m := range page {
		v := m.TotalVolumePercent()
		if len(current.Members) > 0 && volume+v > budget {
			batches = append(batches, current)
			current = b.emptyBatch(window)
			volume = 0
		}

		current.Members = append(current.Members, m)
		volume += v
	}

	if len(current.Members) > 0 {
		batches = append(batches, current)
	}

	return batches
}

func (b CapacityBatcher) emptyBatch(window schedule.Interval) Batch {
	return Batch{Window: window, ProposedFleetSize: b.proposedFleetSize}
}
