package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/ports"
	"tutam/internal/pkg/errs"
)

// ShipmentMap pairs solver shipment ids back to the requests they carry.
type ShipmentMap map[int]*request.DeliveryRequest

// RoutePlanner translates between batches and the solver's neutral problem
// shape, and decodes solved vehicle tours into route segments.
//
// The whole model runs on a compressed clock: durations handed to the solver
// are scaled by a uniform speed factor so its absolute time windows stay
// numerically small.
type RoutePlanner struct {
	vehicleCapacityPercent float64
	maxHoursPerRoute       time.Duration
	speedFactor            float64
	serviceDuration        time.Duration
}

// NewRoutePlanner creates a planner from the solver constants.
func NewRoutePlanner(
	vehicleCapacityPercent float64,
	maxHoursPerRoute time.Duration,
	speedFactor float64,
	serviceDuration time.Duration,
) (RoutePlanner, error) {
	if vehicleCapacityPercent <= 0 {
		return RoutePlanner{}, errs.NewValueIsInvalidErrorWithCause(
			"vehicleCapacityPercent",
			fmt.Errorf("%g is not greater than 0", vehicleCapacityPercent))
	}
	if maxHoursPerRoute <= 0 {
		return RoutePlanner{}, errs.NewValueIsInvalidErrorWithCause(
			"maxHoursPerRoute", fmt.Errorf("%s is not greater than 0", maxHoursPerRoute))
	}
	if speedFactor <= 0 {
		return RoutePlanner{}, errs.NewValueIsInvalidErrorWithCause(
			"speedFactor", fmt.Errorf("%g is not greater than 0", speedFactor))
	}
	if serviceDuration <= 0 {
		return RoutePlanner{}, errs.NewValueIsInvalidErrorWithCause(
			"serviceDuration", fmt.Errorf("%s is not greater than 0", serviceDuration))
	}

	return RoutePlanner{
		vehicleCapacityPercent: vehicleCapacityPercent,
		maxHoursPerRoute:       maxHoursPerRoute,
		speedFactor:            speedFactor,
		serviceDuration:        serviceDuration,
	}, nil
}

// BuildProblem turns one batch into a solver problem. Vehicles are homed at
// the branch (for export batches at the far end of the first member, since
// the run ends among the drops), carry the vehicle capacity constant, and are
// tagged with a batch-unique skill so the solver never mixes unrelated
// batches within one call. Each request becomes one pickup+delivery shipment.
func (p RoutePlanner) BuildProblem(
	batch Batch,
	skillTag int,
	branch kernel.GeoLocation,
) (ports.Problem, ShipmentMap, error) {
	if len(batch.Members) == 0 {
		return ports.Problem{}, nil, errs.NewValueIsRequiredError("batch members")
	}
	if batch.ProposedFleetSize <= 0 {
		return ports.Problem{}, nil, errs.NewValueIsInvalidErrorWithCause(
			"proposedFleetSize",
			fmt.Errorf("%d is not greater than 0", batch.ProposedFleetSize))
	}

	direction := batch.Members[0].Direction()

	home := branch
	if direction.IsExport() {
		home = batch.Members[0].Location()
	}

	twStart := batch.Window.Start.Unix()
	twEnd := twStart + int64(p.maxHoursPerRoute.Seconds()*p.speedFactor*2)

	vehicles := make([]ports.Vehicle, 0, batch.ProposedFleetSize)
	for i := 0; i < batch.ProposedFleetSize; i++ {
		vehicles = append(vehicles, ports.Vehicle{
			ID:            skillTag*100 + i + 1,
			CapacityUnits: int(p.vehicleCapacityPercent),
			SkillTags:     []int{skillTag},
			Start:         home,
			End:           home,
			TimeWindow:    [2]int64{twStart, twEnd},
		})
	}

	serviceSec := int(p.serviceDuration.Seconds() * p.speedFactor)

	shipments := make([]ports.Shipment, 0, len(batch.Members))
	mapping := make(ShipmentMap, len(batch.Members))

	for i, m := range batch.Members {
		id := skillTag*1000 + i + 1
		mapping[id] = m

		pickupAt, deliverAt := m.Location(), branch
		if direction.IsExport() {
			pickupAt, deliverAt = branch, m.Location()
		}

		shipments = append(shipments, ports.Shipment{
			ID:          id,
			AmountUnits: int(math.Ceil(m.TotalVolumePercent())),
			SkillTags:   []int{skillTag},
			Pickup:      ports.Stop{ID: id, ServiceSec: serviceSec, Location: pickupAt},
			Delivery:    ports.Stop{ID: id, ServiceSec: serviceSec, Location: deliverAt},
		})
	}

	return ports.Problem{Vehicles: vehicles, Shipments: shipments}, mapping, nil
}

// DecodeSolution walks every solved tour in arrival order and cuts it into
// logically independent segments, so one vehicle run can serve several
// delivery requests.
//
// To-branch tours close a segment at each delivery that follows a non-empty
// pickup run (many pickups feeding one branch drop); from-branch tours open a
// segment at each pickup that follows a completed delivery run (one branch
// pickup feeding many drops).
func (p RoutePlanner) DecodeSolution(
	solution ports.Solution,
	shipments ShipmentMap,
	direction request.Direction,
) []Segment {
	var segments []Segment

	for _, tour := range solution.Routes {
		steps := make([]ports.Step, len(tour.Steps))
		copy(steps, tour.Steps)
		sort.SliceStable(steps, func(i, j int) bool {
			return steps[i].ArrivalSec < steps[j].ArrivalSec
		})

		if direction.IsExport() {
			segments = append(segments, decodeFromBranch(steps, shipments)...)
		} else {
			segments = append(segments, decodeToBranch(steps, shipments)...)
		}
	}

	return segments
}

// UnassignedRequests resolves the requests the solver could not place. They
// are re-optimized in isolation, never dropped.
func (p RoutePlanner) UnassignedRequests(
	solution ports.Solution,
	shipments ShipmentMap,
) []*request.DeliveryRequest {
	requests := make([]*request.DeliveryRequest, 0, len(solution.UnassignedShipmentIDs))
	for _, id := range solution.UnassignedShipmentIDs {
		if r, ok := shipments[id]; ok {
			requests = append(requests, r)
		}
	}
	return requests
}

func decodeToBranch(steps []ports.Step, shipments ShipmentMap) []Segment {
	var (
		segments []Segment
		current  []SegmentMember
	)

	for i, step := range steps {
		switch step.Type {
		case ports.StepPickup:
			r, ok := shipments[step.ShipmentID]
			if !ok {
				continue
			}
			t, d := legCost(steps, i)
			current = append(current, SegmentMember{
				Request: r, TimeToNextSec: t, DistanceToNextMeter: d})

		case ports.StepDelivery:
			if len(current) > 0 {
				segments = append(segments, Segment{Members: current})
				current = nil
			}
		}
	}

	return segments
}

func decodeFromBranch(steps []ports.Step, shipments ShipmentMap) []Segment {
	var (
		segments    []Segment
		current     []SegmentMember
		deliveryRun int
	)

	for i, step := range steps {
		switch step.Type {
		case ports.StepPickup:
			if deliveryRun > 0 {
				segments = append(segments, Segment{Members: current})
				current = nil
				deliveryRun = 0
			}

		case ports.StepDelivery:
			r, ok := shipments[step.ShipmentID]
			if !ok {
				continue
			}
			t, d := legCost(steps, i)
			current = append(current, SegmentMember{
				Request: r, TimeToNextSec: t, DistanceToNextMeter: d})
			deliveryRun++
		}
	}

	if len(current) > 0 {
		segments = append(segments, Segment{Members: current})
	}

	return segments
}

// legCost returns the travel time and distance from step i to the next step.
func legCost(steps []ports.Step, i int) (int, int) {
	if i+1 >= len(steps) {
		return 0, 0
	}

	t := int(steps[i+1].ArrivalSec - steps[i].ArrivalSec)
	d := steps[i+1].DistanceMeters - steps[i].DistanceMeters
	if t < 0 {
		t = 0
	}
	if d < 0 {
		d = 0
	}
	return t, d
}
