package ports

import (
	"context"

	"tutam/internal/core/domain/model/kernel"
)

// Vehicle describes one vehicle offered to the optimization engine.
type Vehicle struct {
	ID            int
	CapacityUnits int
	SkillTags     []int
	Start         kernel.GeoLocation
	End           kernel.GeoLocation
	// TimeWindow holds [start, end] epoch seconds on the compressed clock.
	TimeWindow [2]int64
}

// Stop is one end of a shipment: a visit with a service duration.
type Stop struct {
	ID         int
	ServiceSec int
	Location   kernel.GeoLocation
}

// Shipment is a paired pickup and delivery moving one request's goods.
type Shipment struct {
	ID          int
	AmountUnits int
	SkillTags   []int
	Pickup      Stop
	Delivery    Stop
}

// Problem is one optimization call: a fleet and the shipments it must carry.
type Problem struct {
	Vehicles  []Vehicle
	Shipments []Shipment
}

// StepType distinguishes pickup visits from delivery visits in a solution.
type StepType string

const (
	StepPickup   StepType = "pickup"
	StepDelivery StepType = "delivery"
)

// Step is one visit on a solved vehicle tour, in arrival order.
type Step struct {
	Type             StepType
	ShipmentID       int
	ArrivalSec       int64
	CumulativeDurSec int
	DistanceMeters   int
}

// VehicleRoute is the ordered tour solved for one vehicle.
type VehicleRoute struct {
	VehicleID int
	Steps     []Step
}

// Solution is the outcome of one optimization call. Shipments the engine
// could not place are listed, never silently dropped.
type Solution struct {
	Routes                []VehicleRoute
	UnassignedShipmentIDs []int
}

// RouteSolver is the port to the external route-optimization engine.
// Implementations must honor ctx cancellation; an error means the whole
// call failed and the caller skips only the affected batch.
type RouteSolver interface {
	Solve(ctx context.Context, problem Problem) (Solution, error)
}
