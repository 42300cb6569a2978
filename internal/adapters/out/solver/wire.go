package solver

import (
	"tutam/internal/core/ports"
)

// Wire DTOs for the optimization API. Locations travel as
// [longitude, latitude], swapped from the latitude/longitude persistence
// convention before the call.

type wireRequest struct {
	Vehicles  []wireVehicle  `json:"vehicles"`
	Shipments []wireShipment `json:"shipments"`
}

type wireVehicle struct {
	ID            int        `json:"id"`
	CapacityUnits int        `json:"capacityUnits"`
	SkillTags     []int      `json:"skillTags"`
	Start         [2]float64 `json:"start"`
	End           [2]float64 `json:"end"`
	TimeWindow    [2]int64   `json:"timeWindow"`
}

type wireStop struct {
	ID         int        `json:"id"`
	ServiceSec int        `json:"serviceSec"`
	Location   [2]float64 `json:"location"`
}

type wireShipment struct {
	ID          int      `json:"id"`
	AmountUnits int      `json:"amountUnits"`
	SkillTags   []int    `json:"skillTags"`
	Pickup      wireStop `json:"pickup"`
	Delivery    wireStop `json:"delivery"`
}

type wireResponse struct {
	Routes                []wireRoute `json:"routes"`
	UnassignedShipmentIDs []int       `json:"unassignedShipmentIds"`
}

type wireRoute struct {
	VehicleID int        `json:"vehicleId"`
	Steps     []wireStep `json:"steps"`
}

type wireStep struct {
	Type                  string `json:"type"`
	ID                    int    `json:"id"`
	ArrivalEpochSec       int64  `json:"arrivalEpochSec"`
	CumulativeDurationSec int    `json:"cumulativeDurationSec"`
	DistanceMeters        int    `json:"distanceMeters"`
}

func toWireRequest(problem ports.Problem) wireRequest {
	vehicles := make([]wireVehicle, 0, len(problem.Vehicles))
	for _, v := range problem.Vehicles {
		vehicles = append(vehicles, wireVehicle{
			ID:            v.ID,
			CapacityUnits: v.CapacityUnits,
			SkillTags:     v.SkillTags,
			Start:         v.Start.LonLat(),
			End:           v.End.LonLat(),
			TimeWindow:    v.TimeWindow,
		})
	}

	shipments := make([]wireShipment, 0, len(problem.Shipments))
	for _, s := range problem.Shipments {
		shipments = append(shipments, wireShipment{
			ID:          s.ID,
			AmountUnits: s.AmountUnits,
			SkillTags:   s.SkillTags,
			Pickup: wireStop{
				ID:         s.Pickup.ID,
				ServiceSec: s.Pickup.ServiceSec,
				Location:   s.Pickup.Location.LonLat(),
			},
			Delivery: wireStop{
				ID:         s.Delivery.ID,
				ServiceSec: s.Delivery.ServiceSec,
				Location:   s.Delivery.Location.LonLat(),
			},
		})
	}

	return wireRequest{Vehicles: vehicles, Shipments: shipments}
}

func fromWireResponse(wire wireResponse) ports.Solution {
	routes := make([]ports.VehicleRoute, 0, len(wire.Routes))
	for _, r := range wire.Routes {
		steps := make([]ports.Step, 0, len(r.Steps))
		for _, s := range r.Steps {
			steps = append(steps, ports.Step{
				Type:             ports.StepType(s.Type),
				ShipmentID:       s.ID,
				ArrivalSec:       s.ArrivalEpochSec,
				CumulativeDurSec: s.CumulativeDurationSec,
				DistanceMeters:   s.DistanceMeters,
			})
		}
		routes = append(routes, ports.VehicleRoute{VehicleID: r.VehicleID, Steps: steps})
	}

	return ports.Solution{
		Routes:                routes,
		UnassignedShipmentIDs: wire.UnassignedShipmentIDs,
	}
}
