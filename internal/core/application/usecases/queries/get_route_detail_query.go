package queries

import (
	"errors"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrGetRouteDetailQueryIsNotConstructed = errors.New(
	"GetRouteDetailQuery is not constructed. Use NewGetRouteDetailQuery")

// GetRouteDetailQuery retrieves one route with its ordered stops, the view a
// volunteer drives from.
type GetRouteDetailQuery struct {
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetRouteDetailQuery(routeID kernel.UUID) (GetRouteDetailQuery, error) {
	if routeID.Validate() != nil {
		return GetRouteDetailQuery{}, errs.NewValueIsRequiredError("routeID")
	}

	return GetRouteDetailQuery{
		routeID: routeID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetRouteDetailQuery) RouteID() kernel.UUID {
	return q.routeID
}

func (q GetRouteDetailQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteDetailQueryIsNotConstructed)
}

// RouteStopResponse is one ordered stop on the route: the request to visit,
// its far-end address, and the solver's travel estimates to the next stop.
type RouteStopResponse struct {
	RequestID           kernel.UUID
	Order               int
	Status              route.MemberStatus
	RequestStatus       request.Status
	Location            kernel.GeoLocation
	TimeToNextSec       int
	DistanceToNextMeter int
}

// GetRouteDetailQueryResponse is the full route view.
type GetRouteDetailQueryResponse struct {
	ID          kernel.UUID
	BranchID    kernel.UUID
	Direction   request.Direction
	Status      route.Status
	WindowStart time.Time
	WindowEnd   time.Time
	StartDate   time.Time
	Stops       []RouteStopResponse
}
