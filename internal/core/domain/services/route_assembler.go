package services

import (
	"fmt"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/pkg/errs"
)

// SegmentMember is one stop on a decoded solver segment: the request served
// there plus the travel cost to the following stop.
type SegmentMember struct {
	Request             *request.DeliveryRequest
	TimeToNextSec       int
	DistanceToNextMeter int
}

// Segment is one logically independent vehicle run decoded from a solver
// route, in stop order.
type Segment struct {
	Members []SegmentMember
}

// TotalVolumePercent sums the segment members' loads.
func (s Segment) TotalVolumePercent() float64 {
	var total float64
	for _, m := range s.Members {
		total += m.Request.TotalVolumePercent()
	}
	return total
}

// RouteAssembler turns decoded solver segments into scheduled routes.
//
// Acceptance policy, per segment: the summed volume must land in
// [minVolumePercent, maxVolumePercent], unless the segment is urgent (its last
// chance to run falls inside the urgency horizon, so half-empty vehicles are
// tolerated for soon-expiring goods), or the direction is branch-to-aid:
// export demand is always accepted, aid urgency dominates fill efficiency.
type RouteAssembler struct {
	minVolumePercent float64
	maxVolumePercent float64
	urgencyHorizon   time.Duration
}

// NewRouteAssembler creates an assembler from the acceptance constants.
func NewRouteAssembler(
	minVolumePercent float64,
	maxVolumePercent float64,
	urgencyHorizon time.Duration,
) (RouteAssembler, error) {
	if minVolumePercent < 0 || maxVolumePercent <= minVolumePercent {
		return RouteAssembler{}, errs.NewValueIsInvalidErrorWithCause(
			"volume bounds",
			fmt.Errorf("[%g, %g] is not a valid volume range", minVolumePercent, maxVolumePercent))
	}
	if urgencyHorizon <= 0 {
		return RouteAssembler{}, errs.NewValueIsInvalidErrorWithCause(
			"urgencyHorizon", fmt.Errorf("%s is not greater than 0", urgencyHorizon))
	}

	return RouteAssembler{
		minVolumePercent: minVolumePercent,
		maxVolumePercent: maxVolumePercent,
		urgencyHorizon:   urgencyHorizon,
	}, nil
}

// Assemble applies the acceptance policy to one segment and, on acceptance,
// builds the Pending route aggregate and stamps every member request's
// current scheduled time to its own first-available window (each request
// reports its personal slot, not the merged group window).
//
// The second return value is false when the policy rejected the segment: its
// members stay Pending and re-enter the backlog on the next pass. A
// zero-member segment is an error, never a route.
func (a RouteAssembler) Assemble(
	routeID kernel.UUID,
	branchID kernel.UUID,
	direction request.Direction,
	window schedule.Interval,
	segment Segment,
	now time.Time,
) (*route.ScheduledRoute, bool, error) {
	if len(segment.Members) == 0 {
		return nil, false, route.ErrMembersAreRequired
	}

	if !a.accepts(direction, segment, now) {
		return nil, false, nil
	}

	var (
		members   = make([]*route.Member, 0, len(segment.Members))
		startDate time.Time
	)

	for i, sm := range segment.Members {
		first, ok := sm.Request.FirstAvailableWindow(now)
		if !ok {
			return nil, false, errs.NewValueIsInvalidErrorWithCause(
				"segment member",
				fmt.Errorf("request %s has no future window", sm.Request.ID()))
		}

		if err := sm.Request.ScheduleAt(first); err != nil {
			return nil, false, err
		}

		if start := first.Interval().Start; start.After(startDate) {
			startDate = start
		}

		member, err := route.NewMember(
			sm.Request.ID(), i+1, sm.TimeToNextSec, sm.DistanceToNextMeter)
		if err != nil {
			return nil, false, err
		}
		members = append(members, member)
	}

	assembled, err := route.NewScheduledRoute(
		routeID, branchID, direction, window, startDate, now, members)
	if err != nil {
		return nil, false, err
	}

	return assembled, true, nil
}

func (a RouteAssembler) accepts(direction request.Direction, segment Segment, now time.Time) bool {
	if direction.IsExport() {
		return true
	}

	volume := segment.TotalVolumePercent()
	if volume >= a.minVolumePercent && volume <= a.maxVolumePercent {
		return true
	}

	return a.isUrgent(segment, now)
}

// isUrgent reports whether the segment's last chance to run, the earliest
// last-available window end among its members, falls inside the horizon.
func (a RouteAssembler) isUrgent(segment Segment, now time.Time) bool {
	var deadline time.Time

	for _, sm := range segment.Members {
		last, ok := sm.Request.LastAvailableWindow(now)
		if !ok {
			continue
		}

		end := last.Interval().End
		if deadline.IsZero() || end.Before(deadline) {
			deadline = end
		}
	}

	return !deadline.IsZero() && !deadline.After(now.Add(a.urgencyHorizon))
}
