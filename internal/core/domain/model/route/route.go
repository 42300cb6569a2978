package route

import (
	"errors"
	"sort"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

// StaleAfter is how long past its start date an active route may linger
// before the sweep marks it Late.
const StaleAfter = 24 * time.Hour

// Domain errors for scheduled route operations.
var (
	// ErrRouteIsNotConstructed is returned when using an improperly
	// initialized ScheduledRoute.
	ErrRouteIsNotConstructed = errors.New(
		"ScheduledRoute must be created via NewScheduledRoute or RestoreScheduledRoute")
	// ErrMembersAreRequired is returned when assembling a route without
	// members. A zero-member route is never created.
	ErrMembersAreRequired = errs.NewValueIsRequiredError("route members")
	// ErrRouteNotStartable is returned when starting a route before its
	// start date.
	ErrRouteNotStartable = errs.NewValueIsInvalidError("route cannot start before its start date")
	// ErrMemberNotFound is returned when a member operation names a request
	// that is not on the route.
	ErrMemberNotFound = errors.New("route member not found")
	// ErrRouteNotCloneable is returned when cloning a route that was not
	// canceled by its volunteer.
	ErrRouteNotCloneable = errs.NewValueIsInvalidError(
		"only a route canceled by its volunteer can be cloned")
)

// ScheduledRoute is the aggregate root for one volunteer-assignable, ordered
// sequence of delivery requests sharing a vehicle and a time window.
//
// Routes are created exclusively by the route assembler from accepted solver
// segments; afterwards only lifecycle transitions mutate them.
//
// Invariants:
//   - at least one member, members ordered by their 1-based stop order
//   - the route cannot start before its start date, which is the latest
//     first-available window start among its members
//   - no volunteer is assigned until the route is accepted
type ScheduledRoute struct {
	id        kernel.UUID
	branchID  kernel.UUID
	direction request.Direction
	status    Status

	// window is the operating interval the assembler derived from the demand
	// group; cancellations before its end spawn a retry clone, after it the
	// route goes Late.
	window schedule.Interval

	createdDate  time.Time
	startDate    time.Time
	acceptedDate *time.Time
	finishedDate *time.Time

	volunteerID *kernel.UUID
	members     []*Member

	guard guard.ConstructorGuard
}

// NewScheduledRoute creates a fresh Pending route from assembled members.
// Members are re-sorted by stop order; at least one is required.
func NewScheduledRoute(
	id kernel.UUID,
	branchID kernel.UUID,
	direction request.Direction,
	window schedule.Interval,
	startDate time.Time,
	createdDate time.Time,
	members []*Member,
) (*ScheduledRoute, error) {
	return restoreRoute(
		id, branchID, direction, StatusPending, window,
		createdDate, startDate, nil, nil, nil, members,
	)
}

// RestoreScheduledRoute reconstructs a route from persistence with its full
// persisted state.
func RestoreScheduledRoute(
	id kernel.UUID,
	branchID kernel.UUID,
	direction request.Direction,
	status Status,
	window schedule.Interval,
	createdDate time.Time,
	startDate time.Time,
	acceptedDate *time.Time,
	finishedDate *time.Time,
	volunteerID *kernel.UUID,
	members []*Member,
) (*ScheduledRoute, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return restoreRoute(
		id, branchID, direction, status, window,
		createdDate, startDate, acceptedDate, finishedDate, volunteerID, members,
	)
}

func restoreRoute(
	id kernel.UUID,
	branchID kernel.UUID,
	direction request.Direction,
	status Status,
	window schedule.Interval,
	createdDate time.Time,
	startDate time.Time,
	acceptedDate *time.Time,
	finishedDate *time.Time,
	volunteerID *kernel.UUID,
	members []*Member,
) (*ScheduledRoute, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	if err := branchID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("branchID", err)
	}

	if err := direction.Validate(); err != nil {
		return nil, err
	}

	if len(members) == 0 {
		return nil, ErrMembersAreRequired
	}

	sorted := make([]*Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})

	return &ScheduledRoute{
		id:           id,
		branchID:     branchID,
		direction:    direction,
		status:       status,
		window:       window,
		createdDate:  createdDate,
		startDate:    startDate,
		acceptedDate: acceptedDate,
		finishedDate: finishedDate,
		volunteerID:  volunteerID,
		members:      sorted,
	}, nil
}

// Validate ensures the route was constructed through a constructor.
func (r *ScheduledRoute) Validate() error {
	if r == nil || len(r.members) == 0 {
		return ErrRouteIsNotConstructed
	}
	return nil
}

// ID returns the route's unique identifier.
func (r *ScheduledRoute) ID() kernel.UUID {
	return r.id
}

// BranchID returns the branch whose demand this route serves.
func (r *ScheduledRoute) BranchID() kernel.UUID {
	return r.branchID
}

// Direction returns the shared direction of the route's members.
func (r *ScheduledRoute) Direction() request.Direction {
	return r.direction
}

// Status returns the current lifecycle status.
func (r *ScheduledRoute) Status() Status {
	return r.status
}

// Window returns the route's operating interval.
func (r *ScheduledRoute) Window() schedule.Interval {
	return r.window
}

// CreatedDate returns when the assembler created the route.
func (r *ScheduledRoute) CreatedDate() time.Time {
	return r.createdDate
}

// StartDate returns the earliest instant the route may start: the latest
// first-available window start among its members.
func (r *ScheduledRoute) StartDate() time.Time {
	return r.startDate
}

// AcceptedDate returns when a volunteer claimed the route, or nil.
func (r *ScheduledRoute) AcceptedDate() *time.Time {
	return r.acceptedDate
}

// FinishedDate returns when the route finished, or nil.
func (r *ScheduledRoute) FinishedDate() *time.Time {
	return r.finishedDate
}

// VolunteerID returns the assigned volunteer, or nil until accepted.
func (r *ScheduledRoute) VolunteerID() *kernel.UUID {
	return r.volunteerID
}

// Members returns the ordered member list.
func (r *ScheduledRoute) Members() []*Member {
	members := make([]*Member, len(r.members))
	copy(members, r.members)
	return members
}

// ScheduledMemberIDs returns the request ids of members still in Scheduled
// status, in stop order.
func (r *ScheduledRoute) ScheduledMemberIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(r.members))
	for _, m := range r.members {
		if m.Status() == MemberStatusScheduled {
			ids = append(ids, m.RequestID())
		}
	}
	return ids
}

// HasScheduledMember reports whether the given request holds a live
// membership on this route.
func (r *ScheduledRoute) HasScheduledMember(requestID kernel.UUID) bool {
	for _, m := range r.members {
		if m.Status() == MemberStatusScheduled && m.RequestID().IsEqual(requestID) {
			return true
		}
	}
	return false
}

// OverlapsWindow reports whether this route's operating interval intersects
// the other route's. Used to reject a volunteer claiming two overlapping
// routes.
func (r *ScheduledRoute) OverlapsWindow(other *ScheduledRoute) bool {
	_, ok := r.window.Intersect(other.window)
	return ok
}

// Accept assigns the route to a volunteer. The transition is a
// compare-and-swap on Pending status; callers must additionally recheck the
// volunteer's other active routes for window overlap inside the same
// transaction.
func (r *ScheduledRoute) Accept(volunteerID kernel.UUID, now time.Time) error {
	if err := volunteerID.Validate(); err != nil {
		return err
	}

	newStatus, err := r.status.Accept()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.volunteerID = &volunteerID
	r.acceptedDate = &now
	return nil
}

// Start moves the route to Processing. Rejected before the start date: the
// route cannot begin until every member's earliest window has opened.
func (r *ScheduledRoute) Start(now time.Time) error {
	if now.Before(r.startDate) {
		return ErrRouteNotStartable
	}

	newStatus, err := r.status.Start()
	if err != nil {
		return err
	}

	r.status = newStatus
	return nil
}

// Finish terminalizes a Processing route.
func (r *ScheduledRoute) Finish(now time.Time) error {
	newStatus, err := r.status.Finish()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.finishedDate = &now
	return nil
}

// CancelByVolunteer gives the route back. Before the window's end the route
// becomes CanceledByVolunteer, all live memberships become
// CanceledByContributor and the caller spawns a retry clone; after the
// window's end the route goes Late instead and no clone is spawned.
//
// Returns true when the cancellation resolved to Late.
func (r *ScheduledRoute) CancelByVolunteer(now time.Time) (bool, error) {
	if now.Before(r.window.End) {
		newStatus, err := r.status.CancelByVolunteer()
		if err != nil {
			return false, err
		}

		r.status = newStatus
		for _, m := range r.members {
			if m.Status() == MemberStatusScheduled {
				m.cancelByContributor()
			}
		}
		return false, nil
	}

	newStatus, err := r.status.MarkLate()
	if err != nil {
		return false, err
	}

	r.status = newStatus
	return true, nil
}

// MarkLateIfStale marks an active route Late once now has passed the start
// date plus one day. The sweep calls this repeatedly; an already-Late route
// reports no change, which makes the sweep idempotent.
func (r *ScheduledRoute) MarkLateIfStale(now time.Time) (bool, error) {
	if !r.status.IsActive() {
		return false, nil
	}

	if !now.After(r.startDate.Add(StaleAfter)) {
		return false, nil
	}

	newStatus, err := r.status.MarkLate()
	if err != nil {
		return false, err
	}

	r.status = newStatus
	return true, nil
}

// CancelMember voids one member's live membership because its own request was
// canceled.
func (r *ScheduledRoute) CancelMember(requestID kernel.UUID) error {
	for _, m := range r.members {
		if m.Status() == MemberStatusScheduled && m.RequestID().IsEqual(requestID) {
			m.cancel()
			return nil
		}
	}
	return ErrMemberNotFound
}

// CloneForRetry creates a fresh Pending route carrying the same ordered
// members so they re-enter the solver on the next pass. Only legal on a route
// its volunteer canceled.
func (r *ScheduledRoute) CloneForRetry(newID kernel.UUID, now time.Time) (*ScheduledRoute, error) {
	if r.status != StatusCanceledByVolunteer {
		return nil, ErrRouteNotCloneable
	}

	members := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		clone, err := NewMember(m.RequestID(), m.Order(), m.TimeToNextSec(), m.DistanceToNextMeter())
		if err != nil {
			return nil, err
		}
		members = append(members, clone)
	}

	return NewScheduledRoute(
		newID, r.branchID, r.direction, r.window, r.startDate, now, members,
	)
}
