package route

import (
	"fmt"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
)

// MemberStatus is the state of one delivery request's membership on a route.
type MemberStatus int

const (
	// MemberStatusUnknown is the invalid zero value.
	MemberStatusUnknown MemberStatus = iota

	// MemberStatusScheduled is the normal state: the request occupies its
	// ordered stop on the route.
	MemberStatusScheduled

	// MemberStatusCanceled indicates the request itself was canceled while
	// the route was live.
	MemberStatusCanceled

	// MemberStatusCanceledByContributor indicates the whole route was given
	// back by its volunteer; the membership is void and the request re-enters
	// the backlog through a cloned route.
	MemberStatusCanceledByContributor
)

func getMemberStatusStrings() map[MemberStatus]string {
	return map[MemberStatus]string{
		MemberStatusUnknown:               "Unknown",
		MemberStatusScheduled:             "Scheduled",
		MemberStatusCanceled:              "Canceled",
		MemberStatusCanceledByContributor: "CanceledByContributor",
	}
}

// Validate checks if the MemberStatus value is defined.
func (s MemberStatus) Validate() error {
	if s <= MemberStatusUnknown || s > MemberStatusCanceledByContributor {
		return errs.NewValueIsInvalidErrorWithCause(
			"member status", fmt.Errorf("%d is not a valid member status", s))
	}
	return nil
}

// String returns the human-readable name of the member status.
func (s MemberStatus) String() string {
	if str, ok := getMemberStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Member is the join record between a scheduled route and one delivery
// request: the request's 1-based position in the stop order plus the travel
// time and distance to the next stop as reported by the solver.
type Member struct {
	requestID kernel.UUID
	status    MemberStatus

	// order is 1-based; the route's members are sorted by it.
	order int

	timeToNextSec       int
	distanceToNextMeter int
}

// NewMember creates a Scheduled member at the given stop position.
func NewMember(requestID kernel.UUID, order, timeToNextSec, distanceToNextMeter int) (*Member, error) {
	return restoreMember(requestID, MemberStatusScheduled, order, timeToNextSec, distanceToNextMeter)
}

// RestoreMember reconstructs a member from persistence with its stored status.
func RestoreMember(
	requestID kernel.UUID,
	status MemberStatus,
	order, timeToNextSec, distanceToNextMeter int,
) (*Member, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return restoreMember(requestID, status, order, timeToNextSec, distanceToNextMeter)
}

func restoreMember(
	requestID kernel.UUID,
	status MemberStatus,
	order, timeToNextSec, distanceToNextMeter int,
) (*Member, error) {
	if err := requestID.Validate(); err != nil {
		return nil, err
	}

	if order < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"order", fmt.Errorf("%d is not a valid 1-based stop order", order))
	}

	if timeToNextSec < 0 || distanceToNextMeter < 0 {
		return nil, errs.NewValueIsInvalidError("travel time/distance to next stop")
	}

	return &Member{
		requestID:           requestID,
		status:              status,
		order:               order,
		timeToNextSec:       timeToNextSec,
		distanceToNextMeter: distanceToNextMeter,
	}, nil
}

// RequestID returns the identifier of the member's delivery request.
func (m *Member) RequestID() kernel.UUID {
	return m.requestID
}

// Status returns the membership status.
func (m *Member) Status() MemberStatus {
	return m.status
}

// Order returns the member's 1-based position in the stop order.
func (m *Member) Order() int {
	return m.order
}

// TimeToNextSec returns the solver-reported travel time to the next stop.
func (m *Member) TimeToNextSec() int {
	return m.timeToNextSec
}

// DistanceToNextMeter returns the solver-reported distance to the next stop.
func (m *Member) DistanceToNextMeter() int {
	return m.distanceToNextMeter
}

// cancel voids the membership because the member's own request was canceled.
func (m *Member) cancel() {
	m.status = MemberStatusCanceled
}

// cancelByContributor voids the membership because the route's volunteer gave
// the whole route back.
func (m *Member) cancelByContributor() {
	m.status = MemberStatusCanceledByContributor
}
