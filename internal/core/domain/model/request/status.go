package request

import (
	"fmt"

	"tutam/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery request.
// It implements a state machine with defined transitions to ensure requests
// follow the scheduling and delivery workflow.
//
// Forward progression:
//
//	Pending ──> Accepted ──> Shipping ──> ArrivedPickup ──> Collected
//	    ──> ArrivedDelivery ──> Delivered ──> Finished
//
// Exception edges:
//   - Pending/Accepted        ──> Canceled (always legal before pickup)
//   - Shipping..ArrivedDelivery ──> Canceled (export direction only, checked
//     by the aggregate)
//   - Pending (no future window) ──> Expired; in-flight members of a Late
//     route also expire
//   - Shipping/ArrivedPickup/Finished ──> Reported (field or post-hoc report)
//   - Reported ──> Pending or Expired (staff resolution)
//   - Accepted/Shipping ──> Pending (members of a route its volunteer
//     canceled re-enter the backlog)
//
// Requests are never deleted, only terminalized: Finished, Canceled and
// Expired are final.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending is the initial status: the request sits in the backlog
	// waiting to be grouped, batched and assembled into a scheduled route.
	StatusPending

	// StatusAccepted indicates the request's scheduled route has been claimed
	// by a volunteer.
	StatusAccepted

	// StatusShipping indicates the route has started and the volunteer is
	// under way.
	StatusShipping

	// StatusArrivedPickup indicates the volunteer reached the pickup point.
	StatusArrivedPickup

	// StatusCollected indicates the goods were picked up.
	StatusCollected

	// StatusArrivedDelivery indicates the volunteer reached the drop point.
	StatusArrivedDelivery

	// StatusDelivered indicates the goods were handed over.
	StatusDelivered

	// StatusFinished indicates stock was reconciled and, for export requests,
	// a proof image recorded. Final.
	StatusFinished

	// StatusCanceled indicates the request was canceled. Final.
	StatusCanceled

	// StatusExpired indicates every candidate window passed unused, or the
	// request's route went late. Final.
	StatusExpired

	// StatusReported indicates a field or post-hoc problem report is open
	// and awaiting staff resolution.
	StatusReported
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:         "Unknown",
		StatusPending:         "Pending",
		StatusAccepted:        "Accepted",
		StatusShipping:        "Shipping",
		StatusArrivedPickup:   "ArrivedPickup",
		StatusCollected:       "Collected",
		StatusArrivedDelivery: "ArrivedDelivery",
		StatusDelivered:       "Delivered",
		StatusFinished:        "Finished",
		StatusCanceled:        "Canceled",
		StatusExpired:         "Expired",
		StatusReported:        "Reported",
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusReported {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCanceled || s == StatusExpired
}

// IsInTransit reports whether the goods are physically moving: the span from
// route start up to, but not including, final handover.
func (s Status) IsInTransit() bool {
	switch s {
	case StatusShipping, StatusArrivedPickup, StatusCollected, StatusArrivedDelivery:
		return true
	default:
		return false
	}
}

// Accept transitions the status to Accepted when the request's route is
// claimed by a volunteer. Only Pending requests can be accepted.
func (s Status) Accept() (Status, error) {
	if s != StatusPending {
		return 0, invalidTransition(s, "accept")
	}
	return StatusAccepted, nil
}

// Ship transitions the status to Shipping when the route starts.
func (s Status) Ship() (Status, error) {
	if s != StatusAccepted {
		return 0, invalidTransition(s, "ship")
	}
	return StatusShipping, nil
}

// Advance steps the status one stage along the forward delivery progression.
// Finishing from Delivered is handled by the aggregate, which must also check
// the proof-image requirement for export requests.
func (s Status) Advance() (Status, error) {
	switch s {
	case StatusShipping:
		return StatusArrivedPickup, nil
	case StatusArrivedPickup:
		return StatusCollected, nil
	case StatusCollected:
		return StatusArrivedDelivery, nil
	case StatusArrivedDelivery:
		return StatusDelivered, nil
	default:
		return 0, invalidTransition(s, "advance")
	}
}

// Finish transitions the status to Finished after stock reconciliation.
func (s Status) Finish() (Status, error) {
	if s != StatusDelivered {
		return 0, invalidTransition(s, "finish")
	}
	return StatusFinished, nil
}

// Cancel transitions the status to Canceled. Pre-pickup cancellation
// (Pending, Accepted) is always legal; in-transit cancellation is only legal
// for export-direction requests, which the aggregate checks.
func (s Status) Cancel(exportDirection bool) (Status, error) {
	if s == StatusPending || s == StatusAccepted {
		return StatusCanceled, nil
	}

	if s.IsInTransit() {
		if !exportDirection {
			return 0, errs.NewValueIsInvalidErrorWithCause(
				"status",
				fmt.Errorf("%s import request cannot be canceled in transit", s))
		}
		return StatusCanceled, nil
	}

	return 0, invalidTransition(s, "cancel")
}

// Expire transitions the status to Expired. Legal for backlog requests whose
// windows all passed, and for any non-terminal request whose route went late.
func (s Status) Expire() (Status, error) {
	if s.IsTerminal() || s == StatusUnknown || s == StatusReported {
		return 0, invalidTransition(s, "expire")
	}
	return StatusExpired, nil
}

// Report transitions the status to Reported. Reachable from Shipping and
// ArrivedPickup (field report) or from Finished (post-hoc report).
func (s Status) Report() (Status, error) {
	switch s {
	case StatusShipping, StatusArrivedPickup, StatusFinished:
		return StatusReported, nil
	default:
		return 0, invalidTransition(s, "report")
	}
}

// ResolveReport closes an open report, returning the request to the backlog
// (Pending) or terminalizing it (Expired).
func (s Status) ResolveReport(to Status) (Status, error) {
	if s != StatusReported {
		return 0, invalidTransition(s, "resolve report")
	}

	if to != StatusPending && to != StatusExpired {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("a report can only resolve to Pending or Expired, not %s", to))
	}

	return to, nil
}

// BackToPending returns a scheduled request to the backlog after its route was
// canceled by the volunteer before the window ended.
func (s Status) BackToPending() (Status, error) {
	switch s {
	case StatusAccepted, StatusShipping, StatusArrivedPickup, StatusCollected, StatusArrivedDelivery:
		return StatusPending, nil
	default:
		return 0, invalidTransition(s, "return to pending")
	}
}

func invalidTransition(s Status, action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%s is not a valid status to %s", s, action),
	)
}
