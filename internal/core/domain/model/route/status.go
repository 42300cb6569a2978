package route

import (
	"fmt"

	"tutam/internal/pkg/errs"
)

// Status represents the lifecycle state of a scheduled route.
//
// State transitions:
//
//	Pending ──> Accepted ──> Processing ──> Finished
//	               │             │
//	               ├─────────────┴──> CanceledByVolunteer  (before window end)
//	               └─────────────────> Late                (after window end,
//	                                                        or stale sweep)
//
// CanceledByVolunteer spawns a fresh Pending clone carrying the same ordered
// members; Late expires the members and spawns nothing.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending is the initial status: the route was assembled and is
	// waiting for a volunteer to claim it.
	StatusPending

	// StatusAccepted indicates one volunteer has claimed the route.
	StatusAccepted

	// StatusProcessing indicates the volunteer started the route. Only legal
	// once the route's start date has been reached.
	StatusProcessing

	// StatusFinished indicates every stop was served. Final.
	StatusFinished

	// StatusCanceledByVolunteer indicates the volunteer gave the route back
	// before the window ended. Final for this route; a clone re-enters the
	// backlog.
	StatusCanceledByVolunteer

	// StatusLate indicates the route was canceled or went stale after the
	// window ended. Final; members expire.
	StatusLate
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:             "Unknown",
		StatusPending:             "Pending",
		StatusAccepted:            "Accepted",
		StatusProcessing:          "Processing",
		StatusFinished:            "Finished",
		StatusCanceledByVolunteer: "CanceledByVolunteer",
		StatusLate:                "Late",
	}
}

// Validate checks if the Status value is one of the defined route states.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusLate {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid route status", s))
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

// IsActive reports whether the route currently occupies its volunteer:
// Accepted or Processing. Active routes block overlapping accepts and are
// subject to the lateness sweep.
func (s Status) IsActive() bool {
	return s == StatusAccepted || s == StatusProcessing
}

// Accept transitions the status to Accepted. Only Pending routes can be
// claimed, which makes the claim a compare-and-swap under a transaction.
func (s Status) Accept() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%s is not a valid status to accept", s))
	}
	return StatusAccepted, nil
}

// Start transitions the status to Processing.
func (s Status) Start() (Status, error) {
	if s != StatusAccepted {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%s is not a valid status to start", s))
	}
	return StatusProcessing, nil
}

// Finish transitions the status to Finished.
func (s Status) Finish() (Status, error) {
	if s != StatusProcessing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%s is not a valid status to finish", s))
	}
	return StatusFinished, nil
}

// CancelByVolunteer transitions the status to CanceledByVolunteer.
// Legal from Accepted and Processing.
func (s Status) CancelByVolunteer() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return StatusCanceledByVolunteer, nil
}

// MarkLate transitions the status to Late. Legal from Accepted and Processing.
func (s Status) MarkLate() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%s is not a valid status to mark late", s))
	}
	return StatusLate, nil
}
