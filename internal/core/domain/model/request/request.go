package request

import (
	"errors"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

// Domain errors for delivery request operations.
var (
	// ErrRequestIsNotConstructed is returned when using an improperly
	// initialized DeliveryRequest.
	ErrRequestIsNotConstructed = errors.New(
		"DeliveryRequest must be created via NewDeliveryRequest or RestoreDeliveryRequest")
	// ErrWindowsAreRequired is returned when creating a request without
	// candidate time windows.
	ErrWindowsAreRequired = errs.NewValueIsRequiredError("candidate windows")
	// ErrLineItemsAreRequired is returned when creating a request without line items.
	ErrLineItemsAreRequired = errs.NewValueIsRequiredError("line items")
	// ErrWindowNotCandidate is returned when scheduling a request at a window
	// that is not one of its candidates.
	ErrWindowNotCandidate = errs.NewValueIsInvalidError("scheduled time is not a candidate window")
	// ErrProofImageRequired is returned when finishing an export request
	// without a recorded proof image.
	ErrProofImageRequired = errs.NewValueIsRequiredError("proof image")
)

// DeliveryRequest is the aggregate root for one pending pickup or delivery of
// donated goods. It carries the immutable list of candidate time windows the
// counterpart offered, the volumetric load as line items, and a lifecycle
// status driven by the scheduling engine and the volunteer's progress.
//
// Invariants:
//   - direction is derived once at construction from the parent links and
//     never changes
//   - candidate windows and line items are immutable after construction
//   - total volume equals the sum of the line items' volume percentages
//   - status transitions follow the Status state machine; import requests
//     cannot cancel while physically in transit
type DeliveryRequest struct {
	id        kernel.UUID
	branchID  kernel.UUID
	direction Direction

	// donationID and aidRequestID are the mutually exclusive parent links.
	donationID   *kernel.UUID
	aidRequestID *kernel.UUID

	// location is the far end of the trip: the contributor's address for
	// imports, the aid recipient's address for exports.
	location kernel.GeoLocation

	candidateWindows []schedule.ScheduledTime

	// currentScheduledTime is assigned by the route assembler once the
	// request is placed on an accepted segment; nil while in the backlog.
	currentScheduledTime *schedule.ScheduledTime

	status        Status
	lineItems     []LineItem
	proofImageURL string
	cancelReason  string

	guard guard.ConstructorGuard
}

// NewDeliveryRequest creates a fresh delivery request in Pending status.
//
// Exactly one parent link must be set; the direction is derived from it (with
// interBranch marking branch-to-branch transfers) and carried on the entity.
// At least one candidate window and one line item are required.
func NewDeliveryRequest(
	id kernel.UUID,
	branchID kernel.UUID,
	donationID *kernel.UUID,
	aidRequestID *kernel.UUID,
	interBranch bool,
	location kernel.GeoLocation,
	windows []schedule.ScheduledTime,
	items []LineItem,
) (*DeliveryRequest, error) {
	direction, err := DeriveDirection(donationID, aidRequestID, interBranch)
	if err != nil {
		return nil, err
	}

	r := &DeliveryRequest{
		direction:    direction,
		donationID:   donationID,
		aidRequestID: aidRequestID,
		status:       StatusPending,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setBranchID(branchID),
		r.setLocation(location),
		r.setWindows(windows),
		r.setLineItems(items),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreDeliveryRequest reconstructs a delivery request from persistence with
// its full persisted state. Unlike NewDeliveryRequest it accepts any valid
// status and an already-derived direction.
func RestoreDeliveryRequest(
	id kernel.UUID,
	branchID kernel.UUID,
	direction Direction,
	donationID *kernel.UUID,
	aidRequestID *kernel.UUID,
	location kernel.GeoLocation,
	windows []schedule.ScheduledTime,
	currentScheduledTime *schedule.ScheduledTime,
	status Status,
	items []LineItem,
	proofImageURL string,
	cancelReason string,
) (*DeliveryRequest, error) {
	if err := direction.Validate(); err != nil {
		return nil, err
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}

	r := &DeliveryRequest{
		direction:            direction,
		donationID:           donationID,
		aidRequestID:         aidRequestID,
		currentScheduledTime: currentScheduledTime,
		status:               status,
		proofImageURL:        proofImageURL,
		cancelReason:         cancelReason,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setBranchID(branchID),
		r.setLocation(location),
		r.setWindows(windows),
		r.setLineItems(items),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate ensures the request was constructed through a constructor.
func (r *DeliveryRequest) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

// ID returns the request's unique identifier.
func (r *DeliveryRequest) ID() kernel.UUID {
	return r.id
}

// BranchID returns the warehouse branch this request touches.
func (r *DeliveryRequest) BranchID() kernel.UUID {
	return r.branchID
}

// Direction returns the request's source/destination pairing.
func (r *DeliveryRequest) Direction() Direction {
	return r.direction
}

// DonationID returns the donation parent link, or nil.
func (r *DeliveryRequest) DonationID() *kernel.UUID {
	return r.donationID
}

// AidRequestID returns the aid-request parent link, or nil.
func (r *DeliveryRequest) AidRequestID() *kernel.UUID {
	return r.aidRequestID
}

// Location returns the far-end location of the trip.
func (r *DeliveryRequest) Location() kernel.GeoLocation {
	return r.location
}

// CandidateWindows returns the immutable list of acceptable time windows.
func (r *DeliveryRequest) CandidateWindows() []schedule.ScheduledTime {
	windows := make([]schedule.ScheduledTime, len(r.candidateWindows))
	copy(windows, r.candidateWindows)
	return windows
}

// CurrentScheduledTime returns the window the request is scheduled at, or nil
// while it sits in the backlog.
func (r *DeliveryRequest) CurrentScheduledTime() *schedule.ScheduledTime {
	return r.currentScheduledTime
}

// Status returns the current lifecycle status.
func (r *DeliveryRequest) Status() Status {
	return r.status
}

// LineItems returns the request's item positions.
func (r *DeliveryRequest) LineItems() []LineItem {
	items := make([]LineItem, len(r.lineItems))
	copy(items, r.lineItems)
	return items
}

// ProofImageURL returns the recorded handover proof image, if any.
func (r *DeliveryRequest) ProofImageURL() string {
	return r.proofImageURL
}

// CancelReason returns the recorded cancellation reason, if any.
func (r *DeliveryRequest) CancelReason() string {
	return r.cancelReason
}

// IsEqual compares two requests by identifier.
func (r *DeliveryRequest) IsEqual(other *DeliveryRequest) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// TotalVolumePercent returns the request's load as a percentage of one
// vehicle's nominal capacity, summed over all line items.
func (r *DeliveryRequest) TotalVolumePercent() float64 {
	var total float64
	for _, li := range r.lineItems {
		total += li.VolumePercent()
	}
	return total
}

// FirstAvailableWindow returns the earliest candidate window still usable at
// the given instant. The second return value is false when every window passed.
func (r *DeliveryRequest) FirstAvailableWindow(now time.Time) (schedule.ScheduledTime, bool) {
	return schedule.FirstAvailable(r.candidateWindows, now)
}

// LastAvailableWindow returns the latest candidate window still usable at the
// given instant.
func (r *DeliveryRequest) LastAvailableWindow(now time.Time) (schedule.ScheduledTime, bool) {
	return schedule.LastAvailable(r.candidateWindows, now)
}

// HasFutureWindow reports whether the request is still in-date.
func (r *DeliveryRequest) HasFutureWindow(now time.Time) bool {
	return schedule.HasFutureWindow(r.candidateWindows, now)
}

// IsAlreadyScheduled reports whether the request's current scheduled time
// already equals its first-available window, meaning a previous pass placed it
// and it must not re-enter grouping.
func (r *DeliveryRequest) IsAlreadyScheduled(now time.Time) bool {
	if r.currentScheduledTime == nil {
		return false
	}

	first, ok := r.FirstAvailableWindow(now)
	return ok && r.currentScheduledTime.IsEqual(first)
}

// ScheduleAt stamps the request's current scheduled time. The window must be
// one of the request's own candidate windows: each member of a route reports
// its personal slot, never the merged group window.
func (r *DeliveryRequest) ScheduleAt(window schedule.ScheduledTime) error {
	for _, w := range r.candidateWindows {
		if w.IsEqual(window) {
			r.currentScheduledTime = &window
			return nil
		}
	}
	return ErrWindowNotCandidate
}

// ClearSchedule removes the current scheduled time so the request re-enters
// the backlog on the next pass.
func (r *DeliveryRequest) ClearSchedule() {
	r.currentScheduledTime = nil
}

// Accept marks the request Accepted when its route is claimed by a volunteer.
func (r *DeliveryRequest) Accept() error {
	return r.transition(r.status.Accept)
}

// StartShipping marks the request Shipping when its route starts.
func (r *DeliveryRequest) StartShipping() error {
	return r.transition(r.status.Ship)
}

// Advance steps the request one stage along the forward delivery progression
// (Shipping → ArrivedPickup → Collected → ArrivedDelivery → Delivered).
func (r *DeliveryRequest) Advance() error {
	return r.transition(r.status.Advance)
}

// Finish terminalizes a Delivered request after stock reconciliation.
// Export requests must carry a proof image before they can finish.
func (r *DeliveryRequest) Finish() error {
	if r.direction.IsExport() && r.proofImageURL == "" {
		return ErrProofImageRequired
	}
	return r.transition(r.status.Finish)
}

// AttachProofImage records the handover proof image.
func (r *DeliveryRequest) AttachProofImage(url string) error {
	if url == "" {
		return errs.NewValueIsRequiredError("proof image url")
	}
	r.proofImageURL = url
	return nil
}

// Cancel terminalizes the request with a reason. Always legal before pickup;
// in transit only for export-direction requests.
func (r *DeliveryRequest) Cancel(reason string) error {
	newStatus, err := r.status.Cancel(r.direction.IsExport())
	if err != nil {
		return err
	}

	r.status = newStatus
	r.cancelReason = reason
	return nil
}

// Expire terminalizes a request whose windows all passed unused, or whose
// route went late.
func (r *DeliveryRequest) Expire() error {
	return r.transition(r.status.Expire)
}

// Report opens a problem report on the request.
func (r *DeliveryRequest) Report() error {
	return r.transition(r.status.Report)
}

// ResolveReport closes an open report, returning the request to Pending or
// terminalizing it as Expired. Returning to Pending also clears the schedule
// so the request re-enters the backlog.
func (r *DeliveryRequest) ResolveReport(to Status) error {
	newStatus, err := r.status.ResolveReport(to)
	if err != nil {
		return err
	}

	r.status = newStatus
	if newStatus == StatusPending {
		r.ClearSchedule()
	}
	return nil
}

// BackToPending returns the request to the backlog after its route was
// canceled by the volunteer before the window ended.
func (r *DeliveryRequest) BackToPending() error {
	if err := r.transition(r.status.BackToPending); err != nil {
		return err
	}
	r.ClearSchedule()
	return nil
}

func (r *DeliveryRequest) transition(step func() (Status, error)) error {
	newStatus, err := step()
	if err != nil {
		return err
	}
	r.status = newStatus
	return nil
}

func (r *DeliveryRequest) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *DeliveryRequest) setBranchID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("branchID", err)
	}
	r.branchID = id
	return nil
}

func (r *DeliveryRequest) setLocation(location kernel.GeoLocation) error {
	if err := location.Validate(); err != nil {
		return err
	}
	r.location = location
	return nil
}

func (r *DeliveryRequest) setWindows(windows []schedule.ScheduledTime) error {
	if len(windows) == 0 {
		return ErrWindowsAreRequired
	}

	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	r.candidateWindows = make([]schedule.ScheduledTime, len(windows))
	copy(r.candidateWindows, windows)
	return nil
}

func (r *DeliveryRequest) setLineItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrLineItemsAreRequired
	}

	r.lineItems = make([]LineItem, len(items))
	copy(r.lineItems, items)
	return nil
}
