// Package queries contains read-only operations that bypass the domain model
// and read the database directly, per the CQRS split. Responses are flat read
// models shaped for the API layer.
package queries

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrGetPendingRequestsQueryIsNotConstructed = errors.New(
	"GetPendingRequestsQuery is not constructed. Use NewGetPendingRequestsQuery")

// GetPendingRequestsQuery retrieves the unscheduled backlog of one branch in
// one direction, the same set the next scheduling pass will consume.
type GetPendingRequestsQuery struct {
	branchID  kernel.UUID
	direction request.Direction

	guard guard.ConstructorGuard
}

func NewGetPendingRequestsQuery(branchID kernel.UUID, direction request.Direction) (GetPendingRequestsQuery, error) {
	if branchID.Validate() != nil {
		return GetPendingRequestsQuery{}, errs.NewValueIsRequiredError("branchID")
	}
	if err := direction.Validate(); err != nil {
		return GetPendingRequestsQuery{}, err
	}

	return GetPendingRequestsQuery{
		branchID:  branchID,
		direction: direction,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetPendingRequestsQuery) BranchID() kernel.UUID {
	return q.branchID
}

func (q GetPendingRequestsQuery) Direction() request.Direction {
	return q.direction
}

func (q GetPendingRequestsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingRequestsQueryIsNotConstructed)
}

// GetPendingRequestsQueryResponse is one backlog row: the request, where its
// far end is, and how much of a vehicle it fills.
type GetPendingRequestsQueryResponse struct {
	ID            kernel.UUID
	Location      kernel.GeoLocation
	VolumePercent float64
}
