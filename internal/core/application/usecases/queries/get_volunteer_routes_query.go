package queries

import (
	"errors"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrGetVolunteerRoutesQueryIsNotConstructed = errors.New(
	"GetVolunteerRoutesQuery is not constructed. Use NewGetVolunteerRoutesQuery")

// GetVolunteerRoutesQuery retrieves the routes a volunteer currently holds.
type GetVolunteerRoutesQuery struct {
	volunteerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetVolunteerRoutesQuery(volunteerID kernel.UUID) (GetVolunteerRoutesQuery, error) {
	if volunteerID.Validate() != nil {
		return GetVolunteerRoutesQuery{}, errs.NewValueIsRequiredError("volunteerID")
	}

	return GetVolunteerRoutesQuery{
		volunteerID: volunteerID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q GetVolunteerRoutesQuery) VolunteerID() kernel.UUID {
	return q.volunteerID
}

func (q GetVolunteerRoutesQuery) Validate() error {
	return q.guard.Validate(ErrGetVolunteerRoutesQueryIsNotConstructed)
}

// GetVolunteerRoutesQueryResponse is one held route with its operating window.
type GetVolunteerRoutesQueryResponse struct {
	ID          kernel.UUID
	Status      route.Status
	WindowStart time.Time
	WindowEnd   time.Time
	StartDate   time.Time
	StopCount   int
}
