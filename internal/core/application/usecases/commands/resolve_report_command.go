package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrResolveReportCommandIsNotConstructed = errors.New(
	"ResolveReportCommand is not constructed. Use NewResolveReportCommand")

// ResolveReportCommand closes an open problem report on a request, either
// sending it back to the backlog or retiring it for good.
type ResolveReportCommand struct { //nolint:recvcheck //using for validation
	staffID   kernel.UUID
	requestID kernel.UUID
	to        request.Status

	guard guard.ConstructorGuard
}

func NewResolveReportCommand(
	staffID kernel.UUID,
	requestID kernel.UUID,
	to request.Status,
) (ResolveReportCommand, error) {
	var errStaffID, errRequestID, errTo error

	if staffID.Validate() != nil {
		errStaffID = errs.NewValueIsRequiredError("staffID")
	}
	if requestID.Validate() != nil {
		errRequestID = errs.NewValueIsRequiredError("requestID")
	}
	if to != request.StatusPending && to != request.StatusExpired {
		errTo = errs.NewValueIsInvalidError("to")
	}

	if err := errors.Join(errStaffID, errRequestID, errTo); err != nil {
		return ResolveReportCommand{}, err
	}

	return ResolveReportCommand{
		guard: guard.NewConstructorGuard(),

		staffID:   staffID,
		requestID: requestID,
		to:        to,
	}, nil
}

func (c ResolveReportCommand) StaffID() kernel.UUID {
	return c.staffID
}

func (c ResolveReportCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c ResolveReportCommand) To() request.Status {
	return c.to
}

func (c ResolveReportCommand) Validate() error {
	return c.guard.Validate(ErrResolveReportCommandIsNotConstructed)
}
