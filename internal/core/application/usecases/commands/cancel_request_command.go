package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/guard"
)

var (
	ErrCancelRequestCommandIsNotConstructed = errors.New(
		"CancelRequestCommand must be created via NewCancelRequestCommand constructor",
	)
	ErrCancelReasonIsRequired = errors.New("cancel reason is required")
)

// CancelRequestCommand represents an administrator canceling one delivery
// request with a reason.
type CancelRequestCommand struct { //nolint:recvcheck //using for validation
	adminID   kernel.UUID
	requestID kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

// NewCancelRequestCommand creates a command to cancel a request.
func NewCancelRequestCommand(
	adminID, requestID kernel.UUID,
	reason string,
) (CancelRequestCommand, error) {
	cmd := CancelRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(adminID.Validate(), requestID.Validate()); err != nil {
		return CancelRequestCommand{}, err
	}

	if reason == "" {
		return CancelRequestCommand{}, ErrCancelReasonIsRequired
	}

	cmd.adminID = adminID
	cmd.requestID = requestID
	cmd.reason = reason
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelRequestCommand) Validate() error {
	return c.guard.Validate(ErrCancelRequestCommandIsNotConstructed)
}

// AdminID returns the administrator who canceled.
func (c CancelRequestCommand) AdminID() kernel.UUID {
	return c.adminID
}

// RequestID returns the request being canceled.
func (c CancelRequestCommand) RequestID() kernel.UUID {
	return c.requestID
}

// Reason returns the cancellation reason.
func (c CancelRequestCommand) Reason() string {
	return c.reason
}
