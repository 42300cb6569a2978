package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/guard"
)

var ErrAdvanceRequestCommandIsNotConstructed = errors.New(
	"AdvanceRequestCommand must be created via NewAdvanceRequestCommand constructor",
)

// AdvanceRequestCommand steps one delivery request forward along its
// progression (Shipping → ArrivedPickup → Collected → ArrivedDelivery →
// Delivered).
type AdvanceRequestCommand struct { //nolint:recvcheck //using for validation
	actorID   kernel.UUID
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAdvanceRequestCommand creates a command to advance a request one stage.
func NewAdvanceRequestCommand(actorID, requestID kernel.UUID) (AdvanceRequestCommand, error) {
	cmd := AdvanceRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(actorID.Validate(), requestID.Validate()); err != nil {
		return AdvanceRequestCommand{}, err
	}

	cmd.actorID = actorID
	cmd.requestID = requestID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceRequestCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceRequestCommandIsNotConstructed)
}

// ActorID returns who reported the progress.
func (c AdvanceRequestCommand) ActorID() kernel.UUID {
	return c.actorID
}

// RequestID returns the request being advanced.
func (c AdvanceRequestCommand) RequestID() kernel.UUID {
	return c.requestID
}
