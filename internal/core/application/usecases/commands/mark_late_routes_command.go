package commands

import (
	"errors"

	"tutam/internal/pkg/guard"
)

var ErrMarkLateRoutesCommandIsNotConstructed = errors.New(
	"MarkLateRoutesCommand is not constructed. Use NewMarkLateRoutesCommand")

// MarkLateRoutesCommand sweeps started routes whose operating window plus the
// grace period has passed without the volunteer finishing.
type MarkLateRoutesCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

func NewMarkLateRoutesCommand() (MarkLateRoutesCommand, error) {
	return MarkLateRoutesCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c MarkLateRoutesCommand) Validate() error {
	return c.guard.Validate(ErrMarkLateRoutesCommandIsNotConstructed)
}
