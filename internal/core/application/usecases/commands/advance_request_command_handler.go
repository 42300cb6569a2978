package commands

import (
	"context"
)

// AdvanceRequestCommandHandler applies one forward progression step to a
// delivery request.
type AdvanceRequestCommandHandler struct {
	uowFactory UoWFactory
}

// NewAdvanceRequestCommandHandler creates a handler for progress reports.
func NewAdvanceRequestCommandHandler(uowFactory UoWFactory) AdvanceRequestCommandHandler {
	return AdvanceRequestCommandHandler{uowFactory: uowFactory}
}

// Handle advances the request one stage.
func (h AdvanceRequestCommandHandler) Handle(ctx context.Context, command AdvanceRequestCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requestRepo := uow.RequestRepository()

	advanced, err := requestRepo.Get(ctx, command.RequestID())
	if err != nil {
		return err
	}

	if err := advanced.Advance(); err != nil {
		return err
	}

	if err := requestRepo.Update(ctx, advanced); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
