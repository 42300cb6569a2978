package commands

import "context"

// ResolveReportCommandHandler lets a staff member close a problem report.
// After the resolution it re-derives the parent donation's or aid request's
// outcome from all sibling delivery requests, since the resolved request may
// have been the last one keeping the parent open.
type ResolveReportCommandHandler struct {
	uowFactory UoWFactory
}

func NewResolveReportCommandHandler(uowFactory UoWFactory) ResolveReportCommandHandler {
	return ResolveReportCommandHandler{uowFactory: uowFactory}
}

func (h ResolveReportCommandHandler) Handle(ctx context.Context, command ResolveReportCommand) error {
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

	reported, err := requestRepo.Get(ctx, command.RequestID())
	if err != nil {
		return err
	}

	if err := reported.ResolveReport(command.To()); err != nil {
		return err
	}

	if err := requestRepo.Update(ctx, reported); err != nil {
		return err
	}

	if err := settleParent(ctx, requestRepo, reported); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
