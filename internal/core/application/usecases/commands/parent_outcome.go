package commands

import (
	"context"

	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/ports"
)

// settleParent re-derives the outcome of the donation or aid request the
// settled delivery request belongs to, and records it when all siblings have
// reached a terminal status. Called by every handler that terminalizes a
// request.
func settleParent(
	ctx context.Context,
	repo ports.DeliveryRequestRepository,
	settled *request.DeliveryRequest,
) error {
	siblings, err := repo.GetSiblings(ctx, settled.DonationID(), settled.AidRequestID())
	if err != nil {
		return err
	}

	outcome := request.DeriveParentOutcome(siblings)
	if outcome == request.ParentOutcomeNone {
		return nil
	}

	return repo.SetParentOutcome(ctx, settled.DonationID(), settled.AidRequestID(), outcome)
}
