package stock

import (
	"errors"
	"fmt"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

// ErrTargetIsNotConstructed is returned when using an improperly initialized
// CampaignTarget.
var ErrTargetIsNotConstructed = errors.New(
	"CampaignTarget must be created via NewCampaignTarget")

// CampaignTarget is the progress counter toward a fundraising campaign's
// requested quantity of one item at one branch. Untargeted receipts are
// attributed to the currently least-fulfilled matching open target.
type CampaignTarget struct {
	id         kernel.UUID
	campaignID kernel.UUID
	itemID     kernel.UUID
	branchID   kernel.UUID

	requestedQuantity float64
	fulfilledQuantity float64

	guard guard.ConstructorGuard
}

// NewCampaignTarget creates a target with the campaign's requested quantity
// and its current fulfillment.
func NewCampaignTarget(
	id, campaignID, itemID, branchID kernel.UUID,
	requestedQuantity, fulfilledQuantity float64,
) (*CampaignTarget, error) {
	if err := errors.Join(
		id.Validate(),
		campaignID.Validate(),
		itemID.Validate(),
		branchID.Validate(),
	); err != nil {
		return nil, err
	}

	if requestedQuantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"requestedQuantity", fmt.Errorf("%g is not greater than 0", requestedQuantity))
	}

	if fulfilledQuantity < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"fulfilledQuantity", fmt.Errorf("%g is negative", fulfilledQuantity))
	}

	return &CampaignTarget{
		id:                id,
		campaignID:        campaignID,
		itemID:            itemID,
		branchID:          branchID,
		requestedQuantity: requestedQuantity,
		fulfilledQuantity: fulfilledQuantity,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the target was constructed through the constructor.
func (t *CampaignTarget) Validate() error {
	if t == nil {
		return ErrTargetIsNotConstructed
	}
	return t.guard.Validate(ErrTargetIsNotConstructed)
}

// ID returns the target's unique identifier.
func (t *CampaignTarget) ID() kernel.UUID {
	return t.id
}

// CampaignID returns the campaign the target belongs to.
func (t *CampaignTarget) CampaignID() kernel.UUID {
	return t.campaignID
}

// ItemID returns the requested item.
func (t *CampaignTarget) ItemID() kernel.UUID {
	return t.itemID
}

// BranchID returns the branch collecting for the campaign.
func (t *CampaignTarget) BranchID() kernel.UUID {
	return t.branchID
}

// RequestedQuantity returns the campaign's requested amount.
func (t *CampaignTarget) RequestedQuantity() float64 {
	return t.requestedQuantity
}

// FulfilledQuantity returns the amount received so far.
func (t *CampaignTarget) FulfilledQuantity() float64 {
	return t.fulfilledQuantity
}

// FulfillmentRatio returns fulfilled/requested, used to pick the currently
// least-fulfilled open target for untargeted receipts.
func (t *CampaignTarget) FulfillmentRatio() float64 {
	return t.fulfilledQuantity / t.requestedQuantity
}

// IsOpen reports whether the target still wants more of the item.
func (t *CampaignTarget) IsOpen() bool {
	return t.fulfilledQuantity < t.requestedQuantity
}

// Advance records a received quantity against the target. Progress may exceed
// the requested quantity; over-fulfillment closes the target but is not an error.
func (t *CampaignTarget) Advance(quantity float64) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%g is not greater than 0", quantity))
	}
	t.fulfilledQuantity += quantity
	return nil
}
