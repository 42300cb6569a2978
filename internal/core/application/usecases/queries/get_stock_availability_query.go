package queries

import (
	"errors"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrGetStockAvailabilityQueryIsNotConstructed = errors.New(
	"GetStockAvailabilityQuery is not constructed. Use NewGetStockAvailabilityQuery")

// GetStockAvailabilityQuery reads how much of an item a branch holds in
// unexpired lots, per lot.
type GetStockAvailabilityQuery struct {
	itemID   kernel.UUID
	branchID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetStockAvailabilityQuery(itemID, branchID kernel.UUID) (GetStockAvailabilityQuery, error) {
	var errItemID, errBranchID error

	if itemID.Validate() != nil {
		errItemID = errs.NewValueIsRequiredError("itemID")
	}
	if branchID.Validate() != nil {
		errBranchID = errs.NewValueIsRequiredError("branchID")
	}

	if err := errors.Join(errItemID, errBranchID); err != nil {
		return GetStockAvailabilityQuery{}, err
	}

	return GetStockAvailabilityQuery{
		itemID:   itemID,
		branchID: branchID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetStockAvailabilityQuery) ItemID() kernel.UUID {
	return q.itemID
}

func (q GetStockAvailabilityQuery) BranchID() kernel.UUID {
	return q.branchID
}

func (q GetStockAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetStockAvailabilityQueryIsNotConstructed)
}

// StockLotResponse is one unexpired lot with remaining quantity.
type StockLotResponse struct {
	LotID          kernel.UUID
	CampaignID     *kernel.UUID
	ExpirationDate time.Time
	Quantity       float64
}

// GetStockAvailabilityQueryResponse aggregates a branch's holdings of one item.
type GetStockAvailabilityQueryResponse struct {
	TotalQuantity float64
	Lots          []StockLotResponse
}
