package request

import (
	"fmt"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
)

// LineItem is one item position on a delivery request: an item, a quantity, and
// the item's maximum transport quantity, the number of units of the item that
// fill one vehicle completely. The position's load in volume percent is therefore
// quantity/maxTransportQuantity × 100, and a request's total volume is the sum
// over its line items.
type LineItem struct {
	itemID               kernel.UUID
	quantity             float64
	maxTransportQuantity float64
}

// NewLineItem creates a validated line item.
// Quantity must be positive and maxTransportQuantity strictly positive.
func NewLineItem(itemID kernel.UUID, quantity, maxTransportQuantity float64) (LineItem, error) {
	if err := itemID.Validate(); err != nil {
		return LineItem{}, err
	}

	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%g is not greater than 0", quantity))
	}

	if maxTransportQuantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause(
			"maxTransportQuantity", fmt.Errorf("%g is not greater than 0", maxTransportQuantity))
	}

	return LineItem{
		itemID:               itemID,
		quantity:             quantity,
		maxTransportQuantity: maxTransportQuantity,
	}, nil
}

// ItemID returns the identifier of the transported item.
func (li LineItem) ItemID() kernel.UUID {
	return li.itemID
}

// Quantity returns the number of units on this position.
func (li LineItem) Quantity() float64 {
	return li.quantity
}

// MaxTransportQuantity returns how many units of the item fill one vehicle.
func (li LineItem) MaxTransportQuantity() float64 {
	return li.maxTransportQuantity
}

// VolumePercent returns this position's load as a percentage of one vehicle's
// nominal capacity.
func (li LineItem) VolumePercent() float64 {
	return li.quantity / li.maxTransportQuantity * 100
}
