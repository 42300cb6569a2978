package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/services"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrReceivePickupCommandIsNotConstructed = errors.New(
	"ReceivePickupCommand is not constructed. Use NewReceivePickupCommand")

// ReceivePickupCommand records an import route arriving at the branch with
// the goods it collected, keyed by the member request that contributed them.
type ReceivePickupCommand struct { //nolint:recvcheck //using for validation
	branchAdminID kernel.UUID
	routeID       kernel.UUID
	receipts      map[kernel.UUID][]services.ReceiptLine

	guard guard.ConstructorGuard
}

func NewReceivePickupCommand(
	branchAdminID kernel.UUID,
	routeID kernel.UUID,
	receipts map[kernel.UUID][]services.ReceiptLine,
) (ReceivePickupCommand, error) {
	var errBranchAdminID, errRouteID, errReceipts error

	if branchAdminID.Validate() != nil {
		errBranchAdminID = errs.NewValueIsRequiredError("branchAdminID")
	}
	if routeID.Validate() != nil {
		errRouteID = errs.NewValueIsRequiredError("routeID")
	}
	if len(receipts) == 0 {
		errReceipts = errs.NewValueIsRequiredError("receipts")
	}

	if err := errors.Join(errBranchAdminID, errRouteID, errReceipts); err != nil {
		return ReceivePickupCommand{}, err
	}

	return ReceivePickupCommand{
		guard: guard.NewConstructorGuard(),

		branchAdminID: branchAdminID,
		routeID:       routeID,
		receipts:      receipts,
	}, nil
}

func (c ReceivePickupCommand) BranchAdminID() kernel.UUID {
	return c.branchAdminID
}

func (c ReceivePickupCommand) RouteID() kernel.UUID {
	return c.routeID
}

func (c ReceivePickupCommand) Receipts() map[kernel.UUID][]services.ReceiptLine {
	return c.receipts
}

func (c ReceivePickupCommand) Validate() error {
	return c.guard.Validate(ErrReceivePickupCommandIsNotConstructed)
}
