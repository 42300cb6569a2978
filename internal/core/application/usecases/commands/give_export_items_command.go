package commands

import (
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

var ErrGiveExportItemsCommandIsNotConstructed = errors.New(
	"GiveExportItemsCommand is not constructed. Use NewGiveExportItemsCommand")

// GiveExportItemsCommand records the branch handing stock over to a volunteer
// who is about to drive an export route.
type GiveExportItemsCommand struct { //nolint:recvcheck //using for validation
	branchAdminID kernel.UUID
	routeID       kernel.UUID
	note          string
	lotNotes      map[kernel.UUID]string

	guard guard.ConstructorGuard
}

func NewGiveExportItemsCommand(
	branchAdminID kernel.UUID,
	routeID kernel.UUID,
	note string,
	lotNotes map[kernel.UUID]string,
) (GiveExportItemsCommand, error) {
	var errBranchAdminID, errRouteID error

	if branchAdminID.Validate() != nil {
		errBranchAdminID = errs.NewValueIsRequiredError("branchAdminID")
	}
	if routeID.Validate() != nil {
		errRouteID = errs.NewValueIsRequiredError("routeID")
	}

	if err := errors.Join(errBranchAdminID, errRouteID); err != nil {
		return GiveExportItemsCommand{}, err
	}

	return GiveExportItemsCommand{
		guard: guard.NewConstructorGuard(),

		branchAdminID: branchAdminID,
		routeID:       routeID,
		note:          note,
		lotNotes:      lotNotes,
	}, nil
}

func (c GiveExportItemsCommand) BranchAdminID() kernel.UUID {
	return c.branchAdminID
}

func (c GiveExportItemsCommand) RouteID() kernel.UUID {
	return c.routeID
}

func (c GiveExportItemsCommand) Note() string {
	return c.note
}

// LotNotes holds the branch admin's remarks keyed by lot, applied to the
// matching consumed fragment instead of the handover-wide note.
func (c GiveExportItemsCommand) LotNotes() map[kernel.UUID]string {
	return c.lotNotes
}

func (c GiveExportItemsCommand) Validate() error {
	return c.guard.Validate(ErrGiveExportItemsCommandIsNotConstructed)
}
