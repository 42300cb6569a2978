package request

import (
	"fmt"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
)

// Direction classifies a delivery request by its source/destination pairing.
// It is computed exactly once, from which of the two mutually exclusive parent
// links is set, and carried on the entity afterwards so that no other code has
// to re-derive it by chasing optional references.
//
// A request with a donation parent moves goods toward a branch (DonorToBranch),
// a request with an aid-request parent moves goods out of a branch (BranchToAid),
// and inter-branch transfers carry neither parent's semantics on the far end
// (BranchToBranch).
type Direction int

const (
	// DirectionUnknown is the invalid zero value.
	DirectionUnknown Direction = iota

	// DonorToBranch imports donated goods from a contributor into a branch.
	DonorToBranch

	// BranchToAid exports goods from a branch to an aid recipient.
	BranchToAid

	// BranchToBranch transfers goods between two branches.
	BranchToBranch
)

func getDirectionStrings() map[Direction]string {
	return map[Direction]string{
		DirectionUnknown: "Unknown",
		DonorToBranch:    "DonorToBranch",
		BranchToAid:      "BranchToAid",
		BranchToBranch:   "BranchToBranch",
	}
}

// DeriveDirection computes the direction from the parent links of a request.
// Exactly one of donationID and aidRequestID must be set, except for
// inter-branch transfers which carry a donation parent plus a transfer flag.
func DeriveDirection(donationID, aidRequestID *kernel.UUID, interBranch bool) (Direction, error) {
	switch {
	case donationID != nil && aidRequestID != nil:
		return DirectionUnknown, errs.NewValueIsInvalidErrorWithCause(
			"parent links",
			fmt.Errorf("request cannot reference both a donation and an aid request"),
		)
	case donationID == nil && aidRequestID == nil:
		return DirectionUnknown, errs.NewValueIsRequiredError("parent link")
	case aidRequestID != nil:
		return BranchToAid, nil
	case interBranch:
		return BranchToBranch, nil
	default:
		return DonorToBranch, nil
	}
}

// IsExport reports whether the request takes goods out of branch stock.
// Only branch→aid requests are export-direction: they consume lots on handover
// and may be canceled while physically in transit.
func (d Direction) IsExport() bool {
	return d == BranchToAid
}

// IsImport reports whether the request ends at a branch and feeds its stock.
func (d Direction) IsImport() bool {
	return d == DonorToBranch || d == BranchToBranch
}

// Validate checks that the direction is one of the three known pairings.
func (d Direction) Validate() error {
	if d != DonorToBranch && d != BranchToAid && d != BranchToBranch {
		return errs.NewValueIsInvalidErrorWithCause(
			"direction",
			fmt.Errorf("%d is not a valid direction", d),
		)
	}
	return nil
}

// String returns the human-readable name of the direction.
func (d Direction) String() string {
	if s, ok := getDirectionStrings()[d]; ok {
		return s
	}
	return "Unknown"
}
