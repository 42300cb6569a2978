// Package ports defines the contracts between the core and its adapters:
// repositories, the unit of work, the route-optimization solver and the
// notification sinks.
package ports

import (
	"context"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
)

// DeliveryRequestRepository defines the persistence contract for delivery
// request aggregates.
type DeliveryRequestRepository interface {
	// Add persists a new delivery request aggregate.
	Add(ctx context.Context, aggregate *request.DeliveryRequest) error

	// Update persists changes to an existing delivery request.
	// An update that matches no row is a consistency violation and fails.
	Update(ctx context.Context, aggregate *request.DeliveryRequest) error

	// Get retrieves a delivery request by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*request.DeliveryRequest, error)

	// GetPendingBacklog retrieves the Pending requests for one branch and
	// direction, in creation order. This is the input of the scheduling pass;
	// sourcing batches only from Pending requests is half of the guarantee
	// that a request holds at most one live route membership.
	GetPendingBacklog(
		ctx context.Context,
		branchID kernel.UUID,
		direction request.Direction,
	) ([]*request.DeliveryRequest, error)

	// GetSiblings retrieves every request sharing the given parent link,
	// used to cascade report resolutions to the parent aggregate.
	GetSiblings(ctx context.Context, donationID, aidRequestID *kernel.UUID) ([]*request.DeliveryRequest, error)

	// SetParentOutcome writes the cascaded terminal status onto the parent
	// donation or aid-request row.
	SetParentOutcome(
		ctx context.Context,
		donationID, aidRequestID *kernel.UUID,
		outcome request.ParentOutcome,
	) error
}
