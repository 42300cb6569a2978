package ports

import (
	"context"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/route"
)

// ScheduledRouteRepository defines the persistence contract for scheduled
// route aggregates and their member join records.
type ScheduledRouteRepository interface {
	// Add persists a new scheduled route with its members.
	Add(ctx context.Context, aggregate *route.ScheduledRoute) error

	// Update persists changes to an existing route and its members.
	Update(ctx context.Context, aggregate *route.ScheduledRoute) error

	// UpdateFrom persists the route row only when its stored status still
	// equals expected, making the volunteer claim a compare-and-swap at
	// the database. A lost race surfaces as gorm.ErrRecordNotFound and
	// aborts the transaction. Member rows are not written.
	UpdateFrom(ctx context.Context, aggregate *route.ScheduledRoute, expected route.Status) error

	// Get retrieves a route by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*route.ScheduledRoute, error)

	// GetActiveByVolunteer retrieves the Accepted and Processing routes held
	// by one volunteer. Used for the window-overlap recheck on acceptance.
	GetActiveByVolunteer(ctx context.Context, volunteerID kernel.UUID) ([]*route.ScheduledRoute, error)

	// GetStaleActive retrieves Accepted and Processing routes whose start
	// date is older than the given instant, for the lateness sweep.
	GetStaleActive(ctx context.Context, startedBefore time.Time) ([]*route.ScheduledRoute, error)

	// HasScheduledMember reports whether any route currently holds a
	// Scheduled member for the given request. Rechecked inside the
	// assembly transaction right before insert.
	HasScheduledMember(ctx context.Context, requestID kernel.UUID) (bool, error)

	// GetByScheduledMember retrieves the route holding a live membership
	// for the given request, or errs.ErrObjectNotFound when none does.
	GetByScheduledMember(ctx context.Context, requestID kernel.UUID) (*route.ScheduledRoute, error)
}
