package routerepo

import (
	"context"
	"errors"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormScheduledRouteRepository implements ScheduledRouteRepository using GORM.
type GormScheduledRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormScheduledRouteRepository creates a new GORM scheduled route repository.
func NewGormScheduledRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormScheduledRouteRepository {
	return &GormScheduledRouteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new scheduled route with its members.
func (r *GormScheduledRouteRepository) Add(ctx context.Context, aggregate *route.ScheduledRoute) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing route and its members. Member statuses change when
// the route is given back or a request is canceled, so the member rows are
// saved together with the route row.
func (r *GormScheduledRouteRepository) Update(ctx context.Context, aggregate *route.ScheduledRoute) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Use Session with FullSaveAssociations to properly update the member rows
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// claimColumns are the route columns a status transition may write. Listed
// explicitly so zero values still persist through Updates.
var claimColumns = []string{"status", "accepted_date", "finished_date", "volunteer_id"}

// UpdateFrom writes the route row only when its stored status still equals
// expected. Two transactions racing the same transition each read the old
// status; the guard lets exactly one of them through and the loser gets
// gorm.ErrRecordNotFound. Member rows are untouched.
func (r *GormScheduledRouteRepository) UpdateFrom(
	ctx context.Context,
	aggregate *route.ScheduledRoute,
	expected route.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&ScheduledRouteDTO{}).
		Where("id = ? AND status = ?", aggregate.ID().Bytes(), int(expected)).
		Select(claimColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a route by ID.
func (r *GormScheduledRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.ScheduledRoute, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ScheduledRouteDTO
	if err := r.db.WithContext(ctx).
		Preload("Members").
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("scheduled route", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByVolunteer retrieves the Accepted and Processing routes held by
// one volunteer.
func (r *GormScheduledRouteRepository) GetActiveByVolunteer(
	ctx context.Context,
	volunteerID kernel.UUID,
) ([]*route.ScheduledRoute, error) {
	if err := volunteerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ScheduledRouteDTO
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("volunteer_id = ? AND status IN (?, ?)",
			volunteerID.Bytes(), int(route.StatusAccepted), int(route.StatusProcessing)).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetStaleActive retrieves Accepted and Processing routes whose start date is
// older than the given instant.
func (r *GormScheduledRouteRepository) GetStaleActive(
	ctx context.Context,
	startedBefore time.Time,
) ([]*route.ScheduledRoute, error) {
	var dtos []ScheduledRouteDTO
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("status IN (?, ?) AND start_date < ?",
			int(route.StatusAccepted), int(route.StatusProcessing), startedBefore).
		Order("start_date").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// HasScheduledMember reports whether any route currently holds a Scheduled
// member row for the given request.
func (r *GormScheduledRouteRepository) HasScheduledMember(ctx context.Context, requestID kernel.UUID) (bool, error) {
	if err := requestID.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&RouteMemberDTO{}).
		Where("request_id = ? AND status = ?",
			requestID.Bytes(), int(route.MemberStatusScheduled)).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetByScheduledMember retrieves the route holding a live membership for the
// given request.
func (r *GormScheduledRouteRepository) GetByScheduledMember(
	ctx context.Context,
	requestID kernel.UUID,
) (*route.ScheduledRoute, error) {
	if err := requestID.Validate(); err != nil {
		return nil, err
	}

	var member RouteMemberDTO
	if err := r.db.WithContext(ctx).
		First(&member, "request_id = ? AND status = ?",
			requestID.Bytes(), int(route.MemberStatusScheduled)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("scheduled route by member", requestID.String())
		}
		return nil, err
	}

	routeID, err := kernel.UUIDFromBytes(member.RouteID[:])
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, routeID)
}

func toDomainSlice(dtos []ScheduledRouteDTO) ([]*route.ScheduledRoute, error) {
	routes := make([]*route.ScheduledRoute, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		routes = append(routes, aggregate)
	}

	return routes, nil
}
