package requestrepo

import (
	"context"
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/pkg/errs"

	"gorm.io/gorm"
)

// mutableColumns are the only delivery request columns a command may change
// after creation. Listing them explicitly forces GORM to write zero values,
// which matters when a cleared schedule must persist as NULL.
var mutableColumns = []string{
	"status",
	"scheduled_day",
	"scheduled_start_sec",
	"scheduled_end_sec",
	"proof_image_url",
	"cancel_reason",
}

// GormDeliveryRequestRepository implements DeliveryRequestRepository using GORM.
type GormDeliveryRequestRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDeliveryRequestRepository creates a new GORM delivery request repository.
func NewGormDeliveryRequestRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRequestRepository {
	return &GormDeliveryRequestRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery request with its windows and line items.
func (r *GormDeliveryRequestRepository) Add(ctx context.Context, aggregate *request.DeliveryRequest) error {
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

// Update saves the mutable state of an existing delivery request. Windows and
// line items are immutable after construction and are never rewritten.
func (r *GormDeliveryRequestRepository) Update(ctx context.Context, aggregate *request.DeliveryRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DeliveryRequestDTO{}).
		Where("id = ?", dto.ID).
		Select(mutableColumns).
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

// Get retrieves a delivery request by ID.
func (r *GormDeliveryRequestRepository) Get(ctx context.Context, id kernel.UUID) (*request.DeliveryRequest, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryRequestDTO
	if err := r.db.WithContext(ctx).
		Preload("Windows").
		Preload("LineItems").
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery request", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPendingBacklog retrieves the Pending requests for one branch and
// direction in creation order.
func (r *GormDeliveryRequestRepository) GetPendingBacklog(
	ctx context.Context,
	branchID kernel.UUID,
	direction request.Direction,
) ([]*request.DeliveryRequest, error) {
	if err := branchID.Validate(); err != nil {
		return nil, err
	}
	if err := direction.Validate(); err != nil {
		return nil, err
	}

	var dtos []DeliveryRequestDTO
	if err := r.db.WithContext(ctx).
		Preload("Windows").
		Preload("LineItems").
		Where("branch_id = ? AND direction = ? AND status = ?",
			branchID.Bytes(), int(direction), int(request.StatusPending)).
		Order("created_date").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetSiblings retrieves every request sharing the given parent link.
func (r *GormDeliveryRequestRepository) GetSiblings(
	ctx context.Context,
	donationID, aidRequestID *kernel.UUID,
) ([]*request.DeliveryRequest, error) {
	query := r.db.WithContext(ctx).Preload("Windows").Preload("LineItems")

	switch {
	case donationID != nil:
		query = query.Where("donation_id = ?", donationID.Bytes())
	case aidRequestID != nil:
		query = query.Where("aid_request_id = ?", aidRequestID.Bytes())
	default:
		return nil, errs.NewValueIsRequiredError("parent link")
	}

	var dtos []DeliveryRequestDTO
	if err := query.Order("created_date").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// SetParentOutcome writes the cascaded terminal status onto the parent
// donation or aid-request row. The parent tables are owned by the wider
// application; only their outcome column is touched here.
func (r *GormDeliveryRequestRepository) SetParentOutcome(
	ctx context.Context,
	donationID, aidRequestID *kernel.UUID,
	outcome request.ParentOutcome,
) error {
	switch {
	case donationID != nil:
		return r.db.WithContext(ctx).
			Exec("UPDATE donations SET delivery_outcome = ? WHERE id = ?",
				int(outcome), donationID.Bytes()).Error
	case aidRequestID != nil:
		return r.db.WithContext(ctx).
			Exec("UPDATE aid_requests SET delivery_outcome = ? WHERE id = ?",
				int(outcome), aidRequestID.Bytes()).Error
	default:
		return errs.NewValueIsRequiredError("parent link")
	}
}

func toDomainSlice(dtos []DeliveryRequestDTO) ([]*request.DeliveryRequest, error) {
	requests := make([]*request.DeliveryRequest, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		requests = append(requests, aggregate)
	}

	return requests, nil
}
