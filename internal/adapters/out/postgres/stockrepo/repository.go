package stockrepo

import (
	"context"
	"errors"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/stock"
	"tutam/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM.
type GormStockRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStockRepository creates a new GORM stock repository.
func NewGormStockRepository(db *gorm.DB, tracker aggregateTracker) *GormStockRepository {
	return &GormStockRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddLot saves a new stock lot.
func (r *GormStockRepository) AddLot(ctx context.Context, lot *stock.Lot) error {
	if err := lot.Validate(); err != nil {
		return err
	}

	dto := lotFromDomain(lot)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(lot.ID(), lot)
	return nil
}

// UpdateLot saves an existing lot. Only the quantity ever changes after
// creation; selecting it explicitly lets a fully consumed lot persist as zero.
func (r *GormStockRepository) UpdateLot(ctx context.Context, lot *stock.Lot) error {
	if err := lot.Validate(); err != nil {
		return err
	}

	dto := lotFromDomain(lot)
	result := r.db.WithContext(ctx).
		Model(&LotDTO{}).
		Where("id = ?", dto.ID).
		Select("quantity").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(lot.ID(), lot)
	return nil
}

// GetLot retrieves a lot by ID.
func (r *GormStockRepository) GetLot(ctx context.Context, id kernel.UUID) (*stock.Lot, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LotDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stock lot", id.String())
		}
		return nil, err
	}

	return lotToDomain(dto)
}

// FindLot retrieves the lot matching the full lot key.
func (r *GormStockRepository) FindLot(ctx context.Context, key stock.LotKey) (*stock.Lot, error) {
	query := r.db.WithContext(ctx).
		Where("item_id = ? AND branch_id = ? AND contributor_id = ? AND expiration_date = ?",
			key.ItemID.Bytes(), key.BranchID.Bytes(), key.ContributorID.Bytes(), key.Expiration)

	if key.CampaignID != nil {
		query = query.Where("campaign_id = ?", key.CampaignID.Bytes())
	} else {
		query = query.Where("campaign_id IS NULL")
	}

	var dto LotDTO
	if err := query.First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stock lot by key", key.ItemID.String())
		}
		return nil, err
	}

	return lotToDomain(dto)
}

// GetConsumableLots retrieves the lots with positive quantity for one item at
// one branch that are unexpired as of now, ordered ascending by expiration
// date. Expiry rides the caller's clock, not the database's.
func (r *GormStockRepository) GetConsumableLots(
	ctx context.Context,
	itemID, branchID kernel.UUID,
	now time.Time,
) ([]*stock.Lot, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}
	if err := branchID.Validate(); err != nil {
		return nil, err
	}

	var dtos []LotDTO
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND branch_id = ? AND quantity > 0 AND expiration_date > ?",
			itemID.Bytes(), branchID.Bytes(), now).
		Order("expiration_date").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return lotsToDomain(dtos)
}

// GetLotsExpiringBetween retrieves lots whose expiration date falls in [from, to).
func (r *GormStockRepository) GetLotsExpiringBetween(
	ctx context.Context,
	from, to time.Time,
) ([]*stock.Lot, error) {
	var dtos []LotDTO
	if err := r.db.WithContext(ctx).
		Where("expiration_date >= ? AND expiration_date < ? AND quantity > 0", from, to).
		Order("expiration_date").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return lotsToDomain(dtos)
}

// AddAuditEntry saves a new audit entry.
func (r *GormStockRepository) AddAuditEntry(ctx context.Context, entry *stock.AuditEntry) error {
	dto := entryFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// UpdateAuditEntry saves an existing audit entry. The trail is append-only;
// the only mutation is flagging an entry superseded by its reversal.
func (r *GormStockRepository) UpdateAuditEntry(ctx context.Context, entry *stock.AuditEntry) error {
	dto := entryFromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(&AuditEntryDTO{}).
		Where("id = ?", dto.ID).
		Select("superseded_by").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetFulfillmentEntries retrieves the non-superseded fulfillment entries
// recorded for one request.
func (r *GormStockRepository) GetFulfillmentEntries(
	ctx context.Context,
	requestID kernel.UUID,
) ([]*stock.AuditEntry, error) {
	if err := requestID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AuditEntryDTO
	if err := r.db.WithContext(ctx).
		Where("request_id = ? AND kind = ? AND superseded_by IS NULL",
			requestID.Bytes(), int(stock.AuditKindFulfillment)).
		Order("created_date").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]*stock.AuditEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := entryToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetOpenTargets retrieves the campaign targets for one item at one branch
// that still have unfulfilled quantity.
func (r *GormStockRepository) GetOpenTargets(
	ctx context.Context,
	itemID, branchID kernel.UUID,
) ([]*stock.CampaignTarget, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}
	if err := branchID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CampaignTargetDTO
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND branch_id = ? AND fulfilled_quantity < requested_quantity",
			itemID.Bytes(), branchID.Bytes()).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	targets := make([]*stock.CampaignTarget, 0, len(dtos))
	for _, dto := range dtos {
		target, err := targetToDomain(dto)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	return targets, nil
}

// UpdateTarget saves an existing campaign target's fulfillment progress.
func (r *GormStockRepository) UpdateTarget(ctx context.Context, target *stock.CampaignTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&CampaignTargetDTO{}).
		Where("id = ?", target.ID().Bytes()).
		Update("fulfilled_quantity", target.FulfilledQuantity())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetPendingExportClaims sums, per item, the quantities claimed by pending
// export requests at one branch other than those listed in excludedRequestIDs.
func (r *GormStockRepository) GetPendingExportClaims(
	ctx context.Context,
	branchID kernel.UUID,
	excludedRequestIDs []kernel.UUID,
) (map[kernel.UUID]float64, error) {
	if err := branchID.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Table("request_line_items li").
		Select("li.item_id, SUM(li.quantity) AS claimed").
		Joins("JOIN delivery_requests dr ON dr.id = li.request_id").
		Where("dr.branch_id = ? AND dr.direction = ? AND dr.status = ?",
			branchID.Bytes(), int(request.BranchToAid), int(request.StatusPending)).
		Group("li.item_id")

	if len(excludedRequestIDs) > 0 {
		excluded := make([]uuid.UUID, 0, len(excludedRequestIDs))
		for _, id := range excludedRequestIDs {
			excluded = append(excluded, id.Bytes())
		}
		query = query.Where("dr.id NOT IN ?", excluded)
	}

	rows, err := query.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := make(map[kernel.UUID]float64)
	for rows.Next() {
		var itemID uuid.UUID
		var claimed float64
		if err := rows.Scan(&itemID, &claimed); err != nil {
			return nil, err
		}

		id, err := kernel.UUIDFromBytes(itemID[:])
		if err != nil {
			return nil, err
		}
		claims[id] = claimed
	}

	return claims, rows.Err()
}

func lotsToDomain(dtos []LotDTO) ([]*stock.Lot, error) {
	lots := make([]*stock.Lot, 0, len(dtos))
	for _, dto := range dtos {
		lot, err := lotToDomain(dto)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}

	return lots, nil
}
