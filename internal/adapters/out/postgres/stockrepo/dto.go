// Package stockrepo provides data transfer objects and mapping functions for
// stock persistence: lots, the append-only audit trail and campaign targets.
// They share one repository because the reconciler always mutates them in the
// same transaction.
package stockrepo

import (
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/stock"

	"github.com/google/uuid"
)

// LotDTO represents the database structure for persisting stock lots.
type LotDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ItemID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_stock_lots_item_branch"`
	BranchID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_stock_lots_item_branch"`
	ContributorID uuid.UUID  `gorm:"type:uuid;not null"`
	CampaignID    *uuid.UUID `gorm:"type:uuid;index"`

	ExpirationDate time.Time `gorm:"not null;index"`
	Quantity       float64   `gorm:"not null"`
}

// TableName specifies the database table name for lot entities.
func (LotDTO) TableName() string {
	return "stock_lots"
}

// AuditEntryDTO represents one append-only stock movement record.
type AuditEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LotID     uuid.UUID `gorm:"type:uuid;not null;index"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      int       `gorm:"type:int;not null"`

	Quantity float64 `gorm:"not null"`
	Note     string  `gorm:"type:text"`

	SupersededBy *uuid.UUID `gorm:"type:uuid"`
	Compensates  *uuid.UUID `gorm:"type:uuid"`
	CreatedDate  time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for audit entries.
func (AuditEntryDTO) TableName() string {
	return "stock_audit_entries"
}

// CampaignTargetDTO represents a campaign's requested quantity of one item at
// one branch and how much of it has been fulfilled so far.
type CampaignTargetDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CampaignID uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID   uuid.UUID `gorm:"type:uuid;not null;index"`

	RequestedQuantity float64 `gorm:"not null"`
	FulfilledQuantity float64 `gorm:"not null"`
}

// TableName specifies the database table name for campaign targets.
func (CampaignTargetDTO) TableName() string {
	return "campaign_targets"
}

func lotFromDomain(lot *stock.Lot) LotDTO {
	var campaignID *uuid.UUID
	if id := lot.CampaignID(); id != nil {
		raw := id.Bytes()
		campaignID = &raw
	}

	return LotDTO{
		ID:             lot.ID().Bytes(),
		ItemID:         lot.ItemID().Bytes(),
		BranchID:       lot.BranchID().Bytes(),
		ContributorID:  lot.ContributorID().Bytes(),
		CampaignID:     campaignID,
		ExpirationDate: lot.ExpirationDate(),
		Quantity:       lot.Quantity(),
	}
}

func lotToDomain(dto LotDTO) (*stock.Lot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}

	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}

	contributorID, err := kernel.UUIDFromBytes(dto.ContributorID[:])
	if err != nil {
		return nil, err
	}

	var campaignID *kernel.UUID
	if dto.CampaignID != nil {
		cID, campaignErr := kernel.UUIDFromBytes((*dto.CampaignID)[:])
		if campaignErr != nil {
			return nil, campaignErr
		}
		campaignID = &cID
	}

	return stock.RestoreLot(id, stock.LotKey{
		ItemID:        itemID,
		BranchID:      branchID,
		ContributorID: contributorID,
		CampaignID:    campaignID,
		Expiration:    dto.ExpirationDate,
	}, dto.Quantity)
}

func entryFromDomain(entry *stock.AuditEntry) AuditEntryDTO {
	var supersededBy *uuid.UUID
	if id := entry.SupersededBy(); id != nil {
		raw := id.Bytes()
		supersededBy = &raw
	}

	var compensates *uuid.UUID
	if id := entry.Compensates(); id != nil {
		raw := id.Bytes()
		compensates = &raw
	}

	return AuditEntryDTO{
		ID:           entry.ID().Bytes(),
		LotID:        entry.LotID().Bytes(),
		RequestID:    entry.RequestID().Bytes(),
		Kind:         int(entry.Kind()),
		Quantity:     entry.Quantity(),
		Note:         entry.Note(),
		SupersededBy: supersededBy,
		Compensates:  compensates,
		CreatedDate:  entry.CreatedDate(),
	}
}

func entryToDomain(dto AuditEntryDTO) (*stock.AuditEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	lotID, err := kernel.UUIDFromBytes(dto.LotID[:])
	if err != nil {
		return nil, err
	}

	requestID, err := kernel.UUIDFromBytes(dto.RequestID[:])
	if err != nil {
		return nil, err
	}

	supersededBy, err := optionalDomainUUID(dto.SupersededBy)
	if err != nil {
		return nil, err
	}

	compensates, err := optionalDomainUUID(dto.Compensates)
	if err != nil {
		return nil, err
	}

	return stock.RestoreAuditEntry(
		id,
		lotID,
		requestID,
		stock.AuditKind(dto.Kind),
		dto.Quantity,
		dto.Note,
		supersededBy,
		compensates,
		dto.CreatedDate,
	)
}

func targetToDomain(dto CampaignTargetDTO) (*stock.CampaignTarget, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	campaignID, err := kernel.UUIDFromBytes(dto.CampaignID[:])
	if err != nil {
		return nil, err
	}

	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}

	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}

	return stock.NewCampaignTarget(
		id, campaignID, itemID, branchID,
		dto.RequestedQuantity, dto.FulfilledQuantity,
	)
}

func optionalDomainUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}

	domainID, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &domainID, nil
}
