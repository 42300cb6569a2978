package queries

import (
	"context"

	"tutam/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStockAvailabilityQueryHandler reads the unexpired, non-empty lots of one
// item at one branch, soonest expiration first.
type GetStockAvailabilityQueryHandler struct {
	db *gorm.DB
}

func NewGetStockAvailabilityQueryHandler(db *gorm.DB) GetStockAvailabilityQueryHandler {
	return GetStockAvailabilityQueryHandler{db: db}
}

func (h GetStockAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query GetStockAvailabilityQuery,
) (GetStockAvailabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStockAvailabilityQueryResponse{}, err
	}

	resp := GetStockAvailabilityQueryResponse{
		Lots: make([]StockLotResponse, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, campaign_id, expiration_date, quantity
		FROM stock_lots
		WHERE item_id = ? AND branch_id = ? AND quantity > 0 AND expiration_date > NOW()
		ORDER BY expiration_date
	`, query.ItemID().Bytes(), query.BranchID().Bytes()).Rows()
	if err != nil {
		return GetStockAvailabilityQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         uuid.UUID
			campaignID *uuid.UUID
			lot        StockLotResponse
		)

		if err := rows.Scan(&id, &campaignID, &lot.ExpirationDate, &lot.Quantity); err != nil {
			return GetStockAvailabilityQueryResponse{}, err
		}

		if lot.LotID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return GetStockAvailabilityQueryResponse{}, err
		}
		if campaignID != nil {
			cid, err := kernel.UUIDFromBytes(campaignID[:])
			if err != nil {
				return GetStockAvailabilityQueryResponse{}, err
			}
			lot.CampaignID = &cid
		}

		resp.TotalQuantity += lot.Quantity
		resp.Lots = append(resp.Lots, lot)
	}

	if err := rows.Err(); err != nil {
		return GetStockAvailabilityQueryResponse{}, err
	}

	return resp, nil
}
