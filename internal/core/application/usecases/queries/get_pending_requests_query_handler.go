package queries

import (
	"context"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingRequestsQueryHandler reads the pending backlog with each
// request's aggregate volume, computed in SQL from its line items.
type GetPendingRequestsQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingRequestsQueryHandler creates a handler for backlog queries.
func NewGetPendingRequestsQueryHandler(db *gorm.DB) GetPendingRequestsQueryHandler {
	return GetPendingRequestsQueryHandler{db: db}
}

// Handle returns the Pending requests of the branch in the given direction,
// oldest first.
func (h GetPendingRequestsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingRequestsQuery,
) ([]GetPendingRequestsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	responses := make([]GetPendingRequestsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.location_lat,
			r.location_lon,
			COALESCE(SUM(li.quantity / li.max_transport_quantity * 100), 0) AS volume_percent
		FROM delivery_requests r
		LEFT JOIN request_line_items li ON li.request_id = r.id
		WHERE r.branch_id = ? AND r.direction = ? AND r.status = ?
		GROUP BY r.id, r.location_lat, r.location_lon, r.created_date
		ORDER BY r.created_date
	`, query.BranchID().Bytes(), query.Direction(), request.StatusPending).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       uuid.UUID
			lat, lon float64
			volume   float64
		)

		if err := rows.Scan(&id, &lat, &lon, &volume); err != nil {
			return nil, err
		}

		requestID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		location, err := kernel.NewGeoLocation(lat, lon)
		if err != nil {
			return nil, err
		}

		responses = append(responses, GetPendingRequestsQueryResponse{
			ID:            requestID,
			Location:      location,
			VolumePercent: volume,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
