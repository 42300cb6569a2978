package queries

import (
	"context"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetVolunteerRoutesQueryHandler reads the Accepted and Processing routes
// held by one volunteer, with the number of live stops on each.
type GetVolunteerRoutesQueryHandler struct {
	db *gorm.DB
}

func NewGetVolunteerRoutesQueryHandler(db *gorm.DB) GetVolunteerRoutesQueryHandler {
	return GetVolunteerRoutesQueryHandler{db: db}
}

// Handle returns the volunteer's active routes ordered by start date.
func (h GetVolunteerRoutesQueryHandler) Handle(
	ctx context.Context,
	query GetVolunteerRoutesQuery,
) ([]GetVolunteerRoutesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	responses := make([]GetVolunteerRoutesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.status,
			r.window_start,
			r.window_end,
			r.start_date,
			COUNT(m.request_id) FILTER (WHERE m.status = ?) AS stop_count
		FROM scheduled_routes r
		LEFT JOIN route_members m ON m.route_id = r.id
		WHERE r.volunteer_id = ? AND r.status IN (?, ?)
		GROUP BY r.id, r.status, r.window_start, r.window_end, r.start_date
		ORDER BY r.start_date
	`, route.MemberStatusScheduled, query.VolunteerID().Bytes(),
		route.StatusAccepted, route.StatusProcessing).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   uuid.UUID
			resp GetVolunteerRoutesQueryResponse
		)

		if err := rows.Scan(
			&id, &resp.Status, &resp.WindowStart, &resp.WindowEnd,
			&resp.StartDate, &resp.StopCount,
		); err != nil {
			return nil, err
		}

		routeID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		resp.ID = routeID

		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
