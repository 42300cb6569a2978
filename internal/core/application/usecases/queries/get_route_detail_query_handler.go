package queries

import (
	"context"
	"database/sql"
	"errors"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRouteDetailQueryHandler reads one route and its stops in visiting order.
type GetRouteDetailQueryHandler struct {
	db *gorm.DB
}

func NewGetRouteDetailQueryHandler(db *gorm.DB) GetRouteDetailQueryHandler {
	return GetRouteDetailQueryHandler{db: db}
}

// Handle returns the route view, or errs.ErrObjectNotFound when no route has
// the given id.
func (h GetRouteDetailQueryHandler) Handle(
	ctx context.Context,
	query GetRouteDetailQuery,
) (GetRouteDetailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRouteDetailQueryResponse{}, err
	}

	var resp GetRouteDetailQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT id, branch_id, direction, status, window_start, window_end, start_date
		FROM scheduled_routes
		WHERE id = ?
	`, query.RouteID().Bytes()).Row()

	var id, branchID uuid.UUID
	err := row.Scan(
		&id, &branchID, &resp.Direction, &resp.Status,
		&resp.WindowStart, &resp.WindowEnd, &resp.StartDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetRouteDetailQueryResponse{}, errs.NewObjectNotFoundError("routeID", query.RouteID())
	}
	if err != nil {
		return GetRouteDetailQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetRouteDetailQueryResponse{}, err
	}
	if resp.BranchID, err = kernel.UUIDFromBytes(branchID[:]); err != nil {
		return GetRouteDetailQueryResponse{}, err
	}

	stops, err := h.readStops(ctx, query.RouteID())
	if err != nil {
		return GetRouteDetailQueryResponse{}, err
	}
	resp.Stops = stops

	return resp, nil
}

func (h GetRouteDetailQueryHandler) readStops(
	ctx context.Context,
	routeID kernel.UUID,
) ([]RouteStopResponse, error) {
	stops := make([]RouteStopResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			m.request_id,
			m.stop_order,
			m.status,
			r.status,
			r.location_lat,
			r.location_lon,
			m.time_to_next_sec,
			m.distance_to_next_meter
		FROM route_members m
		JOIN delivery_requests r ON r.id = m.request_id
		WHERE m.route_id = ?
		ORDER BY m.stop_order
	`, routeID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			requestID uuid.UUID
			lat, lon  float64
			stop      RouteStopResponse
		)

		if err := rows.Scan(
			&requestID, &stop.Order, &stop.Status, &stop.RequestStatus,
			&lat, &lon, &stop.TimeToNextSec, &stop.DistanceToNextMeter,
		); err != nil {
			return nil, err
		}

		if stop.RequestID, err = kernel.UUIDFromBytes(requestID[:]); err != nil {
			return nil, err
		}
		if stop.Location, err = kernel.NewGeoLocation(lat, lon); err != nil {
			return nil, err
		}

		stops = append(stops, stop)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}
