// Package routerepo provides data transfer objects and mapping functions for
// scheduled route persistence. It implements the repository pattern for the
// scheduled route aggregate and its member join rows.
package routerepo

import (
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/route"
	"tutam/internal/core/domain/model/schedule"

	"github.com/google/uuid"
)

// ScheduledRouteDTO represents the database structure for persisting scheduled
// route aggregates. Member rows live in a child table keyed by route and
// request so a request can appear on at most one row per route.
type ScheduledRouteDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Direction int       `gorm:"type:int;not null"`
	Status    int       `gorm:"type:int;not null;index"`

	WindowStart time.Time `gorm:"not null"`
	WindowEnd   time.Time `gorm:"not null"`
	StartDate   time.Time `gorm:"not null;index"`
	CreatedDate time.Time `gorm:"not null"`

	AcceptedDate *time.Time
	FinishedDate *time.Time
	VolunteerID  *uuid.UUID `gorm:"type:uuid;index"`

	Members []RouteMemberDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for scheduled route entities.
func (ScheduledRouteDTO) TableName() string {
	return "scheduled_routes"
}

// RouteMemberDTO represents the join row between a route and one delivery
// request: its stop order plus the solver's travel figures to the next stop.
type RouteMemberDTO struct {
	RouteID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Status    int       `gorm:"type:int;not null"`

	StopOrder           int `gorm:"type:int;not null"`
	TimeToNextSec       int `gorm:"type:int;not null"`
	DistanceToNextMeter int `gorm:"type:int;not null"`
}

// TableName specifies the database table name for route member rows.
func (RouteMemberDTO) TableName() string {
	return "route_members"
}

// fromDomain converts a scheduled route aggregate to its database
// representation including all member rows.
func fromDomain(aggregate *route.ScheduledRoute) ScheduledRouteDTO {
	routeID := aggregate.ID().Bytes()

	members := make([]RouteMemberDTO, 0, len(aggregate.Members()))
	for _, m := range aggregate.Members() {
		members = append(members, RouteMemberDTO{
			RouteID:             routeID,
			RequestID:           m.RequestID().Bytes(),
			Status:              int(m.Status()),
			StopOrder:           m.Order(),
			TimeToNextSec:       m.TimeToNextSec(),
			DistanceToNextMeter: m.DistanceToNextMeter(),
		})
	}

	var volunteerID *uuid.UUID
	if id := aggregate.VolunteerID(); id != nil {
		raw := id.Bytes()
		volunteerID = &raw
	}

	return ScheduledRouteDTO{
		ID:           routeID,
		BranchID:     aggregate.BranchID().Bytes(),
		Direction:    int(aggregate.Direction()),
		Status:       int(aggregate.Status()),
		WindowStart:  aggregate.Window().Start,
		WindowEnd:    aggregate.Window().End,
		StartDate:    aggregate.StartDate(),
		CreatedDate:  aggregate.CreatedDate(),
		AcceptedDate: aggregate.AcceptedDate(),
		FinishedDate: aggregate.FinishedDate(),
		VolunteerID:  volunteerID,
		Members:      members,
	}
}

// toDomain converts a database DTO to a scheduled route aggregate using
// RestoreScheduledRoute.
func toDomain(dto ScheduledRouteDTO) (*route.ScheduledRoute, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}

	var volunteerID *kernel.UUID
	if dto.VolunteerID != nil {
		vID, volunteerErr := kernel.UUIDFromBytes((*dto.VolunteerID)[:])
		if volunteerErr != nil {
			return nil, volunteerErr
		}
		volunteerID = &vID
	}

	members := make([]*route.Member, 0, len(dto.Members))
	for _, m := range dto.Members {
		member, memberErr := memberToDomain(m)
		if memberErr != nil {
			return nil, memberErr
		}
		members = append(members, member)
	}

	return route.RestoreScheduledRoute(
		id,
		branchID,
		request.Direction(dto.Direction),
		route.Status(dto.Status),
		schedule.Interval{Start: dto.WindowStart, End: dto.WindowEnd},
		dto.CreatedDate,
		dto.StartDate,
		dto.AcceptedDate,
		dto.FinishedDate,
		volunteerID,
		members,
	)
}

// memberToDomain converts a member row to its domain entity.
func memberToDomain(dto RouteMemberDTO) (*route.Member, error) {
	requestID, err := kernel.UUIDFromBytes(dto.RequestID[:])
	if err != nil {
		return nil, err
	}

	return route.RestoreMember(
		requestID,
		route.MemberStatus(dto.Status),
		dto.StopOrder,
		dto.TimeToNextSec,
		dto.DistanceToNextMeter,
	)
}
