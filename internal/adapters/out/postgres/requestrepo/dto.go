// Package requestrepo provides data transfer objects and mapping functions for
// delivery request persistence. It implements the repository pattern for the
// delivery request aggregate, handling the conversion between domain entities
// and their relational representation.
package requestrepo

import (
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/schedule"

	"github.com/google/uuid"
)

// DeliveryRequestDTO represents the database structure for persisting delivery
// request aggregates. Candidate windows and line items live in child tables;
// the current scheduled time is embedded as nullable columns because it exists
// only while the request sits on a live route.
type DeliveryRequestDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BranchID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Direction    int        `gorm:"type:int;not null"`
	DonationID   *uuid.UUID `gorm:"type:uuid;index"`
	AidRequestID *uuid.UUID `gorm:"type:uuid;index"`
	LocationLat  float64
	LocationLon  float64
	Status       int `gorm:"type:int;not null;index"`

	ScheduledDay      *time.Time
	ScheduledStartSec *int64
	ScheduledEndSec   *int64

	ProofImageURL string    `gorm:"type:text"`
	CancelReason  string    `gorm:"type:text"`
	CreatedDate   time.Time `gorm:"autoCreateTime"`

	Windows   []RequestWindowDTO   `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	LineItems []RequestLineItemDTO `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for delivery request entities.
func (DeliveryRequestDTO) TableName() string {
	return "delivery_requests"
}

// RequestWindowDTO represents one candidate time window of a delivery request.
// Windows are immutable value rows, identified by their full content.
type RequestWindowDTO struct {
	RequestID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Day       time.Time `gorm:"primaryKey"`
	StartSec  int64     `gorm:"primaryKey"`
	EndSec    int64     `gorm:"not null"`
}

// TableName specifies the database table name for window rows.
func (RequestWindowDTO) TableName() string {
	return "request_windows"
}

// RequestLineItemDTO represents one line item of a delivery request.
type RequestLineItemDTO struct {
	RequestID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity             float64   `gorm:"not null"`
	MaxTransportQuantity float64   `gorm:"not null"`
}

// TableName specifies the database table name for line item rows.
func (RequestLineItemDTO) TableName() string {
	return "request_line_items"
}

// fromDomain converts a delivery request aggregate to its database
// representation, including its candidate window and line item child rows.
func fromDomain(aggregate *request.DeliveryRequest) DeliveryRequestDTO {
	requestID := aggregate.ID().Bytes()

	windows := make([]RequestWindowDTO, 0, len(aggregate.CandidateWindows()))
	for _, w := range aggregate.CandidateWindows() {
		windows = append(windows, RequestWindowDTO{
			RequestID: requestID,
			Day:       w.Day(),
			StartSec:  int64(w.StartOffset().Seconds()),
			EndSec:    int64(w.EndOffset().Seconds()),
		})
	}

	lineItems := make([]RequestLineItemDTO, 0, len(aggregate.LineItems()))
	for _, li := range aggregate.LineItems() {
		lineItems = append(lineItems, RequestLineItemDTO{
			RequestID:            requestID,
			ItemID:               li.ItemID().Bytes(),
			Quantity:             li.Quantity(),
			MaxTransportQuantity: li.MaxTransportQuantity(),
		})
	}

	dto := DeliveryRequestDTO{
		ID:            requestID,
		BranchID:      aggregate.BranchID().Bytes(),
		Direction:     int(aggregate.Direction()),
		DonationID:    optionalUUID(aggregate.DonationID()),
		AidRequestID:  optionalUUID(aggregate.AidRequestID()),
		LocationLat:   aggregate.Location().Latitude(),
		LocationLon:   aggregate.Location().Longitude(),
		Status:        int(aggregate.Status()),
		ProofImageURL: aggregate.ProofImageURL(),
		CancelReason:  aggregate.CancelReason(),
		Windows:       windows,
		LineItems:     lineItems,
	}

	if st := aggregate.CurrentScheduledTime(); st != nil {
		day := st.Day()
		startSec := int64(st.StartOffset().Seconds())
		endSec := int64(st.EndOffset().Seconds())
		dto.ScheduledDay = &day
		dto.ScheduledStartSec = &startSec
		dto.ScheduledEndSec = &endSec
	}

	return dto
}

// toDomain converts a database DTO to a delivery request aggregate,
// reconstructing child rows using RestoreDeliveryRequest.
func toDomain(dto DeliveryRequestDTO) (*request.DeliveryRequest, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}

	donationID, err := optionalDomainUUID(dto.DonationID)
	if err != nil {
		return nil, err
	}

	aidRequestID, err := optionalDomainUUID(dto.AidRequestID)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoLocation(dto.LocationLat, dto.LocationLon)
	if err != nil {
		return nil, err
	}

	windows := make([]schedule.ScheduledTime, 0, len(dto.Windows))
	for _, w := range dto.Windows {
		window, windowErr := schedule.NewScheduledTime(
			w.Day,
			time.Duration(w.StartSec)*time.Second,
			time.Duration(w.EndSec)*time.Second,
		)
		if windowErr != nil {
			return nil, windowErr
		}
		windows = append(windows, window)
	}

	var currentScheduledTime *schedule.ScheduledTime
	if dto.ScheduledDay != nil && dto.ScheduledStartSec != nil && dto.ScheduledEndSec != nil {
		window, windowErr := schedule.NewScheduledTime(
			*dto.ScheduledDay,
			time.Duration(*dto.ScheduledStartSec)*time.Second,
			time.Duration(*dto.ScheduledEndSec)*time.Second,
		)
		if windowErr != nil {
			return nil, windowErr
		}
		currentScheduledTime = &window
	}

	lineItems := make([]request.LineItem, 0, len(dto.LineItems))
	for _, li := range dto.LineItems {
		itemID, itemErr := kernel.UUIDFromBytes(li.ItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		lineItem, itemErr := request.NewLineItem(itemID, li.Quantity, li.MaxTransportQuantity)
		if itemErr != nil {
			return nil, itemErr
		}
		lineItems = append(lineItems, lineItem)
	}

	return request.RestoreDeliveryRequest(
		id,
		branchID,
		request.Direction(dto.Direction),
		donationID,
		aidRequestID,
		location,
		windows,
		currentScheduledTime,
		request.Status(dto.Status),
		lineItems,
		dto.ProofImageURL,
		dto.CancelReason,
	)
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
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
