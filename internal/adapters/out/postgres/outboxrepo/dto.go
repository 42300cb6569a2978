// Package outboxrepo provides the transactional outbox for notifications.
// Rows are written inside the same transaction as the state change that
// caused them; a background job drains unsent rows.
package outboxrepo

import (
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// NotificationDTO represents the database structure for outbox notifications.
type NotificationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index"`

	Title    string `gorm:"type:varchar(255);not null"`
	Body     string `gorm:"type:text"`
	DataType string `gorm:"type:varchar(64)"`
	DataID   uuid.UUID

	CreatedDate time.Time  `gorm:"not null;index"`
	SentDate    *time.Time `gorm:"index"`
	Attempts    int        `gorm:"type:int;not null;default:0"`
}

// TableName specifies the database table name for notification rows.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// fromDomain converts a notification to its database representation.
func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID().Bytes(),
		ReceiverID:  n.ReceiverID().Bytes(),
		Title:       n.Title(),
		Body:        n.Body(),
		DataType:    n.DataType(),
		DataID:      n.DataID().Bytes(),
		CreatedDate: n.CreatedDate(),
		SentDate:    n.SentDate(),
		Attempts:    n.Attempts(),
	}
}

// toDomain converts a database DTO to a notification using RestoreNotification.
func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	receiverID, err := kernel.UUIDFromBytes(dto.ReceiverID[:])
	if err != nil {
		return nil, err
	}

	dataID, err := kernel.UUIDFromBytes(dto.DataID[:])
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(
		id,
		receiverID,
		dto.Title,
		dto.Body,
		dto.DataType,
		dataID,
		dto.CreatedDate,
		dto.SentDate,
		dto.Attempts,
	)
}
