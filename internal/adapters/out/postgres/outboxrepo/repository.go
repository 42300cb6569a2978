package outboxrepo

import (
	"context"

	"tutam/internal/core/domain/model/notification"

	"gorm.io/gorm"
)

// GormNotificationOutboxRepository implements NotificationOutboxRepository using GORM.
type GormNotificationOutboxRepository struct {
	db *gorm.DB
}

// NewGormNotificationOutboxRepository creates a new GORM outbox repository.
func NewGormNotificationOutboxRepository(db *gorm.DB) *GormNotificationOutboxRepository {
	return &GormNotificationOutboxRepository{db: db}
}

// Add saves a new outbox notification.
func (r *GormNotificationOutboxRepository) Add(ctx context.Context, n *notification.Notification) error {
	dto := fromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves the delivery state of an existing notification.
func (r *GormNotificationOutboxRepository) Update(ctx context.Context, n *notification.Notification) error {
	dto := fromDomain(n)
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", dto.ID).
		Select("sent_date", "attempts").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetUnsent retrieves up to limit unsent notifications, oldest first.
func (r *GormNotificationOutboxRepository) GetUnsent(ctx context.Context, limit int) ([]*notification.Notification, error) {
	var dtos []NotificationDTO
	if err := r.db.WithContext(ctx).
		Where("sent_date IS NULL").
		Order("created_date").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	notifications := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}
