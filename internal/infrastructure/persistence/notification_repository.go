package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/notification"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create stores a new notification
func (r *GormNotificationRepository) Create(ctx context.Context, notif *notification.Notification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

// CreateBatch stores multiple notifications at once
func (r *GormNotificationRepository) CreateBatch(ctx context.Context, notifs []*notification.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(notifs).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var notif notification.Notification
	if err := r.db.WithContext(ctx).First(&notif, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notif, nil
}

// FindByUser returns a user's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("user_id = ?", userID)

	if unread, ok := filter.Filters["unread"]; ok && unread == true {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var notifs []*notification.Notification
	if err := query.Find(&notifs).Error; err != nil {
		return nil, 0, err
	}
	return notifs, total, nil
}

// Save persists read-state changes
func (r *GormNotificationRepository) Save(ctx context.Context, notif *notification.Notification) error {
	return r.db.WithContext(ctx).Save(notif).Error
}

// CountUnread returns the number of unread notifications for a user
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
