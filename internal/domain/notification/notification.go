package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Type classifies a notification for client rendering
type Type string

const (
	TypeSuccess Type = "success"
	TypeAlert   Type = "alert"
	TypeInfo    Type = "info"
)

// IsValid checks whether the type is one of the known kinds
func (t Type) IsValid() bool {
	return t == TypeSuccess || t == TypeAlert || t == TypeInfo
}

// Notification is a persisted message for one user. Rows are the
// durable source of truth; realtime push is best-effort on top.
type Notification struct {
	shared.BaseEntity
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	Type        Type      `gorm:"size:20;not null" json:"type"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	TargetRoute string    `gorm:"size:200" json:"target_route"`
	Read        bool      `gorm:"not null;default:false;index:idx_notifications_user_read" json:"read"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a new unread notification
func NewNotification(userID uuid.UUID, notifType Type, title, message, targetRoute string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID is required")
	}
	if !notifType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown notification type")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Title is required")
	}

	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Type:        notifType,
		Title:       title,
		Message:     strings.TrimSpace(message),
		TargetRoute: strings.TrimSpace(targetRoute),
	}, nil
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	n.Read = true
	n.UpdatedAt = time.Now()
}

// Repository defines the interface for notification persistence
type Repository interface {
	// Create stores a new notification
	Create(ctx context.Context, notif *Notification) error

	// CreateBatch stores multiple notifications at once
	CreateBatch(ctx context.Context, notifs []*Notification) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByUser returns a user's notifications, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Notification, int64, error)

	// Save persists read-state changes
	Save(ctx context.Context, notif *Notification) error

	// CountUnread returns the number of unread notifications for a user
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
