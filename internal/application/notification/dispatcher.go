package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/supplyoffice/backend/internal/domain/identity"
	"github.com/supplyoffice/backend/internal/domain/notification"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// PushSender delivers realtime events to connected clients. The
// dispatcher persists first and treats push as best-effort.
type PushSender interface {
	PushToUser(ctx context.Context, userID uuid.UUID, eventType string, payload any) error
	Broadcast(ctx context.Context, eventType string, payload any) error
}

// Dispatcher creates notifications and fans them out. Persistence is
// the source of truth; a failed push only costs immediacy because the
// client sees the row on its next fetch.
type Dispatcher struct {
	notifRepo notification.Repository
	userRepo  identity.UserRepository
	push      PushSender
	logger    *zap.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(notifRepo notification.Repository, userRepo identity.UserRepository, push PushSender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		push:      push,
		logger:    logger,
	}
}

// Notify persists a notification for one user and pushes it
func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, notifType notification.Type, title, message, targetRoute string) error {
	notif, err := notification.NewNotification(userID, notifType, title, message, targetRoute)
	if err != nil {
		return err
	}
	if err := d.notifRepo.Create(ctx, notif); err != nil {
		return err
	}

	d.pushNotification(ctx, notif)
	return nil
}

// NotifyAdmins persists one notification per admin and pushes each
func (d *Dispatcher) NotifyAdmins(ctx context.Context, notifType notification.Type, title, message, targetRoute string) error {
	admins, err := d.userRepo.FindByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		return nil
	}

	notifs := make([]*notification.Notification, 0, len(admins))
	for _, admin := range admins {
		notif, err := notification.NewNotification(admin.ID, notifType, title, message, targetRoute)
		if err != nil {
			return err
		}
		notifs = append(notifs, notif)
	}

	if err := d.notifRepo.CreateBatch(ctx, notifs); err != nil {
		return err
	}

	for _, notif := range notifs {
		d.pushNotification(ctx, notif)
	}
	return nil
}

// List returns a user's notifications, newest first
func (d *Dispatcher) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*notification.Notification, int64, error) {
	return d.notifRepo.FindByUser(ctx, userID, filter)
}

// UnreadCount returns the number of unread notifications for a user
func (d *Dispatcher) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return d.notifRepo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications as read. Reading
// someone else's notification is forbidden, not a 404.
func (d *Dispatcher) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notif, err := d.notifRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notif.UserID != userID {
		return shared.ErrForbidden
	}
	if notif.Read {
		return nil
	}

	notif.MarkRead()
	return d.notifRepo.Save(ctx, notif)
}

func (d *Dispatcher) pushNotification(ctx context.Context, notif *notification.Notification) {
	if d.push == nil {
		return
	}
	if err := d.push.PushToUser(ctx, notif.UserID, "notification.created", notif); err != nil {
		d.logger.Warn("failed to push notification",
			zap.String("notification_id", notif.ID.String()),
			zap.String("user_id", notif.UserID.String()),
			zap.Error(err))
	}
}
