package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/transfa/returns-service/internal/domain"
	"github.com/transfa/returns-service/internal/store"
)

// notificationSink records notifications inside the caller's transaction, so a rolled back
// operation never leaves a message behind.
type notificationSink struct {
	tx  store.Tx
	now time.Time
}

func newNotificationSink(tx store.Tx, now time.Time) notificationSink {
	return notificationSink{tx: tx, now: now}
}

// Notify appends one unread notification for a recipient.
func (n notificationSink) Notify(ctx context.Context, recipientID uuid.UUID, kind domain.RecipientKind, message string, notificationType string) error {
	notification := &domain.Notification{
		ID:            uuid.New(),
		RecipientID:   recipientID,
		RecipientKind: kind,
		Message:       message,
		Type:          notificationType,
		SentAt:        n.now,
		IsRead:        false,
	}
	if err := n.tx.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to create %s notification: %w", kind, err)
	}
	return nil
}

// NotifyAllAdmins fans one message out to every admin account.
func (n notificationSink) NotifyAllAdmins(ctx context.Context, message string, notificationType string) error {
	adminIDs, err := n.tx.ListAdminIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}
	for _, adminID := range adminIDs {
		if err := n.Notify(ctx, adminID, domain.RecipientAdmin, message, notificationType); err != nil {
			return err
		}
	}
	return nil
}

// ListNotifications returns the caller's latest notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, principal domain.Principal) ([]domain.Notification, error) {
	return s.repo.ListNotifications(ctx, principal.SubjectID, principal.RecipientKind(), domain.NotificationListLimit)
}

// MarkNotificationRead flags one of the caller's notifications as read.
func (s *Service) MarkNotificationRead(ctx context.Context, principal domain.Principal, notificationID uuid.UUID) error {
	updated, err := s.repo.MarkNotificationRead(ctx, principal.SubjectID, principal.RecipientKind(), notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !updated {
		return store.ErrNotificationNotFound
	}
	return nil
}
