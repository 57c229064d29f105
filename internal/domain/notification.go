package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecipientKind distinguishes customer and admin inboxes, whose ids live in different tables.
type RecipientKind string

const (
	RecipientCustomer RecipientKind = "customer"
	RecipientAdmin    RecipientKind = "admin"
)

// Notification type tags.
const (
	NotificationOrderConfirmation = "Order Confirmation"
	NotificationReturnSubmitted   = "Return Request Submitted"
	NotificationNewReturnRequest  = "New Return Request"
	NotificationReturnApproved    = "Return Request Approved"
	NotificationReturnRejected    = "Return Request Rejected"
	NotificationWalletTopUp       = "Wallet Top-Up"
)

// NotificationListLimit caps how many notifications a listing returns.
const NotificationListLimit = 50

// Notification maps to the `notifications` table. The read flag is the only mutable field.
type Notification struct {
	ID            uuid.UUID     `json:"notification_id"`
	RecipientID   uuid.UUID     `json:"recipient_id"`
	RecipientKind RecipientKind `json:"recipient_kind"`
	Message       string        `json:"message"`
	Type          string        `json:"notification_type"`
	SentAt        time.Time     `json:"sent_date"`
	IsRead        bool          `json:"is_read"`
}
