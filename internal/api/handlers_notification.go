package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

type notificationResponse struct {
	NotificationID   uuid.UUID `json:"notification_id"`
	Message          string    `json:"message"`
	NotificationType string    `json:"notification_type"`
	SentDate         time.Time `json:"sent_date"`
	IsRead           bool      `json:"is_read"`
}

func (h *Handlers) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	notifications, err := h.service.ListNotifications(r.Context(), principal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := make([]notificationResponse, 0, len(notifications))
	for _, item := range notifications {
		response = append(response, notificationResponse{
			NotificationID:   item.ID,
			Message:          item.Message,
			NotificationType: item.Type,
			SentDate:         item.SentAt,
			IsRead:           item.IsRead,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrAbort(w, r)
	if !ok {
		return
	}
	notificationID, ok := uuidParam(w, r, "notificationID", "Notification")
	if !ok {
		return
	}
	if err := h.service.MarkNotificationRead(r.Context(), principal, notificationID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Notification marked as read"})
}
