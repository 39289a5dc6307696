package models

import "time"

// NotificationType categorizes notifications for client rendering.
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationRequestUpdated   NotificationType = "request_updated"
	NotificationMessageReceived  NotificationType = "message_received"
	NotificationNewRequest       NotificationType = "new_request"
	NotificationGeneral          NotificationType = "general"
)

// Notification is a persisted in-app notification. Dispatch is always
// best-effort; a failed insert never fails the operation that triggered it.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index:idx_notifications_user" json:"user_id"`
	Title     string           `gorm:"type:text;not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"type:text;not null" json:"type"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	RelatedID *uint            `json:"related_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
