package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationEventInvitation NotificationType = "EVENT_INVITATION"
	NotificationClubInvitation  NotificationType = "CLUB_INVITATION"
	NotificationEventReminder   NotificationType = "EVENT_REMINDER"
	NotificationClubRequest     NotificationType = "CLUB_REQUEST"
	NotificationSystemAlert     NotificationType = "SYSTEM_ALERT"
	NotificationFriendRequest   NotificationType = "FRIEND_REQUEST"
	NotificationMessage         NotificationType = "MESSAGE"
)

// Priority orders notifications for display.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Notification is a record created on workflow events. It is append-only
// from the workflow's perspective; only the recipient flips the read flag
// and the retention sweep deletes old ones.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	SenderID    uuid.UUID        `json:"sender_id,omitempty"`
	Type        NotificationType `json:"type"`
	Content     string           `json:"content"`
	RelatedID   uuid.UUID        `json:"related_id,omitempty"`
	IsRead      bool             `json:"is_read"`
	Priority    Priority         `json:"priority"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NotificationInput is what workflow events hand to the dispatcher.
type NotificationInput struct {
	RecipientID uuid.UUID
	SenderID    uuid.UUID
	Type        NotificationType
	Content     string
	RelatedID   uuid.UUID
	Priority    Priority
}
