package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationFriendRequest  NotificationType = "friend_request"
	NotificationFriendAccepted NotificationType = "friend_accepted"
	NotificationNewMessage     NotificationType = "new_message"
)

// Notification is the stored copy of a push sent to a user; delivery itself
// goes through the external pusher boundary.
type Notification struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Type      NotificationType  `json:"type" gorm:"type:varchar(30);not null"`
	Title     string            `json:"title" gorm:"type:varchar(100);not null"`
	Body      string            `json:"body" gorm:"type:varchar(500);not null"`
	Data      map[string]string `json:"data,omitempty" gorm:"serializer:json"`
	IsRead    bool              `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
