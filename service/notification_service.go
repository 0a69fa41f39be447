package service

import (
	"fmt"
	"log"
	"time"

	"bubble_server/model"
	"bubble_server/store"

	"github.com/google/uuid"
)

// Pusher is the external push-delivery boundary (FCM behind the API layer).
type Pusher interface {
	Push(userID uuid.UUID, title, body string, data map[string]string) error
}

// NotificationService persists notification records and hands delivery to
// the pusher. Delivery is best-effort: a push failure never fails the
// operation that triggered it.
type NotificationService struct {
	notifs store.NotificationStore
	pusher Pusher
}

func NewNotificationService(notifs store.NotificationStore) *NotificationService {
	return &NotificationService{notifs: notifs}
}

// SetPusher wires the optional delivery boundary.
func (s *NotificationService) SetPusher(pusher Pusher) {
	s.pusher = pusher
}

// Notify stores the notification and pushes it. Errors are logged, not
// returned.
func (s *NotificationService) Notify(userID uuid.UUID, typ model.NotificationType, title, body string, data map[string]string) {
	notif := &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.notifs.CreateNotification(notif); err != nil {
		log.Printf("[WARN] failed to store notification for %s: %v", userID, err)
	}
	if s.pusher != nil {
		if err := s.pusher.Push(userID, title, body, data); err != nil {
			log.Printf("[WARN] failed to push notification to %s: %v", userID, err)
		}
	}
}

func (s *NotificationService) GetNotifications(userID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	notifs, err := s.notifs.ListNotifications(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifs, nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	if err := s.notifs.MarkAllNotificationsRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
