package store

import (
	"errors"
	"fmt"
	"time"

	"bubble_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres implements Store on a gorm connection.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

// AutoMigrate creates or updates the schema for every model.
func (s *Postgres) AutoMigrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.LocationSnapshot{},
		&model.LocationHistoryEntry{},
		&model.Friendship{},
		&model.FriendRequest{},
		&model.Message{},
		&model.Conversation{},
		&model.AddressChangeRequest{},
		&model.Notification{},
	)
}

// --- users ---

func (s *Postgres) GetUser(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *Postgres) SaveUser(u *model.User) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(u).Error
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// --- locations ---

func (s *Postgres) GetLocationSnapshot(userID uuid.UUID) (*model.LocationSnapshot, error) {
	var snap model.LocationSnapshot
	err := s.db.First(&snap, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query location snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Postgres) SaveLocationSnapshot(snap *model.LocationSnapshot) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(snap).Error
	if err != nil {
		return fmt.Errorf("failed to save location snapshot: %w", err)
	}
	return nil
}

func (s *Postgres) AppendLocationHistory(e *model.LocationHistoryEntry) error {
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(e).Error
	if err != nil {
		return fmt.Errorf("failed to append location history: %w", err)
	}
	return nil
}

func (s *Postgres) ListLocationHistory(userID uuid.UUID, since time.Time) ([]model.LocationHistoryEntry, error) {
	var entries []model.LocationHistoryEntry
	err := s.db.Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query location history: %w", err)
	}
	return entries, nil
}

func (s *Postgres) PruneLocationHistory(userID uuid.UUID, cutoff time.Time) error {
	err := s.db.Where("user_id = ? AND timestamp < ?", userID, cutoff).
		Delete(&model.LocationHistoryEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to prune location history: %w", err)
	}
	return nil
}

// --- friendships ---

func (s *Postgres) GetFriendship(userID, friendID uuid.UUID) (*model.Friendship, error) {
	var edge model.Friendship
	err := s.db.First(&edge, "user_id = ? AND friend_id = ?", userID, friendID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query friendship: %w", err)
	}
	return &edge, nil
}

func (s *Postgres) SaveFriendship(f *model.Friendship) error {
	if err := s.db.Save(f).Error; err != nil {
		return fmt.Errorf("failed to save friendship: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteFriendship(userID, friendID uuid.UUID) (bool, error) {
	result := s.db.Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&model.Friendship{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete friendship: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *Postgres) ListFriendships(userID uuid.UUID, status model.FriendshipStatus) ([]model.Friendship, error) {
	var edges []model.Friendship
	err := s.db.Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	return edges, nil
}

// --- friend requests ---

func (s *Postgres) GetFriendRequest(id uuid.UUID) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := s.db.First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query friend request: %w", err)
	}
	return &req, nil
}

func (s *Postgres) CreateFriendRequest(r *model.FriendRequest) error {
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

func (s *Postgres) FindPendingFriendRequest(fromID, toID uuid.UUID) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := s.db.First(&req,
		"from_user_id = ? AND to_user_id = ? AND status = ?",
		fromID, toID, model.RequestPending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pending friend request: %w", err)
	}
	return &req, nil
}

func (s *Postgres) ListReceivedFriendRequests(userID uuid.UUID) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := s.db.Where("to_user_id = ? AND status = ?", userID, model.RequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query received friend requests: %w", err)
	}
	return reqs, nil
}

func (s *Postgres) ListSentFriendRequests(userID uuid.UUID) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := s.db.Where("from_user_id = ? AND status = ?", userID, model.RequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sent friend requests: %w", err)
	}
	return reqs, nil
}

func (s *Postgres) UpdateFriendRequest(r *model.FriendRequest) error {
	if err := s.db.Save(r).Error; err != nil {
		return fmt.Errorf("failed to update friend request: %w", err)
	}
	return nil
}

func (s *Postgres) AcceptFriendRequest(r *model.FriendRequest, edgeA, edgeB *model.Friendship) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(r).Error; err != nil {
			return fmt.Errorf("failed to update friend request: %w", err)
		}
		if err := tx.Create(edgeA).Error; err != nil {
			return fmt.Errorf("failed to create friendship edge: %w", err)
		}
		if err := tx.Create(edgeB).Error; err != nil {
			return fmt.Errorf("failed to create friendship edge: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}
	return nil
}

// --- messages ---

func (s *Postgres) GetMessage(id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	err := s.db.First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query message: %w", err)
	}
	return &msg, nil
}

func (s *Postgres) CreateMessage(m *model.Message) error {
	if err := s.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateMessage(m *model.Message) error {
	if err := s.db.Save(m).Error; err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteMessage(id uuid.UUID) error {
	if err := s.db.Delete(&model.Message{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (s *Postgres) ListMessages(conversationID string, limit int, before *model.Message) ([]model.Message, error) {
	query := s.db.Where("conversation_id = ?", conversationID)
	if before != nil {
		query = query.Where("(created_at, id) < (?, ?)", before.CreatedAt, before.ID)
	}

	var msgs []model.Message
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	return msgs, nil
}

// --- conversations ---

func (s *Postgres) GetConversation(id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	return &conv, nil
}

func (s *Postgres) CreateConversation(c *model.Conversation) error {
	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (s *Postgres) TouchConversation(id string, recipientID uuid.UUID, content string, senderID uuid.UUID, at time.Time) error {
	// The unread bump runs as a conditional in-row expression so concurrent
	// senders never lose an increment.
	err := s.db.Model(&model.Conversation{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_message_at":        at,
			"last_message_content":   content,
			"last_message_sender_id": senderID,
			"unread_count_a":         gorm.Expr("unread_count_a + CASE WHEN participant_a = ? THEN 1 ELSE 0 END", recipientID),
			"unread_count_b":         gorm.Expr("unread_count_b + CASE WHEN participant_b = ? THEN 1 ELSE 0 END", recipientID),
			"updated_at":             at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	return nil
}

func (s *Postgres) DecrementUnread(id string, userID uuid.UUID, by int) error {
	err := s.db.Model(&model.Conversation{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"unread_count_a": gorm.Expr("GREATEST(unread_count_a - CASE WHEN participant_a = ? THEN ? ELSE 0 END, 0)", userID, by),
			"unread_count_b": gorm.Expr("GREATEST(unread_count_b - CASE WHEN participant_b = ? THEN ? ELSE 0 END, 0)", userID, by),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to decrement unread count: %w", err)
	}
	return nil
}

func (s *Postgres) ListConversations(userID uuid.UUID) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := s.db.Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	return convs, nil
}

// --- address change requests ---

func (s *Postgres) CreateAddressChangeRequest(r *model.AddressChangeRequest) error {
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to create address change request: %w", err)
	}
	return nil
}

func (s *Postgres) ListAddressChangeRequests(userID uuid.UUID) ([]model.AddressChangeRequest, error) {
	var reqs []model.AddressChangeRequest
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query address change requests: %w", err)
	}
	return reqs, nil
}

// --- notifications ---

func (s *Postgres) CreateNotification(n *model.Notification) error {
	if err := s.db.Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *Postgres) ListNotifications(userID uuid.UUID, limit int) ([]model.Notification, error) {
	var notifs []model.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	return notifs, nil
}

func (s *Postgres) MarkAllNotificationsRead(userID uuid.UUID) error {
	err := s.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
