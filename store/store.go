// Package store is the document-store boundary the services talk to.
// Lookups of a missing record return (nil, nil); errors are reserved for
// infrastructure faults.
package store

import (
	"time"

	"bubble_server/model"

	"github.com/google/uuid"
)

type UserStore interface {
	GetUser(id uuid.UUID) (*model.User, error)
	SaveUser(u *model.User) error
}

type LocationStore interface {
	GetLocationSnapshot(userID uuid.UUID) (*model.LocationSnapshot, error)
	// SaveLocationSnapshot overwrites the user's snapshot (upsert).
	SaveLocationSnapshot(s *model.LocationSnapshot) error
	// AppendLocationHistory is a no-op when an entry with the same id
	// already exists, which keeps retried updates idempotent.
	AppendLocationHistory(e *model.LocationHistoryEntry) error
	// ListLocationHistory returns entries at or after since, newest first.
	ListLocationHistory(userID uuid.UUID, since time.Time) ([]model.LocationHistoryEntry, error)
	PruneLocationHistory(userID uuid.UUID, cutoff time.Time) error
}

type RelationshipStore interface {
	// GetFriendship returns the directed edge regardless of status.
	GetFriendship(userID, friendID uuid.UUID) (*model.Friendship, error)
	SaveFriendship(f *model.Friendship) error
	// DeleteFriendship reports whether an edge existed.
	DeleteFriendship(userID, friendID uuid.UUID) (bool, error)
	ListFriendships(userID uuid.UUID, status model.FriendshipStatus) ([]model.Friendship, error)

	GetFriendRequest(id uuid.UUID) (*model.FriendRequest, error)
	CreateFriendRequest(r *model.FriendRequest) error
	FindPendingFriendRequest(fromID, toID uuid.UUID) (*model.FriendRequest, error)
	ListReceivedFriendRequests(userID uuid.UUID) ([]model.FriendRequest, error)
	ListSentFriendRequests(userID uuid.UUID) ([]model.FriendRequest, error)
	UpdateFriendRequest(r *model.FriendRequest) error
	// AcceptFriendRequest persists the accepted request and both directed
	// edges as one transaction; either all three land or none do.
	AcceptFriendRequest(r *model.FriendRequest, edgeA, edgeB *model.Friendship) error
}

type MessageStore interface {
	GetMessage(id uuid.UUID) (*model.Message, error)
	CreateMessage(m *model.Message) error
	UpdateMessage(m *model.Message) error
	DeleteMessage(id uuid.UUID) error
	// ListMessages returns up to limit messages of the conversation, newest
	// first, strictly after the cursor message's position when before is set.
	ListMessages(conversationID string, limit int, before *model.Message) ([]model.Message, error)

	GetConversation(id string) (*model.Conversation, error)
	CreateConversation(c *model.Conversation) error
	// TouchConversation refreshes the last-message summary and atomically
	// increments the recipient's unread counter.
	TouchConversation(id string, recipientID uuid.UUID, content string, senderID uuid.UUID, at time.Time) error
	// DecrementUnread atomically lowers the participant's unread counter,
	// floored at zero.
	DecrementUnread(id string, userID uuid.UUID, by int) error
	// ListConversations returns the user's conversations, most recent
	// message first.
	ListConversations(userID uuid.UUID) ([]model.Conversation, error)
}

type AddressRequestStore interface {
	CreateAddressChangeRequest(r *model.AddressChangeRequest) error
	ListAddressChangeRequests(userID uuid.UUID) ([]model.AddressChangeRequest, error)
}

type NotificationStore interface {
	CreateNotification(n *model.Notification) error
	ListNotifications(userID uuid.UUID, limit int) ([]model.Notification, error)
	MarkAllNotificationsRead(userID uuid.UUID) error
}

// Store is the full boundary; both the postgres and the in-memory
// implementations satisfy it.
type Store interface {
	UserStore
	LocationStore
	RelationshipStore
	MessageStore
	AddressRequestStore
	NotificationStore
}
