package model

import (
	"time"

	"github.com/google/uuid"
)

// Trust levels attached to a directed friendship edge. Level 2 unlocks
// messaging, 3 history sharing, 4 custom-place sharing, 5 proximity features.
const (
	TrustAcquaintance = 1
	TrustFriend       = 2
	TrustGoodFriend   = 3
	TrustCloseFriend  = 4
	TrustBestFriend   = 5
)

type FriendshipStatus string

const (
	FriendshipActive  FriendshipStatus = "active"
	FriendshipBlocked FriendshipStatus = "blocked"
)

// Friendship is one directed edge of a friend relationship. An accepted
// friendship always stores two rows, one per direction, each carrying its
// owner's trust level and nickname independently.
type Friendship struct {
	ID         uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index:idx_friendship_pair,unique"`
	FriendID   uuid.UUID        `json:"friend_id" gorm:"type:uuid;not null;index:idx_friendship_pair,unique"`
	TrustLevel int              `json:"trust_level" gorm:"not null;default:2"`
	Nickname   *string          `json:"nickname,omitempty" gorm:"type:varchar(50)"`
	Status     FriendshipStatus `json:"status" gorm:"type:varchar(20);not null;default:active"`
	CreatedAt  time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Friendship) TableName() string {
	return "friendships"
}

type FriendRequestStatus string

const (
	RequestPending  FriendRequestStatus = "pending"
	RequestAccepted FriendRequestStatus = "accepted"
	RequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest is terminal once accepted or rejected. At most one pending
// request may exist per ordered (from, to) pair.
type FriendRequest struct {
	ID          uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	FromUserID  uuid.UUID           `json:"from_user_id" gorm:"type:uuid;not null;index"`
	ToUserID    uuid.UUID           `json:"to_user_id" gorm:"type:uuid;not null;index"`
	Message     *string             `json:"message,omitempty" gorm:"type:varchar(200)"`
	Status      FriendRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	CreatedAt   time.Time           `json:"created_at" gorm:"autoCreateTime"`
	RespondedAt *time.Time          `json:"responded_at,omitempty"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}
