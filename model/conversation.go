package model

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the two-party aggregate keyed by the sorted participant
// pair, so either side addresses the same record. ParticipantA is always the
// lexicographically smaller id; the per-participant unread counters live in
// their own columns so the store can bump them atomically.
type Conversation struct {
	ID                  string    `json:"conversation_id" gorm:"type:varchar(80);primaryKey"`
	ParticipantA        uuid.UUID `json:"participant_a" gorm:"type:uuid;not null;index"`
	ParticipantB        uuid.UUID `json:"participant_b" gorm:"type:uuid;not null;index"`
	LastMessageAt       time.Time `json:"last_message_at" gorm:"not null;index"`
	LastMessageContent  string    `json:"last_message_content" gorm:"type:text"`
	LastMessageSenderID uuid.UUID `json:"last_message_sender_id" gorm:"type:uuid"`
	UnreadCountA        int       `json:"-" gorm:"not null;default:0"`
	UnreadCountB        int       `json:"-" gorm:"not null;default:0"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// ConversationID derives the deterministic id for an unordered user pair:
// smaller id first, joined with an underscore.
func ConversationID(a, b uuid.UUID) string {
	first, second := a.String(), b.String()
	if second < first {
		first, second = second, first
	}
	return first + "_" + second
}

// NewConversation builds the aggregate for a pair with zeroed counters.
func NewConversation(a, b uuid.UUID) *Conversation {
	if b.String() < a.String() {
		a, b = b, a
	}
	return &Conversation{
		ID:           ConversationID(a, b),
		ParticipantA: a,
		ParticipantB: b,
	}
}

// UnreadCountFor returns the unread counter belonging to the given
// participant, 0 for non-participants.
func (c *Conversation) UnreadCountFor(userID uuid.UUID) int {
	switch userID {
	case c.ParticipantA:
		return c.UnreadCountA
	case c.ParticipantB:
		return c.UnreadCountB
	}
	return 0
}

// OtherParticipant returns the peer of the given participant.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if userID == c.ParticipantA {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// HasParticipant reports whether the user is one of the two participants.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return userID == c.ParticipantA || userID == c.ParticipantB
}
