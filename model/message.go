package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageContentType string

const (
	ContentText     MessageContentType = "text"
	ContentImage    MessageContentType = "image"
	ContentLocation MessageContentType = "location"
)

func (t MessageContentType) Valid() bool {
	switch t {
	case ContentText, ContentImage, ContentLocation:
		return true
	}
	return false
}

// Message carries two independent visibility flags. A sent message is hidden
// from the recipient until they reveal it; the read flag is tracked
// separately and does not require reveal first.
type Message struct {
	ID                   uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID       string             `json:"conversation_id" gorm:"type:varchar(80);not null;index"`
	SenderID             uuid.UUID          `json:"sender_id" gorm:"type:uuid;not null;index"`
	RecipientID          uuid.UUID          `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Content              string             `json:"content" gorm:"type:text;not null"`
	ContentType          MessageContentType `json:"content_type" gorm:"type:varchar(20);not null;default:text"`
	IsVisibleToRecipient bool               `json:"is_visible_to_recipient" gorm:"not null;default:false"`
	IsRead               bool               `json:"is_read" gorm:"not null;default:false"`
	CreatedAt            time.Time          `json:"created_at" gorm:"autoCreateTime;index"`
	RevealedAt           *time.Time         `json:"revealed_at,omitempty"`
	ReadAt               *time.Time         `json:"read_at,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
