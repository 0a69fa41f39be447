package model

import (
	"time"

	"github.com/google/uuid"
)

type AddressChangeReason string

const (
	ReasonMoving    AddressChangeReason = "moving"
	ReasonJobChange AddressChangeReason = "job_change"
	ReasonOther     AddressChangeReason = "other"
)

func (r AddressChangeReason) Valid() bool {
	switch r {
	case ReasonMoving, ReasonJobChange, ReasonOther:
		return true
	}
	return false
}

type AddressChangeStatus string

const (
	ChangePending  AddressChangeStatus = "pending"
	ChangeApproved AddressChangeStatus = "approved"
	ChangeRejected AddressChangeStatus = "rejected"
)

// AddressChangeRequest is the exception workflow record for users still
// inside the address lock window. Review happens outside this service; the
// record is created pending and read back, never mutated here.
type AddressChangeRequest struct {
	ID               uuid.UUID           `json:"request_id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID           `json:"user_id" gorm:"type:uuid;not null;index"`
	AddressType      AddressType         `json:"address_type" gorm:"type:varchar(10);not null"`
	CurrentLatitude  *float64            `json:"current_latitude,omitempty"`
	CurrentLongitude *float64            `json:"current_longitude,omitempty"`
	NewLatitude      float64             `json:"new_latitude" gorm:"not null"`
	NewLongitude     float64             `json:"new_longitude" gorm:"not null"`
	Reason           AddressChangeReason `json:"reason" gorm:"type:varchar(20);not null"`
	Description      *string             `json:"description,omitempty" gorm:"type:varchar(500)"`
	DocumentURL      *string             `json:"document_url,omitempty" gorm:"type:text"`
	Status           AddressChangeStatus `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	CreatedAt        time.Time           `json:"created_at" gorm:"autoCreateTime"`
	ReviewedAt       *time.Time          `json:"reviewed_at,omitempty"`
	ReviewerComment  *string             `json:"reviewer_comment,omitempty" gorm:"type:varchar(500)"`
}

func (AddressChangeRequest) TableName() string {
	return "address_change_requests"
}
