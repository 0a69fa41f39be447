package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationStatus is the coarse status shared with friends instead of raw
// coordinates.
type LocationStatus string

const (
	StatusHome    LocationStatus = "home"
	StatusWork    LocationStatus = "work"
	StatusSchool  LocationStatus = "school"
	StatusMoving  LocationStatus = "moving"
	StatusCustom  LocationStatus = "custom"
	StatusUnknown LocationStatus = "unknown"
)

// LocationSnapshot is the single current-status record per user, overwritten
// on every location update.
type LocationSnapshot struct {
	UserID             uuid.UUID      `json:"user_id" gorm:"type:uuid;primaryKey"`
	Status             LocationStatus `json:"status" gorm:"type:varchar(20);not null"`
	CustomLocationName *string        `json:"custom_location_name,omitempty" gorm:"type:varchar(50)"`
	EncryptedData      string         `json:"-" gorm:"type:text;not null"`
	LastUpdated        time.Time      `json:"last_updated" gorm:"not null"`
}

func (LocationSnapshot) TableName() string {
	return "user_locations"
}

// LocationHistoryEntry is an append-only status record, pruned past the
// retention window.
type LocationHistoryEntry struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Status             LocationStatus `json:"status" gorm:"type:varchar(20);not null"`
	CustomLocationName *string        `json:"custom_location_name,omitempty" gorm:"type:varchar(50)"`
	EncryptedData      string         `json:"-" gorm:"type:text;not null"`
	Timestamp          time.Time      `json:"timestamp" gorm:"not null;index"`
}

func (LocationHistoryEntry) TableName() string {
	return "location_history"
}

// StatusDisplay maps a status to its display label and color. Custom zones
// show their own name.
func StatusDisplay(status LocationStatus, customName *string) (label, color string) {
	switch status {
	case StatusHome:
		return "🏠 Home", "#4CAF50"
	case StatusWork:
		return "🏢 Work", "#2196F3"
	case StatusSchool:
		return "🏫 School", "#FF9800"
	case StatusMoving:
		return "🚶 Moving", "#FFC107"
	case StatusCustom:
		name := "Custom"
		if customName != nil && *customName != "" {
			name = *customName
		}
		return "📍 " + name, "#9C27B0"
	default:
		return "❓ Unknown", "#9E9E9E"
	}
}
