package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressType identifies one of the three anchor addresses a user may register.
type AddressType string

const (
	AddressTypeHome   AddressType = "home"
	AddressTypeWork   AddressType = "work"
	AddressTypeSchool AddressType = "school"
)

func (t AddressType) Valid() bool {
	switch t {
	case AddressTypeHome, AddressTypeWork, AddressTypeSchool:
		return true
	}
	return false
}

// Address is a registered anchor address. RegisteredAt and LastChangedAt are
// both reset on every write, so first registration starts the change cooldown.
type Address struct {
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	RegisteredAt  time.Time `json:"registered_at"`
	LastChangedAt time.Time `json:"last_changed_at"`
}

// CustomLocation is a user-defined geofence zone (gym, cafe, ...).
type CustomLocation struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
	Color        string  `json:"color"`
}

const (
	MaxCustomLocations        = 10
	DefaultCustomRadiusMeters = 100
	DefaultCustomColor        = "#9C27B0"
)

// User is the account record plus everything the resolver and the address
// lock policy need: anchor addresses and custom zones.
type User struct {
	ID              uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	Email           string           `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName     string           `json:"display_name" gorm:"type:varchar(50);not null"`
	ProfileImageURL *string          `json:"profile_image_url,omitempty" gorm:"type:text"`
	HomeAddress     *Address         `json:"home_address,omitempty" gorm:"serializer:json"`
	WorkAddress     *Address         `json:"work_address,omitempty" gorm:"serializer:json"`
	SchoolAddress   *Address         `json:"school_address,omitempty" gorm:"serializer:json"`
	CustomLocations []CustomLocation `json:"custom_locations" gorm:"serializer:json"`
	PushTokens      []string         `json:"-" gorm:"serializer:json"`
	CreatedAt       time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// AddressFor returns the anchor address of the given type, nil if unregistered.
func (u *User) AddressFor(t AddressType) *Address {
	switch t {
	case AddressTypeHome:
		return u.HomeAddress
	case AddressTypeWork:
		return u.WorkAddress
	case AddressTypeSchool:
		return u.SchoolAddress
	}
	return nil
}

// SetAddress overwrites the anchor address of the given type.
func (u *User) SetAddress(t AddressType, addr *Address) {
	switch t {
	case AddressTypeHome:
		u.HomeAddress = addr
	case AddressTypeWork:
		u.WorkAddress = addr
	case AddressTypeSchool:
		u.SchoolAddress = addr
	}
}
