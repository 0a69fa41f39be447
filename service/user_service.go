package service

import (
	"fmt"
	"time"

	"bubble_server/model"
	"bubble_server/store"

	"github.com/google/uuid"
)

type UserService struct {
	users    store.UserStore
	requests store.AddressRequestStore
	policy   AddressLockPolicy
}

func NewUserService(users store.UserStore, requests store.AddressRequestStore, policy AddressLockPolicy) *UserService {
	return &UserService{users: users, requests: requests, policy: policy}
}

// GetUser returns the user or a validation error when unknown.
func (s *UserService) GetUser(userID uuid.UUID) (*model.User, error) {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, validationErr("user not found")
	}
	return user, nil
}

// UpdateProfileRequest carries the optional profile fields; nil means keep.
type UpdateProfileRequest struct {
	DisplayName     *string `json:"display_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if *req.DisplayName == "" || len(*req.DisplayName) > 50 {
			return nil, validationErr("display name must be 1-50 characters")
		}
		user.DisplayName = *req.DisplayName
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = req.ProfileImageURL
	}
	user.UpdatedAt = time.Now()

	if err := s.users.SaveUser(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// AddressStatus is the can-change view for one anchor address type.
type AddressStatus struct {
	AddressType   model.AddressType `json:"address_type"`
	IsRegistered  bool              `json:"is_registered"`
	CanChange     bool              `json:"can_change"`
	DaysRemaining *int              `json:"days_remaining,omitempty"`
}

func (s *UserService) GetAddressStatus(userID uuid.UUID, addressType model.AddressType) (*AddressStatus, error) {
	if !addressType.Valid() {
		return nil, validationErr("invalid address type")
	}
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	addr := user.AddressFor(addressType)
	return &AddressStatus{
		AddressType:   addressType,
		IsRegistered:  addr != nil,
		CanChange:     s.policy.CanChange(addr),
		DaysRemaining: s.policy.DaysRemaining(addr),
	}, nil
}

// UpdateAddress overwrites an anchor address. Rejected with the remaining-day
// count while the previous change is still inside the lock window.
func (s *UserService) UpdateAddress(userID uuid.UUID, addressType model.AddressType, lat, lon float64) (*model.User, error) {
	if !addressType.Valid() {
		return nil, validationErr("invalid address type")
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, validationErr("coordinates out of range")
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	addr := user.AddressFor(addressType)
	if !s.policy.CanChange(addr) {
		remaining := s.policy.DaysRemaining(addr)
		return nil, validationErr(fmt.Sprintf(
			"address changes are locked for %d days; %d days remaining",
			s.policy.LockDays, *remaining))
	}

	now := time.Now()
	user.SetAddress(addressType, &model.Address{
		Latitude:      lat,
		Longitude:     lon,
		RegisteredAt:  now,
		LastChangedAt: now,
	})
	user.UpdatedAt = now

	if err := s.users.SaveUser(user); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return user, nil
}

// AddressChangeRequestInput is the exception-workflow submission.
type AddressChangeRequestInput struct {
	AddressType  model.AddressType         `json:"address_type"`
	NewLatitude  float64                   `json:"new_latitude"`
	NewLongitude float64                   `json:"new_longitude"`
	Reason       model.AddressChangeReason `json:"reason"`
	Description  *string                   `json:"description,omitempty"`
	DocumentURL  *string                   `json:"document_url,omitempty"`
}

// CreateAddressChangeRequest files an exception request. Only users still
// inside the lock window may file one; review happens elsewhere.
func (s *UserService) CreateAddressChangeRequest(userID uuid.UUID, input *AddressChangeRequestInput) (*model.AddressChangeRequest, error) {
	if !input.AddressType.Valid() {
		return nil, validationErr("invalid address type")
	}
	if !input.Reason.Valid() {
		return nil, validationErr("invalid reason")
	}
	if input.NewLatitude < -90 || input.NewLatitude > 90 ||
		input.NewLongitude < -180 || input.NewLongitude > 180 {
		return nil, validationErr("coordinates out of range")
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	addr := user.AddressFor(input.AddressType)
	if s.policy.CanChange(addr) {
		return nil, validationErr("a normal address change is currently allowed; no exception request needed")
	}

	req := &model.AddressChangeRequest{
		ID:           uuid.New(),
		UserID:       userID,
		AddressType:  input.AddressType,
		NewLatitude:  input.NewLatitude,
		NewLongitude: input.NewLongitude,
		Reason:       input.Reason,
		Description:  input.Description,
		DocumentURL:  input.DocumentURL,
		Status:       model.ChangePending,
		CreatedAt:    time.Now(),
	}
	// Snapshot the coordinates being replaced so reviewers see both sides.
	if addr != nil {
		curLat, curLon := addr.Latitude, addr.Longitude
		req.CurrentLatitude = &curLat
		req.CurrentLongitude = &curLon
	}

	if err := s.requests.CreateAddressChangeRequest(req); err != nil {
		return nil, fmt.Errorf("failed to create address change request: %w", err)
	}
	return req, nil
}

func (s *UserService) ListAddressChangeRequests(userID uuid.UUID) ([]model.AddressChangeRequest, error) {
	reqs, err := s.requests.ListAddressChangeRequests(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list address change requests: %w", err)
	}
	return reqs, nil
}

// CustomLocationInput creates or updates one custom zone. On update, nil
// fields keep their current value.
type CustomLocationInput struct {
	Name         *string  `json:"name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *int     `json:"radius_meters,omitempty"`
	Color        *string  `json:"color,omitempty"`
}

func validateCustomName(name string) error {
	if name == "" || len(name) > 50 {
		return validationErr("custom location name must be 1-50 characters")
	}
	return nil
}

func validateCustomRadius(radius int) error {
	if radius < 10 || radius > 1000 {
		return validationErr("custom location radius must be 10-1000 meters")
	}
	return nil
}

// AddCustomLocation appends a zone, capped at 10 per user.
func (s *UserService) AddCustomLocation(userID uuid.UUID, input *CustomLocationInput) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if len(user.CustomLocations) >= model.MaxCustomLocations {
		return nil, validationErr(fmt.Sprintf("at most %d custom locations can be registered", model.MaxCustomLocations))
	}
	if input.Name == nil || input.Latitude == nil || input.Longitude == nil {
		return nil, validationErr("name, latitude and longitude are required")
	}
	if err := validateCustomName(*input.Name); err != nil {
		return nil, err
	}
	if *input.Latitude < -90 || *input.Latitude > 90 ||
		*input.Longitude < -180 || *input.Longitude > 180 {
		return nil, validationErr("coordinates out of range")
	}

	zone := model.CustomLocation{
		Name:         *input.Name,
		Latitude:     *input.Latitude,
		Longitude:    *input.Longitude,
		RadiusMeters: model.DefaultCustomRadiusMeters,
		Color:        model.DefaultCustomColor,
	}
	if input.RadiusMeters != nil {
		if err := validateCustomRadius(*input.RadiusMeters); err != nil {
			return nil, err
		}
		zone.RadiusMeters = *input.RadiusMeters
	}
	if input.Color != nil {
		zone.Color = *input.Color
	}

	user.CustomLocations = append(user.CustomLocations, zone)
	user.UpdatedAt = time.Now()

	if err := s.users.SaveUser(user); err != nil {
		return nil, fmt.Errorf("failed to add custom location: %w", err)
	}
	return user, nil
}

// UpdateCustomLocation patches the zone at the given registration index.
func (s *UserService) UpdateCustomLocation(userID uuid.UUID, index int, input *CustomLocationInput) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(user.CustomLocations) {
		return nil, validationErr("invalid custom location index")
	}

	zone := user.CustomLocations[index]
	if input.Name != nil {
		if err := validateCustomName(*input.Name); err != nil {
			return nil, err
		}
		zone.Name = *input.Name
	}
	if input.RadiusMeters != nil {
		if err := validateCustomRadius(*input.RadiusMeters); err != nil {
			return nil, err
		}
		zone.RadiusMeters = *input.RadiusMeters
	}
	if input.Color != nil {
		zone.Color = *input.Color
	}
	user.CustomLocations[index] = zone
	user.UpdatedAt = time.Now()

	if err := s.users.SaveUser(user); err != nil {
		return nil, fmt.Errorf("failed to update custom location: %w", err)
	}
	return user, nil
}

// DeleteCustomLocation removes the zone at the given index.
func (s *UserService) DeleteCustomLocation(userID uuid.UUID, index int) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(user.CustomLocations) {
		return nil, validationErr("invalid custom location index")
	}

	user.CustomLocations = append(user.CustomLocations[:index], user.CustomLocations[index+1:]...)
	user.UpdatedAt = time.Now()

	if err := s.users.SaveUser(user); err != nil {
		return nil, fmt.Errorf("failed to delete custom location: %w", err)
	}
	return user, nil
}
