package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bubble_server/geo"
	"bubble_server/model"
	"bubble_server/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LocationEncryptor is the external encryption boundary for raw fixes. The
// server never decrypts what it stores.
type LocationEncryptor interface {
	EncryptLocation(lat, lon float64, accuracy, speed *float64, timestamp time.Time) (string, error)
}

const snapshotCacheTTL = time.Hour

// LocationService is the status tracker: it resolves raw fixes into coarse
// statuses, keeps the current snapshot plus bounded history, and gates
// friend lookups on the relationship ledger.
type LocationService struct {
	locations     store.LocationStore
	users         store.UserStore
	friendSvc     *FriendService
	enc           LocationEncryptor
	rdb           *redis.Client // optional snapshot cache
	geoCfg        geo.Config
	retentionDays int
}

func NewLocationService(locations store.LocationStore, users store.UserStore, friendSvc *FriendService, enc LocationEncryptor, geoCfg geo.Config, retentionDays int) *LocationService {
	return &LocationService{
		locations:     locations,
		users:         users,
		friendSvc:     friendSvc,
		enc:           enc,
		geoCfg:        geoCfg,
		retentionDays: retentionDays,
	}
}

// SetRedis wires the optional snapshot cache.
func (s *LocationService) SetRedis(rdb *redis.Client) {
	s.rdb = rdb
}

// LocationUpdateRequest is a raw device fix.
type LocationUpdateRequest struct {
	Latitude  float64  `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64  `json:"longitude" binding:"min=-180,max=180"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
}

// LocationResponse is the resolved result of an update.
type LocationResponse struct {
	UserID             uuid.UUID            `json:"user_id"`
	Status             model.LocationStatus `json:"status"`
	CustomLocationName *string              `json:"custom_location_name,omitempty"`
	LastUpdated        time.Time            `json:"last_updated"`
}

// UpdateLocation resolves the fix, overwrites the snapshot, appends history
// and prunes entries past the retention window. History ids are derived from
// (user, timestamp) so a retried update lands on the same entry.
func (s *LocationService) UpdateLocation(userID uuid.UUID, req *LocationUpdateRequest) (*LocationResponse, error) {
	if req.Latitude < -90 || req.Latitude > 90 ||
		req.Longitude < -180 || req.Longitude > 180 {
		return nil, validationErr("coordinates out of range")
	}

	now := time.Now().UTC()

	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, err
	}
	status, customName := geo.Resolve(req.Latitude, req.Longitude, req.Speed, user, s.geoCfg)

	encrypted, err := s.enc.EncryptLocation(req.Latitude, req.Longitude, req.Accuracy, req.Speed, now)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt location: %w", err)
	}

	snap := &model.LocationSnapshot{
		UserID:             userID,
		Status:             status,
		CustomLocationName: customName,
		EncryptedData:      encrypted,
		LastUpdated:        now,
	}
	if err := s.locations.SaveLocationSnapshot(snap); err != nil {
		return nil, fmt.Errorf("failed to save location snapshot: %w", err)
	}

	entry := &model.LocationHistoryEntry{
		ID:                 historyEntryID(userID, now),
		UserID:             userID,
		Status:             status,
		CustomLocationName: customName,
		EncryptedData:      encrypted,
		Timestamp:          now,
	}
	if err := s.locations.AppendLocationHistory(entry); err != nil {
		return nil, fmt.Errorf("failed to append location history: %w", err)
	}

	cutoff := now.AddDate(0, 0, -s.retentionDays)
	if err := s.locations.PruneLocationHistory(userID, cutoff); err != nil {
		return nil, fmt.Errorf("failed to prune location history: %w", err)
	}

	s.cacheSnapshot(snap)

	return &LocationResponse{
		UserID:             userID,
		Status:             status,
		CustomLocationName: customName,
		LastUpdated:        now,
	}, nil
}

func historyEntryID(userID uuid.UUID, ts time.Time) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(userID.String()+"|"+ts.Format(time.RFC3339Nano)))
}

func snapshotCacheKey(userID uuid.UUID) string {
	return "location:current:" + userID.String()
}

func (s *LocationService) cacheSnapshot(snap *model.LocationSnapshot) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.rdb.Set(context.Background(), snapshotCacheKey(snap.UserID), data, snapshotCacheTTL).Err(); err != nil {
		log.Printf("[WARN] failed to cache location snapshot: %v", err)
	}
}

func (s *LocationService) cachedSnapshot(userID uuid.UUID) *model.LocationSnapshot {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(context.Background(), snapshotCacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var snap model.LocationSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	// EncryptedData is json-excluded, so cached snapshots never hold a raw fix.
	snap.UserID = userID
	return &snap
}

// CurrentLocationView is the display-ready current status.
type CurrentLocationView struct {
	UserID             uuid.UUID            `json:"user_id"`
	Status             model.LocationStatus `json:"status"`
	StatusDisplay      string               `json:"status_display"`
	Color              string               `json:"color"`
	LastUpdated        time.Time            `json:"last_updated"`
	CustomLocationName *string              `json:"custom_location_name,omitempty"`
	IsHomeRegistered   bool                 `json:"is_home_registered"`
	IsWorkRegistered   bool                 `json:"is_work_registered"`
	IsSchoolRegistered bool                 `json:"is_school_registered"`
}

// GetCurrentLocation returns nil when the user has never reported a fix.
func (s *LocationService) GetCurrentLocation(userID uuid.UUID) (*CurrentLocationView, error) {
	snap := s.cachedSnapshot(userID)
	if snap == nil {
		var err error
		snap, err = s.locations.GetLocationSnapshot(userID)
		if err != nil {
			return nil, err
		}
	}
	if snap == nil {
		return nil, nil
	}

	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, err
	}

	view := &CurrentLocationView{
		UserID:             userID,
		Status:             snap.Status,
		LastUpdated:        snap.LastUpdated,
		CustomLocationName: snap.CustomLocationName,
	}
	view.StatusDisplay, view.Color = model.StatusDisplay(snap.Status, snap.CustomLocationName)
	if user != nil {
		view.IsHomeRegistered = user.HomeAddress != nil
		view.IsWorkRegistered = user.WorkAddress != nil
		view.IsSchoolRegistered = user.SchoolAddress != nil
	}
	return view, nil
}

// LocationHistoryItem is one pruned-history record; raw coordinates stay
// encrypted and are not exposed.
type LocationHistoryItem struct {
	Timestamp          time.Time            `json:"timestamp"`
	Status             model.LocationStatus `json:"status"`
	CustomLocationName *string              `json:"custom_location_name,omitempty"`
}

// GetLocationHistory returns the user's entries of the last N days, newest
// first. Days is bounded by the retention window.
func (s *LocationService) GetLocationHistory(userID uuid.UUID, days int) ([]LocationHistoryItem, error) {
	if days < 1 || days > s.retentionDays {
		return nil, validationErr(fmt.Sprintf("days must be between 1 and %d", s.retentionDays))
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	entries, err := s.locations.ListLocationHistory(userID, since)
	if err != nil {
		return nil, err
	}

	items := make([]LocationHistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, LocationHistoryItem{
			Timestamp:          e.Timestamp,
			Status:             e.Status,
			CustomLocationName: e.CustomLocationName,
		})
	}
	return items, nil
}

// GetFriendLocation returns the owner's current view, but only for viewers
// holding an active edge toward the owner.
func (s *LocationService) GetFriendLocation(viewerID, ownerID uuid.UUID) (*CurrentLocationView, error) {
	isFriend, err := s.friendSvc.IsFriend(viewerID, ownerID)
	if err != nil {
		return nil, err
	}
	if !isFriend {
		return nil, permissionErr("not friends with this user")
	}
	return s.GetCurrentLocation(ownerID)
}
