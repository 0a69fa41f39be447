package service

import (
	"fmt"
	"time"

	"bubble_server/model"
	"bubble_server/store"

	"github.com/google/uuid"
)

// FriendService is the relationship ledger: it owns friend requests and the
// two directed friendship edges behind every accepted request.
type FriendService struct {
	rels     store.RelationshipStore
	users    store.UserStore
	notifSvc *NotificationService
}

func NewFriendService(rels store.RelationshipStore, users store.UserStore) *FriendService {
	return &FriendService{rels: rels, users: users}
}

// SetNotificationService wires the optional notifier.
func (s *FriendService) SetNotificationService(notifSvc *NotificationService) {
	s.notifSvc = notifSvc
}

// activeFriendship returns the owner->peer edge only when it is active.
func (s *FriendService) activeFriendship(ownerID, peerID uuid.UUID) (*model.Friendship, error) {
	edge, err := s.rels.GetFriendship(ownerID, peerID)
	if err != nil {
		return nil, err
	}
	if edge == nil || edge.Status != model.FriendshipActive {
		return nil, nil
	}
	return edge, nil
}

// SendFriendRequest creates a pending request. At most one pending request
// may exist per ordered pair, and already-connected pairs are rejected.
func (s *FriendService) SendFriendRequest(fromID, toID uuid.UUID, message *string) (*model.FriendRequest, error) {
	if fromID == toID {
		return nil, validationErr("cannot send a friend request to yourself")
	}

	toUser, err := s.users.GetUser(toID)
	if err != nil {
		return nil, err
	}
	if toUser == nil {
		return nil, validationErr("user not found")
	}

	edge, err := s.activeFriendship(fromID, toID)
	if err != nil {
		return nil, err
	}
	if edge != nil {
		return nil, validationErr("already friends with this user")
	}

	pending, err := s.rels.FindPendingFriendRequest(fromID, toID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, validationErr("a friend request to this user is already pending")
	}

	req := &model.FriendRequest{
		ID:         uuid.New(),
		FromUserID: fromID,
		ToUserID:   toID,
		Message:    message,
		Status:     model.RequestPending,
		CreatedAt:  time.Now(),
	}
	if err := s.rels.CreateFriendRequest(req); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	if s.notifSvc != nil {
		s.notifSvc.Notify(toID, model.NotificationFriendRequest,
			"New friend request", "You received a friend request",
			map[string]string{"request_id": req.ID.String(), "from_user_id": fromID.String()})
	}
	return req, nil
}

func (s *FriendService) GetReceivedRequests(userID uuid.UUID) ([]model.FriendRequest, error) {
	return s.rels.ListReceivedFriendRequests(userID)
}

func (s *FriendService) GetSentRequests(userID uuid.UUID) ([]model.FriendRequest, error) {
	return s.rels.ListSentFriendRequests(userID)
}

// loadPendingRequestFor fetches the request and checks the acting user is its
// addressee and it is still pending.
func (s *FriendService) loadPendingRequestFor(userID, requestID uuid.UUID) (*model.FriendRequest, error) {
	req, err := s.rels.GetFriendRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, validationErr("friend request not found")
	}
	if req.ToUserID != userID {
		return nil, permissionErr("not allowed to respond to this friend request")
	}
	if req.Status != model.RequestPending {
		return nil, validationErr("friend request has already been responded to")
	}
	return req, nil
}

// AcceptFriendRequest marks the request accepted and creates both directed
// edges at trust level 2 in a single store transaction.
func (s *FriendService) AcceptFriendRequest(userID, requestID uuid.UUID) (*model.Friendship, error) {
	req, err := s.loadPendingRequestFor(userID, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req.Status = model.RequestAccepted
	req.RespondedAt = &now

	newEdge := func(ownerID, peerID uuid.UUID) *model.Friendship {
		return &model.Friendship{
			ID:         uuid.New(),
			UserID:     ownerID,
			FriendID:   peerID,
			TrustLevel: model.TrustFriend,
			Status:     model.FriendshipActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	mine := newEdge(req.ToUserID, req.FromUserID)
	theirs := newEdge(req.FromUserID, req.ToUserID)

	if err := s.rels.AcceptFriendRequest(req, mine, theirs); err != nil {
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}

	if s.notifSvc != nil {
		s.notifSvc.Notify(req.FromUserID, model.NotificationFriendAccepted,
			"Friend request accepted", "Your friend request was accepted",
			map[string]string{"user_id": userID.String()})
	}
	return mine, nil
}

// RejectFriendRequest marks the request rejected; no edges are created.
func (s *FriendService) RejectFriendRequest(userID, requestID uuid.UUID) error {
	req, err := s.loadPendingRequestFor(userID, requestID)
	if err != nil {
		return err
	}

	now := time.Now()
	req.Status = model.RequestRejected
	req.RespondedAt = &now

	if err := s.rels.UpdateFriendRequest(req); err != nil {
		return fmt.Errorf("failed to reject friend request: %w", err)
	}
	return nil
}

func (s *FriendService) GetFriends(userID uuid.UUID) ([]model.Friendship, error) {
	return s.rels.ListFriendships(userID, model.FriendshipActive)
}

// UpdateFriendship changes the caller's side of the relationship only;
// nil fields are left untouched.
func (s *FriendService) UpdateFriendship(ownerID, peerID uuid.UUID, trustLevel *int, nickname *string) (*model.Friendship, error) {
	edge, err := s.activeFriendship(ownerID, peerID)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, validationErr("friendship not found")
	}

	if trustLevel != nil {
		if *trustLevel < model.TrustAcquaintance || *trustLevel > model.TrustBestFriend {
			return nil, validationErr("trust level must be between 1 and 5")
		}
		edge.TrustLevel = *trustLevel
	}
	if nickname != nil {
		edge.Nickname = nickname
	}
	edge.UpdatedAt = time.Now()

	if err := s.rels.SaveFriendship(edge); err != nil {
		return nil, fmt.Errorf("failed to update friendship: %w", err)
	}
	return edge, nil
}

// RemoveFriend deletes whichever directed edges exist for the pair. Removal
// is asymmetric by design; it only fails when neither direction exists.
func (s *FriendService) RemoveFriend(userID, friendID uuid.UUID) error {
	removedMine, err := s.rels.DeleteFriendship(userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	removedTheirs, err := s.rels.DeleteFriendship(friendID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	if !removedMine && !removedTheirs {
		return validationErr("friendship not found")
	}
	return nil
}

// BlockUser sets the caller's edge to blocked. Blocking an unconnected user
// is a no-op, not an error.
func (s *FriendService) BlockUser(userID, peerID uuid.UUID) error {
	edge, err := s.rels.GetFriendship(userID, peerID)
	if err != nil {
		return err
	}
	if edge == nil {
		return nil
	}
	edge.Status = model.FriendshipBlocked
	edge.UpdatedAt = time.Now()
	if err := s.rels.SaveFriendship(edge); err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	return nil
}

// GetTrustLevel returns the trust level of the active owner->peer edge, nil
// when the pair is not connected from the owner's perspective.
func (s *FriendService) GetTrustLevel(ownerID, peerID uuid.UUID) (*int, error) {
	edge, err := s.activeFriendship(ownerID, peerID)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, nil
	}
	level := edge.TrustLevel
	return &level, nil
}

// IsFriend reports whether an active owner->peer edge exists.
func (s *FriendService) IsFriend(ownerID, peerID uuid.UUID) (bool, error) {
	edge, err := s.activeFriendship(ownerID, peerID)
	if err != nil {
		return false, err
	}
	return edge != nil, nil
}
