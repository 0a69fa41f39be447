package store

import (
	"sort"
	"sync"
	"time"

	"bubble_server/model"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by unit tests and local development.
// All values are copied on the way in and out so callers never share state
// with the store.
type Memory struct {
	mu sync.RWMutex

	users           map[uuid.UUID]model.User
	snapshots       map[uuid.UUID]model.LocationSnapshot
	history         map[uuid.UUID]model.LocationHistoryEntry
	friendships     map[[2]uuid.UUID]model.Friendship
	friendRequests  map[uuid.UUID]model.FriendRequest
	messages        map[uuid.UUID]model.Message
	conversations   map[string]model.Conversation
	addressRequests map[uuid.UUID]model.AddressChangeRequest
	notifications   map[uuid.UUID]model.Notification
}

func NewMemory() *Memory {
	return &Memory{
		users:           make(map[uuid.UUID]model.User),
		snapshots:       make(map[uuid.UUID]model.LocationSnapshot),
		history:         make(map[uuid.UUID]model.LocationHistoryEntry),
		friendships:     make(map[[2]uuid.UUID]model.Friendship),
		friendRequests:  make(map[uuid.UUID]model.FriendRequest),
		messages:        make(map[uuid.UUID]model.Message),
		conversations:   make(map[string]model.Conversation),
		addressRequests: make(map[uuid.UUID]model.AddressChangeRequest),
		notifications:   make(map[uuid.UUID]model.Notification),
	}
}

func copyUser(u model.User) model.User {
	cp := u
	if u.HomeAddress != nil {
		addr := *u.HomeAddress
		cp.HomeAddress = &addr
	}
	if u.WorkAddress != nil {
		addr := *u.WorkAddress
		cp.WorkAddress = &addr
	}
	if u.SchoolAddress != nil {
		addr := *u.SchoolAddress
		cp.SchoolAddress = &addr
	}
	cp.CustomLocations = append([]model.CustomLocation(nil), u.CustomLocations...)
	cp.PushTokens = append([]string(nil), u.PushTokens...)
	return cp
}

// --- users ---

func (s *Memory) GetUser(id uuid.UUID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := copyUser(u)
	return &cp, nil
}

func (s *Memory) SaveUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = copyUser(*u)
	return nil
}

// --- locations ---

func (s *Memory) GetLocationSnapshot(userID uuid.UUID) (*model.LocationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[userID]
	if !ok {
		return nil, nil
	}
	cp := snap
	return &cp, nil
}

func (s *Memory) SaveLocationSnapshot(snap *model.LocationSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.UserID] = *snap
	return nil
}

func (s *Memory) AppendLocationHistory(e *model.LocationHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.history[e.ID]; exists {
		return nil
	}
	s.history[e.ID] = *e
	return nil
}

func (s *Memory) ListLocationHistory(userID uuid.UUID, since time.Time) ([]model.LocationHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []model.LocationHistoryEntry
	for _, e := range s.history {
		if e.UserID == userID && !e.Timestamp.Before(since) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

func (s *Memory) PruneLocationHistory(userID uuid.UUID, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.history {
		if e.UserID == userID && e.Timestamp.Before(cutoff) {
			delete(s.history, id)
		}
	}
	return nil
}

// --- friendships ---

func (s *Memory) GetFriendship(userID, friendID uuid.UUID) (*model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	edge, ok := s.friendships[[2]uuid.UUID{userID, friendID}]
	if !ok {
		return nil, nil
	}
	cp := edge
	return &cp, nil
}

func (s *Memory) SaveFriendship(f *model.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friendships[[2]uuid.UUID{f.UserID, f.FriendID}] = *f
	return nil
}

func (s *Memory) DeleteFriendship(userID, friendID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uuid.UUID{userID, friendID}
	if _, ok := s.friendships[key]; !ok {
		return false, nil
	}
	delete(s.friendships, key)
	return true, nil
}

func (s *Memory) ListFriendships(userID uuid.UUID, status model.FriendshipStatus) ([]model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var edges []model.Friendship
	for _, edge := range s.friendships {
		if edge.UserID == userID && edge.Status == status {
			edges = append(edges, edge)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].CreatedAt.After(edges[j].CreatedAt)
	})
	return edges, nil
}

// --- friend requests ---

func (s *Memory) GetFriendRequest(id uuid.UUID) (*model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.friendRequests[id]
	if !ok {
		return nil, nil
	}
	cp := req
	return &cp, nil
}

func (s *Memory) CreateFriendRequest(r *model.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friendRequests[r.ID] = *r
	return nil
}

func (s *Memory) FindPendingFriendRequest(fromID, toID uuid.UUID) (*model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, req := range s.friendRequests {
		if req.FromUserID == fromID && req.ToUserID == toID && req.Status == model.RequestPending {
			cp := req
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Memory) listFriendRequests(match func(model.FriendRequest) bool) []model.FriendRequest {
	var reqs []model.FriendRequest
	for _, req := range s.friendRequests {
		if match(req) {
			reqs = append(reqs, req)
		}
	}
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
	return reqs
}

func (s *Memory) ListReceivedFriendRequests(userID uuid.UUID) ([]model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listFriendRequests(func(r model.FriendRequest) bool {
		return r.ToUserID == userID && r.Status == model.RequestPending
	}), nil
}

func (s *Memory) ListSentFriendRequests(userID uuid.UUID) ([]model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listFriendRequests(func(r model.FriendRequest) bool {
		return r.FromUserID == userID && r.Status == model.RequestPending
	}), nil
}

func (s *Memory) UpdateFriendRequest(r *model.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friendRequests[r.ID] = *r
	return nil
}

func (s *Memory) AcceptFriendRequest(r *model.FriendRequest, edgeA, edgeB *model.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friendRequests[r.ID] = *r
	s.friendships[[2]uuid.UUID{edgeA.UserID, edgeA.FriendID}] = *edgeA
	s.friendships[[2]uuid.UUID{edgeB.UserID, edgeB.FriendID}] = *edgeB
	return nil
}

// --- messages ---

func (s *Memory) GetMessage(id uuid.UUID) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	cp := msg
	return &cp, nil
}

func (s *Memory) CreateMessage(m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ID] = *m
	return nil
}

func (s *Memory) UpdateMessage(m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ID] = *m
	return nil
}

func (s *Memory) DeleteMessage(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, id)
	return nil
}

// messageBefore orders newest first: by created_at, then by id as a
// tiebreaker, matching the postgres row-value comparison.
func messageBefore(a, b model.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

func (s *Memory) ListMessages(conversationID string, limit int, before *model.Message) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var msgs []model.Message
	for _, m := range s.messages {
		if m.ConversationID != conversationID {
			continue
		}
		if before != nil && !messageBefore(*before, m) {
			continue
		}
		msgs = append(msgs, m)
	}
	sort.Slice(msgs, func(i, j int) bool {
		return messageBefore(msgs[i], msgs[j])
	})
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

// --- conversations ---

func (s *Memory) GetConversation(id string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	cp := conv
	return &cp, nil
}

func (s *Memory) CreateConversation(c *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[c.ID] = *c
	return nil
}

func (s *Memory) TouchConversation(id string, recipientID uuid.UUID, content string, senderID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	conv.LastMessageAt = at
	conv.LastMessageContent = content
	conv.LastMessageSenderID = senderID
	conv.UpdatedAt = at
	switch recipientID {
	case conv.ParticipantA:
		conv.UnreadCountA++
	case conv.ParticipantB:
		conv.UnreadCountB++
	}
	s.conversations[id] = conv
	return nil
}

func (s *Memory) DecrementUnread(id string, userID uuid.UUID, by int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	switch userID {
	case conv.ParticipantA:
		conv.UnreadCountA = max(0, conv.UnreadCountA-by)
	case conv.ParticipantB:
		conv.UnreadCountB = max(0, conv.UnreadCountB-by)
	}
	s.conversations[id] = conv
	return nil
}

func (s *Memory) ListConversations(userID uuid.UUID) ([]model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var convs []model.Conversation
	for _, c := range s.conversations {
		if c.ParticipantA == userID || c.ParticipantB == userID {
			convs = append(convs, c)
		}
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].LastMessageAt.After(convs[j].LastMessageAt)
	})
	return convs, nil
}

// --- address change requests ---

func (s *Memory) CreateAddressChangeRequest(r *model.AddressChangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addressRequests[r.ID] = *r
	return nil
}

func (s *Memory) ListAddressChangeRequests(userID uuid.UUID) ([]model.AddressChangeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var reqs []model.AddressChangeRequest
	for _, r := range s.addressRequests {
		if r.UserID == userID {
			reqs = append(reqs, r)
		}
	}
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
	return reqs, nil
}

// --- notifications ---

func (s *Memory) CreateNotification(n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = *n
	return nil
}

func (s *Memory) ListNotifications(userID uuid.UUID, limit int) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var notifs []model.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			notifs = append(notifs, n)
		}
	}
	sort.Slice(notifs, func(i, j int) bool {
		return notifs[i].CreatedAt.After(notifs[j].CreatedAt)
	})
	if len(notifs) > limit {
		notifs = notifs[:limit]
	}
	return notifs, nil
}

func (s *Memory) MarkAllNotificationsRead(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			s.notifications[id] = n
		}
	}
	return nil
}
