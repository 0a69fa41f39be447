package service

import (
	"fmt"
	"time"

	"bubble_server/model"
	"bubble_server/store"

	"github.com/google/uuid"
)

// MessageService is the staged-visibility messaging engine. Messages land
// hidden from the recipient, become visible on reveal, and carry a separate
// read flag that drives the per-conversation unread counters.
type MessageService struct {
	messages  store.MessageStore
	users     store.UserStore
	friendSvc *FriendService
	notifSvc  *NotificationService
}

func NewMessageService(messages store.MessageStore, users store.UserStore, friendSvc *FriendService) *MessageService {
	return &MessageService{messages: messages, users: users, friendSvc: friendSvc}
}

// SetNotificationService wires the optional notifier.
func (s *MessageService) SetNotificationService(notifSvc *NotificationService) {
	s.notifSvc = notifSvc
}

// checkMessagingPermission enforces the trust gate: messaging needs an active
// sender->recipient edge at trust level 2 or higher.
func (s *MessageService) checkMessagingPermission(senderID, recipientID uuid.UUID) error {
	trust, err := s.friendSvc.GetTrustLevel(senderID, recipientID)
	if err != nil {
		return err
	}
	if trust == nil {
		return validationErr("must be friends to send messages")
	}
	if *trust < model.TrustFriend {
		return validationErr("trust level too low to send messages")
	}
	return nil
}

// SendMessageRequest carries one outgoing message.
type SendMessageRequest struct {
	RecipientID uuid.UUID                `json:"recipient_id" binding:"required"`
	Content     string                   `json:"content" binding:"required"`
	ContentType model.MessageContentType `json:"content_type"`
}

// SendMessage creates the message in the hidden state and bumps the
// recipient's unread counter on the pair's conversation, creating the
// conversation lazily on first contact.
func (s *MessageService) SendMessage(senderID uuid.UUID, req *SendMessageRequest) (*model.Message, error) {
	if senderID == req.RecipientID {
		return nil, validationErr("cannot send a message to yourself")
	}
	if req.Content == "" {
		return nil, validationErr("message content cannot be empty")
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = model.ContentText
	}
	if !contentType.Valid() {
		return nil, validationErr("invalid content type")
	}

	recipient, err := s.users.GetUser(req.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, validationErr("recipient not found")
	}

	if err := s.checkMessagingPermission(senderID, req.RecipientID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	convID := model.ConversationID(senderID, req.RecipientID)
	msg := &model.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		SenderID:       senderID,
		RecipientID:    req.RecipientID,
		Content:        req.Content,
		ContentType:    contentType,
		CreatedAt:      now,
	}
	if err := s.messages.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	conv, err := s.messages.GetConversation(convID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = model.NewConversation(senderID, req.RecipientID)
		conv.LastMessageAt = now
		conv.LastMessageContent = req.Content
		conv.LastMessageSenderID = senderID
		if conv.ParticipantA == req.RecipientID {
			conv.UnreadCountA = 1
		} else {
			conv.UnreadCountB = 1
		}
		if err := s.messages.CreateConversation(conv); err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	} else {
		if err := s.messages.TouchConversation(convID, req.RecipientID, req.Content, senderID, now); err != nil {
			return nil, fmt.Errorf("failed to update conversation: %w", err)
		}
	}

	if s.notifSvc != nil {
		s.notifSvc.Notify(req.RecipientID, model.NotificationNewMessage,
			"New message", "You received a new message",
			map[string]string{"conversation_id": convID, "sender_id": senderID.String()})
	}
	return msg, nil
}

// MessagePage is one page of conversation history, oldest first.
type MessagePage struct {
	Messages []model.Message `json:"messages"`
	HasMore  bool            `json:"has_more"`
}

// GetConversationMessages pages through a conversation the viewer belongs to.
// The same trust gate as sending applies. Messages the recipient has not yet
// revealed are filtered out of the recipient's view but stay visible to the
// sender.
func (s *MessageService) GetConversationMessages(viewerID, peerID uuid.UUID, limit int, beforeID *uuid.UUID) (*MessagePage, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	if err := s.checkMessagingPermission(viewerID, peerID); err != nil {
		return nil, err
	}

	convID := model.ConversationID(viewerID, peerID)
	conv, err := s.messages.GetConversation(convID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return &MessagePage{Messages: []model.Message{}}, nil
	}
	if !conv.HasParticipant(viewerID) {
		return nil, permissionErr("not a participant of this conversation")
	}

	var before *model.Message
	if beforeID != nil {
		before, err = s.messages.GetMessage(*beforeID)
		if err != nil {
			return nil, err
		}
		if before == nil || before.ConversationID != convID {
			return nil, validationErr("cursor message not found in this conversation")
		}
	}

	batch, err := s.messages.ListMessages(convID, limit, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	visible := make([]model.Message, 0, len(batch))
	for _, m := range batch {
		if m.RecipientID == viewerID && !m.IsVisibleToRecipient {
			continue
		}
		visible = append(visible, m)
	}
	// Oldest first for display.
	for i, j := 0, len(visible)-1; i < j; i, j = i+1, j-1 {
		visible[i], visible[j] = visible[j], visible[i]
	}

	return &MessagePage{
		Messages: visible,
		HasMore:  len(visible) == limit,
	}, nil
}

// ConversationView is one entry of the conversation list.
type ConversationView struct {
	ConversationID      string    `json:"conversation_id"`
	PeerID              uuid.UUID `json:"peer_id"`
	LastMessageAt       time.Time `json:"last_message_at"`
	LastMessageContent  string    `json:"last_message_content"`
	LastMessageSenderID uuid.UUID `json:"last_message_sender_id"`
	UnreadCount         int       `json:"unread_count"`
}

// GetConversations lists the user's conversations, most recent first.
func (s *MessageService) GetConversations(userID uuid.UUID) ([]ConversationView, error) {
	convs, err := s.messages.ListConversations(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	views := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		views = append(views, ConversationView{
			ConversationID:      c.ID,
			PeerID:              c.OtherParticipant(userID),
			LastMessageAt:       c.LastMessageAt,
			LastMessageContent:  c.LastMessageContent,
			LastMessageSenderID: c.LastMessageSenderID,
			UnreadCount:         c.UnreadCountFor(userID),
		})
	}
	return views, nil
}

// RevealMessages flips the visibility flag on the given messages. Only the
// recipient may reveal; missing ids and already-revealed messages are skipped
// so retries stay idempotent. Returns the number of messages newly revealed.
func (s *MessageService) RevealMessages(userID uuid.UUID, messageIDs []uuid.UUID) (int, error) {
	now := time.Now().UTC()
	revealed := 0
	for _, id := range messageIDs {
		msg, err := s.messages.GetMessage(id)
		if err != nil {
			return revealed, err
		}
		if msg == nil {
			continue
		}
		if msg.RecipientID != userID {
			return revealed, permissionErr("only the recipient can reveal a message")
		}
		if msg.IsVisibleToRecipient {
			continue
		}
		msg.IsVisibleToRecipient = true
		revealedAt := now
		msg.RevealedAt = &revealedAt
		if err := s.messages.UpdateMessage(msg); err != nil {
			return revealed, fmt.Errorf("failed to reveal message: %w", err)
		}
		revealed++
	}
	return revealed, nil
}

// MarkMessagesRead flags the given messages as read and lowers the unread
// counters. Reading does not require a prior reveal. Counter decrements are
// applied per conversation after the whole batch so a partial failure never
// double-counts. Returns the number of messages newly marked.
func (s *MessageService) MarkMessagesRead(userID uuid.UUID, messageIDs []uuid.UUID) (int, error) {
	now := time.Now().UTC()
	marked := 0
	decrements := make(map[string]int)
	for _, id := range messageIDs {
		msg, err := s.messages.GetMessage(id)
		if err != nil {
			return marked, err
		}
		if msg == nil {
			continue
		}
		if msg.RecipientID != userID {
			return marked, permissionErr("only the recipient can mark a message read")
		}
		if msg.IsRead {
			continue
		}
		msg.IsRead = true
		readAt := now
		msg.ReadAt = &readAt
		if err := s.messages.UpdateMessage(msg); err != nil {
			return marked, fmt.Errorf("failed to mark message read: %w", err)
		}
		marked++
		decrements[msg.ConversationID]++
	}

	for convID, by := range decrements {
		if err := s.messages.DecrementUnread(convID, userID, by); err != nil {
			return marked, fmt.Errorf("failed to update unread count: %w", err)
		}
	}
	return marked, nil
}

// DeleteMessage removes a message; only its sender may delete it.
func (s *MessageService) DeleteMessage(userID, messageID uuid.UUID) error {
	msg, err := s.messages.GetMessage(messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return validationErr("message not found")
	}
	if msg.SenderID != userID {
		return permissionErr("only the sender can delete a message")
	}
	if err := s.messages.DeleteMessage(messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// GetUnreadMessageCount sums the user's unread counters across all
// conversations.
func (s *MessageService) GetUnreadMessageCount(userID uuid.UUID) (int, error) {
	convs, err := s.messages.ListConversations(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list conversations: %w", err)
	}
	total := 0
	for _, c := range convs {
		total += c.UnreadCountFor(userID)
	}
	return total, nil
}
