package service

import (
	"testing"
	"time"

	"bubble_server/model"
	"bubble_server/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessagingFixture(t *testing.T) (*store.Memory, *MessageService, *model.User, *model.User) {
	t.Helper()
	st := store.NewMemory()
	friendSvc := NewFriendService(st, st)
	msgSvc := NewMessageService(st, st, friendSvc)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	makeFriends(t, st, alice.ID, bob.ID, model.TrustFriend)
	return st, msgSvc, alice, bob
}

func sendText(t *testing.T, svc *MessageService, from, to uuid.UUID, content string) *model.Message {
	t.Helper()
	msg, err := svc.SendMessage(from, &SendMessageRequest{RecipientID: to, Content: content})
	require.NoError(t, err)
	return msg
}

func TestSendMessageTrustGate(t *testing.T) {
	st := store.NewMemory()
	friendSvc := NewFriendService(st, st)
	svc := NewMessageService(st, st, friendSvc)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")

	// Strangers cannot message.
	_, err := svc.SendMessage(alice.ID, &SendMessageRequest{RecipientID: bob.ID, Content: "hi"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "must be friends")

	// Trust level 1 is not enough.
	makeFriends(t, st, alice.ID, bob.ID, model.TrustAcquaintance)
	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{RecipientID: bob.ID, Content: "hi"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "trust level")

	// Trust level 2 unlocks messaging.
	makeFriends(t, st, alice.ID, bob.ID, model.TrustFriend)
	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{RecipientID: bob.ID, Content: "hi"})
	require.NoError(t, err)
}

func TestSendMessageValidation(t *testing.T) {
	_, svc, alice, bob := newMessagingFixture(t)

	_, err := svc.SendMessage(alice.ID, &SendMessageRequest{RecipientID: alice.ID, Content: "hi"})
	assert.True(t, IsValidation(err))

	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{RecipientID: bob.ID, Content: ""})
	assert.True(t, IsValidation(err))

	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{RecipientID: uuid.New(), Content: "hi"})
	assert.True(t, IsValidation(err))

	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{
		RecipientID: bob.ID, Content: "hi", ContentType: model.MessageContentType("video"),
	})
	assert.True(t, IsValidation(err))
}

func TestSendMessageStartsHidden(t *testing.T) {
	st, svc, alice, bob := newMessagingFixture(t)

	msg := sendText(t, svc, alice.ID, bob.ID, "secret")
	assert.False(t, msg.IsVisibleToRecipient)
	assert.False(t, msg.IsRead)
	assert.Nil(t, msg.RevealedAt)
	assert.Nil(t, msg.ReadAt)
	assert.Equal(t, model.ContentText, msg.ContentType)

	conv, err := st.GetConversation(model.ConversationID(alice.ID, bob.ID))
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, 1, conv.UnreadCountFor(bob.ID))
	assert.Equal(t, 0, conv.UnreadCountFor(alice.ID))
	assert.Equal(t, "secret", conv.LastMessageContent)
}

func TestUnreadCountLifecycle(t *testing.T) {
	_, svc, alice, bob := newMessagingFixture(t)

	m1 := sendText(t, svc, alice.ID, bob.ID, "one")
	m2 := sendText(t, svc, alice.ID, bob.ID, "two")
	sendText(t, svc, alice.ID, bob.ID, "three")

	total, err := svc.GetUnreadMessageCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// Revealing does not touch unread counts.
	revealed, err := svc.RevealMessages(bob.ID, []uuid.UUID{m1.ID, m2.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, revealed)

	total, err = svc.GetUnreadMessageCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// Reading lowers them.
	marked, err := svc.MarkMessagesRead(bob.ID, []uuid.UUID{m1.ID, m2.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	total, err = svc.GetUnreadMessageCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// Re-reading the same messages changes nothing.
	marked, err = svc.MarkMessagesRead(bob.ID, []uuid.UUID{m1.ID, m2.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, marked)

	total, err = svc.GetUnreadMessageCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRevealIdempotent(t *testing.T) {
	_, svc, alice, bob := newMessagingFixture(t)
	msg := sendText(t, svc, alice.ID, bob.ID, "hello")

	revealed, err := svc.RevealMessages(bob.ID, []uuid.UUID{msg.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, revealed)

	revealed, err = svc.RevealMessages(bob.ID, []uuid.UUID{msg.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, revealed)

	// Unknown ids are skipped silently.
	revealed, err = svc.RevealMessages(bob.ID, []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 0, revealed)
}

func TestRevealSenderForbidden(t *testing.T) {
	_, svc, alice, bob := newMessagingFixture(t)
	msg := sendText(t, svc, alice.ID, bob.ID, "hello")

	_, err := svc.RevealMessages(alice.ID, []uuid.UUID{msg.ID})
	assert.True(t, IsPermission(err))
}

func TestMarkReadWithoutReveal(t *testing.T) {
	st, svc, alice, bob := newMessagingFixture(t)
	msg := sendText(t, svc, alice.ID, bob.ID, "hello")

	// Reading is independent of the reveal stage.
	marked, err := svc.MarkMessagesRead(bob.ID, []uuid.UUID{msg.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	stored, err := st.GetMessage(msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
	assert.False(t, stored.IsVisibleToRecipient)
}

func TestMarkReadPartialBatchStopsOnForeignMessage(t *testing.T) {
	st, svc, alice, bob := newMessagingFixture(t)
	carol := createUser(t, st, "carol")
	makeFriends(t, st, alice.ID, carol.ID, model.TrustFriend)

	mine := sendText(t, svc, alice.ID, bob.ID, "for bob")
	foreign := sendText(t, svc, alice.ID, carol.ID, "for carol")

	marked, err := svc.MarkMessagesRead(bob.ID, []uuid.UUID{mine.ID, foreign.ID})
	require.Error(t, err)
	assert.True(t, IsPermission(err))
	assert.Equal(t, 1, marked)

	// The flag on the first message stuck.
	stored, err := st.GetMessage(mine.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)

	// The foreign message is untouched.
	stored, err = st.GetMessage(foreign.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsRead)
}

func TestUnreadCountNeverNegative(t *testing.T) {
	st, svc, alice, bob := newMessagingFixture(t)
	sendText(t, svc, alice.ID, bob.ID, "one")
	convID := model.ConversationID(alice.ID, bob.ID)

	require.NoError(t, st.DecrementUnread(convID, bob.ID, 100))

	conv, err := st.GetConversation(convID)
	require.NoError(t, err)
	assert.Equal(t, 0, conv.UnreadCountFor(bob.ID))
}

func TestConversationMessagesVisibility(t *testing.T) {
	_, svc, alice, bob := newMessagingFixture(t)

	m1 := sendText(t, svc, alice.ID, bob.ID, "one")
	sendText(t, svc, alice.ID, bob.ID, "two")

	// The sender sees everything.
	page, err := svc.GetConversationMessages(alice.ID, bob.ID, 50, nil)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 2)

	// The recipient sees nothing until a reveal.
	page, err = svc.GetConversationMessages(bob.ID, alice.ID, 50, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)

	_, err = svc.RevealMessages(bob.ID, []uuid.UUID{m1.ID})
	require.NoError(t, err)

	page, err = svc.GetConversationMessages(bob.ID, alice.ID, 50, nil)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "one", page.Messages[0].Content)
}

func TestConversationMessagesOrderAndPaging(t *testing.T) {
	st, svc, alice, bob := newMessagingFixture(t)
	convID := model.ConversationID(alice.ID, bob.ID)
	require.NoError(t, st.CreateConversation(model.NewConversation(alice.ID, bob.ID)))

	base := time.Now().Add(-time.Hour)
	ids := make([]uuid.UUID, 5)
	for i := 0; i < 5; i++ {
		ids[i] = uuid.New()
		require.NoError(t, st.CreateMessage(&model.Message{
			ID: ids[i], ConversationID: convID,
			SenderID: alice.ID, RecipientID: bob.ID,
			Content: string(rune('a' + i)), ContentType: model.ContentText,
			IsVisibleToRecipient: true,
			CreatedAt:            base.Add(time.Duration(i) * time.Minute),
		}))
	}

	// First page: the two newest, oldest first within the page.
	page, err := svc.GetConversationMessages(bob.ID, alice.ID, 2, nil)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "d", page.Messages[0].Content)
	assert.Equal(t, "e", page.Messages[1].Content)
	assert.True(t, page.HasMore)

	// Second page continues strictly before the cursor.
	cursor := page.Messages[0].ID
	page, err = svc.GetConversationMessages(bob.ID, alice.ID, 2, &cursor)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "b", page.Messages[0].Content)
	assert.Equal(t, "c", page.Messages[1].Content)

	// Last page comes up short.
	cursor = page.Messages[0].ID
	page, err = svc.GetConversationMessages(bob.ID, alice.ID, 2, &cursor)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "a", page.Messages[0].Content)
	assert.False(t, page.HasMore)
}

func TestConversationMessagesCursorValidation(t *testing.T) {
	_, svc, alice, bob := newMessagingFixture(t)
	sendText(t, svc, alice.ID, bob.ID, "one")

	stray := uuid.New()
	_, err := svc.GetConversationMessages(alice.ID, bob.ID, 50, &stray)
	assert.True(t, IsValidation(err))
}

func TestConversationMessagesNoConversation(t *testing.T) {
	st, svc, alice, _ := newMessagingFixture(t)
	carol := createUser(t, st, "carol")
	makeFriends(t, st, alice.ID, carol.ID, model.TrustFriend)

	page, err := svc.GetConversationMessages(alice.ID, carol.ID, 50, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.False(t, page.HasMore)
}

func TestConversationMessagesTrustGate(t *testing.T) {
	st, svc, alice, _ := newMessagingFixture(t)
	carol := createUser(t, st, "carol")

	// Listing carries the same trust gate as sending.
	_, err := svc.GetConversationMessages(alice.ID, carol.ID, 50, nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	makeFriends(t, st, alice.ID, carol.ID, model.TrustAcquaintance)
	_, err = svc.GetConversationMessages(alice.ID, carol.ID, 50, nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestGetConversations(t *testing.T) {
	st, svc, alice, bob := newMessagingFixture(t)
	carol := createUser(t, st, "carol")
	makeFriends(t, st, alice.ID, carol.ID, model.TrustFriend)

	sendText(t, svc, alice.ID, bob.ID, "to bob")
	sendText(t, svc, alice.ID, carol.ID, "to carol")

	convs, err := svc.GetConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	// Most recent conversation first.
	assert.Equal(t, carol.ID, convs[0].PeerID)
	assert.Equal(t, 0, convs[0].UnreadCount)

	convs, err = svc.GetConversations(bob.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, alice.ID, convs[0].PeerID)
	assert.Equal(t, 1, convs[0].UnreadCount)
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	st, svc, alice, bob := newMessagingFixture(t)
	msg := sendText(t, svc, alice.ID, bob.ID, "oops")

	err := svc.DeleteMessage(bob.ID, msg.ID)
	assert.True(t, IsPermission(err))

	require.NoError(t, svc.DeleteMessage(alice.ID, msg.ID))

	stored, err := st.GetMessage(msg.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	err = svc.DeleteMessage(alice.ID, msg.ID)
	assert.True(t, IsValidation(err))
}
