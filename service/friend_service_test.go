package service

import (
	"testing"

	"bubble_server/model"
	"bubble_server/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendFriendRequest(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")

	req, err := svc.SendFriendRequest(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, req.Status)

	received, err := svc.GetReceivedRequests(bob.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, alice.ID, received[0].FromUserID)

	sent, err := svc.GetSentRequests(alice.ID)
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}

func TestSendFriendRequestValidation(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")

	_, err := svc.SendFriendRequest(alice.ID, alice.ID, nil)
	assert.True(t, IsValidation(err))

	_, err = svc.SendFriendRequest(alice.ID, uuid.New(), nil)
	assert.True(t, IsValidation(err))

	// Duplicate pending request.
	_, err = svc.SendFriendRequest(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	_, err = svc.SendFriendRequest(alice.ID, bob.ID, nil)
	assert.True(t, IsValidation(err))

	// Already friends.
	carol := createUser(t, st, "carol")
	makeFriends(t, st, alice.ID, carol.ID, model.TrustFriend)
	_, err = svc.SendFriendRequest(alice.ID, carol.ID, nil)
	assert.True(t, IsValidation(err))
}

func TestAcceptFriendRequestCreatesBothEdges(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")

	req, err := svc.SendFriendRequest(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	edge, err := svc.AcceptFriendRequest(bob.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TrustFriend, edge.TrustLevel)

	// Both directions exist, independently owned.
	mine, err := svc.GetTrustLevel(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, model.TrustFriend, *mine)

	theirs, err := svc.GetTrustLevel(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, theirs)
	assert.Equal(t, model.TrustFriend, *theirs)
}

func TestAcceptFriendRequestPermissions(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	mallory := createUser(t, st, "mallory")

	req, err := svc.SendFriendRequest(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	// Only the addressee may respond.
	_, err = svc.AcceptFriendRequest(mallory.ID, req.ID)
	assert.True(t, IsPermission(err))

	_, err = svc.AcceptFriendRequest(bob.ID, uuid.New())
	assert.True(t, IsValidation(err))

	// A request cannot be answered twice.
	_, err = svc.AcceptFriendRequest(bob.ID, req.ID)
	require.NoError(t, err)
	_, err = svc.AcceptFriendRequest(bob.ID, req.ID)
	assert.True(t, IsValidation(err))
}

func TestRejectFriendRequest(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")

	req, err := svc.SendFriendRequest(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.RejectFriendRequest(bob.ID, req.ID))

	// No edges were created.
	trust, err := svc.GetTrustLevel(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, trust)

	// A fresh request may follow a rejection.
	_, err = svc.SendFriendRequest(alice.ID, bob.ID, nil)
	require.NoError(t, err)
}

func TestUpdateFriendshipTrustLevel(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	makeFriends(t, st, alice.ID, bob.ID, model.TrustFriend)

	level := model.TrustBestFriend
	edge, err := svc.UpdateFriendship(alice.ID, bob.ID, &level, nil)
	require.NoError(t, err)
	assert.Equal(t, model.TrustBestFriend, edge.TrustLevel)

	// Trust levels are per direction: bob's side is untouched.
	theirs, err := svc.GetTrustLevel(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, theirs)
	assert.Equal(t, model.TrustFriend, *theirs)
}

func TestUpdateFriendshipValidation(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")

	level := 3
	_, err := svc.UpdateFriendship(alice.ID, bob.ID, &level, nil)
	assert.True(t, IsValidation(err))

	makeFriends(t, st, alice.ID, bob.ID, model.TrustFriend)
	outOfRange := 6
	_, err = svc.UpdateFriendship(alice.ID, bob.ID, &outOfRange, nil)
	assert.True(t, IsValidation(err))
}

func TestRemoveFriendDeletesBothEdges(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	makeFriends(t, st, alice.ID, bob.ID, model.TrustFriend)

	require.NoError(t, svc.RemoveFriend(alice.ID, bob.ID))

	mine, err := svc.GetTrustLevel(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, mine)
	theirs, err := svc.GetTrustLevel(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, theirs)

	err = svc.RemoveFriend(alice.ID, bob.ID)
	assert.True(t, IsValidation(err))
}

func TestBlockUser(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	makeFriends(t, st, alice.ID, bob.ID, model.TrustFriend)

	require.NoError(t, svc.BlockUser(alice.ID, bob.ID))

	// A blocked edge no longer counts as a friendship on the blocker's side.
	isFriend, err := svc.IsFriend(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isFriend)

	// The other side is unaffected.
	isFriend, err = svc.IsFriend(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, isFriend)

	// Blocking a stranger is a silent no-op.
	require.NoError(t, svc.BlockUser(alice.ID, uuid.New()))
}

func TestGetFriends(t *testing.T) {
	st := store.NewMemory()
	svc := NewFriendService(st, st)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	carol := createUser(t, st, "carol")
	makeFriends(t, st, alice.ID, bob.ID, model.TrustFriend)
	makeFriends(t, st, alice.ID, carol.ID, model.TrustCloseFriend)

	friends, err := svc.GetFriends(alice.ID)
	require.NoError(t, err)
	assert.Len(t, friends, 2)
}
