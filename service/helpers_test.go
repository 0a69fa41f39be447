package service

import (
	"testing"
	"time"

	"bubble_server/model"
	"bubble_server/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, st *store.Memory, name string) *model.User {
	t.Helper()
	u := &model.User{
		ID:          uuid.New(),
		Email:       name + "@example.com",
		DisplayName: name,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, st.SaveUser(u))
	return u
}

// makeFriends creates both directed active edges at the given trust level.
func makeFriends(t *testing.T, st *store.Memory, a, b uuid.UUID, trust int) {
	t.Helper()
	now := time.Now()
	for _, pair := range [][2]uuid.UUID{{a, b}, {b, a}} {
		require.NoError(t, st.SaveFriendship(&model.Friendship{
			ID:         uuid.New(),
			UserID:     pair[0],
			FriendID:   pair[1],
			TrustLevel: trust,
			Status:     model.FriendshipActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}))
	}
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}
