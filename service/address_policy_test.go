package service

import (
	"testing"
	"time"

	"bubble_server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressLockPolicyUnregistered(t *testing.T) {
	policy := NewAddressLockPolicy(90)

	assert.True(t, policy.CanChange(nil))
	assert.Nil(t, policy.DaysRemaining(nil))
}

func TestAddressLockPolicyInsideWindow(t *testing.T) {
	policy := NewAddressLockPolicy(90)
	addr := &model.Address{LastChangedAt: daysAgo(10)}

	assert.False(t, policy.CanChange(addr))
	remaining := policy.DaysRemaining(addr)
	require.NotNil(t, remaining)
	assert.Equal(t, 80, *remaining)
}

func TestAddressLockPolicyWindowElapsed(t *testing.T) {
	policy := NewAddressLockPolicy(90)
	addr := &model.Address{LastChangedAt: daysAgo(91)}

	assert.True(t, policy.CanChange(addr))
	remaining := policy.DaysRemaining(addr)
	require.NotNil(t, remaining)
	assert.Equal(t, 0, *remaining)
}

func TestAddressLockPolicyBoundary(t *testing.T) {
	policy := NewAddressLockPolicy(90)

	// A hair past the full 90 days counts as elapsed.
	addr := &model.Address{LastChangedAt: daysAgo(90).Add(-time.Minute)}
	assert.True(t, policy.CanChange(addr))

	// Just short of 90 full days is still locked.
	addr = &model.Address{LastChangedAt: daysAgo(89)}
	assert.False(t, policy.CanChange(addr))
}
