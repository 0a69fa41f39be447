package service

import (
	"time"

	"bubble_server/model"
)

// AddressLockPolicy owns the cooldown on anchor address changes. First
// registration sets last_changed_at too, so it also starts the clock.
type AddressLockPolicy struct {
	LockDays int
}

func NewAddressLockPolicy(lockDays int) AddressLockPolicy {
	return AddressLockPolicy{LockDays: lockDays}
}

// CanChange reports whether the address may be written: always true when
// unregistered, otherwise only after the lock window has fully elapsed.
func (p AddressLockPolicy) CanChange(addr *model.Address) bool {
	if addr == nil {
		return true
	}
	daysSince := int(time.Since(addr.LastChangedAt).Hours() / 24)
	return daysSince >= p.LockDays
}

// DaysRemaining returns the days left until the address may change again,
// floored at 0. Nil when the address is unregistered.
func (p AddressLockPolicy) DaysRemaining(addr *model.Address) *int {
	if addr == nil {
		return nil
	}
	daysSince := int(time.Since(addr.LastChangedAt).Hours() / 24)
	remaining := p.LockDays - daysSince
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
