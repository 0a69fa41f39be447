package service

import (
	"testing"
	"time"

	"bubble_server/model"
	"bubble_server/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(st *store.Memory) *UserService {
	return NewUserService(st, st, NewAddressLockPolicy(90))
}

func TestUpdateAddressFirstRegistration(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")

	updated, err := svc.UpdateAddress(user.ID, model.AddressTypeHome, 35.6812, 139.7671)
	require.NoError(t, err)
	require.NotNil(t, updated.HomeAddress)
	assert.Equal(t, 35.6812, updated.HomeAddress.Latitude)
	assert.WithinDuration(t, time.Now(), updated.HomeAddress.LastChangedAt, time.Minute)
}

func TestUpdateAddressLocked(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")
	user.HomeAddress = &model.Address{
		Latitude: 35.0, Longitude: 139.0,
		RegisteredAt: daysAgo(10), LastChangedAt: daysAgo(10),
	}
	require.NoError(t, st.SaveUser(user))

	_, err := svc.UpdateAddress(user.ID, model.AddressTypeHome, 36.0, 140.0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "80 days remaining")

	// The address was not touched.
	stored, err := st.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 35.0, stored.HomeAddress.Latitude)
}

func TestUpdateAddressAfterLockElapsed(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")
	user.HomeAddress = &model.Address{
		Latitude: 35.0, Longitude: 139.0,
		RegisteredAt: daysAgo(120), LastChangedAt: daysAgo(95),
	}
	require.NoError(t, st.SaveUser(user))

	updated, err := svc.UpdateAddress(user.ID, model.AddressTypeHome, 36.0, 140.0)
	require.NoError(t, err)
	assert.Equal(t, 36.0, updated.HomeAddress.Latitude)
	// The cooldown clock restarts.
	assert.WithinDuration(t, time.Now(), updated.HomeAddress.LastChangedAt, time.Minute)
}

func TestUpdateAddressIndependentPerType(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")
	user.HomeAddress = &model.Address{
		Latitude: 35.0, Longitude: 139.0,
		RegisteredAt: daysAgo(5), LastChangedAt: daysAgo(5),
	}
	require.NoError(t, st.SaveUser(user))

	// A locked home address does not block registering a work address.
	updated, err := svc.UpdateAddress(user.ID, model.AddressTypeWork, 35.69, 139.70)
	require.NoError(t, err)
	require.NotNil(t, updated.WorkAddress)
}

func TestUpdateAddressValidation(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")

	_, err := svc.UpdateAddress(user.ID, model.AddressType("vacation"), 35.0, 139.0)
	assert.True(t, IsValidation(err))

	_, err = svc.UpdateAddress(user.ID, model.AddressTypeHome, 95.0, 139.0)
	assert.True(t, IsValidation(err))
}

func TestGetAddressStatus(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")

	status, err := svc.GetAddressStatus(user.ID, model.AddressTypeHome)
	require.NoError(t, err)
	assert.False(t, status.IsRegistered)
	assert.True(t, status.CanChange)
	assert.Nil(t, status.DaysRemaining)

	user.HomeAddress = &model.Address{LastChangedAt: daysAgo(30)}
	require.NoError(t, st.SaveUser(user))

	status, err = svc.GetAddressStatus(user.ID, model.AddressTypeHome)
	require.NoError(t, err)
	assert.True(t, status.IsRegistered)
	assert.False(t, status.CanChange)
	require.NotNil(t, status.DaysRemaining)
	assert.Equal(t, 60, *status.DaysRemaining)
}

func TestCreateAddressChangeRequestRequiresLock(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")

	// No lock in effect: the exception workflow is not available.
	_, err := svc.CreateAddressChangeRequest(user.ID, &AddressChangeRequestInput{
		AddressType: model.AddressTypeHome,
		NewLatitude: 36.0, NewLongitude: 140.0,
		Reason: model.ReasonMoving,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCreateAddressChangeRequest(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")
	user.HomeAddress = &model.Address{
		Latitude: 35.0, Longitude: 139.0,
		RegisteredAt: daysAgo(10), LastChangedAt: daysAgo(10),
	}
	require.NoError(t, st.SaveUser(user))

	req, err := svc.CreateAddressChangeRequest(user.ID, &AddressChangeRequestInput{
		AddressType: model.AddressTypeHome,
		NewLatitude: 36.0, NewLongitude: 140.0,
		Reason: model.ReasonJobChange,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ChangePending, req.Status)
	require.NotNil(t, req.CurrentLatitude)
	assert.Equal(t, 35.0, *req.CurrentLatitude)

	reqs, err := svc.ListAddressChangeRequests(user.ID)
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}

func TestCustomLocationLifecycle(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")

	name := "Gym"
	lat, lon := 35.66, 139.70
	updated, err := svc.AddCustomLocation(user.ID, &CustomLocationInput{
		Name: &name, Latitude: &lat, Longitude: &lon,
	})
	require.NoError(t, err)
	require.Len(t, updated.CustomLocations, 1)
	assert.Equal(t, model.DefaultCustomRadiusMeters, updated.CustomLocations[0].RadiusMeters)
	assert.Equal(t, model.DefaultCustomColor, updated.CustomLocations[0].Color)

	radius := 250
	updated, err = svc.UpdateCustomLocation(user.ID, 0, &CustomLocationInput{RadiusMeters: &radius})
	require.NoError(t, err)
	assert.Equal(t, 250, updated.CustomLocations[0].RadiusMeters)
	assert.Equal(t, "Gym", updated.CustomLocations[0].Name)

	updated, err = svc.DeleteCustomLocation(user.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.CustomLocations)
}

func TestCustomLocationLimit(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")
	for i := 0; i < model.MaxCustomLocations; i++ {
		user.CustomLocations = append(user.CustomLocations, model.CustomLocation{
			Name: "Zone", Latitude: 35, Longitude: 139,
			RadiusMeters: 100, Color: model.DefaultCustomColor,
		})
	}
	require.NoError(t, st.SaveUser(user))

	name := "One Too Many"
	lat, lon := 35.0, 139.0
	_, err := svc.AddCustomLocation(user.ID, &CustomLocationInput{
		Name: &name, Latitude: &lat, Longitude: &lon,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCustomLocationRadiusValidation(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")

	name := "Gym"
	lat, lon := 35.0, 139.0
	tooSmall := 5
	_, err := svc.AddCustomLocation(user.ID, &CustomLocationInput{
		Name: &name, Latitude: &lat, Longitude: &lon, RadiusMeters: &tooSmall,
	})
	assert.True(t, IsValidation(err))

	tooBig := 2000
	_, err = svc.AddCustomLocation(user.ID, &CustomLocationInput{
		Name: &name, Latitude: &lat, Longitude: &lon, RadiusMeters: &tooBig,
	})
	assert.True(t, IsValidation(err))
}

func TestUpdateProfile(t *testing.T) {
	st := store.NewMemory()
	svc := newUserService(st)
	user := createUser(t, st, "alice")

	newName := "Alice B."
	updated, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{DisplayName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", updated.DisplayName)

	empty := ""
	_, err = svc.UpdateProfile(user.ID, &UpdateProfileRequest{DisplayName: &empty})
	assert.True(t, IsValidation(err))
}
