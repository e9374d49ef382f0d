package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/pkg/geox"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdateProfilePartial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &UserService{Store: st}

	user := createTestUser(t, st, domain.RoleEmployee, nil)

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Name:          strPtr("New Name"),
		Notifications: boolPtr(false),
	})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
	require.False(t, updated.Notifications.Enabled)
	// Untouched fields survive.
	require.Equal(t, user.Department, updated.Department)

	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: strPtr("  ")})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAssignGeofenceDefaultsRadius(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &UserService{Store: st}

	user := createTestUser(t, st, domain.RoleEmployee, nil)

	updated, err := svc.AssignGeofence(ctx, user.ID, domain.Geofence{
		Name:      "HQ",
		Latitude:  officeLat,
		Longitude: officeLng,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Geofence)
	require.Equal(t, geox.DefaultRadiusM, updated.Geofence.RadiusM)

	// Reassignment replaces the fence outright.
	updated, err = svc.AssignGeofence(ctx, user.ID, domain.Geofence{
		Name:      "Warehouse",
		Latitude:  officeLat + 1,
		Longitude: officeLng + 1,
		RadiusM:   250,
	})
	require.NoError(t, err)
	require.Equal(t, "Warehouse", updated.Geofence.Name)
	require.Equal(t, 250.0, updated.Geofence.RadiusM)
}

func TestAssignGeofenceValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &UserService{Store: st}

	user := createTestUser(t, st, domain.RoleEmployee, nil)

	_, err := svc.AssignGeofence(ctx, user.ID, domain.Geofence{
		Name: "Bad", Latitude: 120, Longitude: 0,
	})
	require.ErrorIs(t, err, ErrInvalidGeofence)

	_, err = svc.AssignGeofence(ctx, user.ID, domain.Geofence{
		Latitude: officeLat, Longitude: officeLng,
	})
	require.ErrorIs(t, err, ErrInvalidGeofence)

	_, err = svc.AssignGeofence(ctx, "no-such-user", domain.Geofence{
		Name: "HQ", Latitude: officeLat, Longitude: officeLng,
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestLocationRefreshTracksFenceMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &LocationService{Store: st}

	user := createTestUser(t, st, domain.RoleEmployee, officeFence())

	inside, err := svc.Refresh(ctx, user.ID, Sample{
		Latitude:  officeLat,
		Longitude: officeLng,
		TakenAt:   time.Now(),
	})
	require.NoError(t, err)
	require.True(t, inside.Inside)

	outside, err := svc.Refresh(ctx, user.ID, Sample{
		Latitude:  officeLat + 0.01,
		Longitude: officeLng,
		TakenAt:   time.Now(),
	})
	require.NoError(t, err)
	require.False(t, outside.Inside)

	// Snapshots overwrite, never accumulate.
	snaps, err := svc.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Equal(t, user.ID, snaps[0].UserID)
	require.False(t, snaps[0].Inside)

	snap, err := svc.Snapshot(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, snap.Inside)

	_, err = svc.Snapshot(ctx, "never-refreshed")
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLocationRefreshWithoutFenceIsOutside(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &LocationService{Store: st}

	user := createTestUser(t, st, domain.RoleEmployee, nil)

	snap, err := svc.Refresh(ctx, user.ID, Sample{
		Latitude:  officeLat,
		Longitude: officeLng,
		TakenAt:   time.Now(),
	})
	require.NoError(t, err)
	require.False(t, snap.Inside)
}
