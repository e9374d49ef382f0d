package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/geox"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

// ErrNoSnapshot is returned when a user has never refreshed their location.
var ErrNoSnapshot = errors.New("no location snapshot recorded")

// LocationService maintains the last-known position snapshot per employee.
// Snapshots are a presence hint for admins, not a movement history.
type LocationService struct {
	Store store.Store
}

// Refresh overwrites the user's snapshot with a new position. Inside is
// evaluated against the user's geofence at write time; users without a
// geofence are recorded as outside.
func (s *LocationService) Refresh(
	ctx context.Context,
	userID string,
	sample Sample,
) (domain.LocationSnapshot, error) {
	log := slogx.FromContext(ctx)

	p := geox.Point{Latitude: sample.Latitude, Longitude: sample.Longitude}
	if !geox.Valid(p) {
		return domain.LocationSnapshot{}, ErrInvalidCoordinates
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.LocationSnapshot{}, err
	}

	inside := false
	if user.Geofence != nil {
		inside = user.Geofence.Fence().Contains(p)
	}

	recordedAt := sample.TakenAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	snap := domain.LocationSnapshot{
		UserID:     user.ID,
		Latitude:   sample.Latitude,
		Longitude:  sample.Longitude,
		Inside:     inside,
		RecordedAt: recordedAt,
	}

	if err := s.Store.Locations().UpsertSnapshot(ctx, snap); err != nil {
		log.Error("failed to upsert location snapshot", slog.Any("error", err))
		return domain.LocationSnapshot{}, err
	}

	log.Debug("location refreshed",
		slog.String("user_id", user.ID),
		slog.Bool("inside", inside),
	)

	return snap, nil
}

// Snapshot returns one user's last known position.
func (s *LocationService) Snapshot(ctx context.Context, userID string) (domain.LocationSnapshot, error) {
	snap, err := s.Store.Locations().GetSnapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LocationSnapshot{}, ErrNoSnapshot
		}
		return domain.LocationSnapshot{}, err
	}
	return snap, nil
}

// ListSnapshots returns the last known position of every employee.
func (s *LocationService) ListSnapshots(ctx context.Context) ([]domain.LocationSnapshot, error) {
	return s.Store.Locations().ListSnapshots(ctx)
}
