package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/geox"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidGeofence = errors.New("invalid geofence definition")
)

// UserService covers profile reads and updates plus the admin-only geofence
// assignment.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ProfileUpdate carries the fields a user may change on their own account.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name          *string
	Department    *string
	Notifications *bool
}

// UpdateProfile applies a partial profile update and returns the result.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	userID string,
	update ProfileUpdate,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return domain.User{}, ErrInvalidRequest
		}
		user.Name = name
	}
	if update.Department != nil {
		user.Department = strings.TrimSpace(*update.Department)
	}
	if update.Notifications != nil {
		user.Notifications.Enabled = *update.Notifications
	}

	if err := s.Store.Users().UpdateProfile(
		ctx, userID, user.Name, user.Department, user.Notifications,
	); err != nil {
		log.Error("failed to update profile",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return domain.User{}, err
	}

	log.Info("profile updated", slog.String("user_id", userID))
	return user, nil
}

// AssignGeofence sets or replaces the target user's geofence. A zero or
// negative radius falls back to the standard radius. Admin only; the handler
// enforces the scope.
func (s *UserService) AssignGeofence(
	ctx context.Context,
	userID string,
	fence domain.Geofence,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	center := geox.Point{Latitude: fence.Latitude, Longitude: fence.Longitude}
	if !geox.Valid(center) {
		return domain.User{}, ErrInvalidGeofence
	}
	if fence.RadiusM <= 0 {
		fence.RadiusM = geox.DefaultRadiusM
	}
	if fence.Name == "" {
		return domain.User{}, ErrInvalidGeofence
	}

	if err := s.Store.Users().SetGeofence(ctx, userID, &fence); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		log.Error("failed to assign geofence",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return domain.User{}, err
	}

	log.Info("geofence assigned",
		slog.String("user_id", userID),
		slog.String("fence", fence.Name),
		slog.Float64("radius_m", fence.RadiusM),
	)

	return s.GetUserByID(ctx, userID)
}

// ListUsers returns all accounts, optionally narrowed to one department.
func (s *UserService) ListUsers(ctx context.Context, department string) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx, department)
}
