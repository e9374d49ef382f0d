package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/geox"
	"github.com/aussiebroadwan/rollcall/pkg/idx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

var (
	ErrNoGeofence         = errors.New("no geofence assigned")
	ErrOutsideGeofence    = errors.New("position is outside the assigned geofence")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrStaleSample        = errors.New("position sample is too old")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrAlreadyCheckedOut  = errors.New("already checked out today")
	ErrNotCheckedIn       = errors.New("not checked in today")
)

// DefaultMaxSampleAge bounds how old a position sample may be at transition
// time. Check-in/out must use a fresh fix, not a cached one.
const DefaultMaxSampleAge = 2 * time.Minute

// Sample is a device position fix supplied with a transition request.
type Sample struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // metres, informational
	TakenAt   time.Time
}

// AttendanceService drives the per-user per-day state machine
// NoRecord -> CheckedIn -> CheckedOut. Transitions for the same user are
// serialised with a keyed mutex; the (user, day) unique index backs this up
// across processes.
type AttendanceService struct {
	Store        store.Store
	MaxSampleAge time.Duration

	locks sync.Map // map[string]*sync.Mutex, keyed by user ID
}

func (s *AttendanceService) userLock(userID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// maxSampleAge returns the configured freshness bound or the default.
func (s *AttendanceService) maxSampleAge() time.Duration {
	if s.MaxSampleAge > 0 {
		return s.MaxSampleAge
	}
	return DefaultMaxSampleAge
}

// validateSample checks coordinates and freshness, then evaluates the
// sample against the user's geofence.
func (s *AttendanceService) validateSample(
	ctx context.Context,
	user domain.User,
	sample Sample,
) error {
	log := slogx.FromContext(ctx)

	p := geox.Point{Latitude: sample.Latitude, Longitude: sample.Longitude}
	if !geox.Valid(p) {
		return ErrInvalidCoordinates
	}

	if sample.TakenAt.IsZero() || time.Since(sample.TakenAt) > s.maxSampleAge() {
		log.Warn("rejected stale position sample",
			slog.String("user_id", user.ID),
			slog.Time("taken_at", sample.TakenAt),
		)
		return ErrStaleSample
	}

	if user.Geofence == nil {
		// Stays in NoRecord until an admin assigns a fence.
		return ErrNoGeofence
	}

	fence := user.Geofence.Fence()
	if !fence.Contains(p) {
		log.Warn("transition attempted outside geofence",
			slog.String("user_id", user.ID),
			slog.String("fence", fence.Name),
			slog.Float64("distance_km", geox.DistanceKm(fence.Center, p)),
		)
		return ErrOutsideGeofence
	}

	return nil
}

// CheckIn opens today's attendance record for the user. The sample must be
// fresh and inside the user's geofence; a second check-in on the same
// calendar day is rejected.
func (s *AttendanceService) CheckIn(
	ctx context.Context,
	userID string,
	sample Sample,
) (domain.AttendanceRecord, error) {
	log := slogx.FromContext(ctx)

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.AttendanceRecord{}, err
	}

	if err := s.validateSample(ctx, user, sample); err != nil {
		return domain.AttendanceRecord{}, err
	}

	day := sample.TakenAt.Format(domain.DayFormat)

	_, err = s.Store.Attendance().GetRecord(ctx, userID, day)
	if err == nil {
		return domain.AttendanceRecord{}, ErrAlreadyCheckedIn
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to read attendance record", slog.Any("error", err))
		return domain.AttendanceRecord{}, err
	}

	rec := domain.AttendanceRecord{
		ID:         idx.New().String(),
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Department: user.Department,
		Day:        day,
		CheckInAt:  sample.TakenAt,
		CheckInLat: sample.Latitude,
		CheckInLng: sample.Longitude,
	}

	if err := s.Store.Attendance().CreateRecord(ctx, rec); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.AttendanceRecord{}, ErrAlreadyCheckedIn
		}
		log.Error("failed to create attendance record", slog.Any("error", err))
		return domain.AttendanceRecord{}, err
	}

	log.Info("checked in",
		slog.String("user_id", user.ID),
		slog.String("day", day),
	)

	return rec, nil
}

// CheckOut closes today's open record. The sample must still be fresh and
// inside the geofence. TotalHours is the check-in to check-out span rounded
// to two decimal places; the record is terminal afterwards.
func (s *AttendanceService) CheckOut(
	ctx context.Context,
	userID string,
	sample Sample,
) (domain.AttendanceRecord, error) {
	log := slogx.FromContext(ctx)

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.AttendanceRecord{}, err
	}

	if err := s.validateSample(ctx, user, sample); err != nil {
		return domain.AttendanceRecord{}, err
	}

	day := sample.TakenAt.Format(domain.DayFormat)

	rec, err := s.Store.Attendance().GetRecord(ctx, userID, day)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AttendanceRecord{}, ErrNotCheckedIn
		}
		log.Error("failed to read attendance record", slog.Any("error", err))
		return domain.AttendanceRecord{}, err
	}

	switch rec.State() {
	case domain.StateCheckedOut:
		return domain.AttendanceRecord{}, ErrAlreadyCheckedOut
	case domain.StateCheckedIn:
		// proceed
	default:
		return domain.AttendanceRecord{}, ErrNotCheckedIn
	}

	if !sample.TakenAt.After(rec.CheckInAt) {
		return domain.AttendanceRecord{}, ErrStaleSample
	}

	hours := domain.Duration(rec.CheckInAt, sample.TakenAt)
	if err := s.Store.Attendance().CloseRecord(
		ctx, rec.ID, sample.TakenAt, sample.Latitude, sample.Longitude, hours,
	); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Raced with another check-out on the same record.
			return domain.AttendanceRecord{}, ErrAlreadyCheckedOut
		}
		log.Error("failed to close attendance record", slog.Any("error", err))
		return domain.AttendanceRecord{}, err
	}

	out := sample.TakenAt
	lat, lng := sample.Latitude, sample.Longitude
	rec.CheckOutAt = &out
	rec.CheckOutLat = &lat
	rec.CheckOutLng = &lng
	rec.TotalHours = &hours

	log.Info("checked out",
		slog.String("user_id", user.ID),
		slog.String("day", day),
		slog.Float64("total_hours", hours),
	)

	return rec, nil
}
