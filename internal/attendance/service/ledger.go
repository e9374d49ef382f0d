package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

var ErrInvalidPeriod = errors.New("invalid period filter")

// Period restricts a ledger query relative to "now" at query time.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"  // [now-7d, now]
	PeriodMonth Period = "month" // [now-1 calendar month, now]
)

// LedgerFilter narrows a ledger query. Department only applies to admins.
type LedgerFilter struct {
	Department string
	Period     Period
}

// LedgerService answers attendance history queries. Employees see only
// their own records; admins see everyone's.
type LedgerService struct {
	Store store.Store
}

// cutoff translates a period into the earliest admissible check-in time.
func cutoff(p Period, now time.Time) (time.Time, error) {
	switch p {
	case PeriodAll, "":
		return time.Time{}, nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), nil
	case PeriodMonth:
		return now.AddDate(0, -1, 0), nil
	default:
		return time.Time{}, ErrInvalidPeriod
	}
}

// ListRecords returns attendance records visible to the requester, newest
// check-in first.
//
// For an admin whose ledger is completely empty while employees exist, the
// result is one placeholder row per employee so the overview screen has
// something to show. Placeholders are never persisted.
func (s *LedgerService) ListRecords(
	ctx context.Context,
	requesterID string,
	role domain.Role,
	filter LedgerFilter,
) ([]domain.AttendanceRecord, error) {
	log := slogx.FromContext(ctx)

	since, err := cutoff(filter.Period, time.Now())
	if err != nil {
		return nil, err
	}

	if role != domain.RoleAdmin {
		records, err := s.Store.Attendance().ListByUser(ctx, requesterID, since)
		if err != nil {
			log.Error("failed to list attendance records", slog.Any("error", err))
			return nil, err
		}
		return records, nil
	}

	records, err := s.Store.Attendance().ListAll(ctx, filter.Department, since)
	if err != nil {
		log.Error("failed to list attendance records", slog.Any("error", err))
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}

	// Placeholders only appear when the ledger has no entries at all. A
	// filter that merely excludes every existing record returns empty.
	all, err := s.Store.Attendance().ListAll(ctx, "", time.Time{})
	if err != nil {
		log.Error("failed to check ledger for placeholders", slog.Any("error", err))
		return nil, err
	}
	if len(all) > 0 {
		return records, nil
	}

	// Empty ledger: synthesize a placeholder per employee on file.
	users, err := s.Store.Users().ListUsers(ctx, filter.Department)
	if err != nil {
		log.Error("failed to list users for placeholders", slog.Any("error", err))
		return nil, err
	}

	var placeholders []domain.AttendanceRecord
	for _, u := range users {
		if u.Role != domain.RoleEmployee {
			continue
		}
		placeholders = append(placeholders, domain.AttendanceRecord{
			UserID:      u.ID,
			Email:       u.Email,
			Name:        u.Name,
			Department:  u.Department,
			Placeholder: true,
		})
	}
	return placeholders, nil
}
