package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/idx"
	"github.com/stretchr/testify/require"
)

func insertRecord(t *testing.T, st store.Store, userID string, checkInAt time.Time) domain.AttendanceRecord {
	t.Helper()

	rec := domain.AttendanceRecord{
		ID:         idx.New().String(),
		UserID:     userID,
		Day:        checkInAt.Format(domain.DayFormat),
		CheckInAt:  checkInAt,
		CheckInLat: officeLat,
		CheckInLng: officeLng,
	}
	require.NoError(t, st.Attendance().CreateRecord(context.Background(), rec))
	return rec
}

func TestLedgerEmployeeSeesOnlyOwnRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &LedgerService{Store: st}

	alice := createTestUser(t, st, domain.RoleEmployee, nil)
	bob := createTestUser(t, st, domain.RoleEmployee, nil)

	insertRecord(t, st, alice.ID, time.Now().Add(-48*time.Hour))
	insertRecord(t, st, bob.ID, time.Now().Add(-24*time.Hour))

	records, err := svc.ListRecords(ctx, alice.ID, domain.RoleEmployee, LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, alice.ID, records[0].UserID)
}

func TestLedgerAdminFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &LedgerService{Store: st}

	admin := createTestUser(t, st, domain.RoleAdmin, nil)
	eng := createTestUser(t, st, domain.RoleEmployee, nil) // engineering
	sales := domain.User{
		ID:           idx.New().String(),
		Email:        "sales@example.com",
		Name:         "Sales Person",
		Department:   "sales",
		PasswordHash: "x",
		Role:         domain.RoleEmployee,
	}
	require.NoError(t, st.Users().CreateUser(ctx, sales))

	recent := insertRecord(t, st, eng.ID, time.Now().Add(-2*24*time.Hour))
	old := insertRecord(t, st, eng.ID, time.Now().Add(-10*24*time.Hour))
	insertRecord(t, st, sales.ID, time.Now().Add(-24*time.Hour))

	// Department filter only.
	records, err := svc.ListRecords(ctx, admin.ID, domain.RoleAdmin,
		LedgerFilter{Department: "engineering"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	require.Equal(t, recent.ID, records[0].ID)
	require.Equal(t, old.ID, records[1].ID)

	// Week window drops the 10-day-old record.
	records, err = svc.ListRecords(ctx, admin.ID, domain.RoleAdmin,
		LedgerFilter{Department: "engineering", Period: PeriodWeek})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, recent.ID, records[0].ID)

	// Month window keeps the 10-day-old record too.
	records, err = svc.ListRecords(ctx, admin.ID, domain.RoleAdmin,
		LedgerFilter{Department: "engineering", Period: PeriodMonth})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Unfiltered admin query sees all departments.
	records, err = svc.ListRecords(ctx, admin.ID, domain.RoleAdmin, LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestLedgerMonthWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &LedgerService{Store: st}

	admin := createTestUser(t, st, domain.RoleAdmin, nil)
	emp := createTestUser(t, st, domain.RoleEmployee, nil)

	kept := insertRecord(t, st, emp.ID, time.Now().AddDate(0, 0, -20))
	insertRecord(t, st, emp.ID, time.Now().AddDate(0, 0, -40))

	records, err := svc.ListRecords(ctx, admin.ID, domain.RoleAdmin,
		LedgerFilter{Period: PeriodMonth})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, kept.ID, records[0].ID)

	// The employee view applies the same window.
	records, err = svc.ListRecords(ctx, emp.ID, domain.RoleEmployee,
		LedgerFilter{Period: PeriodMonth})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, kept.ID, records[0].ID)
}

func TestLedgerRejectsUnknownPeriod(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &LedgerService{Store: st}

	admin := createTestUser(t, st, domain.RoleAdmin, nil)

	_, err := svc.ListRecords(ctx, admin.ID, domain.RoleAdmin,
		LedgerFilter{Period: "fortnight"})
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestLedgerSynthesizesPlaceholdersWhenEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &LedgerService{Store: st}

	admin := createTestUser(t, st, domain.RoleAdmin, nil)
	emp1 := createTestUser(t, st, domain.RoleEmployee, nil)
	emp2 := createTestUser(t, st, domain.RoleEmployee, nil)

	records, err := svc.ListRecords(ctx, admin.ID, domain.RoleAdmin, LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	seen := map[string]bool{}
	for _, rec := range records {
		require.True(t, rec.Placeholder)
		require.Equal(t, domain.StateNoRecord, rec.State())
		require.Empty(t, rec.ID)
		seen[rec.UserID] = true
	}
	require.True(t, seen[emp1.ID])
	require.True(t, seen[emp2.ID])

	// Placeholders are never persisted: a later real record replaces them.
	insertRecord(t, st, emp1.ID, time.Now().Add(-time.Hour))
	records, err = svc.ListRecords(ctx, admin.ID, domain.RoleAdmin, LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.False(t, records[0].Placeholder)
}

func TestNoPlaceholdersWhenFilterExcludesExistingRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &LedgerService{Store: st}

	admin := createTestUser(t, st, domain.RoleAdmin, nil)
	emp := createTestUser(t, st, domain.RoleEmployee, nil)

	// The only record is older than the week window.
	insertRecord(t, st, emp.ID, time.Now().AddDate(0, 0, -10))

	records, err := svc.ListRecords(ctx, admin.ID, domain.RoleAdmin,
		LedgerFilter{Period: PeriodWeek})
	require.NoError(t, err)
	require.Empty(t, records)

	// Same for a department filter that matches nothing.
	records, err = svc.ListRecords(ctx, admin.ID, domain.RoleAdmin,
		LedgerFilter{Department: "sales"})
	require.NoError(t, err)
	require.Empty(t, records)
}
