package domain

import (
	"math"
	"time"
)

// DayFormat is the calendar-day key for attendance records, in the
// employee's local time zone.
const DayFormat = "2006-01-02"

// AttendanceState is the explicit per-day state machine:
// NoRecord -> CheckedIn -> CheckedOut (terminal for that day).
type AttendanceState string

const (
	StateNoRecord   AttendanceState = "no_record"
	StateCheckedIn  AttendanceState = "checked_in"
	StateCheckedOut AttendanceState = "checked_out"
)

// AttendanceRecord is one user's attendance for one calendar day.
// Check-out fields are nil until the day is closed; after check-out the
// record is immutable.
type AttendanceRecord struct {
	ID         string
	UserID     string
	Email      string
	Name       string
	Department string
	Day        string // DayFormat

	CheckInAt  time.Time
	CheckInLat float64
	CheckInLng float64

	CheckOutAt  *time.Time
	CheckOutLat *float64
	CheckOutLng *float64
	TotalHours  *float64

	// Placeholder marks a synthesized "no attendance recorded" row shown to
	// admins for employees without any ledger entries. Never persisted.
	Placeholder bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State derives the tagged state from the record's fields.
func (r AttendanceRecord) State() AttendanceState {
	switch {
	case r.Placeholder || r.CheckInAt.IsZero():
		return StateNoRecord
	case r.CheckOutAt == nil:
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}

// Duration computes worked hours between check-in and out, rounded to two
// decimal places.
func Duration(checkIn, checkOut time.Time) float64 {
	hours := checkOut.Sub(checkIn).Hours()
	return math.Round(hours*100) / 100
}

// LocationSnapshot is the last known position of one employee, overwritten
// on every refresh. It is a presence hint, not a historical track.
type LocationSnapshot struct {
	UserID     string
	Latitude   float64
	Longitude  float64
	Inside     bool
	RecordedAt time.Time
}
