package http

import (
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
)

// Request/response shapes for the JSON API. Domain types never cross the
// wire directly; handlers translate at the boundary.

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Department  string `json:"department,omitempty"`
	InviteToken string `json:"invite_token,omitempty"`
}

type BootstrapRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type GeofenceResponse struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusM   float64 `json:"radius_m"`
}

type UserResponse struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	Name          string            `json:"name"`
	Department    string            `json:"department,omitempty"`
	Role          string            `json:"role"`
	Geofence      *GeofenceResponse `json:"geofence,omitempty"`
	Notifications bool              `json:"notifications_enabled"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toUserResponse(u domain.User) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Department:    u.Department,
		Role:          string(u.Role),
		Notifications: u.Notifications.Enabled,
		CreatedAt:     u.CreatedAt,
	}
	if u.Geofence != nil {
		resp.Geofence = &GeofenceResponse{
			Name:      u.Geofence.Name,
			Latitude:  u.Geofence.Latitude,
			Longitude: u.Geofence.Longitude,
			RadiusM:   u.Geofence.RadiusM,
		}
	}
	return resp
}

type UpdateProfileRequest struct {
	Name          *string `json:"name,omitempty"`
	Department    *string `json:"department,omitempty"`
	Notifications *bool   `json:"notifications_enabled,omitempty"`
}

// SampleRequest is a device position fix attached to a transition or
// location refresh.
type SampleRequest struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	TakenAt   time.Time `json:"taken_at"`
}

type AttendanceRecordResponse struct {
	ID         string `json:"id,omitempty"`
	UserID     string `json:"user_id"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
	Day        string `json:"day,omitempty"`
	State      string `json:"state"`

	CheckInAt  *time.Time `json:"check_in_at,omitempty"`
	CheckInLat *float64   `json:"check_in_lat,omitempty"`
	CheckInLng *float64   `json:"check_in_lng,omitempty"`

	CheckOutAt  *time.Time `json:"check_out_at,omitempty"`
	CheckOutLat *float64   `json:"check_out_lat,omitempty"`
	CheckOutLng *float64   `json:"check_out_lng,omitempty"`
	TotalHours  *float64   `json:"total_hours,omitempty"`
}

func toRecordResponse(rec domain.AttendanceRecord) AttendanceRecordResponse {
	resp := AttendanceRecordResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Email:      rec.Email,
		Name:       rec.Name,
		Department: rec.Department,
		Day:        rec.Day,
		State:      string(rec.State()),

		CheckOutAt:  rec.CheckOutAt,
		CheckOutLat: rec.CheckOutLat,
		CheckOutLng: rec.CheckOutLng,
		TotalHours:  rec.TotalHours,
	}
	if !rec.CheckInAt.IsZero() {
		in := rec.CheckInAt
		lat, lng := rec.CheckInLat, rec.CheckInLng
		resp.CheckInAt = &in
		resp.CheckInLat = &lat
		resp.CheckInLng = &lng
	}
	return resp
}

type LedgerResponse struct {
	Records []AttendanceRecordResponse `json:"records"`
}

type InviteMintRequest struct {
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expires_at,omitempty"` // unix seconds, 0 = default TTL
}

type InviteMintResponse struct {
	InviteToken string `json:"invite_token"`
	Email       string `json:"email"`
	ExpiresAt   int64  `json:"expires_at"`
}

type RoleRequestResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Status     string     `json:"status"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toRoleRequestResponse(req domain.RoleRequest) RoleRequestResponse {
	return RoleRequestResponse{
		ID:         req.ID,
		UserID:     req.UserID,
		Status:     string(req.Status),
		ResolvedBy: req.ResolvedBy,
		ResolvedAt: req.ResolvedAt,
		CreatedAt:  req.CreatedAt,
	}
}

type RoleRequestEligibilityResponse struct {
	Eligible      bool       `json:"eligible"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
}

type AssignGeofenceRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusM   float64 `json:"radius_m,omitempty"` // 0 = standard radius
}

type LocationSnapshotResponse struct {
	UserID     string    `json:"user_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Inside     bool      `json:"inside"`
	RecordedAt time.Time `json:"recorded_at"`
}

func toSnapshotResponse(snap domain.LocationSnapshot) LocationSnapshotResponse {
	return LocationSnapshotResponse{
		UserID:     snap.UserID,
		Latitude:   snap.Latitude,
		Longitude:  snap.Longitude,
		Inside:     snap.Inside,
		RecordedAt: snap.RecordedAt,
	}
}

type HealthChecks struct {
	Database string `json:"database,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
