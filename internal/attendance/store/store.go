package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and let services be
// tested against the interface.
type Store interface {
	Users() Users
	Attendance() Attendance
	Invites() Invites
	RoleRequests() RoleRequests
	Locations() Locations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended way to make
	// multi-step mutations atomic (e.g. redeem invite + create user).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// IsEmpty reports whether any user exists at all. Used to gate the
	// one-time bootstrap.
	IsEmpty(ctx context.Context) (bool, error)

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and duplicate-email checks.
	// Emails are stored lower-cased.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates name, department and notification settings,
	// bumps updated_at.
	UpdateProfile(ctx context.Context, userID, name, department string, notifications domain.NotificationSettings) error

	// UpdateRole sets the user's role.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error

	// SetGeofence assigns or replaces the user's geofence; nil clears it.
	SetGeofence(ctx context.Context, userID string, g *domain.Geofence) error

	// ListUsers returns all users ordered by creation date, optionally
	// filtered by department ("" = all).
	ListUsers(ctx context.Context, department string) ([]domain.User, error)
}

type Attendance interface {
	// GetRecord fetches the record for (user, calendar day).
	GetRecord(ctx context.Context, userID, day string) (domain.AttendanceRecord, error)

	// CreateRecord inserts a fresh check-in record. Returns ErrAlreadyExists
	// when a record for (user, day) is already present.
	CreateRecord(ctx context.Context, rec domain.AttendanceRecord) error

	// CloseRecord writes the check-out fields onto an open record.
	CloseRecord(ctx context.Context, id string, checkOutAt time.Time, lat, lng, totalHours float64) error

	// ListByUser returns one user's records with check-in at or after since
	// (zero time = all), newest first.
	ListByUser(ctx context.Context, userID string, since time.Time) ([]domain.AttendanceRecord, error)

	// ListAll returns every user's records, optionally filtered by
	// department, with check-in at or after since, newest first.
	ListAll(ctx context.Context, department string, since time.Time) ([]domain.AttendanceRecord, error)
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the SHA-256
	// fingerprint of the opaque invite token).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetActiveInviteByTokenHash returns a not-used, not-expired invite.
	GetActiveInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// MarkInviteUsed sets used=1, used_by=userID (transaction-friendly).
	MarkInviteUsed(ctx context.Context, inviteID, usedByUserID string) error

	// DeleteExpiredInvites removes invites past their expiry and reports how
	// many were swept.
	DeleteExpiredInvites(ctx context.Context) (int64, error)
}

type RoleRequests interface {
	// CreateRoleRequest inserts a pending request.
	CreateRoleRequest(ctx context.Context, req domain.RoleRequest) error

	// GetRoleRequestByID fetches a single request.
	GetRoleRequestByID(ctx context.Context, id string) (domain.RoleRequest, error)

	// GetLatestByUserID returns the user's most recent request regardless of
	// status. Used for the rejection cooldown check.
	GetLatestByUserID(ctx context.Context, userID string) (domain.RoleRequest, error)

	// ListPending returns all pending requests, oldest first.
	ListPending(ctx context.Context) ([]domain.RoleRequest, error)

	// Resolve finalises a pending request with approved/rejected status.
	Resolve(ctx context.Context, id string, status domain.RoleRequestStatus, resolvedBy string, resolvedAt time.Time) error
}

type Locations interface {
	// UpsertSnapshot overwrites the user's last known position.
	UpsertSnapshot(ctx context.Context, snap domain.LocationSnapshot) error

	// GetSnapshot returns one user's last known position.
	GetSnapshot(ctx context.Context, userID string) (domain.LocationSnapshot, error)

	// ListSnapshots returns every user's last known position.
	ListSnapshots(ctx context.Context) ([]domain.LocationSnapshot, error)

	// DeleteStaleSnapshots removes snapshots recorded before cutoff and
	// reports how many were swept.
	DeleteStaleSnapshots(ctx context.Context, cutoff time.Time) (int64, error)
}
