package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, name, department, password_hash, role,
	fence_name, fence_lat, fence_lng, fence_radius_m,
	notifications_enabled, created_at, updated_at`

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`)
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var fenceName, fenceLat, fenceLng, fenceRadius any
	if u.Geofence != nil {
		fenceName = u.Geofence.Name
		fenceLat = u.Geofence.Latitude
		fenceLng = u.Geofence.Longitude
		fenceRadius = u.Geofence.RadiusM
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, department, password_hash, role,
			fence_name, fence_lat, fence_lng, fence_radius_m, notifications_enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.Department, u.PasswordHash, string(u.Role),
		fenceName, fenceLat, fenceLng, fenceRadius, u.Notifications.Enabled,
	)
	return mapConflict(err)
}

func (r *usersRepo) UpdateProfile(
	ctx context.Context,
	userID, name, department string,
	notifications domain.NotificationSettings,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, department = ?, notifications_enabled = ?, updated_at = ?
		WHERE id = ?`,
		name, department, notifications.Enabled, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) SetGeofence(ctx context.Context, userID string, g *domain.Geofence) error {
	var name, lat, lng, radius any
	if g != nil {
		name = g.Name
		lat = g.Latitude
		lng = g.Longitude
		radius = g.RadiusM
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET fence_name = ?, fence_lat = ?, fence_lng = ?,
			fence_radius_m = ?, updated_at = ?
		WHERE id = ?`,
		name, lat, lng, radius, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ListUsers(ctx context.Context, department string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if department != "" {
		query += ` WHERE department = ?`
		args = append(args, department)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// requireRow turns a zero-row UPDATE into store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u          domain.User
		role       string
		fenceName  sql.NullString
		fenceLat   sql.NullFloat64
		fenceLng   sql.NullFloat64
		fenceRad   sql.NullFloat64
		notifyFlag bool
	)

	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Department, &u.PasswordHash, &role,
		&fenceName, &fenceLat, &fenceLng, &fenceRad,
		&notifyFlag, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Role = domain.Role(role)
	u.Notifications = domain.NotificationSettings{Enabled: notifyFlag}
	if fenceLat.Valid && fenceLng.Valid {
		u.Geofence = &domain.Geofence{
			Name:      mapNullString(fenceName),
			Latitude:  fenceLat.Float64,
			Longitude: fenceLng.Float64,
			RadiusM:   fenceRad.Float64,
		}
	}
	return u, nil
}
