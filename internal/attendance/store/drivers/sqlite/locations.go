package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
)

type locationsRepo struct {
	db dbtx
}

func (r *locationsRepo) UpsertSnapshot(ctx context.Context, snap domain.LocationSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employee_locations (user_id, latitude, longitude, inside, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			inside = excluded.inside,
			recorded_at = excluded.recorded_at`,
		snap.UserID, snap.Latitude, snap.Longitude, snap.Inside, snap.RecordedAt.UTC(),
	)
	return err
}

func (r *locationsRepo) GetSnapshot(ctx context.Context, userID string) (domain.LocationSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, latitude, longitude, inside, recorded_at
		FROM employee_locations WHERE user_id = ?`, userID)

	var snap domain.LocationSnapshot
	err := row.Scan(&snap.UserID, &snap.Latitude, &snap.Longitude, &snap.Inside, &snap.RecordedAt)
	if err != nil {
		return domain.LocationSnapshot{}, mapNotFound(err)
	}
	return snap, nil
}

func (r *locationsRepo) ListSnapshots(ctx context.Context) ([]domain.LocationSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, latitude, longitude, inside, recorded_at
		FROM employee_locations
		ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.LocationSnapshot
	for rows.Next() {
		var snap domain.LocationSnapshot
		if err := rows.Scan(&snap.UserID, &snap.Latitude, &snap.Longitude, &snap.Inside, &snap.RecordedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (r *locationsRepo) DeleteStaleSnapshots(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM employee_locations WHERE recorded_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
