package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
)

type attendanceRepo struct {
	db dbtx
}

// Ledger queries join users so records carry the employee's current email,
// name and department without denormalising them into the ledger table.
const recordColumns = `r.id, r.user_id, u.email, u.name, u.department, r.day,
	r.check_in_at, r.check_in_lat, r.check_in_lng,
	r.check_out_at, r.check_out_lat, r.check_out_lng, r.total_hours,
	r.created_at, r.updated_at`

func (r *attendanceRepo) GetRecord(ctx context.Context, userID, day string) (domain.AttendanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records r JOIN users u ON u.id = r.user_id
		WHERE r.user_id = ? AND r.day = ?`, userID, day)
	return scanRecord(row)
}

func (r *attendanceRepo) CreateRecord(ctx context.Context, rec domain.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records
			(id, user_id, day, check_in_at, check_in_lat, check_in_lng)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Day, rec.CheckInAt.UTC(), rec.CheckInLat, rec.CheckInLng,
	)
	return mapConflict(err)
}

func (r *attendanceRepo) CloseRecord(
	ctx context.Context,
	id string,
	checkOutAt time.Time,
	lat, lng, totalHours float64,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance_records
		SET check_out_at = ?, check_out_lat = ?, check_out_lng = ?,
			total_hours = ?, updated_at = ?
		WHERE id = ? AND check_out_at IS NULL`,
		checkOutAt.UTC(), lat, lng, totalHours, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *attendanceRepo) ListByUser(
	ctx context.Context,
	userID string,
	since time.Time,
) ([]domain.AttendanceRecord, error) {
	return r.list(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records r JOIN users u ON u.id = r.user_id
		WHERE r.user_id = ? AND r.check_in_at >= ?
		ORDER BY r.check_in_at DESC`, userID, since.UTC())
}

func (r *attendanceRepo) ListAll(
	ctx context.Context,
	department string,
	since time.Time,
) ([]domain.AttendanceRecord, error) {
	if department != "" {
		return r.list(ctx, `
			SELECT `+recordColumns+`
			FROM attendance_records r JOIN users u ON u.id = r.user_id
			WHERE u.department = ? AND r.check_in_at >= ?
			ORDER BY r.check_in_at DESC`, department, since.UTC())
	}
	return r.list(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records r JOIN users u ON u.id = r.user_id
		WHERE r.check_in_at >= ?
		ORDER BY r.check_in_at DESC`, since.UTC())
}

func (r *attendanceRepo) list(ctx context.Context, query string, args ...any) ([]domain.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(row rowScanner) (domain.AttendanceRecord, error) {
	var (
		rec         domain.AttendanceRecord
		checkOutAt  sql.NullTime
		checkOutLat sql.NullFloat64
		checkOutLng sql.NullFloat64
		totalHours  sql.NullFloat64
	)

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Email, &rec.Name, &rec.Department, &rec.Day,
		&rec.CheckInAt, &rec.CheckInLat, &rec.CheckInLng,
		&checkOutAt, &checkOutLat, &checkOutLng, &totalHours,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.AttendanceRecord{}, mapNotFound(err)
	}

	rec.CheckOutAt = mapNullTimePtr(checkOutAt)
	rec.CheckOutLat = mapNullFloatPtr(checkOutLat)
	rec.CheckOutLng = mapNullFloatPtr(checkOutLng)
	rec.TotalHours = mapNullFloatPtr(totalHours)
	return rec, nil
}
