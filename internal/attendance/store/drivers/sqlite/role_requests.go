package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
)

type roleRequestsRepo struct {
	db dbtx
}

const roleRequestColumns = `id, user_id, status, resolved_by, resolved_at, created_at, updated_at`

func (r *roleRequestsRepo) CreateRoleRequest(ctx context.Context, req domain.RoleRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_requests (id, user_id, status) VALUES (?, ?, ?)`,
		req.ID, req.UserID, string(req.Status))
	return mapConflict(err)
}

func (r *roleRequestsRepo) GetRoleRequestByID(ctx context.Context, id string) (domain.RoleRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleRequestColumns+` FROM role_requests WHERE id = ?`, id)
	return scanRoleRequest(row)
}

func (r *roleRequestsRepo) GetLatestByUserID(ctx context.Context, userID string) (domain.RoleRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+roleRequestColumns+` FROM role_requests
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, userID)
	return scanRoleRequest(row)
}

func (r *roleRequestsRepo) ListPending(ctx context.Context) ([]domain.RoleRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+roleRequestColumns+` FROM role_requests
		WHERE status = 'pending'
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.RoleRequest
	for rows.Next() {
		req, err := scanRoleRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *roleRequestsRepo) Resolve(
	ctx context.Context,
	id string,
	status domain.RoleRequestStatus,
	resolvedBy string,
	resolvedAt time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE role_requests
		SET status = ?, resolved_by = ?, resolved_at = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(status), resolvedBy, resolvedAt.UTC(), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanRoleRequest(row rowScanner) (domain.RoleRequest, error) {
	var (
		req        domain.RoleRequest
		status     string
		resolvedBy sql.NullString
		resolvedAt sql.NullTime
	)

	err := row.Scan(
		&req.ID, &req.UserID, &status, &resolvedBy, &resolvedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return domain.RoleRequest{}, mapNotFound(err)
	}

	req.Status = domain.RoleRequestStatus(status)
	req.ResolvedBy = mapNullString(resolvedBy)
	req.ResolvedAt = mapNullTimePtr(resolvedAt)
	return req, nil
}
