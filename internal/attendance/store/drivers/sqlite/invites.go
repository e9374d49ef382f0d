package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
)

type invitesRepo struct {
	db dbtx
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (id, token_hash, email, created_by, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		inv.ID, inv.TokenHash, inv.Email, inv.CreatedBy, inv.ExpiresAt.UTC(),
	)
	return mapConflict(err)
}

func (r *invitesRepo) GetActiveInviteByTokenHash(
	ctx context.Context,
	hash string,
) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, email, created_by, expires_at, used, used_by,
			created_at, updated_at
		FROM invites
		WHERE token_hash = ? AND used = 0 AND expires_at > ?`,
		hash, time.Now().UTC())

	var (
		inv    domain.Invite
		usedBy sql.NullString
	)
	err := row.Scan(
		&inv.ID, &inv.TokenHash, &inv.Email, &inv.CreatedBy, &inv.ExpiresAt,
		&inv.Used, &usedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	inv.UsedBy = mapNullString(usedBy)
	return inv, nil
}

func (r *invitesRepo) MarkInviteUsed(ctx context.Context, inviteID, usedByUserID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites SET used = 1, used_by = ?, updated_at = ?
		WHERE id = ? AND used = 0`,
		mapStringNull(usedByUserID), time.Now().UTC(), inviteID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invites WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
