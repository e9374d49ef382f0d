package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/cryptox"
	"github.com/aussiebroadwan/rollcall/pkg/idx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrInviteNotFound       = errors.New("invite not found or expired")
	ErrInviteAlreadyUsed    = errors.New("invite has already been used")
	ErrInviteEmailMismatch  = errors.New("invite was issued for a different email")
)

// DefaultInviteTTL is the invite validity window when the admin does not
// choose an explicit expiry.
const DefaultInviteTTL = 48 * time.Hour

type InviteService struct {
	Store store.Store
}

// MintInvite creates a single-use admin invite bound to the target email
// and returns the raw token for out-of-band delivery. Only the SHA-256
// fingerprint is persisted.
func (s *InviteService) MintInvite(
	ctx context.Context,
	email string,
	expiresAt time.Time,
	createdBy string,
) (string, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		log.Warn("attempted to mint invite without a valid target email")
		return "", ErrInvalidInviteRequest
	}

	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(DefaultInviteTTL)
	}
	if expiresAt.Before(time.Now()) {
		log.Warn("attempted to mint invite with past expiry",
			slog.Time("expires_at", expiresAt),
		)
		return "", ErrInvalidInviteRequest
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return "", err
	}

	invite := domain.Invite{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		Email:     email,
		CreatedBy: createdBy,
		ExpiresAt: expiresAt,
	}

	if err := s.Store.Invites().CreateInvite(ctx, invite); err != nil {
		log.Error("failed to create invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("admin invite minted",
		slog.String("invite_id", invite.ID),
		slog.String("created_by", createdBy),
		slog.Time("expires_at", expiresAt),
	)

	// Return the raw token, not the fingerprint.
	return token, nil
}
