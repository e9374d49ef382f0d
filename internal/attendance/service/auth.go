package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/cryptox"
	"github.com/aussiebroadwan/rollcall/pkg/idx"
	"github.com/aussiebroadwan/rollcall/pkg/jwtx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles registration and login. Registration optionally
// consumes an admin invite token; without one, new accounts are employees.
type AuthService struct {
	Store  store.Store
	Signer *jwtx.Signer
}

// Register creates a new user account.
//
// When inviteToken is non-empty it must resolve to an unused, unexpired
// invite bound to the registering email; the new user is then created as an
// admin and the invite is consumed atomically with user creation.
func (s *AuthService) Register(
	ctx context.Context,
	email, password, name, department string,
	inviteToken string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || password == "" || name == "" {
		log.Warn("registration missing or malformed required fields")
		return domain.User{}, ErrInvalidRequest
	}

	// Duplicate email is rejected up front; the unique index catches the
	// race between two concurrent registrations.
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		log.Warn("registration attempted with taken email", slog.String("email", email))
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.User{}, err
	}

	role := domain.RoleEmployee
	var invite domain.Invite
	if inviteToken != "" {
		invite, err = s.lookupInvite(ctx, inviteToken, email)
		if err != nil {
			return domain.User{}, err
		}
		role = domain.RoleAdmin
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	newUser := domain.User{
		ID:            idx.New().String(),
		Email:         email,
		Name:          name,
		Department:    department,
		PasswordHash:  passwordHash,
		Role:          role,
		Notifications: domain.NotificationSettings{Enabled: true},
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, newUser); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			log.Error("failed to create user", slog.String("email", email), slog.Any("error", err))
			return err
		}

		if inviteToken != "" {
			if err := tx.Invites().MarkInviteUsed(ctx, invite.ID, newUser.ID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					// Another registration consumed it between lookup and now.
					return ErrInviteAlreadyUsed
				}
				log.Error("failed to mark invite as used",
					slog.String("invite_id", invite.ID),
					slog.Any("error", err),
				)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", newUser.ID),
		slog.String("email", newUser.Email),
		slog.String("role", string(newUser.Role)),
		slog.Bool("via_invite", inviteToken != ""),
	)

	return newUser, nil
}

// lookupInvite fingerprints the raw token and validates the invite against
// the registering email.
func (s *AuthService) lookupInvite(ctx context.Context, token, email string) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	fingerprint := cryptox.FingerprintToken(token)
	invite, err := s.Store.Invites().GetActiveInviteByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("registration attempted with invalid or expired invite token")
			return domain.Invite{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return domain.Invite{}, err
	}

	if !strings.EqualFold(invite.Email, email) {
		log.Warn("invite redeemed with mismatched email",
			slog.String("invite_id", invite.ID),
		)
		return domain.Invite{}, ErrInviteEmailMismatch
	}

	return invite, nil
}

// Login verifies credentials and mints an access token carrying the user's
// role scopes.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domain.User{}, ErrInvalidRequest
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return "", domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login failed", slog.String("email", email))
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.Signer.Sign(jwtx.Claims{
		Subject: user.ID,
		Email:   user.Email,
		Role:    string(user.Role),
		Scopes:  user.Role.Scopes(),
	})
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Debug("login succeeded", slog.String("user_id", user.ID))
	return token, user, nil
}
