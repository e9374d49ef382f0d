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
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first admin on a fresh install. Every later
// admin comes from an invite or an approved role request, both of which
// need an existing admin; bootstrap breaks that circle exactly once.
type BootstrapService struct {
	Store store.Store
	Token string // Pre-configured bootstrap token
}

// IsBootstrapped reports whether any user exists yet.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the initial admin account. It refuses once any user
// exists or when the supplied token does not match the configured one.
func (s *BootstrapService) Bootstrap(
	ctx context.Context,
	token string,
	email, password, name, department string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return domain.User{}, err
	} else if bootstrapped {
		log.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, ErrBootstrapAlready
	}

	if token != s.Token {
		log.Warn("unauthorized bootstrap attempt")
		return domain.User{}, ErrBootstrapUnauthorized
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || password == "" || name == "" {
		return domain.User{}, ErrInvalidRequest
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash admin password", slog.Any("error", err))
		return domain.User{}, err
	}

	admin := domain.User{
		ID:            idx.New().String(),
		Email:         email,
		Name:          name,
		Department:    department,
		PasswordHash:  passwordHash,
		Role:          domain.RoleAdmin,
		Notifications: domain.NotificationSettings{Enabled: true},
	}

	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Raced with a concurrent bootstrap or registration.
			return domain.User{}, ErrBootstrapAlready
		}
		log.Error("failed to create admin user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("system bootstrapped",
		slog.String("admin_user_id", admin.ID),
		slog.String("email", admin.Email),
	)
	return admin, nil
}
