package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/stretchr/testify/require"
)

func TestBootstrapCreatesFirstAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Token: "setup-token"}

	bootstrapped, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, bootstrapped)

	admin, err := svc.Bootstrap(ctx, "setup-token",
		"root@example.com", "pw123456", "Root Admin", "ops")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)

	bootstrapped, err = svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, bootstrapped)

	// The bootstrapped admin unlocks the invite workflow end to end.
	inviteSvc := &InviteService{Store: st}
	token, err := inviteSvc.MintInvite(
		ctx, "second@example.com", time.Now().Add(time.Hour), admin.ID)
	require.NoError(t, err)

	authSvc := &AuthService{Store: st, Signer: newTestSigner(t)}
	second, err := authSvc.Register(
		ctx, "second@example.com", "pw123456", "Second Admin", "", token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, second.Role)
}

func TestBootstrapIsOneShot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Token: "setup-token"}

	_, err := svc.Bootstrap(ctx, "setup-token",
		"root@example.com", "pw123456", "Root Admin", "")
	require.NoError(t, err)

	_, err = svc.Bootstrap(ctx, "setup-token",
		"other@example.com", "pw123456", "Other", "")
	require.ErrorIs(t, err, ErrBootstrapAlready)
}

func TestBootstrapRefusesOnceAnyUserExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Token: "setup-token"}

	// Even a plain employee account closes the bootstrap window.
	createTestUser(t, st, domain.RoleEmployee, nil)

	_, err := svc.Bootstrap(ctx, "setup-token",
		"root@example.com", "pw123456", "Root Admin", "")
	require.ErrorIs(t, err, ErrBootstrapAlready)
}

func TestBootstrapRequiresMatchingToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Token: "setup-token"}

	_, err := svc.Bootstrap(ctx, "wrong-token",
		"root@example.com", "pw123456", "Root Admin", "")
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	_, err = svc.Bootstrap(ctx, "setup-token", "not-an-email", "pw", "", "")
	require.ErrorIs(t, err, ErrInvalidRequest)
}
