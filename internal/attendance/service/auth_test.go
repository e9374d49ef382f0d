package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *jwtx.Signer {
	t.Helper()

	signer, err := jwtx.NewSigner(
		[]byte("0123456789abcdef0123456789abcdef"), "rollcall-test", time.Hour)
	require.NoError(t, err)
	return signer
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	signer := newTestSigner(t)
	svc := &AuthService{Store: st, Signer: signer}

	user, err := svc.Register(ctx, "Alice@Example.com", "hunter22", "Alice", "engineering", "")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, domain.RoleEmployee, user.Role)
	require.Nil(t, user.Geofence)

	token, loggedIn, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, string(domain.RoleEmployee), claims.Role)
	require.Contains(t, claims.Scopes, "attendance:write")
	require.NotContains(t, claims.Scopes, "admin:write")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &AuthService{Store: st, Signer: newTestSigner(t)}

	_, err := svc.Register(ctx, "bob@example.com", "pw123456", "Bob", "", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "BOB@example.com", "other-pw", "Bobby", "", "")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &AuthService{Store: st, Signer: newTestSigner(t)}

	_, err := svc.Register(ctx, "carol@example.com", "pw123456", "Carol", "", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "carol@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "pw123456")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestInviteGrantsAdminAndIsSingleUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	authSvc := &AuthService{Store: st, Signer: newTestSigner(t)}
	inviteSvc := &InviteService{Store: st}

	admin := createTestUser(t, st, domain.RoleAdmin, nil)

	token, err := inviteSvc.MintInvite(
		ctx, "dave@example.com", time.Now().Add(time.Hour), admin.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The invite is bound to dave's email.
	_, err = authSvc.Register(ctx, "eve@example.com", "pw123456", "Eve", "", token)
	require.ErrorIs(t, err, ErrInviteEmailMismatch)

	user, err := authSvc.Register(ctx, "dave@example.com", "pw123456", "Dave", "", token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, user.Role)

	// A consumed invite no longer resolves.
	_, err = authSvc.Register(ctx, "dave2@example.com", "pw123456", "Dave II", "", token)
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestExpiredInviteRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	inviteSvc := &InviteService{Store: st}

	admin := createTestUser(t, st, domain.RoleAdmin, nil)

	_, err := inviteSvc.MintInvite(
		ctx, "frank@example.com", time.Now().Add(-time.Hour), admin.ID)
	require.ErrorIs(t, err, ErrInvalidInviteRequest)
}
