package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/stretchr/testify/require"
)

func TestRoleRequestLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &RoleRequestService{Store: st}

	employee := createTestUser(t, st, domain.RoleEmployee, nil)
	admin := createTestUser(t, st, domain.RoleAdmin, nil)

	req, err := svc.Request(ctx, employee.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleRequestPending, req.Status)

	// Only one pending request at a time.
	_, err = svc.Request(ctx, employee.ID)
	require.ErrorIs(t, err, ErrRequestPending)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, req.ID, pending[0].ID)

	require.NoError(t, svc.Approve(ctx, req.ID, admin.ID))

	// Approval promotes the user.
	promoted, err := st.Users().GetUserByID(ctx, employee.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, promoted.Role)

	// Retried approvals are a no-op, not an error.
	require.NoError(t, svc.Approve(ctx, req.ID, admin.ID))

	// An admin cannot file another request.
	_, err = svc.Request(ctx, employee.ID)
	require.ErrorIs(t, err, ErrAlreadyAdmin)
}

func TestRejectionStartsCooldown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &RoleRequestService{Store: st}

	employee := createTestUser(t, st, domain.RoleEmployee, nil)
	admin := createTestUser(t, st, domain.RoleAdmin, nil)

	req, err := svc.Request(ctx, employee.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, req.ID, admin.ID))

	// The user stays an employee and is blocked by the cooldown.
	user, err := st.Users().GetUserByID(ctx, employee.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleEmployee, user.Role)

	_, err = svc.Request(ctx, employee.ID)
	require.ErrorIs(t, err, ErrRequestCooldown)

	ok, until, err := svc.CanRequest(ctx, employee.ID)
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, until.IsZero())
	require.True(t, until.After(time.Now()))

	// Rejecting twice fails: the request is no longer pending.
	require.ErrorIs(t, svc.Reject(ctx, req.ID, admin.ID), ErrRequestNotPending)
}

func TestCooldownExpires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &RoleRequestService{Store: st}

	employee := createTestUser(t, st, domain.RoleEmployee, nil)
	admin := createTestUser(t, st, domain.RoleAdmin, nil)

	req, err := svc.Request(ctx, employee.ID)
	require.NoError(t, err)

	// Resolve directly with a timestamp past the cooldown window.
	expired := time.Now().Add(-domain.RejectionCooldown - time.Hour)
	require.NoError(t, st.RoleRequests().Resolve(
		ctx, req.ID, domain.RoleRequestRejected, admin.ID, expired))

	ok, _, err := svc.CanRequest(ctx, employee.ID)
	require.NoError(t, err)
	require.True(t, ok)

	next, err := svc.Request(ctx, employee.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleRequestPending, next.Status)
}

func TestCannotResolveOwnRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &RoleRequestService{Store: st}

	employee := createTestUser(t, st, domain.RoleEmployee, nil)

	req, err := svc.Request(ctx, employee.ID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Approve(ctx, req.ID, employee.ID), ErrSelfApproval)
	require.ErrorIs(t, svc.Reject(ctx, req.ID, employee.ID), ErrSelfApproval)
}
