package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/idx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

var (
	ErrRequestPending    = errors.New("a role request is already pending")
	ErrRequestCooldown   = errors.New("a recent rejection blocks new requests")
	ErrAlreadyAdmin      = errors.New("user already holds the admin role")
	ErrRequestNotFound   = errors.New("role request not found")
	ErrRequestNotPending = errors.New("role request is not pending")
	ErrSelfApproval      = errors.New("cannot resolve your own role request")
)

// RoleRequestService runs the employee -> admin elevation workflow.
// Employees file requests; admins approve or reject them. A rejection
// starts a cooldown before the employee may file again.
type RoleRequestService struct {
	Store store.Store
}

// CanRequest reports whether the user may file a role request right now and,
// when blocked by a cooldown, when the block lifts.
func (s *RoleRequestService) CanRequest(ctx context.Context, userID string) (bool, time.Time, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return false, time.Time{}, err
	}
	if user.Role == domain.RoleAdmin {
		return false, time.Time{}, nil
	}

	latest, err := s.Store.RoleRequests().GetLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return true, time.Time{}, nil
		}
		return false, time.Time{}, err
	}

	switch latest.Status {
	case domain.RoleRequestPending:
		return false, time.Time{}, nil
	case domain.RoleRequestRejected:
		if latest.ResolvedAt != nil {
			until := latest.ResolvedAt.Add(domain.RejectionCooldown)
			if time.Now().Before(until) {
				return false, until, nil
			}
		}
	}
	return true, time.Time{}, nil
}

// Request files a new admin elevation request for the user. At most one
// pending request per user; a rejection within the cooldown window blocks
// new requests until it expires.
func (s *RoleRequestService) Request(ctx context.Context, userID string) (domain.RoleRequest, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.RoleRequest{}, err
	}
	if user.Role == domain.RoleAdmin {
		return domain.RoleRequest{}, ErrAlreadyAdmin
	}

	latest, err := s.Store.RoleRequests().GetLatestByUserID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to fetch latest role request", slog.Any("error", err))
		return domain.RoleRequest{}, err
	}
	if err == nil {
		switch latest.Status {
		case domain.RoleRequestPending:
			return domain.RoleRequest{}, ErrRequestPending
		case domain.RoleRequestRejected:
			if latest.ResolvedAt != nil &&
				time.Since(*latest.ResolvedAt) < domain.RejectionCooldown {
				return domain.RoleRequest{}, ErrRequestCooldown
			}
		}
	}

	req := domain.RoleRequest{
		ID:     idx.New().String(),
		UserID: userID,
		Status: domain.RoleRequestPending,
	}
	if err := s.Store.RoleRequests().CreateRoleRequest(ctx, req); err != nil {
		log.Error("failed to create role request", slog.Any("error", err))
		return domain.RoleRequest{}, err
	}

	log.Info("role request filed",
		slog.String("request_id", req.ID),
		slog.String("user_id", userID),
	)
	return req, nil
}

// ListPending returns all open requests, oldest first.
func (s *RoleRequestService) ListPending(ctx context.Context) ([]domain.RoleRequest, error) {
	return s.Store.RoleRequests().ListPending(ctx)
}

// Approve grants the request and promotes the user to admin in one
// transaction. Approving an already-approved request is a no-op so retried
// approvals do not error.
func (s *RoleRequestService) Approve(ctx context.Context, requestID, resolvedBy string) error {
	log := slogx.FromContext(ctx)

	req, err := s.Store.RoleRequests().GetRoleRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.UserID == resolvedBy {
		return ErrSelfApproval
	}

	switch req.Status {
	case domain.RoleRequestApproved:
		return nil
	case domain.RoleRequestRejected:
		return ErrRequestNotPending
	}

	now := time.Now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RoleRequests().Resolve(
			ctx, requestID, domain.RoleRequestApproved, resolvedBy, now,
		); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Raced with another resolution.
				return ErrRequestNotPending
			}
			return err
		}
		return tx.Users().UpdateRole(ctx, req.UserID, domain.RoleAdmin)
	})
	if err != nil {
		log.Error("failed to approve role request",
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("role request approved",
		slog.String("request_id", requestID),
		slog.String("user_id", req.UserID),
		slog.String("resolved_by", resolvedBy),
	)
	return nil
}

// Reject denies the request. The resolution timestamp starts the cooldown
// that blocks the user's next request.
func (s *RoleRequestService) Reject(ctx context.Context, requestID, resolvedBy string) error {
	log := slogx.FromContext(ctx)

	req, err := s.Store.RoleRequests().GetRoleRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.UserID == resolvedBy {
		return ErrSelfApproval
	}
	if req.Status != domain.RoleRequestPending {
		return ErrRequestNotPending
	}

	if err := s.Store.RoleRequests().Resolve(
		ctx, requestID, domain.RoleRequestRejected, resolvedBy, time.Now(),
	); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRequestNotPending
		}
		log.Error("failed to reject role request",
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("role request rejected",
		slog.String("request_id", requestID),
		slog.String("user_id", req.UserID),
		slog.String("resolved_by", resolvedBy),
	)
	return nil
}
