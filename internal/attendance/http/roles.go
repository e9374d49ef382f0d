package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/rollcall/internal/attendance/service"
	"github.com/aussiebroadwan/rollcall/pkg/httpx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

type RoleRequestHandler struct {
	RoleRequestService *service.RoleRequestService
}

// HandleRequest files an admin elevation request for the caller.
func (h *RoleRequestHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, err := h.RoleRequestService.Request(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyAdmin):
			httpx.WriteError(w, http.StatusConflict, "already_admin",
				"You already hold the admin role")
		case errors.Is(err, service.ErrRequestPending):
			httpx.WriteError(w, http.StatusConflict, "request_pending",
				"A role request is already pending")
		case errors.Is(err, service.ErrRequestCooldown):
			httpx.WriteError(w, http.StatusConflict, "request_cooldown",
				"A recent rejection blocks new requests for 24 hours")
		default:
			log.Error("failed to file role request", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to file role request")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRoleRequestResponse(req))
}

// HandleEligibility reports whether the caller may file a role request and,
// when blocked by a cooldown, when the block lifts.
func (h *RoleRequestHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ok, until, err := h.RoleRequestService.CanRequest(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		log.Error("failed to check role request eligibility", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to check eligibility")
		return
	}

	resp := RoleRequestEligibilityResponse{Eligible: ok}
	if !until.IsZero() {
		resp.CooldownUntil = &until
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleListPending returns all open requests for admin review.
func (h *RoleRequestHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	pending, err := h.RoleRequestService.ListPending(ctx)
	if err != nil {
		log.Error("failed to list pending role requests", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to list role requests")
		return
	}

	resp := make([]RoleRequestResponse, 0, len(pending))
	for _, req := range pending {
		resp = append(resp, toRoleRequestResponse(req))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *RoleRequestHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.RoleRequestService.Approve)
}

func (h *RoleRequestHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.RoleRequestService.Reject)
}

func (h *RoleRequestHandler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, requestID, resolvedBy string) error,
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	requestID := r.PathValue("id")
	if requestID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Missing request id")
		return
	}

	err := fn(ctx, requestID, httpx.UserIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Role request not found")
		case errors.Is(err, service.ErrRequestNotPending):
			httpx.WriteError(w, http.StatusConflict, "not_pending",
				"Role request has already been resolved")
		case errors.Is(err, service.ErrSelfApproval):
			httpx.WriteError(w, http.StatusForbidden, "self_resolution",
				"You cannot resolve your own role request")
		default:
			log.Error("failed to resolve role request", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to resolve role request")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
