package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/service"
	"github.com/aussiebroadwan/rollcall/pkg/httpx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

type InviteMintHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP mints a single-use admin invite bound to the target email. The
// raw token is returned once and must be delivered out of band.
func (h *InviteMintHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req InviteMintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	var expiresAt time.Time
	if req.ExpiresAt != 0 {
		expiresAt = time.Unix(req.ExpiresAt, 0)
	} else {
		expiresAt = time.Now().Add(service.DefaultInviteTTL)
	}

	token, err := h.InviteService.MintInvite(ctx, req.Email, expiresAt, httpx.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInviteRequest) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"A valid target email and a future expiry are required")
			return
		}
		log.Error("failed to mint invite", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to create invite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, InviteMintResponse{
		InviteToken: token,
		Email:       req.Email,
		ExpiresAt:   expiresAt.Unix(),
	})
}
