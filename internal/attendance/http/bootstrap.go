package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/rollcall/internal/attendance/service"
	"github.com/aussiebroadwan/rollcall/pkg/httpx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first admin on a fresh install. The endpoint is
// disabled unless a bootstrap token is configured, requires that token in
// the X-Bootstrap-Token header, and works exactly once.
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if h.BootstrapService.Token == "" {
		httpx.WriteError(w, http.StatusNotFound, "not_found",
			"Bootstrap endpoint is not enabled")
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized",
			"Bootstrap token is required in X-Bootstrap-Token header")
		return
	}

	var req BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	admin, err := h.BootstrapService.Bootstrap(
		ctx, token, req.Email, req.Password, req.Name, req.Department,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized",
				"System has already been bootstrapped")
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized",
				"Invalid bootstrap token")
		case errors.Is(err, service.ErrInvalidRequest):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"email, password and name are required")
		default:
			log.Error("bootstrap failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to bootstrap system")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(admin))
}
