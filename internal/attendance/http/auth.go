package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/rollcall/internal/attendance/service"
	"github.com/aussiebroadwan/rollcall/pkg/httpx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister creates a new account. Supplying a valid invite token
// grants the admin role; otherwise the account is an employee.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.AuthService.Register(
		ctx, req.Email, req.Password, req.Name, req.Department, req.InviteToken,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"email, password and name are required")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "email_taken",
				"An account with this email already exists")
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_invite",
				"Invite token is invalid or expired")
		case errors.Is(err, service.ErrInviteAlreadyUsed):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_invite",
				"Invite token has already been used")
		case errors.Is(err, service.ErrInviteEmailMismatch):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_invite",
				"Invite was issued for a different email")
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to register account")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleLogin verifies credentials and returns a bearer token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	token, user, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"email and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials",
				"Invalid email or password")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to log in")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        toUserResponse(user),
	})
}
