package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/rollcall/internal/attendance/domain"
	"github.com/aussiebroadwan/rollcall/internal/attendance/service"
	"github.com/aussiebroadwan/rollcall/pkg/httpx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleUserInfo returns the caller's own profile.
func (h *UsersHandler) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.UserService.GetUserByID(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Account no longer exists")
			return
		}
		log.Error("failed to fetch profile", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to fetch profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdateProfile applies a partial update to the caller's profile.
func (h *UsersHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.UserService.UpdateProfile(ctx, httpx.UserIDFromContext(ctx), service.ProfileUpdate{
		Name:          req.Name,
		Department:    req.Department,
		Notifications: req.Notifications,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"name must not be empty")
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Account no longer exists")
		default:
			log.Error("failed to update profile", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to update profile")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleList returns all accounts, optionally narrowed by department.
// Admin only.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.UserService.ListUsers(ctx, r.URL.Query().Get("department"))
	if err != nil {
		log.Error("failed to list users", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to list users")
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAssignGeofence sets or replaces the target user's geofence.
// Admin only.
func (h *UsersHandler) HandleAssignGeofence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.PathValue("id")
	if userID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Missing user id")
		return
	}

	var req AssignGeofenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.UserService.AssignGeofence(ctx, userID, domain.Geofence{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		RadiusM:   req.RadiusM,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGeofence):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"A fence name and valid coordinates are required")
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			log.Error("failed to assign geofence", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to assign geofence")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
