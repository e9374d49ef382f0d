package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/rollcall/internal/attendance/service"
	"github.com/aussiebroadwan/rollcall/pkg/httpx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

type LocationsHandler struct {
	LocationService *service.LocationService
}

// HandleRefresh records the caller's current position as their last known
// snapshot.
func (h *LocationsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	sample, err := decodeSample(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	snap, err := h.LocationService.Refresh(ctx, httpx.UserIDFromContext(ctx), sample)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"latitude/longitude are not valid coordinates")
			return
		}
		log.Error("failed to refresh location", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to refresh location")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

// HandleGet returns one user's last known position. Admin only.
func (h *LocationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.PathValue("id")
	if userID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Missing user id")
		return
	}

	snap, err := h.LocationService.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoSnapshot) {
			httpx.WriteError(w, http.StatusNotFound, "not_found",
				"No location recorded for this user")
			return
		}
		log.Error("failed to fetch location snapshot", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to fetch location")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

// HandleList returns every employee's last known position. Admin only.
func (h *LocationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	snaps, err := h.LocationService.ListSnapshots(ctx)
	if err != nil {
		log.Error("failed to list location snapshots", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to list locations")
		return
	}

	resp := make([]LocationSnapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		resp = append(resp, toSnapshotResponse(snap))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
