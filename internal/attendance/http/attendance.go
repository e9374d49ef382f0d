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

type AttendanceHandler struct {
	AttendanceService *service.AttendanceService
	LedgerService     *service.LedgerService
}

func decodeSample(r *http.Request) (service.Sample, error) {
	var req SampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return service.Sample{}, err
	}
	return service.Sample{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		TakenAt:   req.TakenAt,
	}, nil
}

// writeTransitionError maps the attendance state machine errors onto the
// API error taxonomy.
func writeTransitionError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrInvalidCoordinates):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"latitude/longitude are not valid coordinates")
	case errors.Is(err, service.ErrStaleSample):
		httpx.WriteError(w, http.StatusBadRequest, "stale_sample",
			"Position sample is too old; retry with a fresh fix")
	case errors.Is(err, service.ErrNoGeofence):
		httpx.WriteError(w, http.StatusConflict, "no_geofence",
			"No geofence assigned; contact an administrator")
	case errors.Is(err, service.ErrOutsideGeofence):
		httpx.WriteError(w, http.StatusConflict, "outside_geofence",
			"You are outside your assigned work area")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		httpx.WriteError(w, http.StatusConflict, "already_checked_in",
			"Already checked in today")
	case errors.Is(err, service.ErrAlreadyCheckedOut):
		httpx.WriteError(w, http.StatusConflict, "already_checked_out",
			"Already checked out today")
	case errors.Is(err, service.ErrNotCheckedIn):
		httpx.WriteError(w, http.StatusConflict, "not_checked_in",
			"No open check-in for today")
	default:
		return false
	}
	return true
}

func (h *AttendanceHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	sample, err := decodeSample(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	rec, err := h.AttendanceService.CheckIn(ctx, httpx.UserIDFromContext(ctx), sample)
	if err != nil {
		if !writeTransitionError(w, err) {
			log.Error("check-in failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to check in")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRecordResponse(rec))
}

func (h *AttendanceHandler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	sample, err := decodeSample(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	rec, err := h.AttendanceService.CheckOut(ctx, httpx.UserIDFromContext(ctx), sample)
	if err != nil {
		if !writeTransitionError(w, err) {
			log.Error("check-out failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to check out")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
}

// HandleListRecords serves the attendance ledger. Employees get their own
// records; admins get everyone's, with optional department and period
// query filters.
func (h *AttendanceHandler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	filter := service.LedgerFilter{
		Department: r.URL.Query().Get("department"),
		Period:     service.Period(r.URL.Query().Get("period")),
	}

	records, err := h.LedgerService.ListRecords(
		ctx,
		httpx.UserIDFromContext(ctx),
		domain.Role(httpx.RoleFromContext(ctx)),
		filter,
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPeriod) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"period must be one of: all, week, month")
			return
		}
		log.Error("ledger query failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to list attendance records")
		return
	}

	resp := LedgerResponse{Records: make([]AttendanceRecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
