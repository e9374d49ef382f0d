package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/service"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/httpx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store              store.Store
	AuthService        *service.AuthService
	BootstrapService   *service.BootstrapService
	UserService        *service.UserService
	AttendanceService  *service.AttendanceService
	LedgerService      *service.LedgerService
	InviteService      *service.InviteService
	RoleRequestService *service.RoleRequestService
	LocationService    *service.LocationService
}

func NewRouter(
	verifier httpx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerBootstrap()
	r.registerAuth()
	r.registerUsers()
	r.registerAttendance()
	r.registerInvites()
	r.registerRoleRequests()
	r.registerLocations()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerBootstrap() {
	// One-time setup endpoint, very strict IP rate limit.
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Public endpoints, strict IP rate limits against credential stuffing
	// and invite token guessing.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(http.HandlerFunc(h.HandleUserInfo),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("profile:read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/profile",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateProfile),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("profile:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/users/{id}/geofence",
		httpx.Chain(http.HandlerFunc(h.HandleAssignGeofence),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAttendance() {
	h := &AttendanceHandler{
		AttendanceService: r.AttendanceService,
		LedgerService:     r.LedgerService,
	}

	// Transitions are moderate per user; a phone retrying a flaky request
	// should not get locked out.
	r.Mux.Handle("POST /v1/attendance/checkin",
		httpx.Chain(http.HandlerFunc(h.HandleCheckIn),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("attendance:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/attendance/checkout",
		httpx.Chain(http.HandlerFunc(h.HandleCheckOut),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("attendance:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/attendance/records",
		httpx.Chain(http.HandlerFunc(h.HandleListRecords),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("attendance:read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InviteMintHandler{InviteService: r.InviteService}

	r.Mux.Handle("POST /v1/invites/mint",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerRoleRequests() {
	h := &RoleRequestHandler{RoleRequestService: r.RoleRequestService}

	r.Mux.Handle("POST /v1/roles/requests",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("role:request"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/roles/requests/eligibility",
		httpx.Chain(http.HandlerFunc(h.HandleEligibility),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("role:request"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/roles/requests",
		httpx.Chain(http.HandlerFunc(h.HandleListPending),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/roles/requests/{id}/approve",
		httpx.Chain(http.HandlerFunc(h.HandleApprove),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("roles:assign"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/roles/requests/{id}/reject",
		httpx.Chain(http.HandlerFunc(h.HandleReject),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("roles:assign"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerLocations() {
	h := &LocationsHandler{LocationService: r.LocationService}

	r.Mux.Handle("POST /v1/locations/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("attendance:write"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/locations",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/locations/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
