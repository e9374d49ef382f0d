package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/rollcall/internal/attendance/http"
	"github.com/aussiebroadwan/rollcall/internal/attendance/service"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/internal/attendance/store/drivers/sqlite"
	"github.com/aussiebroadwan/rollcall/pkg/jwtx"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the attendance service together: store, services, HTTP
// server and housekeeping.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	authService        *service.AuthService
	bootstrapService   *service.BootstrapService
	userService        *service.UserService
	attendanceService  *service.AttendanceService
	ledgerService      *service.LedgerService
	inviteService      *service.InviteService
	roleRequestService *service.RoleRequestService
	locationService    *service.LocationService
	housekeeping       *service.Housekeeping

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "attendance-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	signer, err := jwtx.NewSigner([]byte(cfg.SigningSecret), cfg.Issuer, cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start(context.Background())

	app.logger.Info("attendance service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the HTTP server, housekeeping and store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down attendance service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("attendance service stopped")
	return nil
}

// initDatabase opens the SQLite store and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{Store: app.db, Signer: app.signer}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}
	app.userService = &service.UserService{Store: app.db}
	app.attendanceService = &service.AttendanceService{
		Store:        app.db,
		MaxSampleAge: app.cfg.MaxSampleAge,
	}
	app.ledgerService = &service.LedgerService{Store: app.db}
	app.inviteService = &service.InviteService{Store: app.db}
	app.roleRequestService = &service.RoleRequestService{Store: app.db}
	app.locationService = &service.LocationService{Store: app.db}

	app.housekeeping = &service.Housekeeping{
		Store:       app.db,
		Interval:    app.cfg.HousekeepingInterval,
		SnapshotTTL: app.cfg.SnapshotTTL,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer, BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.BootstrapService = app.bootstrapService
	router.UserService = app.userService
	router.AttendanceService = app.attendanceService
	router.LedgerService = app.ledgerService
	router.InviteService = app.inviteService
	router.RoleRequestService = app.roleRequestService
	router.LocationService = app.locationService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
