package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liefcare/workforce-backend/internal/config"
	"github.com/liefcare/workforce-backend/internal/domain/facility"
	appHTTP "github.com/liefcare/workforce-backend/internal/handler/http"
	"github.com/liefcare/workforce-backend/internal/pkg/cron"
	"github.com/liefcare/workforce-backend/internal/pkg/database"
	"github.com/liefcare/workforce-backend/internal/pkg/facilityfile"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
	"github.com/liefcare/workforce-backend/internal/pkg/oauth"
	"github.com/liefcare/workforce-backend/internal/pkg/sse"
	"github.com/liefcare/workforce-backend/internal/repository/postgresql"
	analyticsService "github.com/liefcare/workforce-backend/internal/service/analytics"
	attendanceService "github.com/liefcare/workforce-backend/internal/service/attendance"
	serviceAuth "github.com/liefcare/workforce-backend/internal/service/auth"
	employeeService "github.com/liefcare/workforce-backend/internal/service/employee"
	facilityService "github.com/liefcare/workforce-backend/internal/service/facility"
	signupService "github.com/liefcare/workforce-backend/internal/service/signup"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "liefcare-workforce"), slog.String("env", cfg.App.Env)))

	loc, err := cfg.Facility.Location()
	if err != nil {
		return fmt.Errorf("facility timezone: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: time.Hour,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgresql.ApplySchema(ctx, db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	// Repositories
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	facilityRepo := postgresql.NewFacilityRepository(db)
	signupRepo := postgresql.NewSignupRequestRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	transactor := postgresql.NewTransactor(db)

	// Facility perimeter source
	var perimeterOverride facility.PerimeterProvider
	if cfg.Facility.Source == config.FacilitySourceFile {
		loader, err := facilityfile.NewLoader(cfg.Facility.ConfigPath)
		if err != nil {
			return fmt.Errorf("load facility file: %w", err)
		}
		loader.OnChange(func(f *facilityfile.File) {
			slog.Info("Facility file reloaded", "facilities", len(f.Facilities), "default", f.Default)
		})
		stopWatch, err := loader.Watch()
		if err != nil {
			return fmt.Errorf("watch facility file: %w", err)
		}
		defer stopWatch()
		perimeterOverride = loader
		slog.Info("Using facility file for perimeters", "path", cfg.Facility.ConfigPath)
	}

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.CookieSecure)
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	if !GoogleService.Enabled() {
		slog.Info("Google login disabled: GOOGLE_CLIENT_ID is not set")
	}

	hub := sse.NewHub(32)
	reconstructor := attendanceService.NewReconstructor(loc)

	facilitySvc := facilityService.NewFacilityService(facilityRepo, perimeterOverride)
	authSvc := serviceAuth.NewAuthService(transactor, userRepo, employeeRepo, JWTService, refreshTokenRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		timeEntryRepo,
		employeeRepo,
		facilitySvc,
		reconstructor,
		hub,
		cfg.Facility.GeofenceEnforced,
		loc,
	)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, userRepo, timeEntryRepo, refreshTokenRepo)
	signupSvc := signupService.NewSignupService(transactor, signupRepo, userRepo, employeeRepo)
	analyticsSvc := analyticsService.NewAnalyticsService(employeeRepo, timeEntryRepo, reconstructor, loc)

	// Background jobs
	scheduler := cron.NewScheduler()
	cron.NewMaintenanceJobs(refreshTokenRepo, employeeRepo, timeEntryRepo, reconstructor, 16*time.Hour).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP
	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:      appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, cfg.App.FrontendURL, cfg.App.CookieSecure),
		TimeEntry: appHTTP.NewTimeEntryHandler(attendanceSvc, JWTService, hub),
		Facility:  appHTTP.NewFacilityHandler(facilitySvc),
		Employee:  appHTTP.NewEmployeeHandler(employeeSvc),
		Signup:    appHTTP.NewSignupHandler(signupSvc),
		Analytics: appHTTP.NewAnalyticsHandler(analyticsSvc),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
