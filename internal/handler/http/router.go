package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/liefcare/workforce-backend/internal/domain/user"
	"github.com/liefcare/workforce-backend/internal/handler/http/middleware"
	"github.com/liefcare/workforce-backend/internal/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Auth      AuthHandler
	TimeEntry TimeEntryHandler
	Facility  FacilityHandler
	Employee  EmployeeHandler
	Signup    SignupHandler
	Analytics AnalyticsHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "liefcare-workforce"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	verifier := jwtauth.Verifier(JWTService.JWTAuth())
	authRequired := middleware.AuthRequired(JWTService.JWTAuth(), JWTService)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(verifier, authRequired)
				r.With(middleware.RequirePermission(user.PermissionViewOwnProfile)).Get("/me", h.Auth.Me)
				r.Post("/logout", h.Auth.Logout)
			})
		})

		r.Route("/time-entries", func(r chi.Router) {
			// SSE authenticates with a short-lived query token
			r.Get("/stream", h.TimeEntry.Stream)

			r.Group(func(r chi.Router) {
				r.Use(verifier, authRequired)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeEntryCreate))
					r.Use(middleware.RequireEmployeeRecord)
					r.Post("/clock-in", h.TimeEntry.ClockIn)
					r.Post("/clock-out", h.TimeEntry.ClockOut)
					r.Post("/break-start", h.TimeEntry.StartBreak)
					r.Post("/break-end", h.TimeEntry.EndBreak)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeEntryViewOwn))
					r.Get("/", h.TimeEntry.List)
					r.Get("/status", h.TimeEntry.Status)
					r.Get("/timesheet", h.TimeEntry.Timesheet)
					r.Post("/stream/token", h.TimeEntry.StreamToken)
				})
			})
		})

		r.Route("/signup-requests", func(r chi.Router) {
			// Public care-worker applications
			r.Post("/", h.Signup.Submit)

			r.Group(func(r chi.Router) {
				r.Use(verifier, authRequired)
				r.Use(middleware.RequirePermission(user.PermissionSignupReview))
				r.Get("/", h.Signup.List)
				r.Put("/{id}/status", h.Signup.UpdateStatus)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(verifier, authRequired)

			r.Route("/facility-settings", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionFacilityView)).Get("/", h.Facility.GetSettings)
				r.With(middleware.RequirePermission(user.PermissionFacilityView)).Post("/check-location", h.Facility.CheckLocation)

				// Manager only
				r.With(middleware.RequirePermission(user.PermissionFacilityManage)).Put("/", h.Facility.UpdateSettings)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/", h.Employee.ListEmployees)
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/{code}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{code}", h.Employee.UpdateEmployee)
					r.Delete("/{code}", h.Employee.DeleteEmployee)
					r.Post("/{code}/reset-password", h.Employee.ResetPassword)
				})
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAnalyticsView))
				r.Get("/", h.Analytics.GetAnalytics)
				r.Get("/export", h.Analytics.ExportTimesheets)
			})
		})
	})
	return r
}
