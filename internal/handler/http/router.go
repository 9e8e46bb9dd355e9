package http

import (
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LogLevel       slog.Level
	// GoogleEnabled mounts the Google sign-in routes.
	GoogleEnabled bool
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
}

func NewRouter(cfg RouterConfig, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtService))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(chiMiddleware.AllowContentType("application/json")).Group(func(r chi.Router) {
				r.Post("/register", h.Auth.Register)
				r.Post("/login", h.Auth.Login)
			})
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			if cfg.GoogleEnabled {
				r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
				r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
			}

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/me", h.Auth.Me)
			})
		})

		r.Group(func(r chi.Router) {
			authenticated(r)

			// Employee self service
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(user.RoleEmployee))

				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Group(func(r chi.Router) {
					r.Post("/attendance/checkin", h.Attendance.CheckIn)
					r.Post("/attendance/checkout", h.Attendance.CheckOut)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Group(func(r chi.Router) {
					r.Get("/attendance/today", h.Attendance.Today)
					r.Get("/attendance/my-history", h.Attendance.MyHistory)
					r.Get("/attendance/my-summary", h.Report.MySummary)
					r.Get("/dashboard/employee", h.Dashboard.Employee)
				})
			})

			// Manager
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Group(func(r chi.Router) {
					r.Get("/attendance/all", h.Attendance.List)
					r.Get("/attendance/employee/{id}", h.Attendance.GetEmployee)
				})

				r.With(middleware.RequirePermission(user.PermissionReportsView)).Group(func(r chi.Router) {
					r.Get("/attendance/summary", h.Report.TeamSummary)
					r.Get("/attendance/today-status", h.Report.TodayStatus)
					r.Get("/dashboard/manager", h.Dashboard.Manager)
				})

				r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/attendance/export", h.Report.Export)
			})
		})
	})

	return r
}
