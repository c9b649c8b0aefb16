package routes

import (
	"log/slog"
	"time"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/BradenHooton/complaintbox/internal/handlers"
	"github.com/BradenHooton/complaintbox/internal/middleware"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Auth       *handlers.AuthHandler
	Complaints *handlers.ComplaintHandler
	Admin      *handlers.AdminHandler
	Health     *handlers.HealthHandler
}

// Options carries the router settings taken from configuration
type Options struct {
	Env                     string
	AllowedOrigins          []string
	IPConfig                *pkghttp.IPConfig
	AuthRateLimitPerMinute  int
	WriteRateLimitPerMinute int
	RequestTimeout          time.Duration
}

// NewRouter builds the complete HTTP handler: global middleware, /health and
// the /api tree.
func NewRouter(h Handlers, sessions *auth.SessionManager, logger *slog.Logger, opts Options) chi.Router {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: opts.Env}))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(opts.AllowedOrigins)))
	router.Use(middleware.SecureLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(opts.RequestTimeout))

	router.Get("/health", h.Health.Health)

	router.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, h, sessions, logger, opts)
	})

	return router
}

// RegisterRoutes registers the API routes on router
func RegisterRoutes(router chi.Router, h Handlers, sessions *auth.SessionManager, logger *slog.Logger, opts Options) {
	authLimit := middleware.RateLimitByIP(middleware.RateLimitConfig{
		RequestsPerMinute: opts.AuthRateLimitPerMinute,
		IPConfig:          opts.IPConfig,
	})
	writeLimit := middleware.RateLimitByPrincipal(middleware.RateLimitConfig{
		RequestsPerMinute: opts.WriteRateLimitPerMinute,
		IPConfig:          opts.IPConfig,
	})

	// Body checks run per route after the guards so an anonymous caller
	// always sees 401 before any 415.
	jsonBody := middleware.RequireJSON(logger)

	router.Use(auth.SessionMiddleware(sessions, logger))

	// Public routes
	router.With(authLimit, jsonBody).Post("/signup", h.Auth.Signup)
	router.With(authLimit, jsonBody).Post("/login", h.Auth.Login)
	router.With(authLimit, jsonBody).Post("/admin/login", h.Auth.AdminLogin)
	router.With(jsonBody).Post("/logout", h.Auth.Logout)

	// User routes
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/track_complaint", h.Complaints.Track)
		r.Get("/user_complaints", h.Complaints.ListMine)
		r.With(writeLimit, jsonBody).Post("/submit_complaint", h.Complaints.Submit)
		r.With(writeLimit, jsonBody).Put("/edit_complaint", h.Complaints.Edit)
	})

	// Admin routes
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Get("/admin/complaints", h.Admin.ListComplaints)
		r.With(jsonBody).Put("/admin/complaints/update_status", h.Admin.UpdateStatus)
		r.Get("/admin/stats", h.Admin.Stats)
	})
}
