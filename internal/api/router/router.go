package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pratik-mahalle/cloudlens/internal/api/handlers"
	"github.com/pratik-mahalle/cloudlens/internal/api/middleware"
	"github.com/pratik-mahalle/cloudlens/internal/config"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/metrics"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Metrics *handlers.MetricsHandler
	Users   *handlers.UsersHandler
	Alerts  *handlers.AlertsHandler
}

// New builds the HTTP router
func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS(cfg.Server.FrontendURL))
	r.Use(metrics.Middleware)
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
		r.Handle("/metrics", metrics.Handler())

		r.Post("/api/auth/register", h.Auth.Register)
		r.Post("/api/auth/login", h.Auth.Login)
		r.Post("/api/auth/refresh", h.Auth.Refresh)
		r.Post("/api/auth/logout", h.Auth.Logout)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth.JWTSecret))

		r.Get("/api/auth/me", h.Auth.Me)

		r.Route("/api/metrics", func(r chi.Router) {
			r.Get("/dashboard", h.Metrics.Dashboard)
			r.Post("/seed", h.Metrics.Seed)
			r.Delete("/clear", h.Metrics.Clear)
			r.Get("/{provider}/billing", h.Metrics.Billing)
			r.Get("/{provider}/resources", h.Metrics.Resources)
			r.Get("/{provider}/performance", h.Metrics.Performance)
			r.Get("/{provider}/all", h.Metrics.All)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/profile", h.Users.GetProfile)
			r.Put("/profile", h.Users.UpdateProfile)
			r.Put("/password", h.Users.ChangePassword)
			r.Put("/settings", h.Users.UpdateSettings)
			r.Get("/stats", h.Users.Stats)

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", h.Alerts.List)
				r.Post("/", h.Alerts.Create)
				r.Put("/{id}/resolve", h.Alerts.Resolve)
				r.Delete("/{id}", h.Alerts.Delete)
			})
		})
	})

	return r
}
