// Package httpapi assembles the marketplace HTTP surface.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Wuchinator/artisan-market/internal/analytics"
	"github.com/Wuchinator/artisan-market/internal/artisan"
	"github.com/Wuchinator/artisan-market/internal/dashboard"
	"github.com/Wuchinator/artisan-market/internal/favorite"
	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/Wuchinator/artisan-market/internal/review"
	"github.com/Wuchinator/artisan-market/internal/tracking"
	"github.com/Wuchinator/artisan-market/pkg/metrics"
	"github.com/Wuchinator/artisan-market/pkg/respond"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	Artisans  *artisan.Handler
	Reviews   *review.Handler
	Favorites *favorite.Handler
	Tracking  *tracking.Handler
	Dashboard *dashboard.Handler
	Analytics *analytics.Handler
}

type Options struct {
	Resolver     identity.Resolver
	Metrics      *metrics.Metrics
	HealthChecks map[string]HealthChecker
	CORSOrigins  []string
	Logger       *zap.Logger
}

func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger, opts.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors(opts.CORSOrigins))

	r.Get("/health", health(opts.HealthChecks, opts.Logger))
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identity.Authenticate(opts.Resolver, opts.Logger))
		r.Use(identity.SessionMiddleware)

		r.Route("/artisans", func(r chi.Router) {
			r.Get("/", h.Artisans.List)
			r.With(identity.RequireIdentity).Post("/", h.Artisans.Register)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Artisans.Get)
				r.Get("/reviews", h.Reviews.List)
				r.With(identity.RequireIdentity).Post("/reviews", h.Reviews.Create)
				r.With(identity.RequireIdentity).Get("/favorite", h.Favorites.Status)
				// anonymous toggles reach the service, which answers with the Unauthorized result
				r.Post("/favorite", h.Favorites.Toggle)
				r.Post("/contact", h.Tracking.RecordContact)
			})
		})

		r.With(identity.RequireIdentity).Get("/favorites", h.Favorites.List)
		r.Post("/modal-events", h.Tracking.RecordModal)

		r.Route("/admin", func(r chi.Router) {
			r.Use(identity.RequireAdmin)

			r.Get("/dashboard", h.Dashboard.Get)
			r.Get("/artisans", h.Artisans.ListForModeration)
			r.Patch("/artisans/{id}/status", h.Artisans.SetStatus)
			r.Delete("/reviews/{id}", h.Reviews.Delete)
			r.Get("/interactions", h.Analytics.Summaries)
			r.Get("/top-artisans", h.Analytics.TopArtisans)
		})
	})

	return r
}

func health(checks map[string]HealthChecker, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		healthy := true
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check.HealthCheck(ctx); err != nil {
				logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
				deps[name] = "unavailable"
				healthy = false
				continue
			}
			deps[name] = "ok"
		}

		status, label := http.StatusOK, "ok"
		if !healthy {
			status, label = http.StatusServiceUnavailable, "degraded"
		}
		respond.JSON(w, status, map[string]any{
			"healthy":      healthy,
			"status":       label,
			"dependencies": deps,
		})
	}
}
