package routes

import (
	"net/http"
	"time"

	"il2-rankmod/light/internal/api"
	"il2-rankmod/light/internal/app"
	"il2-rankmod/light/internal/auth"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the status server. gatherer serves /metrics.
func RegisterRoutes(deps *app.Dependencies, gatherer prometheus.Gatherer, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	limiter := middleware.NewRateLimiter(5, 20)

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(limiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(deps.DB, deps.Probe, upSince))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	var feed api.FeedReader
	if deps.Services.StreamFeed != nil {
		feed = deps.Services.StreamFeed
	}
	promotions := api.NewPromotionHandlers(deps.Repo.Attempts, deps.Repo.Pilots, deps.Repo.Events, feed)
	jobsHandler := api.NewJobsHandler(deps.Jobs.Pass, deps.Jobs.Cleanup)
	tokens := auth.NewAdminTokenService(deps.Config.AdminSecret)

	RegisterAPIRoutes(r, promotions, jobsHandler, tokens)

	logging.Info("Router initialized with metrics and rate limit middleware")
	return r
}
