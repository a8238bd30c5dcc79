package routes

import (
	"il2-rankmod/light/internal/api"
	"il2-rankmod/light/internal/auth"
	"il2-rankmod/light/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, promotions *api.PromotionHandlers, jobsHandler *api.JobsHandler, tokens *auth.AdminTokenService) {

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public
		v1.Get("/pilots/{id}/promotion", promotions.GetPilotPromotion())
		v1.Get("/promotions", promotions.ListPromotions())

		// Admin-only group
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.AuthMiddleware(tokens))
			admin.Use(middleware.IsAdminMiddleware())

			admin.Post("/admin/jobs/cleanup", jobsHandler.TriggerCleanup())
			admin.Post("/admin/jobs/pass", jobsHandler.TriggerPass())
		})
	})
}
