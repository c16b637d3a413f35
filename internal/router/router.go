// Package router sets up all HTTP routes and middleware chains for the
// campaign studio. The studio group carries the session middleware and a
// tight rate limit on the endpoints that call paid AI APIs.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campaignstudio/internal/handlers"
	"campaignstudio/internal/middleware"
	"campaignstudio/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore session.Store, studio *handlers.Studio) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check — no session.
	r.Get("/health", healthHandler)

	// Each generation request is an upstream AI call; 10 per minute per IP
	// is generous for a human clicking buttons.
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Group(func(r chi.Router) {
		r.Use(middleware.EnsureSession(sessionStore))

		r.Get("/", studio.Page)

		r.Route("/studio", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(generateLimiter.Middleware)
				r.Post("/generate", studio.Generate)
				r.Post("/variants/{id}/image", studio.GenerateImage)
			})

			r.Get("/variants/{id}/image.png", studio.VariantImage)
			r.Get("/export/campaign.json", studio.ExportJSON)
			r.Get("/export/images.zip", studio.ExportZIP)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
