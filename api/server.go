/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router for the status server: a small read-mostly
  operational surface over the persisted reconciliation state, plus an
  endpoint to trigger a run on demand. This is tooling around the job,
  not part of the job's run path.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboards

ROUTES:
  GET  /api/healthz     Liveness probe
  GET  /api/standings   Current weekly scoreboard, summary-ordered
  GET  /api/state       Cursor, week anchor, registry counts
  POST /api/run         Trigger one reconciliation run

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", h.Healthz)
		r.Get("/standings", h.GetStandings)
		r.Get("/state", h.GetState)
		r.Post("/run", h.TriggerRun)
	})

	return r
}
