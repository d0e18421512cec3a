/*
server.go - HTTP router and middleware configuration.

ROUTER: chi
  Lightweight, context-based, RESTful route patterns.

MIDDLEWARE STACK:
  1. RequestID:  unique ID per request for tracing
  2. Logger:     request logging
  3. Recoverer:  panic recovery (500 instead of crash)
  4. CORS:       cross-origin requests for the dashboard frontend

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Get("/latest", h.LatestEvent)

			r.Route("/{event}", func(r chi.Router) {
				r.Post("/batches", h.SaveBatch)
				r.Post("/materials", h.SaveMaterial)
				r.Post("/logistics", h.SaveLogistics)
				r.Get("/rollup", h.Rollup)
			})
		})

		r.Post("/calc/{domain}", h.Calc)
		r.Get("/factors/{domain}", h.ListFactors)
		r.Get("/hvac/{refrigerant}/alternatives", h.HVACAlternatives)
		r.Post("/logistics/estimate", h.EstimateLogistics)
	})

	return r
}
