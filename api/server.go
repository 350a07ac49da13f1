/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:      Unique ID per request for tracing
  2. RequestLogger:  httplog (slog, ECS schema)
  3. Recoverer:      Panic recovery (500 instead of crash)
  4. CORS:           Cross-origin requests for the dashboard

ROUTE GROUPS:
  /api/leave-types      Catalog
  /api/calendar         Working-day calendar by month
  /api/holidays/*       Holiday administration
  /api/employees/*      Employees, balances, applications
  /api/applications/*   Approve / reject / cancel
  /metrics              Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware. Callers are expected to sit behind the
  organization's gateway, which supplies actor IDs.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	AllowedOrigins []string

	// Logger receives request logs; nil disables request logging.
	Logger *slog.Logger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/leave-types", h.ListLeaveTypes)
		r.Get("/calendar/{year}/{month}", h.GetCalendarMonth)

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/seed", h.SeedHolidays)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/balance", h.GetBalance)
			r.Post("/{id}/carryover", h.SetCarryover)
			r.Get("/{id}/applications", h.ListApplications)
			r.Post("/{id}/applications", h.SubmitApplication)
			r.Post("/{id}/applications/validate", h.ValidateApplication)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Post("/{id}/approve", h.ApproveApplication)
			r.Post("/{id}/reject", h.RejectApplication)
			r.Post("/{id}/cancel", h.CancelApplication)
		})
	})

	return r
}

// corsOptions allows credentials only for an explicit origin list; a
// wildcard origin is served without them.
func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !slices.Contains(origins, "*"),
	}
}
