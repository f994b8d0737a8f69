/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /healthz              Liveness
  /api/login            Passcode check
  /api/portal/*         Kiosk (open)
  /api/*                Owner dashboard (RequireOwner)

SECURITY NOTE:
  The only protection is the shared owner passcode. There are no user
  accounts and no sessions.

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Passcode guard
  - cmd/nizami/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// allowedOrigins configures CORS for the dashboard frontend.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", OwnerPasscodeHeader},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		// Kiosk routes
		r.Route("/portal/employees", func(r chi.Router) {
			r.Get("/", h.PortalEmployees)
			r.Get("/{id}/today", h.PortalToday)
			r.Post("/{id}/clock-in", h.ClockIn)
			r.Post("/{id}/clock-out", h.ClockOut)
		})

		// Owner routes
		r.Group(func(r chi.Router) {
			r.Use(h.RequireOwner)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.ListEmployees)
				r.Post("/", h.CreateEmployee)
				r.Get("/{id}", h.GetEmployee)
				r.Patch("/{id}", h.UpdateEmployee)
				r.Delete("/{id}", h.DeleteEmployee)
				r.Get("/{id}/transactions", h.ListTransactions)
				r.Post("/{id}/transactions", h.CreateTransaction)
			})

			r.Get("/attendance", h.AttendanceLog)
			r.Get("/stats", h.Stats)
			r.Get("/payroll", h.Payroll)

			r.Get("/settings", h.GetSettings)
			r.Patch("/settings", h.UpdateSettings)

			r.Get("/export", h.Export)
			r.Post("/import", h.Import)
		})
	})

	return r
}
