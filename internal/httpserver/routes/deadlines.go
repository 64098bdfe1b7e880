package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/mw"
)

func init() { Register(registerDeadlines) }

func registerDeadlines(r chi.Router, d deps.Deps) {
	r.Route("/api/deadlines", func(r chi.Router) {
		r.Get("/overdue", handlers.Overdue(d))
		r.Get("/upcoming", handlers.Upcoming(d))
		r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Post("/scan", handlers.Scan(d))
	})
}
