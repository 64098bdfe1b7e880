package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/handlers"
)

func init() { Register(registerGroups) }

func registerGroups(r chi.Router, d deps.Deps) {
	r.Route("/api/groups", func(r chi.Router) {
		r.Get("/status", handlers.GroupByStatus(d))
		r.Get("/category", handlers.GroupByCategory(d))
		r.Get("/difficulty", handlers.GroupByDifficulty(d))
	})
	r.Get("/api/stats", handlers.Stats(d))
}
