package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/handlers"
)

func init() { Register(registerBulk) }

func registerBulk(r chi.Router, d deps.Deps) {
	r.Route("/api/bulk", func(r chi.Router) {
		r.Post("/status", handlers.BulkStatus(d))
		r.Post("/deadlines", handlers.BulkDeadlines(d))
		r.Post("/complete-all", handlers.CompleteAll(d))
		r.Post("/reset", handlers.ResetAll(d))
	})
}
