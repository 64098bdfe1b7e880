package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/handlers"
)

func init() { Register(registerTechnologies) }

func registerTechnologies(r chi.Router, d deps.Deps) {
	r.Route("/api/technologies", func(r chi.Router) {
		r.Get("/", handlers.ListTechnologies(d))
		r.Post("/", handlers.CreateTechnology(d))
		r.Get("/suggest", handlers.SuggestTechnology(d))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetTechnology(d))
			r.Patch("/", handlers.UpdateTechnology(d))
			r.Delete("/", handlers.DeleteTechnology(d))
			r.Put("/status", handlers.SetStatus(d))
			r.Post("/status/cycle", handlers.CycleStatus(d))
			r.Put("/notes", handlers.SetNotes(d))
			r.Put("/deadline", handlers.SetDeadline(d))
		})
	})
}
