package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
)

func GroupByStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.GroupByStatus())
	}
}

func GroupByCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.GroupByCategory())
	}
}

func GroupByDifficulty(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.GroupByDifficulty())
	}
}

// Stats returns the collection statistics, progress included.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.Stats())
	}
}
