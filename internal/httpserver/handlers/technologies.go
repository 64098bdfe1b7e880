package handlers

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/store"
)

type listResponse struct {
	Count        int                 `json:"count"`
	Technologies []domain.Technology `json:"technologies"`
}

// ListTechnologies returns the records matching the query filters.
func ListTechnologies(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, msg := parseFilter(r)
		if msg != "" {
			writeError(w, http.StatusBadRequest, CodeBadRequest, msg)
			return
		}

		techs := d.Store.Filter(f)
		writeJSON(w, http.StatusOK, listResponse{Count: len(techs), Technologies: techs})
	}
}

// parseFilter builds a filter from the status, category, difficulty,
// hasDeadline and search query parameters.
func parseFilter(r *http.Request) (domain.Filter, string) {
	q := r.URL.Query()
	f := domain.Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
	}

	if raw := q.Get("status"); raw != "" {
		st, ok := domain.ParseStatus(raw)
		if !ok {
			return f, "unknown status " + strconv.Quote(raw)
		}
		f.Status = st
	}
	if raw := q.Get("difficulty"); raw != "" {
		diff := domain.Difficulty(strings.ToLower(raw))
		if !diff.Valid() {
			return f, "unknown difficulty " + strconv.Quote(raw)
		}
		f.Difficulty = diff
	}
	if raw := q.Get("hasDeadline"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, "hasDeadline must be a boolean"
		}
		f.HasDeadline = &b
	}
	return f, ""
}

// SuggestTechnology picks a random not-started record to learn next.
func SuggestTechnology(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := d.Store.SuggestNext(rand.IntN)
		if !ok {
			writeError(w, http.StatusNotFound, CodeNotFound, "no technology left to start")
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func CreateTechnology(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in store.Input
		if !decodeBody(w, r, &in) {
			return
		}

		t, err := d.Store.Add(r.Context(), in)
		if err != nil {
			storeError(w, r, d, err)
			return
		}
		w.Header().Set("Location", "/api/technologies/"+strconv.FormatInt(t.ID, 10))
		writeJSON(w, http.StatusCreated, t)
	}
}

func GetTechnology(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		t, found := d.Store.Get(id)
		if !found {
			notFound(w, id)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func UpdateTechnology(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		var p store.Patch
		if !decodeBody(w, r, &p) {
			return
		}

		t, found, err := d.Store.Update(r.Context(), id, p)
		if err != nil {
			storeError(w, r, d, err)
			return
		}
		if !found {
			notFound(w, id)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func DeleteTechnology(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		found, err := d.Store.Delete(r.Context(), id)
		if err != nil {
			storeError(w, r, d, err)
			return
		}
		if !found {
			notFound(w, id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type statusRequest struct {
	Status domain.Status `json:"status"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type deadlineRequest struct {
	Deadline string `json:"deadline"`
}

// SetStatus handles PUT /api/technologies/{id}/status.
func SetStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		var req statusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		found, err := d.Store.UpdateStatus(r.Context(), id, req.Status)
		respondUpdated(w, r, d, id, found, err)
	}
}

// CycleStatus moves a record to the next status of the fixed cycle.
func CycleStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		t, found, err := d.Store.CycleStatus(r.Context(), id)
		if err != nil {
			storeError(w, r, d, err)
			return
		}
		if !found {
			notFound(w, id)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func SetNotes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		var req notesRequest
		if !decodeBody(w, r, &req) {
			return
		}
		found, err := d.Store.UpdateNotes(r.Context(), id, req.Notes)
		respondUpdated(w, r, d, id, found, err)
	}
}

// SetDeadline sets or, with an empty deadline, clears the deadline of a record.
func SetDeadline(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		var req deadlineRequest
		if !decodeBody(w, r, &req) {
			return
		}
		found, err := d.Store.UpdateDeadline(r.Context(), id, req.Deadline)
		respondUpdated(w, r, d, id, found, err)
	}
}

// respondUpdated answers a single-record edit with the record as stored.
func respondUpdated(w http.ResponseWriter, r *http.Request, d deps.Deps, id int64, found bool, err error) {
	if err != nil {
		storeError(w, r, d, err)
		return
	}
	if !found {
		notFound(w, id)
		return
	}
	t, _ := d.Store.Get(id)
	writeJSON(w, http.StatusOK, t)
}
