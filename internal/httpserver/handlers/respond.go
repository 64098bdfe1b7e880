package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/store"
	"github.com/MrSnakeDoc/techtrack/internal/validation"
)

// Error codes returned in error bodies.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeMalformedImport = "MALFORMED_IMPORT"
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodePersist         = "PERSIST_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

type errorResponse struct {
	Error  string                   `json:"error"`
	Code   string                   `json:"code"`
	Fields []*validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func notFound(w http.ResponseWriter, id int64) {
	writeError(w, http.StatusNotFound, CodeNotFound, "technology "+strconv.FormatInt(id, 10)+" not found")
}

// storeError maps a store error to its HTTP response.
func storeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		resp := errorResponse{Error: "validation failed", Code: CodeValidation}
		if ve, ok := validation.AsErrors(err); ok {
			resp.Fields = ve.Fields()
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, store.ErrMalformedImport):
		writeError(w, http.StatusBadRequest, CodeMalformedImport, err.Error())
	case errors.Is(err, store.ErrPersist):
		d.Logger.Error("storage write failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, CodePersist, "change applied but could not be saved")
	default:
		d.Logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// decodeBody decodes a JSON request body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// idParam reads the {id} route parameter, answering 400 when it is not an integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid technology id "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}
