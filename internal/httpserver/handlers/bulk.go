package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
)

type bulkStatusRequest struct {
	IDs    []int64       `json:"ids"`
	Status domain.Status `json:"status"`
}

type bulkDeadlinesRequest struct {
	Deadlines map[string]string `json:"deadlines"`
}

type bulkResponse struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// BulkStatus sets one status on a set of records. Unknown ids are ignored.
func BulkStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		n, err := d.Store.BulkUpdateStatus(r.Context(), req.IDs, req.Status)
		if err != nil {
			storeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, bulkResponse{Updated: n, Total: d.Store.Len()})
	}
}

// BulkDeadlines assigns deadlines keyed by record id. Nothing changes when
// any date is rejected.
func BulkDeadlines(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkDeadlinesRequest
		if !decodeBody(w, r, &req) {
			return
		}

		deadlines := make(map[int64]string, len(req.Deadlines))
		for raw, date := range req.Deadlines {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid technology id "+strconv.Quote(raw))
				return
			}
			deadlines[id] = date
		}

		n, err := d.Store.UpdateDeadlines(r.Context(), deadlines)
		if err != nil {
			storeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, bulkResponse{Updated: n, Total: d.Store.Len()})
	}
}

// CompleteAll marks every record completed.
func CompleteAll(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.MarkAllCompleted(r.Context()); err != nil {
			storeError(w, r, d, err)
			return
		}
		n := d.Store.Len()
		writeJSON(w, http.StatusOK, bulkResponse{Updated: n, Total: n})
	}
}

// ResetAll moves every record back to not-started.
func ResetAll(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.ResetAllStatuses(r.Context()); err != nil {
			storeError(w, r, d, err)
			return
		}
		n := d.Store.Len()
		writeJSON(w, http.StatusOK, bulkResponse{Updated: n, Total: n})
	}
}
