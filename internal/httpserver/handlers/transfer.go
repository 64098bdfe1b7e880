package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/store"
)

// DefaultMaxImportSize bounds the import body when none is configured.
const DefaultMaxImportSize = 5 << 20

type importResponse struct {
	Mode     string `json:"mode"`
	Imported int    `json:"imported"`
	Dropped  int    `json:"dropped"`
	Total    int    `json:"total"`
}

// Export downloads the collection as an export document (?format=json, the
// default) or as a flat CSV table (?format=csv).
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := d.TimeNow().Format("2006-01-02")

		switch format := r.URL.Query().Get("format"); format {
		case "", "json":
			doc := d.Store.Export(r.Context())
			w.Header().Set("Content-Disposition", `attachment; filename="technologies_`+now+`.json"`)
			writeJSON(w, http.StatusOK, doc)
		case "csv":
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="technologies_`+now+`.csv"`)
			w.WriteHeader(http.StatusOK)
			if err := store.WriteCSV(w, d.Store.All()); err != nil {
				d.Logger.Debug("failed to write csv export", logger.Error(err))
			}
		default:
			writeError(w, http.StatusBadRequest, CodeBadRequest, "format must be json or csv")
		}
	}
}

// Import reads an export document or a bare array of records.
// ?mode=merge (default) appends, ?mode=replace swaps the whole collection.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("mode")
		if mode == "" {
			mode = "merge"
		}
		if mode != "merge" && mode != "replace" {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "mode must be merge or replace")
			return
		}

		limit := d.MaxImportSize
		if limit <= 0 {
			limit = DefaultMaxImportSize
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "import payload too large")
				return
			}
			writeError(w, http.StatusBadRequest, CodeBadRequest, "failed to read body")
			return
		}

		records, dropped, err := store.ParseImport(body)
		if err != nil {
			storeError(w, r, d, err)
			return
		}

		var imported int
		if mode == "replace" {
			imported, err = d.Store.ImportReplace(r.Context(), records)
		} else {
			imported, err = d.Store.ImportMerge(r.Context(), records)
		}
		if err != nil {
			storeError(w, r, d, err)
			return
		}

		d.Logger.Info("technologies imported",
			logger.String("mode", mode),
			logger.Int("imported", imported),
			logger.Int("dropped", dropped))

		writeJSON(w, http.StatusOK, importResponse{
			Mode:     mode,
			Imported: imported,
			Dropped:  dropped,
			Total:    d.Store.Len(),
		})
	}
}

// Reset drops the stored collection and starts over from the starter set.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.Reset(r.Context()); err != nil {
			storeError(w, r, d, err)
			return
		}
		d.Logger.Warn("collection reset", logger.String("remote", r.RemoteAddr))
		writeJSON(w, http.StatusOK, map[string]int{"total": d.Store.Len()})
	}
}
