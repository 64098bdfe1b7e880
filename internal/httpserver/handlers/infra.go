package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
)

type componentStatus struct {
	OK       bool   `json:"ok"`
	Driver   string `json:"driver,omitempty"`
	Key      string `json:"key,omitempty"`
	Records  *int   `json:"records,omitempty"`
	Overdue  *int   `json:"overdue,omitempty"`
	Upcoming *int   `json:"upcoming,omitempty"`
	Last     string `json:"last,omitempty"`
	Error    string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the storage backend, the collection and the deadline watcher.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := d.Store.Len()

		lastExport := "never"
		if at, ok := d.Store.LastExportAt(r.Context()); ok {
			lastExport = at.Format(time.RFC3339)
		}

		components := map[string]componentStatus{
			"storage": checkStorage(r.Context(), d),
			"collection": {
				OK:      true,
				Key:     d.Store.Key(),
				Records: &records,
				Last:    lastExport,
			},
			"deadlines": watcherStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if storage, exists := components["storage"]; exists && !storage.OK {
		return "degraded" // changes stay in memory only
	}
	return "operational"
}

func checkStorage(parent context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{OK: false, Driver: d.StorageDriver, Error: err.Error()}
	}
	return componentStatus{OK: true, Driver: d.StorageDriver}
}

func watcherStatus(d deps.Deps) componentStatus {
	if d.Watcher == nil {
		return componentStatus{OK: false, Error: "watcher not running"}
	}
	report, ok := d.Watcher.LastReport()
	if !ok {
		return componentStatus{OK: true, Last: "never"}
	}
	overdue, upcoming := len(report.Overdue), len(report.Upcoming)
	return componentStatus{
		OK:       true,
		Overdue:  &overdue,
		Upcoming: &upcoming,
		Last:     report.ScannedAt.Format(time.RFC3339),
	}
}
