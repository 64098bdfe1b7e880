package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
)

type deadlinesResponse struct {
	Days         int                 `json:"days,omitempty"`
	Count        int                 `json:"count"`
	Technologies []domain.Technology `json:"technologies"`
}

// Overdue lists the unfinished records whose deadline has passed.
func Overdue(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		techs := d.Store.Overdue()
		writeJSON(w, http.StatusOK, deadlinesResponse{Count: len(techs), Technologies: techs})
	}
}

// Upcoming lists the unfinished records due within ?days= (default from config).
func Upcoming(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := d.UpcomingDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, CodeBadRequest, "days must be a non-negative integer")
				return
			}
			days = n
		}

		techs := d.Store.Upcoming(days)
		writeJSON(w, http.StatusOK, deadlinesResponse{Days: days, Count: len(techs), Technologies: techs})
	}
}

// Scan triggers a deadline scan without waiting for the next tick.
func Scan(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ScanTrigger == nil {
			writeError(w, http.StatusServiceUnavailable, CodeInternal, "deadline watcher not running")
			return
		}

		select {
		case d.ScanTrigger <- struct{}{}:
			d.Logger.Info("manual deadline scan triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "scan triggered"})
		default:
			d.Logger.Warn("deadline scan already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"status": "scan already pending, please wait"})
		}
	}
}
