package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/metrics"
)

const (
	// DefaultScanInterval is used when the configured interval is not positive.
	DefaultScanInterval = time.Hour
	// DefaultUpcomingDays is the look-ahead window of a scan.
	DefaultUpcomingDays = 7
)

// DeadlineSource answers the two deadline queries of the collection.
type DeadlineSource interface {
	Overdue() []domain.Technology
	Upcoming(days int) []domain.Technology
}

// DeadlineReport is the result of one scan.
type DeadlineReport struct {
	ScannedAt time.Time           `json:"scannedAt"`
	Days      int                 `json:"days"`
	Overdue   []domain.Technology `json:"overdue"`
	Upcoming  []domain.Technology `json:"upcoming"`
}

// DeadlineWatcher periodically scans the collection for overdue and
// upcoming deadlines, logs them and publishes the counts as metrics.
type DeadlineWatcher struct {
	source        DeadlineSource
	logger        logger.Logger
	interval      time.Duration
	days          int
	now           func() time.Time
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu   sync.RWMutex
	last *DeadlineReport
}

// NewDeadlineWatcher creates a new deadline watcher. manualTrigger may be nil.
func NewDeadlineWatcher(
	source DeadlineSource,
	log logger.Logger,
	interval time.Duration,
	days int,
	manualTrigger chan struct{},
) *DeadlineWatcher {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	if days < 0 {
		days = DefaultUpcomingDays
	}

	return &DeadlineWatcher{
		source:        source,
		logger:        log,
		interval:      interval,
		days:          days,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs a first scan and then scans on every tick or manual trigger
// until Stop is called or ctx is done.
func (w *DeadlineWatcher) Start(ctx context.Context) {
	w.Scan()

	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Scan()
			case <-w.manualTrigger:
				w.logger.Info("manual deadline scan triggered")
				w.Scan()
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *DeadlineWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Scan computes the current report, logs it and updates the deadline gauges.
func (w *DeadlineWatcher) Scan() DeadlineReport {
	report := DeadlineReport{
		ScannedAt: w.now().UTC(),
		Days:      w.days,
		Overdue:   w.source.Overdue(),
		Upcoming:  w.source.Upcoming(w.days),
	}

	metrics.SetDeadlineCounts(len(report.Overdue), len(report.Upcoming))

	for _, t := range report.Overdue {
		w.logger.Warn("technology overdue",
			logger.Int64("id", t.ID),
			logger.String("title", t.Title),
			logger.String("deadline", t.Deadline))
	}
	if len(report.Overdue) > 0 || len(report.Upcoming) > 0 {
		w.logger.Info("deadline scan completed",
			logger.Int("overdue", len(report.Overdue)),
			logger.Int("upcoming", len(report.Upcoming)),
			logger.Int("days", w.days))
	} else {
		w.logger.Debug("no pending deadlines")
	}

	w.mu.Lock()
	w.last = &report
	w.mu.Unlock()
	return report
}

// LastReport returns the most recent scan result, if any.
func (w *DeadlineWatcher) LastReport() (DeadlineReport, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.last == nil {
		return DeadlineReport{}, false
	}
	return *w.last, true
}
