package deps

import (
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/scheduler"
	"github.com/MrSnakeDoc/techtrack/internal/store"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time           // for testing, defaults to time.Now
	AllowedCIDRS  []string                   // IPs allowed to access admin endpoints (metrics, infra, scan)
	TrustProxy    bool                       // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Store         *store.Store               // technology collection
	StorageDriver string                     // name of the storage backend, for infra reporting
	Watcher       *scheduler.DeadlineWatcher // deadline watcher, nil when not running
	ScanTrigger   chan struct{}              // Channel to trigger a manual deadline scan
	UpcomingDays  int                        // default window of /api/deadlines/upcoming
	MaxImportSize int64                      // maximum accepted import body in bytes
}
