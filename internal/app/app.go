package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/config"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver"
	"github.com/MrSnakeDoc/techtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/scheduler"
	"github.com/MrSnakeDoc/techtrack/internal/version"
)

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	collection *Collection
	watcher    *scheduler.DeadlineWatcher
}

func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	// Open storage early - fail fast if unavailable
	collection, err := OpenCollection(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	// Create manual scan trigger channel
	scanTrigger := make(chan struct{}, 1)

	watcher := scheduler.NewDeadlineWatcher(
		collection.Store,
		loggerClient,
		cfg.DeadlineScanInterval,
		cfg.UpcomingDays,
		scanTrigger,
	)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Store:         collection.Store,
		StorageDriver: collection.Backend.Driver(),
		Watcher:       watcher,
		ScanTrigger:   scanTrigger,
		UpcomingDays:  cfg.UpcomingDays,
		MaxImportSize: cfg.MaxImportSize,
	}

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     httpserver.New(cfg, loggerClient, d),
		collection: collection,
		watcher:    watcher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting techtrack v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("techtrack %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.watcher.Start(ctx)
	a.logger.Info("deadline watcher started",
		logger.Duration("interval", a.cfg.DeadlineScanInterval),
		logger.Int("upcoming_days", a.cfg.UpcomingDays))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.watcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.collection.Close(); err != nil {
		a.logger.Warnf("failed to close %s storage: %v", a.collection.Backend.Driver(), err)
	} else {
		a.logger.Info("✅ Storage closed cleanly")
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ techtrack stopped cleanly")
	return nil
}
