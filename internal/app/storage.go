package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/techtrack/internal/config"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/sources/seed"
	"github.com/MrSnakeDoc/techtrack/internal/storage"
	"github.com/MrSnakeDoc/techtrack/internal/storage/file"
	redisbackend "github.com/MrSnakeDoc/techtrack/internal/storage/redis"
	"github.com/MrSnakeDoc/techtrack/internal/storage/sqlite"
	"github.com/MrSnakeDoc/techtrack/internal/store"
)

// Collection is the opened store and the backend behind it. The server and
// the CLI commands share it.
type Collection struct {
	Backend storage.Backend
	Store   *store.Store
	Seeded  bool
}

// OpenCollection opens the configured backend and loads the collection from it.
func OpenCollection(ctx context.Context, cfg *config.Config, log logger.Logger) (*Collection, error) {
	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithKey(cfg.StorageKey),
		store.WithLogger(log),
	}
	if cfg.SeedFile != "" {
		opts = append(opts, store.WithSeed(seed.Func(cfg.SeedFile, log)))
	}

	st := store.New(storage.NewAdapter(backend, log), opts...)
	seeded := st.Open(ctx)

	return &Collection{Backend: backend, Store: st, Seeded: seeded}, nil
}

// Close releases the storage backend.
func (c *Collection) Close() error {
	return c.Backend.Close()
}

func openBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (storage.Backend, error) {
	switch cfg.StorageDriver {
	case storage.DriverMemory:
		log.Warn("memory storage selected, changes are lost on exit")
		return storage.NewMemory(), nil

	case storage.DriverFile:
		b, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		log.Info("file storage ready", logger.String("dir", cfg.DataDir))
		return b, nil

	case storage.DriverSQLite:
		b, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		log.Info("sqlite storage ready", logger.String("path", b.Path()))
		return b, nil

	case storage.DriverRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redisbackend.Connect(ctx, redisbackend.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("Redis initialized successfully")
		return redisbackend.New(client, cfg.RedisPrefix), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
