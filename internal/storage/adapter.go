package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/metrics"
	"github.com/goccy/go-json"
)

// Adapter serializes the collection to JSON and stores it in a Backend.
type Adapter struct {
	backend Backend
	log     logger.Logger
}

// NewAdapter wraps backend. A nil logger discards messages.
func NewAdapter(backend Backend, log logger.Logger) *Adapter {
	if log == nil {
		log = logger.NewNop()
	}
	return &Adapter{
		backend: backend,
		log:     log.With(logger.String("driver", backend.Driver())),
	}
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Load reads the collection stored under key.
// ok is false when nothing usable is stored; errors are logged, never returned.
func (a *Adapter) Load(ctx context.Context, key string) ([]domain.Technology, bool) {
	data, ok := a.read(ctx, key)
	if !ok {
		return nil, false
	}

	var techs []domain.Technology
	if err := json.Unmarshal(data, &techs); err != nil {
		a.log.Warn("stored collection is not valid JSON, ignoring it",
			logger.String("key", key),
			logger.Error(err))
		return nil, false
	}
	if techs == nil {
		// "null" payload
		return nil, false
	}
	return techs, true
}

// Save writes the whole collection under key, replacing the previous value.
func (a *Adapter) Save(ctx context.Context, key string, techs []domain.Technology) error {
	if techs == nil {
		techs = []domain.Technology{}
	}
	data, err := json.Marshal(techs)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}
	return a.write(ctx, key, data)
}

// LoadValue reads a flat string entry stored beside the collection.
func (a *Adapter) LoadValue(ctx context.Context, key string) (string, bool) {
	data, ok := a.read(ctx, key)
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		a.log.Warn("stored value is not a JSON string, ignoring it",
			logger.String("key", key),
			logger.Error(err))
		return "", false
	}
	return v, true
}

// SaveValue writes a flat string entry.
func (a *Adapter) SaveValue(ctx context.Context, key, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return a.write(ctx, key, data)
}

// Delete removes key. A missing key is not an error.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	start := time.Now()
	if err := a.backend.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStorageOp(a.backend.Driver(), "delete", "error", start)
		a.log.Error("failed to delete from storage",
			logger.String("key", key),
			logger.Error(err))
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	metrics.RecordStorageOp(a.backend.Driver(), "delete", "ok", start)
	a.log.Debug("storage delete", logger.String("key", key))
	return nil
}

// Ping checks the backend.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.backend.Ping(ctx)
}

func (a *Adapter) read(ctx context.Context, key string) ([]byte, bool) {
	start := time.Now()
	data, err := a.backend.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.RecordStorageOp(a.backend.Driver(), "get", "miss", start)
		return nil, false
	case err != nil:
		metrics.RecordStorageOp(a.backend.Driver(), "get", "error", start)
		a.log.Warn("failed to read from storage",
			logger.String("key", key),
			logger.Error(err))
		return nil, false
	}
	metrics.RecordStorageOp(a.backend.Driver(), "get", "ok", start)
	return data, true
}

func (a *Adapter) write(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	if err := a.backend.Set(ctx, key, data); err != nil {
		metrics.RecordStorageOp(a.backend.Driver(), "set", "error", start)
		a.log.Error("failed to write to storage",
			logger.String("key", key),
			logger.Error(err))
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	metrics.RecordStorageOp(a.backend.Driver(), "set", "ok", start)
	a.log.Debug("storage write",
		logger.String("key", key),
		logger.Int("bytes", len(data)))
	return nil
}
