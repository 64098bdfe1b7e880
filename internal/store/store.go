// Package store owns the technology collection.
//
// A Store is the single source of truth for the records: it loads them once
// through the storage adapter, serves copies to readers and writes the whole
// collection back after every mutation, before the mutation returns.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/metrics"
	"github.com/MrSnakeDoc/techtrack/internal/storage"
	"github.com/MrSnakeDoc/techtrack/internal/validation"
)

// persistTimeout bounds a collection write once the caller has gone away.
const persistTimeout = 10 * time.Second

// Storage keys.
const (
	DefaultKey    = "technologies"
	LastExportKey = "lastExportAt"
)

var (
	// ErrValidation wraps a *validation.Errors describing the rejected fields.
	ErrValidation = errors.New("validation failed")
	// ErrMalformedImport is returned for import payloads of an unexpected shape.
	ErrMalformedImport = errors.New("malformed import")
	// ErrPersist is returned when a mutation was applied but could not be saved.
	ErrPersist = errors.New("failed to persist collection")
)

// SeedFunc builds the starter collection used when nothing is stored.
type SeedFunc func(now time.Time) []domain.Technology

// Option configures a Store.
type Option func(*Store)

// WithKey changes the storage key of the collection.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithSeed replaces the built-in starter set.
func WithSeed(seed SeedFunc) Option {
	return func(s *Store) { s.seed = seed }
}

// Store is safe for concurrent use. Every operation runs to completion under
// the store lock, including the storage write.
type Store struct {
	mu    sync.RWMutex
	techs []domain.Technology

	adapter *storage.Adapter
	key     string
	now     func() time.Time
	seed    SeedFunc
	log     logger.Logger
}

// New creates an empty store. Call Open before use.
func New(adapter *storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		key:     DefaultKey,
		now:     time.Now,
		seed:    domain.StarterSet,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the stored collection, or the starter set when nothing usable is
// stored. The starter set is not written back; the first mutation persists it.
// seeded reports whether the starter set was used.
func (s *Store) Open(ctx context.Context) (seeded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if techs, ok := s.adapter.Load(ctx, s.key); ok {
		s.techs = techs
		s.log.Info("collection loaded",
			logger.String("key", s.key),
			logger.Int("technologies", len(techs)))
	} else {
		s.techs = domain.CloneAll(s.seed(s.now()))
		seeded = true
		s.log.Info("no stored collection, using starter set",
			logger.String("key", s.key),
			logger.Int("technologies", len(s.techs)))
	}

	s.publishMetrics()
	return seeded
}

// Ping checks the underlying storage.
func (s *Store) Ping(ctx context.Context) error {
	return s.adapter.Ping(ctx)
}

// Key returns the storage key of the collection.
func (s *Store) Key() string {
	return s.key
}

// mutate runs fn under the write lock. When fn reports a change, the whole
// collection is saved before returning. A failed save leaves the change
// applied in memory and returns an error wrapping ErrPersist. The save does
// not follow ctx cancellation: once applied, a change is always written.
func (s *Store) mutate(ctx context.Context, op string, fn func(now time.Time) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn(s.now())
	if err != nil || !changed {
		return err
	}

	metrics.RecordMutation(op)
	s.publishMetrics()

	saveCtx, cancel := persistContext(ctx)
	defer cancel()
	if err := s.adapter.Save(saveCtx, s.key, s.techs); err != nil {
		s.log.Error("collection change not persisted",
			logger.String("operation", op),
			logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrPersist, op, err)
	}
	return nil
}

// persistContext keeps the values of ctx but drops its cancellation, so a
// client disconnect cannot leave memory and storage apart.
func persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}

// indexOf returns the position of id, or -1. Callers hold the lock.
func (s *Store) indexOf(id int64) int {
	for i := range s.techs {
		if s.techs[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID returns an id derived from now in milliseconds, bumped above every
// id already in the collection. Callers hold the write lock.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for i := range s.techs {
		if s.techs[i].ID >= id {
			id = s.techs[i].ID + 1
		}
	}
	return id
}

func (s *Store) publishMetrics() {
	counts := make(map[string]int, len(domain.Statuses))
	for _, st := range domain.Statuses {
		counts[string(st)] = 0
	}
	for i := range s.techs {
		counts[string(s.techs[i].Status)]++
	}
	metrics.SetStatusCounts(counts)
}

func invalid(fes ...*validation.FieldError) error {
	return fmt.Errorf("%w: %w", ErrValidation, validation.NewErrors(fes...))
}

func createdAt(now time.Time) time.Time {
	return now.UTC().Truncate(time.Millisecond)
}
