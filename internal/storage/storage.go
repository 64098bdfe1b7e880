// Package storage persists the technology collection in a key-value backend.
//
// The Adapter is the only component that touches a Backend. Reads never fail:
// an absent key, a backend error or an unparsable payload all mean
// "nothing usable stored" and are logged. Writes report their error.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Driver names accepted by the configuration.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Backend is a minimal byte-oriented key-value store.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Driver returns the driver name, used in logs and metrics.
	Driver() string
	Close() error
}
