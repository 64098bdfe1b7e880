// Package redis stores keys as plain Redis strings under a common prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/techtrack/internal/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by techtrack.
const DefaultPrefix = "techtrack:"

// Backend is a storage.Backend over a go-redis client. Values have no TTL.
type Backend struct {
	client redis.UniversalClient
	prefix string
}

// New wraps an already connected client. An empty prefix uses DefaultPrefix.
func New(client redis.UniversalClient, prefix string) *Backend {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Backend{client: client, prefix: prefix}
}

// Key returns the Redis key holding key.
func (b *Backend) Key(key string) string {
	return b.prefix + key
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.Key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Backend) Driver() string { return storage.DriverRedis }

func (b *Backend) Close() error {
	return b.client.Close()
}
