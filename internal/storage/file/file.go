// Package file stores each key as a JSON file in a data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/MrSnakeDoc/techtrack/internal/storage"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Backend is a storage.Backend writing one file per key under dir.
// Writes go to a temp file first and are renamed over the target.
type Backend struct {
	dir string
}

// New creates dir if needed and returns a backend rooted there.
func New(dir string) (*Backend, error) {
	if dir == "" {
		return nil, errors.New("file storage: data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file storage: failed to create %s: %w", dir, err)
	}
	return &Backend{dir: dir}, nil
}

// Path returns the file holding key.
func (b *Backend) Path(key string) string {
	return filepath.Join(b.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file storage: read %s: %w", key, err)
	}
	return data, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := b.Path(key)
	tmp, err := os.CreateTemp(b.dir, filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file storage: create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file storage: write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file storage: sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file storage: close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file storage: replace %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	err := os.Remove(b.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file storage: delete %s: %w", key, err)
	}
	return nil
}

// Ping checks that the data directory still exists and is a directory.
func (b *Backend) Ping(context.Context) error {
	info, err := os.Stat(b.dir)
	if err != nil {
		return fmt.Errorf("file storage: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("file storage: %s is not a directory", b.dir)
	}
	return nil
}

func (b *Backend) Driver() string { return storage.DriverFile }
func (b *Backend) Close() error   { return nil }
