package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotKey is the name under which the whole assistant state is saved.
const SnapshotKey = "jarvis-storage"

// ErrNotFound is returned by Load when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is an opaque key-value persistence boundary. Each Save
// overwrites the previous value in full.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Open creates the configured backend at path, creating parent directories
// as needed.
func Open(backend, path string) (BlobStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	switch backend {
	case "", BackendSQLite:
		return NewSQLiteStore(path)
	case BackendBadger:
		return NewBadgerStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
