package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nhle/jarvis/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// FailingStore is a BlobStore whose writes always fail.
type FailingStore struct {
	mu    sync.Mutex
	saves int
}

// ErrStoreDown is returned by every FailingStore write.
var ErrStoreDown = errors.New("store unavailable")

func (f *FailingStore) Load(context.Context, string) ([]byte, error) { return nil, store.ErrNotFound }
func (f *FailingStore) Delete(context.Context, string) error         { return ErrStoreDown }
func (f *FailingStore) Close() error                                 { return nil }

func (f *FailingStore) Save(context.Context, string, []byte) error {
	f.mu.Lock()
	f.saves++
	f.mu.Unlock()
	return ErrStoreDown
}

// Saves reports how many writes were attempted.
func (f *FailingStore) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}
