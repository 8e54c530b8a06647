package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]BlobStore {
	t.Helper()

	sq, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	bg, err := NewBadgerStore("")
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, sq.Close())
		assert.NoError(t, bg.Close())
	})
	return map[string]BlobStore{"sqlite": sq, "badger": bg}
}

func TestBlobStore_SaveLoadOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, SnapshotKey, []byte(`{"v":1}`)))
			require.NoError(t, s.Save(ctx, SnapshotKey, []byte(`{"v":2}`)))

			got, err := s.Load(ctx, SnapshotKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"v":2}`, string(got))
		})
	}
}

func TestBlobStore_MissingKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "absent")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBlobStore_Delete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, SnapshotKey, []byte("x")))
			require.NoError(t, s.Delete(ctx, SnapshotKey))
			require.NoError(t, s.Delete(ctx, SnapshotKey), "deleting twice is fine")

			_, err := s.Load(ctx, SnapshotKey)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQLiteStore_ReopenKeepsDataAndSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jarvis.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, SnapshotKey, []byte("persisted")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("etcd", filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}
