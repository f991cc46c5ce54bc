package storage_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/ckpbus/pkg/ckpbus/storage"
)

func TestSQLiteDir_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "bus.db")

	// First adapter instance
	a1, err := storage.NewSQLiteDir(dbPath, "ckp_meta")
	require.NoError(t, err)
	require.NoError(t, a1.Reset())

	_, err = a1.CreateIfAbsent("t1.inflight")
	require.NoError(t, err)
	require.NoError(t, a1.Close())

	// Second adapter instance (reopening the database)
	a2, err := storage.NewSQLiteDir(dbPath, "ckp_meta")
	require.NoError(t, err)
	defer a2.Close()

	names, err := a2.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"t1.inflight"}, names)
}

func TestSQLiteDir_IsolatedDirectories(t *testing.T) {
	// Two logical directories in one database do not see each other's
	// entries, like two unique-id suffixed buses on one base path.
	dbPath := filepath.Join(t.TempDir(), "bus.db")

	a, err := storage.NewSQLiteDir(dbPath, "ckp_meta_writer1")
	require.NoError(t, err)
	defer a.Close()
	b, err := storage.NewSQLiteDir(dbPath, "ckp_meta_writer2")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Reset())
	_, err = a.CreateIfAbsent("t1.inflight")
	require.NoError(t, err)

	names, err := b.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	ok, err := b.Exists()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteDir_CloseIdempotent(t *testing.T) {
	a, err := storage.NewSQLiteDir(filepath.Join(t.TempDir(), "bus.db"), "ckp_meta")
	require.NoError(t, err)

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
}

func TestSQLiteDir_ClosedOperationsFail(t *testing.T) {
	a, err := storage.NewSQLiteDir(filepath.Join(t.TempDir(), "bus.db"), "ckp_meta")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = a.CreateIfAbsent("t1.inflight")
	assert.ErrorIs(t, err, storage.ErrClosed)
	_, err = a.List()
	assert.ErrorIs(t, err, storage.ErrClosed)
	assert.ErrorIs(t, a.Delete("t1.inflight"), storage.ErrClosed)
	assert.ErrorIs(t, a.Reset(), storage.ErrClosed)
}

func TestSQLiteDir_Concurrent(t *testing.T) {
	a, err := storage.NewSQLiteDir(filepath.Join(t.TempDir(), "bus.db"), "ckp_meta")
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Reset())

	const numGoroutines = 20
	const numOps = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			name := "t" + string(rune('a'+id%26)) + ".inflight"
			for j := 0; j < numOps; j++ {
				switch j % 3 {
				case 0:
					_, _ = a.CreateIfAbsent(name)
				case 1:
					_, _ = a.List()
				case 2:
					_ = a.Delete(name)
				}
			}
		}(i)
	}

	wg.Wait()
}
