//go:build unix

package flock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/flock"
)

func openLockFile(t *testing.T, path string) *os.File {
	t.Helper()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test code using safe temp dir
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExclusiveLock(t *testing.T) {
	t.Parallel()

	t.Run("acquires lock on new file", func(t *testing.T) {
		t.Parallel()
		lockFile := filepath.Join(t.TempDir(), "preview.lock")

		f := openLockFile(t, lockFile)

		require.NoError(t, flock.Exclusive(f.Fd()))
		assert.NoError(t, flock.Unlock(f.Fd()))
	})

	t.Run("fails to acquire lock when already held", func(t *testing.T) {
		t.Parallel()
		lockFile := filepath.Join(t.TempDir(), "preview.lock")

		// First descriptor takes the lock
		f1 := openLockFile(t, lockFile)
		require.NoError(t, flock.Exclusive(f1.Fd()))

		// Second descriptor on the same file must be refused immediately
		f2 := openLockFile(t, lockFile)
		assert.Error(t, flock.Exclusive(f2.Fd()))

		// After release the lock becomes available again
		require.NoError(t, flock.Unlock(f1.Fd()))
		assert.NoError(t, flock.Exclusive(f2.Fd()))
		assert.NoError(t, flock.Unlock(f2.Fd()))
	})
}
