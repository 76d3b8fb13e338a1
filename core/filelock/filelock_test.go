package filelock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_TryLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "update.lock")

	first := New(path)
	second := New(path)

	ok, err := first.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.False(t, ok, "lock must be exclusive")

	require.NoError(t, first.Unlock())

	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock())
}

func TestForRoot(t *testing.T) {
	assert.Equal(t, filepath.Join("/srv/content", ".git", "update.lock"), ForRoot("/srv/content", "update.lock").Path())
	assert.Equal(t, "/run/update.lock", ForRoot("/srv/content", "/run/update.lock").Path())
}
