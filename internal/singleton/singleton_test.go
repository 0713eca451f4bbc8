package singleton_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keylayer/keylayerd/internal/singleton"
)

func TestAcquireThenReleaseAllowsReacquire(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	lock, err := singleton.Acquire("keylayerd-test")
	require.NoError(t, err)
	require.NoError(t, lock.Release())

	lock2, err := singleton.Acquire("keylayerd-test")
	require.NoError(t, err)
	require.NoError(t, lock2.Release())
}

func TestSecondAcquireFailsWhileFirstHeld(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	lock, err := singleton.Acquire("keylayerd-test-2")
	require.NoError(t, err)
	defer lock.Release()

	_, err = singleton.Acquire("keylayerd-test-2")
	assert.ErrorIs(t, err, singleton.ErrAlreadyRunning)
}
