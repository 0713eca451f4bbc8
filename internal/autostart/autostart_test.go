package autostart_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keylayer/keylayerd/internal/autostart"
)

func TestEnableThenIsEnabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	enabled, err := autostart.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, autostart.Enable("/usr/bin/keylayerd"))

	enabled, err = autostart.IsEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	home := os.Getenv("HOME")
	data, err := os.ReadFile(filepath.Join(home, ".config", "autostart", "keylayerd.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/usr/bin/keylayerd --no-tray")
}

func TestDisableRemovesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, autostart.Enable("/usr/bin/keylayerd"))
	require.NoError(t, autostart.Disable())

	enabled, err := autostart.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestDisableWhenNeverEnabledIsNotAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.NoError(t, autostart.Disable())
}
