package tray_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keylayer/keylayerd/internal/tray"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewReturnsTray(t *testing.T) {
	tr := tray.New(tray.Config{
		CurrentLayout:    "default",
		AvailableLayouts: []string{"default"},
		Enabled:          true,
		Logger:           discardLogger(),
	})
	assert.NotNil(t, tr)
}

func TestSetEnabledBeforeReadyDoesNotPanic(t *testing.T) {
	tr := tray.New(tray.Config{
		CurrentLayout: "default",
		Enabled:       true,
		Logger:        discardLogger(),
	})
	assert.NotPanics(t, func() {
		tr.SetEnabled(false)
		tr.SetLayerState("shift", "base")
	})
}
