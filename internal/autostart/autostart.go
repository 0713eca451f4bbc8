// Package autostart manages an XDG autostart .desktop entry, the Linux
// analogue of toggling a Windows registry Run key (spec §6 process
// surface). Stdlib-only: the format is seven lines of ini-like text with
// no library in this retrieval pack covering it, and any INI/desktop-file
// package would be overkill for writing a fixed template.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

const desktopTemplate = `[Desktop Entry]
Type=Application
Name=keylayerd
Comment=Layered keyboard remapper
Exec=%s --no-tray
Terminal=false
X-GNOME-Autostart-enabled=true
`

func desktopPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("autostart: resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "autostart", "keylayerd.desktop"), nil
}

// Enable writes the autostart .desktop file pointing at execPath.
func Enable(execPath string) error {
	path, err := desktopPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("autostart: creating autostart directory: %w", err)
	}

	content := fmt.Sprintf(desktopTemplate, execPath)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("autostart: writing %s: %w", path, err)
	}
	return nil
}

// Disable removes the autostart .desktop file, if present.
func Disable() error {
	path, err := desktopPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("autostart: removing %s: %w", path, err)
	}
	return nil
}

// IsEnabled reports whether the autostart .desktop file currently exists.
func IsEnabled() (bool, error) {
	path, err := desktopPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("autostart: checking %s: %w", path, err)
}
