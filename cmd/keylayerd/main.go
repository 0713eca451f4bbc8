// keylayerd is a layered keyboard remapper: it grabs physical keyboards
// via evdev, translates scan codes through a graph of layers, and
// synthesizes the result on a virtual uinput keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/keylayer/keylayerd/internal/autostart"
	"github.com/keylayer/keylayerd/internal/config"
	"github.com/keylayer/keylayerd/internal/handler"
	"github.com/keylayer/keylayerd/internal/keyboard"
	"github.com/keylayer/keylayerd/internal/layoutcfg"
	"github.com/keylayer/keylayerd/internal/reload"
	"github.com/keylayer/keylayerd/internal/singleton"
	"github.com/keylayer/keylayerd/internal/tray"
	"github.com/keylayer/keylayerd/internal/vkeyboard"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	layoutName := flag.String("layout", "", "Layout name to use")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version information")
	noTray := flag.Bool("no-tray", false, "Run without system tray")
	enableAutostart := flag.Bool("enable-autostart", false, "Install an XDG autostart entry and exit")
	disableAutostart := flag.Bool("disable-autostart", false, "Remove the XDG autostart entry and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("keylayerd %s (%s) built %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	if *enableAutostart {
		exe, err := os.Executable()
		if err != nil {
			logger.Error("failed to resolve executable path", "error", err)
			os.Exit(1)
		}
		if err := autostart.Enable(exe); err != nil {
			logger.Error("failed to enable autostart", "error", err)
			os.Exit(1)
		}
		fmt.Println("autostart enabled")
		os.Exit(0)
	}
	if *disableAutostart {
		if err := autostart.Disable(); err != nil {
			logger.Error("failed to disable autostart", "error", err)
			os.Exit(1)
		}
		fmt.Println("autostart disabled")
		os.Exit(0)
	}

	lock, err := singleton.Acquire("keylayerd")
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *layoutName != "" {
		cfg.Layout = *layoutName
	}

	logger.Info("keylayerd starting", "version", version, "layout", cfg.Layout)

	if err := ensureConfigDir(cfg); err != nil {
		logger.Error("failed to create config directory", "error", err)
		os.Exit(1)
	}

	layoutPath := cfg.LayoutPath(cfg.Layout)
	logger.Debug("loading layout file", "path", layoutPath)
	l, warnings, err := layoutcfg.Load(layoutPath)
	if err != nil {
		logger.Error("failed to load layout", "layout", cfg.Layout, "path", layoutPath, "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		logger.Warn(w.String())
	}
	logger.Info("loaded layout", "name", cfg.Layout, "layers", l.LayerCount(), "path", layoutPath)

	engine := vkeyboard.New(l)

	synth, err := keyboard.NewSynthesizer(logger)
	if err != nil {
		logger.Error("failed to create virtual keyboard", "error", err)
		logger.Error("make sure you have write access to /dev/uinput")
		os.Exit(1)
	}
	defer synth.Close()

	devManager := keyboard.NewDeviceManager(logger)
	defer devManager.Close()

	keyboards, err := devManager.FindKeyboards()
	if err != nil {
		logger.Error("failed to find keyboards", "error", err)
		os.Exit(1)
	}
	if len(keyboards) == 0 {
		logger.Error("no keyboards found")
		os.Exit(1)
	}

	for _, kb := range keyboards {
		if err := devManager.GrabDevice(kb); err != nil {
			logger.Error("failed to grab keyboard", "name", kb.Name(), "error", err)
			continue
		}
	}

	events := make(chan *keyboard.KeyEvent, 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, kb := range keyboards {
		go func(dev *keyboard.Device) {
			if err := keyboard.ReadEvents(ctx, dev, events); err != nil {
				logger.Error("error reading events", "device", dev.Name(), "error", err)
			}
		}(kb)
	}

	h := handler.New(engine, synth, logger)

	go func() {
		if err := h.ProcessEvents(ctx, events); err != nil && ctx.Err() == nil {
			logger.Error("error processing events", "error", err)
		}
	}()

	watcher, err := reload.New(layoutPath, func(path string) {
		newLayout, warnings, err := layoutcfg.Load(path)
		if err != nil {
			logger.Error("failed to reload layout", "path", path, "error", err)
			return
		}
		for _, w := range warnings {
			logger.Warn(w.String())
		}
		h.SetEngine(vkeyboard.New(newLayout))
		logger.Info("layout reloaded", "path", path)
	}, logger)
	if err != nil {
		logger.Warn("layout hot-reload disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	availableLayouts, err := cfg.AvailableLayouts()
	if err != nil {
		logger.Warn("could not list layouts", "error", err)
		availableLayouts = []string{cfg.Layout}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *noTray {
		logger.Info("running without system tray, press Ctrl+C to quit")
		<-sigChan
		logger.Info("shutting down...")
	} else {
		trayCfg := tray.Config{
			CurrentLayout:    cfg.Layout,
			AvailableLayouts: availableLayouts,
			Enabled:          true,
			OnLayoutChange: func(layoutName string) {
				newLayout, warnings, err := layoutcfg.Load(cfg.LayoutPath(layoutName))
				if err != nil {
					logger.Error("failed to load layout", "layout", layoutName, "error", err)
					return
				}
				for _, w := range warnings {
					logger.Warn(w.String())
				}
				cfg.Layout = layoutName
				cfg.Save()
				h.SetEngine(vkeyboard.New(newLayout))
			},
			OnToggle: func(enabled bool) {
				h.SetEnabled(enabled)
			},
			OnQuit: func() {
				logger.Info("shutting down...")
				cancel()
				os.Exit(0)
			},
			Logger: logger,
		}

		trayIcon := tray.New(trayCfg)
		h.SetOnLayerState(trayIcon.SetLayerState)

		go func() {
			<-sigChan
			logger.Info("shutting down...")
			trayIcon.Quit()
		}()

		trayIcon.Run()
	}

	logger.Info("keylayerd stopped")
}

func newLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// ensureConfigDir creates the config directory and its layouts
// subdirectory if needed.
func ensureConfigDir(cfg *config.Config) error {
	layoutDir := filepath.Join(cfg.ConfigDir, "layouts")
	return os.MkdirAll(layoutDir, 0755)
}
