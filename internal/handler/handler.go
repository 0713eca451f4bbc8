// Package handler coordinates keyboard input processing: it feeds raw
// scan-code events into the virtual keyboard engine and drives the
// synthesizer from whatever the engine decides to do with them.
package handler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/keylayer/keylayerd/internal/keyboard"
	"github.com/keylayer/keylayerd/internal/layout"
	"github.com/keylayer/keylayerd/internal/mappings"
	"github.com/keylayer/keylayerd/internal/vkeyboard"
)

// Synthesizer is the output side of the host adapter contract (spec
// §4.10): apply an engine action with its press/release polarity, or
// forward a physical event unchanged. keyboard.Synthesizer implements
// this; tests supply a fake.
type Synthesizer interface {
	Apply(action layout.KeyAction, press bool) error
	Passthrough(code uint16, value int32) error
}

// Handler processes keyboard events and applies the active engine's
// layer logic. The mutex guards the handler's own fields (engine pointer,
// enabled flag, layer-state callback) so that a layout swap from another
// goroutine is safe. Engine calls in HandleEvent are made outside the
// lock; the engine (single-threaded, spec §5) is serialized by
// ProcessEvents being the one goroutine that calls HandleEvent.
type Handler struct {
	mu           sync.RWMutex
	engine       *vkeyboard.Engine
	synth        Synthesizer
	enabled      bool
	logger       *slog.Logger
	onLayerState func(active, locked string)
}

// New creates a new keyboard event handler around engine.
func New(engine *vkeyboard.Engine, synth Synthesizer, logger *slog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		synth:   synth,
		enabled: true,
		logger:  logger,
	}
}

// SetOnLayerState registers a callback invoked with the active and locked
// layer names after every event that may have changed either (spec
// §4.13: tray tooltip enrichment). Pass nil to disable.
func (h *Handler) SetOnLayerState(fn func(active, locked string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLayerState = fn
}

// SetEnabled enables or disables key remapping. While disabled, every
// event is forwarded unchanged.
func (h *Handler) SetEnabled(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enabled = enabled
	h.logger.Info("handler state changed", "enabled", enabled)
}

// SetEngine swaps in a freshly built engine, e.g. after a layout reload.
func (h *Handler) SetEngine(engine *vkeyboard.Engine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = engine
	h.logger.Info("layout engine swapped", "activeLayer", engine.ActiveLayer())
}

// ProcessEvents reads events from the channel and processes them until
// ctx is canceled.
func (h *Handler) ProcessEvents(ctx context.Context, events <-chan *keyboard.KeyEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if err := h.HandleEvent(ev); err != nil {
				h.logger.Error("error handling event", "error", err)
			}
		}
	}
}

// HandleEvent translates one scan-code event through the engine and
// drives the synthesizer with the result (spec §6).
func (h *Handler) HandleEvent(ev *keyboard.KeyEvent) error {
	keyName, hasName := mappings.KeyCodeToName[mappings.KeyCode(ev.Code)]
	if !hasName {
		keyName = "unknown"
	}
	h.logger.Debug("key event", "code", ev.Code, "key", keyName, "value", ev.Value)

	h.mu.RLock()
	engine := h.engine
	enabled := h.enabled
	onLayerState := h.onLayerState
	h.mu.RUnlock()

	if !enabled {
		return h.synth.Passthrough(ev.Code, ev.Value)
	}

	if ev.IsPress() || ev.IsRepeat() {
		// PressKey is idempotent while the key is held (spec §4.5
		// invariant 3): a repeat replays the same stored action rather
		// than re-evaluating the current layer.
		a, ok := engine.PressKey(ev.Code)
		if onLayerState != nil {
			onLayerState(engine.ActiveLayer(), engine.LockedLayer())
		}
		if !ok {
			return h.synth.Passthrough(ev.Code, ev.Value)
		}
		return h.synth.Apply(a, true)
	}

	// Release.
	a, ok := engine.ReleaseKey(ev.Code)
	if onLayerState != nil {
		onLayerState(engine.ActiveLayer(), engine.LockedLayer())
	}
	if !ok {
		return h.synth.Passthrough(ev.Code, ev.Value)
	}
	return h.synth.Apply(a, false)
}
