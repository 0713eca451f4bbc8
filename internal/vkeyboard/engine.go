// Package vkeyboard implements the stateful virtual keyboard engine: it
// consumes scan-code press/release events and emits key actions,
// tracking chronological modifier presses, layer history, and layer
// locks (spec §4.2–§4.8).
package vkeyboard

import (
	"github.com/keylayer/keylayerd/internal/layergraph"
	"github.com/keylayer/keylayerd/internal/layout"
)

// pressedKey remembers what a scan code's press produced, and whether it
// produced anything at all (spec §4.5 step 1: repeats replay the
// original action even if it was "no mapping").
type pressedKey struct {
	action layout.KeyAction
	ok     bool
}

// Engine is the stateful translator built from a Layout. It lives for the
// duration of the process and is single-threaded: callers must serialize
// access (spec §5).
type Engine struct {
	layout *layout.Layout

	activeGraph  *layergraph.Graph
	lockedLayer  layout.LayerID
	layerHistory []layout.LayerID

	pressedModifiers []layout.ScanCode
	pressedKeys      map[layout.ScanCode]pressedKey
}

// New builds an engine from a frozen Layout (spec §4.2).
func New(l *layout.Layout) *Engine {
	base := l.Base()
	return &Engine{
		layout:       l,
		activeGraph:  l.Graph().Clone(),
		lockedLayer:  base,
		layerHistory: []layout.LayerID{base},
		pressedKeys:  make(map[layout.ScanCode]pressedKey),
	}
}

// activeLayerID is always layerHistory's last entry (spec §4.3).
func (e *Engine) activeLayerID() layout.LayerID {
	return e.layerHistory[len(e.layerHistory)-1]
}

// ActiveLayer returns the name of the currently active layer.
func (e *Engine) ActiveLayer() string {
	return e.layout.LayerName(e.activeLayerID())
}

// LockedLayer returns the name of the layer active when no modifiers are
// held.
func (e *Engine) LockedLayer() string {
	return e.layout.LayerName(e.lockedLayer)
}

// findLayerActivation walks graph from start, following one edge per
// entry in pressedModifiers, in order (spec §4.3).
func (e *Engine) findLayerActivation(graph *layergraph.Graph, start layout.LayerID) layout.LayerID {
	layer := start
	for _, scanCode := range e.pressedModifiers {
		if to, ok := graph.EdgeTarget(layer, scanCode); ok {
			layer = to
		}
	}
	return layer
}

// updateLayerHistory recomputes the candidate active layer and reconciles
// it with layerHistory (spec §4.3 "History update").
func (e *Engine) updateLayerHistory() {
	candidate := e.findLayerActivation(e.activeGraph, e.lockedLayer)

	// Scan history from the end backward; if candidate appears before we
	// reach the earliest occurrence of lockedLayer, truncate there
	// (recalling a previously visited layer).
	foundAt := -1
	for idx := len(e.layerHistory) - 1; idx >= 0; idx-- {
		if e.layerHistory[idx] == candidate {
			foundAt = idx
			break
		}
		if e.layerHistory[idx] == e.lockedLayer {
			break
		}
	}

	if foundAt >= 0 {
		e.layerHistory = e.layerHistory[:foundAt+1]
	} else {
		e.layerHistory = append(e.layerHistory, candidate)
	}
}

// LockLayer performs the layer-lock graph rewrite described in spec §4.4.
func (e *Engine) LockLayer(target layout.LayerID) {
	// 1. Reset active graph to the layout's original modifier graph.
	e.activeGraph = e.layout.Graph().Clone()

	// 2. Reverse edges on every simple path from base to target.
	layergraph.ReverseEdgesOnPaths(e.activeGraph, e.layout.Base(), target)

	// 3. Truncate history to target's first occurrence, or reset it.
	foundAt := -1
	for idx, l := range e.layerHistory {
		if l == target {
			foundAt = idx
			break
		}
	}
	if foundAt >= 0 {
		e.layerHistory = e.layerHistory[:foundAt+1]
	} else {
		e.layerHistory = []layout.LayerID{target}
	}

	// 4. Set locked layer and recompute active layer.
	e.lockedLayer = target
	e.updateLayerHistory()
}

// lookupAction searches layerHistory from the end backward for the first
// keymap entry at (layer, scanCode) (spec §4.5 step 2).
func (e *Engine) lookupAction(scanCode layout.ScanCode) (layout.KeyAction, bool) {
	for idx := len(e.layerHistory) - 1; idx >= 0; idx-- {
		if a, ok := e.layout.Lookup(e.layerHistory[idx], scanCode); ok {
			return a, true
		}
	}
	return layout.KeyAction{}, false
}

// pressModifier implements spec §4.5's press_modifier rules.
func (e *Engine) pressModifier(scanCode layout.ScanCode) {
	if n := len(e.pressedModifiers); n > 0 && e.pressedModifiers[n-1] == scanCode {
		// Hardware auto-repeat: ignore.
		return
	}

	for i, s := range e.pressedModifiers {
		if s == scanCode {
			// We missed a release event; drop the stale entry.
			e.pressedModifiers = append(e.pressedModifiers[:i], e.pressedModifiers[i+1:]...)
			break
		}
	}

	e.pressedModifiers = append(e.pressedModifiers, scanCode)
	e.updateLayerHistory()
}

// PressKey processes a scan-code press and returns the action to
// synthesize, if any (spec §4.5).
func (e *Engine) PressKey(scanCode layout.ScanCode) (layout.KeyAction, bool) {
	pk, alreadyHeld := e.pressedKeys[scanCode]
	if !alreadyHeld {
		action, ok := e.lookupAction(scanCode)
		pk = pressedKey{action: action, ok: ok}
	}

	if e.layout.IsModifier(scanCode) {
		e.pressModifier(scanCode)
	}

	e.pressedKeys[scanCode] = pk

	return pk.action, pk.ok
}

// ReleaseKey processes a scan-code release and returns the action that
// was produced on the matching press, if any (spec §4.6).
func (e *Engine) ReleaseKey(scanCode layout.ScanCode) (layout.KeyAction, bool) {
	wasModifier := false
	for i := len(e.pressedModifiers) - 1; i >= 0; i-- {
		if e.pressedModifiers[i] == scanCode {
			e.pressedModifiers = append(e.pressedModifiers[:i], e.pressedModifiers[i+1:]...)
			wasModifier = true
			break
		}
	}

	if wasModifier {
		e.updateLayerHistory()
		e.handleLockTransition(scanCode)
	}

	pk, ok := e.pressedKeys[scanCode]
	delete(e.pressedKeys, scanCode)
	if !ok {
		return layout.KeyAction{}, false
	}
	return pk.action, pk.ok
}

// handleLockTransition implements spec §4.6 step 2: lock on the current
// active layer, or unlock by re-deriving the base-relative layer.
func (e *Engine) handleLockTransition(scanCode layout.ScanCode) {
	if target, ok := e.layout.LockTarget(e.activeLayerID(), scanCode); ok {
		e.LockLayer(target)
		return
	}

	baseRelative := e.findLayerActivation(e.layout.Graph(), e.layout.Base())
	if target, ok := e.layout.LockTarget(baseRelative, scanCode); ok && target == e.lockedLayer {
		e.LockLayer(e.layout.Base())
	}
}
