package layout

import "github.com/keylayer/keylayerd/internal/layergraph"

// Layout is the immutable result of Builder.Build: named layers, the
// per-(layer, scan code) key action map, the modifier graph, and the
// lock table (spec §3).
type Layout struct {
	layerNames        []string
	layerIndex        map[string]LayerID
	keymap            map[keyRef]KeyAction
	locks             map[lockRef]LayerID
	modifierScanCodes map[ScanCode]struct{}
	graph             *layergraph.Graph
	base              LayerID
}

// Base returns the unique base layer id.
func (l *Layout) Base() LayerID {
	return l.base
}

// LayerName returns the human-readable name of id.
func (l *Layout) LayerName(id LayerID) string {
	return l.layerNames[id]
}

// LayerByName resolves a layer name to its id.
func (l *Layout) LayerByName(name string) (LayerID, bool) {
	id, ok := l.layerIndex[name]
	return id, ok
}

// LayerCount returns the number of declared layers.
func (l *Layout) LayerCount() int {
	return len(l.layerNames)
}

// Graph returns the immutable modifier graph. Callers that mutate the
// active graph (the engine, on lock) must Clone() it first.
func (l *Layout) Graph() *layergraph.Graph {
	return l.graph
}

// Lookup returns the key action installed for (layer, scanCode), if any.
func (l *Layout) Lookup(id LayerID, scanCode ScanCode) (KeyAction, bool) {
	a, ok := l.keymap[keyRef{id, scanCode}]
	return a, ok
}

// LockTarget returns the layer a lock key on (layer, scanCode) targets,
// if scanCode is a lock key on that layer.
func (l *Layout) LockTarget(id LayerID, scanCode ScanCode) (LayerID, bool) {
	t, ok := l.locks[lockRef{id, scanCode}]
	return t, ok
}

// IsModifier reports whether scanCode participates in any modifier or
// lock edge.
func (l *Layout) IsModifier(scanCode ScanCode) bool {
	_, ok := l.modifierScanCodes[scanCode]
	return ok
}

// ModifierScanCodes returns the set of scan codes used for layer
// switching, for callers that need to iterate it (e.g. the handler
// deciding whether to forward a key without consulting the engine).
func (l *Layout) ModifierScanCodes() map[ScanCode]struct{} {
	return l.modifierScanCodes
}
