package layout

import (
	"fmt"

	"github.com/keylayer/keylayerd/internal/layergraph"
)

// LayerID is a dense small-integer layer index (spec §3: "at most 256
// layers, because edges and locks are keyed by a one-byte index").
type LayerID = layergraph.NodeID

type keyRef struct {
	layer LayerID
	scan  ScanCode
}

type lockRef struct {
	layer LayerID
	scan  ScanCode
}

type modifierEdge struct {
	scan       ScanCode
	from, to   string
	forwardVK  *uint8
	isSelfLock bool
}

// Builder is an append-only accumulator of layer declarations. Operations
// are chainable and order-insensitive except for idempotence (spec §4.1):
// re-adding on the same (layer, scan code) overwrites.
type Builder struct {
	layerOrder []string
	keys       map[string]map[ScanCode]KeyAction
	modifiers  []modifierEdge
	locks      map[string]map[ScanCode]string // from-layer -> scan -> to-layer
	lockVK     map[lockKey]*uint8
}

type lockKey struct {
	fromLayer string
	scan      ScanCode
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		keys:   make(map[string]map[ScanCode]KeyAction),
		locks:  make(map[string]map[ScanCode]string),
		lockVK: make(map[lockKey]*uint8),
	}
}

func (b *Builder) ensureLayer(name string) {
	if _, ok := b.keys[name]; ok {
		return
	}
	b.keys[name] = make(map[ScanCode]KeyAction)
	b.layerOrder = append(b.layerOrder, name)
}

// AddKey installs a key action on one layer. Re-adding on the same
// (layer, scan code) overwrites the previous action.
func (b *Builder) AddKey(scanCode ScanCode, layerName string, action KeyAction) *Builder {
	b.ensureLayer(layerName)
	b.keys[layerName][scanCode] = action
	return b
}

// AddModifier declares scanCode as a modifier edge from -> to. If
// forwardVK is non-nil, the implicit key action installed on from for
// this scan code is VirtualKey(*forwardVK); otherwise it is Ignore
// (spec §4.1).
func (b *Builder) AddModifier(scanCode ScanCode, from, to string, forwardVK *uint8) *Builder {
	b.ensureLayer(from)
	b.ensureLayer(to)
	b.modifiers = append(b.modifiers, modifierEdge{scan: scanCode, from: from, to: to, forwardVK: forwardVK})
	b.installImplicitAction(scanCode, from, forwardVK)
	return b
}

// AddLayerLock declares scanCode as a lock key on layer from targeting
// to. It also behaves as a modifier (transitions to `to` on press) except
// when from == to, in which case it is a self-lock and no graph edge is
// added (spec §4.1, §3: self-locks would create 1-cycles).
func (b *Builder) AddLayerLock(scanCode ScanCode, from, to string, forwardVK *uint8) *Builder {
	b.ensureLayer(from)
	b.ensureLayer(to)

	if _, ok := b.locks[from]; !ok {
		b.locks[from] = make(map[ScanCode]string)
	}
	b.locks[from][scanCode] = to
	b.lockVK[lockKey{from, scanCode}] = forwardVK

	isSelfLock := from == to
	if !isSelfLock {
		b.modifiers = append(b.modifiers, modifierEdge{scan: scanCode, from: from, to: to, forwardVK: forwardVK, isSelfLock: false})
	}
	b.installImplicitAction(scanCode, from, forwardVK)

	return b
}

func (b *Builder) installImplicitAction(scanCode ScanCode, from string, forwardVK *uint8) {
	action := Ignore
	if forwardVK != nil {
		action = VirtualKey(*forwardVK)
	}
	b.keys[from][scanCode] = action
}

// Build freezes the builder into a Layout, validating the modifier graph
// per spec §4.1. Warnings describe layers unreachable from base; they do
// not fail construction.
func (b *Builder) Build() (*Layout, []Warning, error) {
	// 1. Intern layer names into dense ids, in first-declared order so
	// construction is deterministic across runs of the same program.
	index := make(map[string]LayerID, len(b.layerOrder))
	for i, name := range b.layerOrder {
		index[name] = LayerID(i)
	}

	resolve := func(name string) (LayerID, error) {
		id, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
		}
		return id, nil
	}

	graph := layergraph.New(len(b.layerOrder))
	for _, m := range b.modifiers {
		from, err := resolve(m.from)
		if err != nil {
			return nil, nil, err
		}
		to, err := resolve(m.to)
		if err != nil {
			return nil, nil, err
		}
		graph.AddEdge(from, to, m.scan)
	}

	// 2. Topological check (ignoring self-locks, which were never added
	// as edges).
	if _, err := layergraph.TopologicalOrder(graph); err != nil {
		return nil, nil, fmt.Errorf("%w", ErrCyclicLayers)
	}

	// 3. Identify the unique base layer: the zero-indegree node that
	// actually roots a subtree (has an outgoing edge), or the sole layer
	// when none do (a flat, single-layer layout).
	base, err := findBaseLayer(graph)
	if err != nil {
		return nil, nil, err
	}

	// 4. Warn about layers unreachable from base.
	reachable := reachableFrom(graph, base)
	var warnings []Warning
	for name, id := range index {
		if !reachable[id] {
			warnings = append(warnings, Warning{Layer: name})
		}
	}

	keymap := make(map[keyRef]KeyAction)
	modifierScanCodes := make(map[ScanCode]struct{})
	for name, keys := range b.keys {
		id := index[name]
		for scan, action := range keys {
			keymap[keyRef{id, scan}] = action
		}
	}
	for _, m := range b.modifiers {
		modifierScanCodes[m.scan] = struct{}{}
	}

	locks := make(map[lockRef]LayerID)
	for fromName, byScan := range b.locks {
		fromID, err := resolve(fromName)
		if err != nil {
			return nil, nil, err
		}
		for scan, toName := range byScan {
			toID, err := resolve(toName)
			if err != nil {
				return nil, nil, err
			}
			locks[lockRef{fromID, scan}] = toID
			modifierScanCodes[scan] = struct{}{}
		}
	}

	layerNames := make([]string, len(b.layerOrder))
	copy(layerNames, b.layerOrder)

	return &Layout{
		layerNames:        layerNames,
		layerIndex:        index,
		keymap:            keymap,
		locks:             locks,
		modifierScanCodes: modifierScanCodes,
		graph:             graph,
		base:              base,
	}, warnings, nil
}

// findBaseLayer picks the unique topological source of graph, per spec
// §4.1: construction fails if there is no or more than one source. A
// zero-indegree node with no outgoing edges is treated as an isolated,
// unreachable layer rather than a competing base candidate, unless it is
// the only layer declared at all.
func findBaseLayer(graph *layergraph.Graph) (LayerID, error) {
	if graph.NodeCount() == 0 {
		return 0, fmt.Errorf("%w: no layers declared", ErrMultipleBaseLayers)
	}

	roots := layergraph.Sources(graph)
	if len(roots) == 0 {
		// Only possible if every node has an incoming edge, i.e. the
		// graph contains a cycle — already rejected above — so this is
		// unreachable in practice.
		return 0, fmt.Errorf("%w: no source layer", ErrMultipleBaseLayers)
	}

	var rootsWithEdges []LayerID
	for _, r := range roots {
		if graph.OutDegree(r) > 0 {
			rootsWithEdges = append(rootsWithEdges, r)
		}
	}

	switch {
	case len(rootsWithEdges) == 1:
		return rootsWithEdges[0], nil
	case len(rootsWithEdges) > 1:
		return 0, fmt.Errorf("%w: %d candidate base layers", ErrMultipleBaseLayers, len(rootsWithEdges))
	case len(roots) == 1:
		// No layer has any outgoing edge at all, so every layer is a
		// source; a single source means a single flat layer, which is
		// unambiguously the base.
		return roots[0], nil
	default:
		return 0, fmt.Errorf("%w: %d layers with no modifiers", ErrMultipleBaseLayers, len(roots))
	}
}

func reachableFrom(graph *layergraph.Graph, start LayerID) []bool {
	reached := make([]bool, graph.NodeCount())
	reached[start] = true
	queue := []LayerID{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for to := range graph.Edges(node) {
			if !reached[to] {
				reached[to] = true
				queue = append(queue, to)
			}
		}
	}
	return reached
}
