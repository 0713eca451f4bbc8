// Package layoutcfg loads a keyboard layout graph from a TOML document
// into a frozen layout.Layout, via an intermediate layout.Builder.
package layoutcfg

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/keylayer/keylayerd/internal/layout"
)

// Error kinds this package can fail construction with (spec §7).
var (
	// ErrConfigParse wraps any TOML decode failure.
	ErrConfigParse = errors.New("layoutcfg: malformed layout file")
	// ErrDuplicateBaseLayer is returned when two or more layers look like
	// base-layer candidates purely from the TOML shape, before the
	// request ever reaches layout.Build's graph-level check.
	ErrDuplicateBaseLayer = errors.New("layoutcfg: more than one base-layer candidate")
)

// modifierEdge is one [[layers.<name>.modifiers]] table.
type modifierEdge struct {
	ScanCode  uint16 `toml:"scan_code"`
	Target    string `toml:"target"`
	ForwardVK *uint8 `toml:"forward_vk"`
}

// lockEdge is one [[layers.<name>.locks]] table.
type lockEdge struct {
	ScanCode  uint16 `toml:"scan_code"`
	Target    string `toml:"target"`
	ForwardVK *uint8 `toml:"forward_vk"`
}

// mapEntry is one [[layers.<name>.map]] table. Exactly one of Characters,
// VK, or Ignore should be set; Characters wins if more than one is.
type mapEntry struct {
	ScanCode   uint16 `toml:"scan_code"`
	Characters string `toml:"characters"`
	VK         *uint8 `toml:"vk"`
	Ignore     bool   `toml:"ignore"`
}

// layerTable is one [layers.<name>] section.
type layerTable struct {
	Modifiers []modifierEdge `toml:"modifiers"`
	Locks     []lockEdge     `toml:"locks"`
	Map       []mapEntry     `toml:"map"`
}

// document is the root of a layout TOML file.
type document struct {
	Layers map[string]layerTable `toml:"layers"`
}

// Load reads and parses the layout file at path, then builds it into a
// frozen Layout. Warnings describe layers unreachable from base; they do
// not prevent use.
func Load(path string) (*layout.Layout, []layout.Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return Parse(data)
}

// Parse builds a Layout directly from TOML document bytes, for tests and
// callers that already have the content in memory.
func Parse(data []byte) (*layout.Layout, []layout.Warning, error) {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := checkSingleBaseCandidate(doc); err != nil {
		return nil, nil, err
	}

	b := layout.NewBuilder()
	for name, table := range doc.Layers {
		for _, m := range table.Map {
			for _, action := range expandMapEntry(m) {
				b.AddKey(action.scanCode, name, action.action)
			}
		}
		for _, m := range table.Modifiers {
			b.AddModifier(m.ScanCode, name, m.Target, m.ForwardVK)
		}
		for _, lk := range table.Locks {
			b.AddLayerLock(lk.ScanCode, name, lk.Target, lk.ForwardVK)
		}
	}

	return b.Build()
}

type expandedKey struct {
	scanCode uint16
	action   layout.KeyAction
}

// expandMapEntry mirrors spec.md §6: a Characters string of length N
// starting at ScanCode expands to N consecutive key actions.
func expandMapEntry(m mapEntry) []expandedKey {
	if m.Characters != "" {
		runes := []rune(m.Characters)
		out := make([]expandedKey, 0, len(runes))
		for i, r := range runes {
			out = append(out, expandedKey{scanCode: m.ScanCode + uint16(i), action: layout.Character(r)})
		}
		return out
	}
	if m.VK != nil {
		return []expandedKey{{scanCode: m.ScanCode, action: layout.VirtualKey(*m.VK)}}
	}
	return []expandedKey{{scanCode: m.ScanCode, action: layout.Ignore}}
}

// checkSingleBaseCandidate rejects, at the TOML level, a document whose
// layers are all targets of some modifier edge except for more than one
// — i.e. an ambiguous base layer a user could fix by reading the file,
// before layout.Build has to fail with a generic graph error.
func checkSingleBaseCandidate(doc document) error {
	isTarget := make(map[string]bool, len(doc.Layers))
	for _, table := range doc.Layers {
		for _, m := range table.Modifiers {
			isTarget[m.Target] = true
		}
		for _, lk := range table.Locks {
			if lk.Target != "" {
				isTarget[lk.Target] = true
			}
		}
	}

	var candidates []string
	for name := range doc.Layers {
		if !isTarget[name] {
			candidates = append(candidates, name)
		}
	}

	if len(candidates) > 1 {
		return fmt.Errorf("%w: %v", ErrDuplicateBaseLayer, candidates)
	}
	return nil
}
