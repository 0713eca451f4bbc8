package vkeyboard

import (
	"fmt"

	"github.com/keylayer/keylayerd/internal/layout"
)

// LockLayerByName resolves name against the layout and locks to it. It is
// a convenience for callers outside the engine (tests, a future
// caps-lock-by-name host command) that do not carry a LayerID around.
func (e *Engine) LockLayerByName(name string) error {
	id, ok := e.layout.LayerByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", layout.ErrUnknownLayer, name)
	}
	e.LockLayer(id)
	return nil
}
