// Package layout implements the append-only layout builder and the frozen
// Layout it produces: layers, per-(layer, scan code) key actions, modifier
// edges, and lock edges (spec §3, §4.1).
package layout

// ScanCode identifies a physical key as delivered by the OS. Values are
// opaque to this package; values above 0xE000 denote "extended" keys.
type ScanCode = uint16

// ActionKind tags which variant of KeyAction is populated.
type ActionKind uint8

const (
	// ActionIgnore swallows the key event: nothing is forwarded, nothing
	// is synthesized.
	ActionIgnore ActionKind = iota
	// ActionCharacter emits a Unicode code point.
	ActionCharacter
	// ActionVirtualKey emits an OS-level virtual key code.
	ActionVirtualKey
)

// KeyAction is the sum type spec §3 describes: Ignore | Character(rune) |
// VirtualKey(u8). The zero value is ActionIgnore, which is intentional:
// an explicitly-declared modifier key with no forwarded VK defaults to
// Ignore (spec §4.1: "otherwise it is Ignore").
type KeyAction struct {
	Kind ActionKind
	Rune rune
	VK   uint8
}

// Ignore is the key action that swallows an event.
var Ignore = KeyAction{Kind: ActionIgnore}

// Character builds a KeyAction that emits the Unicode code point r.
func Character(r rune) KeyAction {
	return KeyAction{Kind: ActionCharacter, Rune: r}
}

// VirtualKey builds a KeyAction that emits virtual key vk.
func VirtualKey(vk uint8) KeyAction {
	return KeyAction{Kind: ActionVirtualKey, VK: vk}
}

// String renders the action for logs and test failure messages.
func (a KeyAction) String() string {
	switch a.Kind {
	case ActionCharacter:
		return "Character(" + string(a.Rune) + ")"
	case ActionVirtualKey:
		return "VirtualKey(0x" + hexByte(a.VK) + ")"
	default:
		return "Ignore"
	}
}

func hexByte(b uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}
