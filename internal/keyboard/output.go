package keyboard

import (
	"fmt"
	"log/slog"

	"github.com/bendahl/uinput"

	"github.com/keylayer/keylayerd/internal/layout"
)

// Synthesizer injects key events and Unicode characters on a uinput
// virtual keyboard, driven by the engine's KeyAction outputs (spec
// §4.10). It is the teacher's VirtualKeyboard, renamed to avoid
// confusion with vkeyboard.Engine and narrowed to the four operations
// the output contract actually needs.
type Synthesizer struct {
	keyboard uinput.Keyboard
	logger   *slog.Logger
}

// NewSynthesizer creates a virtual keyboard for output.
func NewSynthesizer(logger *slog.Logger) (*Synthesizer, error) {
	kb, err := uinput.CreateKeyboard("/dev/uinput", []byte("keylayerd-virtual"))
	if err != nil {
		return nil, fmt.Errorf("creating virtual keyboard: %w", err)
	}

	return &Synthesizer{
		keyboard: kb,
		logger:   logger,
	}, nil
}

// Close releases the virtual keyboard.
func (s *Synthesizer) Close() error {
	return s.keyboard.Close()
}

// Apply emits the OS-level effect of action, as produced by an engine
// press (press=true) or release (press=false). Ignore is a no-op;
// Character types once on press and does nothing on release (the
// character was already committed); VirtualKey preserves polarity so
// held modifiers keep working across the VK it forwards to.
func (s *Synthesizer) Apply(action layout.KeyAction, press bool) error {
	switch action.Kind {
	case layout.ActionIgnore:
		return nil
	case layout.ActionCharacter:
		if !press {
			return nil
		}
		return s.TypeUnicode(action.Rune)
	case layout.ActionVirtualKey:
		if press {
			return s.keyboard.KeyDown(int(action.VK))
		}
		return s.keyboard.KeyUp(int(action.VK))
	default:
		return nil
	}
}

// TypeUnicode types a Unicode character using the Ctrl+Shift+U method.
// This works in GTK/Qt applications that support Unicode input. On
// AZERTY keyboards, digits require Shift to be pressed.
func (s *Synthesizer) TypeUnicode(r rune) error {
	hex := fmt.Sprintf("%x", r) // lowercase hex

	s.logger.Debug("typing unicode via ctrl+shift+u", "char", string(r), "hex", hex)

	if err := s.keyboard.KeyDown(uinput.KeyLeftctrl); err != nil {
		return err
	}
	if err := s.keyboard.KeyDown(uinput.KeyLeftshift); err != nil {
		s.keyboard.KeyUp(uinput.KeyLeftctrl)
		return err
	}
	if err := s.keyboard.KeyPress(uinput.KeyU); err != nil {
		s.keyboard.KeyUp(uinput.KeyLeftshift)
		s.keyboard.KeyUp(uinput.KeyLeftctrl)
		return err
	}
	if err := s.keyboard.KeyUp(uinput.KeyLeftshift); err != nil {
		s.keyboard.KeyUp(uinput.KeyLeftctrl)
		return err
	}
	if err := s.keyboard.KeyUp(uinput.KeyLeftctrl); err != nil {
		return err
	}

	for _, c := range hex {
		if err := s.typeHexChar(c); err != nil {
			return err
		}
	}

	return s.keyboard.KeyPress(uinput.KeySpace)
}

// typeHexChar types a single hex character (0-9, a-f). On AZERTY
// keyboards, digits require Shift; letters a-f use their AZERTY
// physical key positions.
func (s *Synthesizer) typeHexChar(c rune) error {
	switch c {
	case '0':
		return s.typeWithShift(uinput.Key0)
	case '1':
		return s.typeWithShift(uinput.Key1)
	case '2':
		return s.typeWithShift(uinput.Key2)
	case '3':
		return s.typeWithShift(uinput.Key3)
	case '4':
		return s.typeWithShift(uinput.Key4)
	case '5':
		return s.typeWithShift(uinput.Key5)
	case '6':
		return s.typeWithShift(uinput.Key6)
	case '7':
		return s.typeWithShift(uinput.Key7)
	case '8':
		return s.typeWithShift(uinput.Key8)
	case '9':
		return s.typeWithShift(uinput.Key9)
	case 'a', 'A':
		return s.keyboard.KeyPress(uinput.KeyQ) // 'a' sits on Q in AZERTY
	case 'b', 'B':
		return s.keyboard.KeyPress(uinput.KeyB)
	case 'c', 'C':
		return s.keyboard.KeyPress(uinput.KeyC)
	case 'd', 'D':
		return s.keyboard.KeyPress(uinput.KeyD)
	case 'e', 'E':
		return s.keyboard.KeyPress(uinput.KeyE)
	case 'f', 'F':
		return s.keyboard.KeyPress(uinput.KeyF)
	}
	return nil
}

func (s *Synthesizer) typeWithShift(keyCode int) error {
	if err := s.keyboard.KeyDown(uinput.KeyLeftshift); err != nil {
		return err
	}
	if err := s.keyboard.KeyPress(keyCode); err != nil {
		s.keyboard.KeyUp(uinput.KeyLeftshift)
		return err
	}
	return s.keyboard.KeyUp(uinput.KeyLeftshift)
}

// Passthrough forwards a physical event unchanged. This is the fourth
// output-contract operation: the engine returned ok == false, so the
// host must not swallow the key (spec §6).
func (s *Synthesizer) Passthrough(code uint16, value int32) error {
	switch value {
	case 0:
		return s.keyboard.KeyUp(int(code))
	case 1:
		return s.keyboard.KeyDown(int(code))
	case 2:
		// The kernel drives auto-repeat from a held KeyDown; sending
		// another KeyDown is enough to keep it going.
		return s.keyboard.KeyDown(int(code))
	}
	return nil
}
