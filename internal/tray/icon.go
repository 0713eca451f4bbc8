package tray

import _ "embed"

//go:embed assets/keyboard.png
var keyboardIcon []byte

//go:embed assets/keyboard-disabled.png
var keyboardDisabledIcon []byte
