package mappings

// VirtualKey identifies an OS-level virtual key code, the values a
// layout.KeyAction's VirtualKey variant carries. The numbering follows
// the Windows VK_* convention (the original spec's own host platform),
// since config authors coming from that spec already think in those
// values for forward_vk entries.
type VirtualKey uint8

const (
	VK_SHIFT      VirtualKey = 0x10
	VK_CONTROL    VirtualKey = 0x11
	VK_MENU       VirtualKey = 0x12 // Alt
	VK_CAPITAL    VirtualKey = 0x14 // Caps Lock
	VK_LSHIFT     VirtualKey = 0xA0
	VK_RSHIFT     VirtualKey = 0xA1
	VK_LCONTROL   VirtualKey = 0xA2
	VK_RCONTROL   VirtualKey = 0xA3
	VK_LMENU      VirtualKey = 0xA4
	VK_RMENU      VirtualKey = 0xA5
	VK_LWIN       VirtualKey = 0x5B
	VK_RWIN       VirtualKey = 0x5C
)

// VKToName maps a handful of well-known virtual keys to names, for log
// messages; unnamed codes just print as a hex number.
var VKToName = map[VirtualKey]string{
	VK_SHIFT:    "shift",
	VK_CONTROL:  "control",
	VK_MENU:     "alt",
	VK_CAPITAL:  "capslock",
	VK_LSHIFT:   "lshift",
	VK_RSHIFT:   "rshift",
	VK_LCONTROL: "lcontrol",
	VK_RCONTROL: "rcontrol",
	VK_LMENU:    "lalt",
	VK_RMENU:    "ralt",
	VK_LWIN:     "lwin",
	VK_RWIN:     "rwin",
}
