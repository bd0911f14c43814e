//go:build windows

package input

import (
	"fmt"
	"strconv"
)

// MAPVK_VK_TO_CHAR
const mapvkVKToChar = 2

var procMapVirtualKey = user32.NewProc("MapVirtualKeyW")

// vkNames maps virtual-key codes to the canonical token names used in the
// event log. Left-hand modifiers use the unsuffixed name.
var vkNames = map[uint16]string{
	0x08: "backspace",
	0x09: "tab",
	0x0D: "enter",
	0x10: "shift",
	0x11: "ctrl_l",
	0x12: "alt_l",
	0x13: "pause",
	0x14: "caps_lock",
	0x1B: "esc",
	0x20: "space",
	0x21: "page_up",
	0x22: "page_down",
	0x23: "end",
	0x24: "home",
	0x25: "left",
	0x26: "up",
	0x27: "right",
	0x28: "down",
	0x2C: "print_screen",
	0x2D: "insert",
	0x2E: "delete",
	0x5B: "cmd",
	0x5C: "cmd_r",
	0x5D: "menu",
	0x70: "f1",
	0x71: "f2",
	0x72: "f3",
	0x73: "f4",
	0x74: "f5",
	0x75: "f6",
	0x76: "f7",
	0x77: "f8",
	0x78: "f9",
	0x79: "f10",
	0x7A: "f11",
	0x7B: "f12",
	0x90: "num_lock",
	0x91: "scroll_lock",
	0xA0: "shift",
	0xA1: "shift_r",
	0xA2: "ctrl_l",
	0xA3: "ctrl_r",
	0xA4: "alt_l",
	0xA5: "alt_r",
}

// nameVKs resolves token names back to virtual-key codes for injection.
var nameVKs = map[string]uint16{
	"backspace":    0x08,
	"tab":          0x09,
	"enter":        0x0D,
	"shift":        0xA0,
	"shift_r":      0xA1,
	"ctrl_l":       0xA2,
	"ctrl_r":       0xA3,
	"alt_l":        0xA4,
	"alt_r":        0xA5,
	"alt_gr":       0xA5,
	"pause":        0x13,
	"caps_lock":    0x14,
	"esc":          0x1B,
	"space":        0x20,
	"page_up":      0x21,
	"page_down":    0x22,
	"end":          0x23,
	"home":         0x24,
	"left":         0x25,
	"up":           0x26,
	"right":        0x27,
	"down":         0x28,
	"print_screen": 0x2C,
	"insert":       0x2D,
	"delete":       0x2E,
	"cmd":          0x5B,
	"cmd_r":        0x5C,
	"menu":         0x5D,
	"f1":           0x70,
	"f2":           0x71,
	"f3":           0x72,
	"f4":           0x73,
	"f5":           0x74,
	"f6":           0x75,
	"f7":           0x76,
	"f8":           0x77,
	"f9":           0x78,
	"f10":          0x79,
	"f11":          0x7A,
	"f12":          0x7B,
	"num_lock":     0x90,
	"scroll_lock":  0x91,
}

// keyFromVK converts a virtual-key code to a Key. Named keys use their
// canonical token; printable keys carry the character they produce on the
// base layer.
func keyFromVK(vk uint16) Key {
	if name, ok := vkNames[vk]; ok {
		return NamedKey(name)
	}

	ch, _, _ := procMapVirtualKey.Call(uintptr(vk), mapvkVKToChar)
	// The high bit flags a dead key; the low bits still hold the character.
	if r := rune(uint32(ch) &^ 0x80000000); r != 0 {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return CharKey(r)
	}
	return NamedKey(fmt.Sprintf("<%d>", vk))
}

// vkFromKey resolves a named Key back to a virtual-key code. Opaque
// "<nnn>" names round trip to their original code.
func vkFromKey(k Key) (uint16, bool) {
	if vk, ok := nameVKs[k.Name]; ok {
		return vk, true
	}
	if len(k.Name) > 2 && k.Name[0] == '<' && k.Name[len(k.Name)-1] == '>' {
		if n, err := strconv.Atoi(k.Name[1 : len(k.Name)-1]); err == nil && n > 0 && n < 0x100 {
			return uint16(n), true
		}
	}
	return 0, false
}
