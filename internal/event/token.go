package event

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"iorec/internal/input"
)

const buttonPrefix = "Button."

// ButtonToken returns the wire token for a mouse button, e.g. "Button.left".
func ButtonToken(b input.MouseButton) string {
	return buttonPrefix + b.String()
}

// ParseButtonToken inverts ButtonToken.
func ParseButtonToken(tok string) (input.MouseButton, error) {
	name, ok := strings.CutPrefix(tok, buttonPrefix)
	if !ok {
		return 0, fmt.Errorf("not a button token: %q", tok)
	}
	switch name {
	case "left":
		return input.ButtonLeft, nil
	case "right":
		return input.ButtonRight, nil
	case "middle":
		return input.ButtonMiddle, nil
	case "x1":
		return input.ButtonX1, nil
	case "x2":
		return input.ButtonX2, nil
	}
	return 0, fmt.Errorf("unknown button %q", name)
}

// KeyToken returns the stable string token for a key: the canonical name for
// named keys, the literal character otherwise.
func KeyToken(k input.Key) string {
	if k.Name != "" {
		return k.Name
	}
	return string(k.Char)
}

// ParseKeyToken inverts KeyToken. Single-character tokens decode as literal
// character keys, everything else as a named key. It never fails: a token
// the current platform cannot resolve still round-trips as an opaque name
// and the injector decides what to do with it.
func ParseKeyToken(tok string) input.Key {
	if utf8.RuneCountInString(tok) == 1 {
		r, _ := utf8.DecodeRuneInString(tok)
		return input.CharKey(r)
	}
	return input.NamedKey(tok)
}

// ScrollToken returns the wire token for a scroll step, e.g. "scroll(0:-1)".
func ScrollToken(dx, dy int) string {
	return fmt.Sprintf("scroll(%d:%d)", dx, dy)
}

// ParseScrollToken inverts ScrollToken.
func ParseScrollToken(tok string) (dx, dy int, err error) {
	inner, ok := strings.CutPrefix(tok, "scroll(")
	if !ok {
		return 0, 0, fmt.Errorf("not a scroll token: %q", tok)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return 0, 0, fmt.Errorf("not a scroll token: %q", tok)
	}
	dxs, dys, ok := strings.Cut(inner, ":")
	if !ok {
		return 0, 0, fmt.Errorf("not a scroll token: %q", tok)
	}
	if dx, err = strconv.Atoi(dxs); err != nil {
		return 0, 0, fmt.Errorf("bad scroll delta in %q", tok)
	}
	if dy, err = strconv.Atoi(dys); err != nil {
		return 0, 0, fmt.Errorf("bad scroll delta in %q", tok)
	}
	return dx, dy, nil
}
