// Package input provides cross-platform input capture and injection functionality.
package input

import "fmt"

// Kind discriminates Notification variants.
type Kind int

const (
	KindMove Kind = iota
	KindButton
	KindWheel
	KindKey
)

// MouseButton identifies a physical mouse button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota + 1
	ButtonRight
	ButtonMiddle
	ButtonX1
	ButtonX2
)

// String returns the button's wire name ("left", "right", ...).
func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonX1:
		return "x1"
	case ButtonX2:
		return "x2"
	}
	return fmt.Sprintf("button%d", int(b))
}

// Key identifies a keyboard key either by its canonical name ("shift",
// "ctrl_l", "enter") or, for printable keys, by the literal character it
// produces. Exactly one of Name and Char is set.
type Key struct {
	Name string
	Char rune
}

// NamedKey returns a Key identified by canonical name.
func NamedKey(name string) Key {
	return Key{Name: name}
}

// CharKey returns a Key identified by the character it produces.
func CharKey(r rune) Key {
	return Key{Char: r}
}

func (k Key) String() string {
	if k.Name != "" {
		return k.Name
	}
	return string(k.Char)
}

// Notification is one raw sample delivered by an input capture
// implementation: a cursor position, a button transition, a wheel tick or a
// key transition. X and Y are absolute screen coordinates and are valid for
// all mouse kinds; DX and DY are wheel deltas.
type Notification struct {
	Kind    Kind
	X, Y    int
	DX, DY  int
	Button  MouseButton
	Key     Key
	Pressed bool
}

// InputCapture defines the interface for capturing global input events.
type InputCapture interface {
	Start() error
	Stop() error
	Events() <-chan Notification
}

// InputInjector defines the interface for injecting input events.
type InputInjector interface {
	InjectMousePosition(x, y int) error
	InjectMouseMove(dx, dy int) error
	InjectMouseButton(button MouseButton, pressed bool) error
	InjectKey(key Key, pressed bool) error
}
