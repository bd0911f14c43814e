// Package event defines the recorded input event model and its CSV codec.
//
// One event log row corresponds to one Event. The log is the only artifact
// shared between recording, replay and timeline reconstruction, so the codec
// here is the single source of truth for the wire format.
package event

import (
	"errors"
	"fmt"
)

// ErrCorruptRecord reports a malformed row in an event log. Reads abort at
// the first malformed row instead of skipping it: a skipped press or release
// would desynchronize held-state reconstruction for the rest of the log.
var ErrCorruptRecord = errors.New("event: corrupt record")

// Kind is the event variant tag.
type Kind int

const (
	MouseMove Kind = iota
	MouseClick
	MouseScroll
	Keyboard
)

// String returns the kind's wire name as written in the type column.
func (k Kind) String() string {
	switch k {
	case MouseMove:
		return "mouse_move"
	case MouseClick:
		return "mouse_click"
	case MouseScroll:
		return "mouse_scroll"
	case Keyboard:
		return "keyboard"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a type column value back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "mouse_move":
		return MouseMove, nil
	case "mouse_click":
		return MouseClick, nil
	case "mouse_scroll":
		return MouseScroll, nil
	case "keyboard":
		return Keyboard, nil
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// Event is one recorded input event, immutable once created.
//
// Timestamp is in seconds relative to the session start and is non-negative.
// X and Y are absolute screen coordinates, -1,-1 for keyboard events. Token
// is the string identity of the button, key or scroll delta involved, empty
// for plain moves. Pressed is meaningful for MouseClick and Keyboard only.
type Event struct {
	Timestamp float64
	Kind      Kind
	X, Y      int
	Token     string
	Pressed   bool
}
