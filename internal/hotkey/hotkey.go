// Package hotkey matches key chords against the captured input stream.
package hotkey

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"iorec/internal/event"
)

// Manager handles hotkey registration and matching. It is fed from the
// recorder's event stream rather than its own OS hooks, so the same
// capture drives both the log and chord detection.
type Manager struct {
	mu           sync.RWMutex
	hotkeys      []*registeredHotkey
	currentState map[string]bool // chord parts currently pressed
}

type registeredHotkey struct {
	parts    []string // e.g., ["CTRL", "ALT", "F10"]
	original string
	callback func()
}

// NewManager creates a new hotkey manager
func NewManager() *Manager {
	return &Manager{
		currentState: make(map[string]bool),
	}
}

// Register registers a hotkey string (e.g. "Ctrl+Alt+F10") and a callback.
func (m *Manager) Register(hotkeyStr string, callback func()) error {
	if hotkeyStr == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.Split(strings.ToUpper(hotkeyStr), "+")
	for i, p := range parts {
		p = canonicalPart(strings.TrimSpace(p))
		if p == "" {
			return fmt.Errorf("invalid hotkey %q", hotkeyStr)
		}
		parts[i] = p
	}

	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		parts:    parts,
		original: hotkeyStr,
		callback: callback,
	})
	return nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// Feed updates chord state from one recorded event. Only click and
// keyboard events carry press state; everything else is ignored.
func (m *Manager) Feed(ev event.Event) {
	switch ev.Kind {
	case event.MouseClick, event.Keyboard:
		m.UpdateState(tokenPart(ev.Token), ev.Pressed)
	}
}

// UpdateState updates the internal state of a chord part and checks for
// matches on press.
func (m *Manager) UpdateState(part string, isDown bool) {
	m.mu.Lock()
	part = strings.ToUpper(part)
	if isDown {
		m.currentState[part] = true
	} else {
		delete(m.currentState, part)
	}
	m.mu.Unlock()

	if isDown {
		m.checkMatches()
	}
}

func (m *Manager) checkMatches() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, hk := range m.hotkeys {
		match := true
		// All parts of the hotkey must be in currentState
		for _, part := range hk.parts {
			if !m.currentState[part] {
				match = false
				break
			}
		}

		if match {
			log.Info().Str("hotkey", hk.original).Msg("Hotkey triggered")
			go hk.callback()
		}
	}
}

// tokenPart maps a recorded token to its chord part name. Left/right
// modifier variants collapse to one part so "Ctrl" matches either key.
func tokenPart(token string) string {
	switch token {
	case "ctrl_l", "ctrl_r":
		return "CTRL"
	case "alt_l", "alt_r", "alt_gr":
		return "ALT"
	case "shift", "shift_r":
		return "SHIFT"
	case "cmd", "cmd_r":
		return "CMD"
	case "Button.left":
		return "MOUSE1"
	case "Button.right":
		return "MOUSE2"
	case "Button.middle":
		return "MOUSE3"
	case "Button.x1":
		return "MOUSE4"
	case "Button.x2":
		return "MOUSE5"
	}
	return strings.ToUpper(token)
}

// canonicalPart folds the aliases users write in config strings.
func canonicalPart(part string) string {
	switch part {
	case "CONTROL":
		return "CTRL"
	case "WIN", "SUPER", "META", "COMMAND":
		return "CMD"
	case "ESCAPE":
		return "ESC"
	case "RETURN":
		return "ENTER"
	}
	return part
}
