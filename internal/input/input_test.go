package input

import (
	"testing"
)

// TestMouseButtonString tests the wire names of mouse buttons
func TestMouseButtonString(t *testing.T) {
	cases := []struct {
		button MouseButton
		want   string
	}{
		{ButtonLeft, "left"},
		{ButtonRight, "right"},
		{ButtonMiddle, "middle"},
		{ButtonX1, "x1"},
		{ButtonX2, "x2"},
		{MouseButton(9), "button9"},
	}
	for _, c := range cases {
		if got := c.button.String(); got != c.want {
			t.Errorf("Expected %q, got %q", c.want, got)
		}
	}
}

// TestKeyString tests named and character key rendering
func TestKeyString(t *testing.T) {
	if got := NamedKey("shift").String(); got != "shift" {
		t.Errorf("Expected 'shift', got %q", got)
	}
	if got := CharKey('a').String(); got != "a" {
		t.Errorf("Expected 'a', got %q", got)
	}
	if NamedKey("enter").Char != 0 {
		t.Error("Expected named key to carry no character")
	}
	if CharKey('x').Name != "" {
		t.Error("Expected character key to carry no name")
	}
}

// TestNotificationDefaults tests the zero value used by capture stubs
func TestNotificationDefaults(t *testing.T) {
	var n Notification
	if n.Kind != KindMove {
		t.Errorf("Expected zero kind to be KindMove, got %v", n.Kind)
	}
	if n.Pressed {
		t.Error("Expected zero notification to be unpressed")
	}
}
