//go:build !windows

package input

import (
	"fmt"
)

// Stub implementation for platforms without an injection backend

// Injector represents a stub input injector
type Injector struct{}

// NewInjector creates a new stub injector
func NewInjector() *Injector {
	return &Injector{}
}

// InjectMousePosition places the cursor absolutely (stub)
func (i *Injector) InjectMousePosition(x, y int) error {
	return fmt.Errorf("input injection not supported on this platform")
}

// InjectMouseMove injects a relative mouse movement (stub)
func (i *Injector) InjectMouseMove(dx, dy int) error {
	return fmt.Errorf("input injection not supported on this platform")
}

// InjectMouseButton injects a mouse button event (stub)
func (i *Injector) InjectMouseButton(button MouseButton, pressed bool) error {
	return fmt.Errorf("input injection not supported on this platform")
}

// InjectKey injects a keyboard event (stub)
func (i *Injector) InjectKey(key Key, pressed bool) error {
	return fmt.Errorf("input injection not supported on this platform")
}
