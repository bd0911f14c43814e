//go:build !windows

package input

import (
	"fmt"
)

// Stub implementation for platforms without a capture backend

// Capture represents a stub input capture
type Capture struct{}

// NewCapture creates a new stub capture
func NewCapture() *Capture {
	return &Capture{}
}

// Start begins capturing input (stub)
func (c *Capture) Start() error {
	return fmt.Errorf("input capture not supported on this platform")
}

// Stop stops capturing input (stub)
func (c *Capture) Stop() error {
	return nil
}

// Events returns the notification channel (stub)
func (c *Capture) Events() <-chan Notification {
	return nil
}
