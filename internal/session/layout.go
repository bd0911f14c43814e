// Package session groups the artifacts of one recording under a single
// directory and catalogs finished recordings.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session directories are named by capture start time so they sort
// chronologically in a plain listing.
const dirFormat = "recording_20060102_150405"

// Layout locates the artifacts of one session. The video and the event
// log share the same time origin: t=0 is the recording start.
type Layout struct {
	Dir string
}

// NewLayout returns the layout for a session started at start under root.
func NewLayout(root string, start time.Time) Layout {
	return Layout{Dir: filepath.Join(root, start.Format(dirFormat))}
}

// Open wraps an existing session directory.
func Open(dir string) Layout {
	return Layout{Dir: dir}
}

// Create makes the session directory.
func (l Layout) Create() error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	return nil
}

// Name returns the directory base name.
func (l Layout) Name() string {
	return filepath.Base(l.Dir)
}

// VideoPath returns the screen recording path.
func (l Layout) VideoPath() string {
	return filepath.Join(l.Dir, "screen.mp4")
}

// EventsPath returns the input event log path.
func (l Layout) EventsPath() string {
	return filepath.Join(l.Dir, "input_events.csv")
}

// ResolveEvents accepts either a session directory or a direct log path
// and returns the log path.
func ResolveEvents(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	if info.IsDir() {
		return Open(path).EventsPath(), nil
	}
	return path, nil
}
