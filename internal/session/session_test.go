package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLayoutNaming tests the start-time directory convention
func TestLayoutNaming(t *testing.T) {
	start := time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local)
	l := NewLayout("/data", start)

	if l.Name() != "recording_20240102_150405" {
		t.Errorf("Expected recording_20240102_150405, got %q", l.Name())
	}
	if l.VideoPath() != filepath.Join(l.Dir, "screen.mp4") {
		t.Errorf("Unexpected video path %q", l.VideoPath())
	}
	if l.EventsPath() != filepath.Join(l.Dir, "input_events.csv") {
		t.Errorf("Unexpected events path %q", l.EventsPath())
	}
}

// TestLayoutCreate tests directory creation
func TestLayoutCreate(t *testing.T) {
	l := NewLayout(t.TempDir(), time.Now())
	if err := l.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	info, err := os.Stat(l.Dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("Expected session directory to exist, got %v", err)
	}
}

// TestResolveEvents tests directory and file arguments
func TestResolveEvents(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)

	got, err := ResolveEvents(dir)
	if err != nil {
		t.Fatalf("ResolveEvents failed: %v", err)
	}
	if got != l.EventsPath() {
		t.Errorf("Expected %q, got %q", l.EventsPath(), got)
	}

	file := filepath.Join(dir, "custom.csv")
	if err := os.WriteFile(file, []byte("timestamp,type,x,y,button_or_key,pressed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = ResolveEvents(file)
	if err != nil {
		t.Fatalf("ResolveEvents failed: %v", err)
	}
	if got != file {
		t.Errorf("Expected file path passthrough, got %q", got)
	}

	if _, err := ResolveEvents(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing path")
	}
}

// TestCatalog tests insert and ordered listing
func TestCatalog(t *testing.T) {
	c, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("OpenCatalog failed: %v", err)
	}
	defer c.Close()

	older := Info{Dir: "/data/recording_a", StartedAt: time.Unix(1000, 0), Duration: 12.5, Events: 40}
	newer := Info{Dir: "/data/recording_b", StartedAt: time.Unix(2000, 0), Duration: 3.25, Events: 7}

	if _, err := c.Add(older); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	id, err := c.Add(newer)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id == "" {
		t.Error("Expected a generated session id")
	}

	sessions, err := c.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].Dir != "/data/recording_b" {
		t.Errorf("Expected most recent first, got %+v", sessions)
	}
	if sessions[0].Events != 7 || sessions[0].Duration != 3.25 {
		t.Errorf("Unexpected row %+v", sessions[0])
	}
	if !sessions[1].StartedAt.Equal(time.Unix(1000, 0)) {
		t.Errorf("Expected started_at round trip, got %v", sessions[1].StartedAt)
	}
}
