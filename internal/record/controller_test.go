package record

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"iorec/internal/config"
	"iorec/internal/event"
	"iorec/internal/input"
	"iorec/internal/screen"
	"iorec/internal/session"
)

// fakeEncoder stands in for the ffmpeg process
type fakeEncoder struct {
	mu       sync.Mutex
	output   string
	startErr error
	stopErr  error
	stops    int
}

func (e *fakeEncoder) Start(outputPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.startErr != nil {
		return e.startErr
	}
	e.output = outputPath
	return nil
}

func (e *fakeEncoder) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stops++
	return e.stopErr
}

func newTestController(t *testing.T, enc screenEncoder) (*Controller, *fakeCapture, string) {
	t.Helper()

	root := t.TempDir()
	mgr := config.NewManagerAt(filepath.Join(root, "config.yaml"))
	cfg := mgr.Get()
	cfg.Recording.OutputRoot = root
	cfg.Recording.FrameRate = 10
	cfg.Recording.KeepAwake = false

	capture := newFakeCapture()
	c := NewController(mgr, capture)
	c.newEncoder = func(*config.Config) screenEncoder { return enc }
	return c, capture, root
}

// TestControllerSessionLifecycle tests a full start/record/stop cycle
// including the session artifacts and the catalog row
func TestControllerSessionLifecycle(t *testing.T) {
	enc := &fakeEncoder{}
	c, capture, root := newTestController(t, enc)

	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !c.Running() {
		t.Fatal("Expected controller to be running")
	}
	if err := c.Start(); err == nil {
		t.Error("Expected error starting twice")
	}

	name := c.SessionName()
	if !strings.HasPrefix(name, "recording_") {
		t.Fatalf("Expected session name with recording_ prefix, got %q", name)
	}
	dir := filepath.Join(root, name)
	if enc.output != filepath.Join(dir, "screen.mp4") {
		t.Errorf("Expected encoder output under the session directory, got %q", enc.output)
	}

	capture.emit(input.Notification{Kind: input.KindButton, X: 5, Y: 6, Button: input.ButtonLeft, Pressed: true})
	capture.emit(input.Notification{Kind: input.KindButton, X: 5, Y: 6, Button: input.ButtonLeft, Pressed: false})
	capture.emit(input.Notification{Kind: input.KindKey, Key: input.CharKey('q'), Pressed: true})
	capture.emit(input.Notification{Kind: input.KindKey, Key: input.CharKey('q'), Pressed: false})

	info, err := c.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if c.Running() {
		t.Error("Expected controller to be stopped")
	}
	if info.Dir != dir {
		t.Errorf("Expected session dir %q, got %q", dir, info.Dir)
	}
	if info.Events != 4 {
		t.Errorf("Expected 4 recorded events, got %d", info.Events)
	}
	if info.ID == "" {
		t.Error("Expected a catalog ID on the session summary")
	}

	events, err := event.ReadLogFile(filepath.Join(dir, "input_events.csv"))
	if err != nil {
		t.Fatalf("ReadLogFile failed: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("Expected 4 logged events, got %d", len(events))
	}

	cat, err := session.OpenCatalog(filepath.Join(root, "catalog.db"))
	if err != nil {
		t.Fatalf("OpenCatalog failed: %v", err)
	}
	defer cat.Close()
	rows, err := cat.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != info.ID || rows[0].Events != 4 {
		t.Errorf("Expected one catalog row matching the summary, got %+v", rows)
	}

	// Second stop is a no-op and must not stop the encoder again.
	if _, err := c.Stop(); err != nil {
		t.Errorf("Expected idempotent stop, got %v", err)
	}
	if enc.stops != 1 {
		t.Errorf("Expected one encoder stop, got %d", enc.stops)
	}
}

// TestControllerStopHotkey tests that the configured chord ends the
// session from inside the captured stream
func TestControllerStopHotkey(t *testing.T) {
	enc := &fakeEncoder{}
	c, capture, _ := newTestController(t, enc)

	stopped := make(chan session.Info, 1)
	c.SetOnStop(func(info session.Info) { stopped <- info })

	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	capture.emit(input.Notification{Kind: input.KindKey, Key: input.NamedKey("ctrl_l"), Pressed: true})
	capture.emit(input.Notification{Kind: input.KindKey, Key: input.NamedKey("alt_l"), Pressed: true})
	capture.emit(input.Notification{Kind: input.KindKey, Key: input.NamedKey("f10"), Pressed: true})

	select {
	case info := <-stopped:
		if info.Dir == "" {
			t.Error("Expected session summary from the hotkey stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected stop hotkey to end the session")
	}
	if c.Running() {
		t.Error("Expected controller to be stopped after hotkey")
	}
	if enc.stops != 1 {
		t.Errorf("Expected one encoder stop, got %d", enc.stops)
	}
}

// TestControllerEncoderFailure tests that an ffmpeg failure surfaces on
// Stop while the session summary is still produced
func TestControllerEncoderFailure(t *testing.T) {
	enc := &fakeEncoder{stopErr: screen.ErrRecordingFailed}
	c, _, _ := newTestController(t, enc)

	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	info, err := c.Stop()
	if !errors.Is(err, screen.ErrRecordingFailed) {
		t.Fatalf("Expected ErrRecordingFailed, got %v", err)
	}
	if info.Dir == "" {
		t.Error("Expected session summary despite encoder failure")
	}
}

// TestControllerStartUnwind tests that a failed start leaves the
// controller usable
func TestControllerStartUnwind(t *testing.T) {
	enc := &fakeEncoder{startErr: errors.New("spawn failed")}
	c, capture, _ := newTestController(t, enc)

	if err := c.Start(); err == nil {
		t.Fatal("Expected start to fail")
	}
	if c.Running() {
		t.Error("Expected controller not to be running after failed start")
	}
	if capture.started {
		t.Error("Expected input capture to stay untouched when the encoder fails")
	}

	enc.startErr = nil
	if err := c.Start(); err != nil {
		t.Fatalf("Expected restart to succeed, got %v", err)
	}
	if _, err := c.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

// TestControllerClose tests shutdown with nothing running
func TestControllerClose(t *testing.T) {
	c, _, _ := newTestController(t, &fakeEncoder{})
	if err := c.Close(); err != nil {
		t.Errorf("Expected clean close, got %v", err)
	}
	if got := c.MonitorAddr(); got != "" {
		t.Errorf("Expected no monitor address, got %q", got)
	}
}
