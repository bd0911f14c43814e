package overlay

import (
	"image"
	"reflect"
	"strings"
	"testing"

	"iorec/internal/event"
	"iorec/internal/timeline"
)

// fakeRenderer records the draw request and returns the frame unchanged
type fakeRenderer struct {
	lines []string
	at    image.Point
}

func (r *fakeRenderer) DrawTextBlock(frame image.Image, lines []string, at image.Point) (image.Image, error) {
	r.lines = lines
	r.at = at
	return frame, nil
}

// TestLines tests the status block layout
func TestLines(t *testing.T) {
	st := timeline.State{Time: 1.2, X: 34, Y: 56, Held: []string{"Button.left", "shift"}}
	got := Lines(1.25, st)

	want := []string{
		"TIME: 1.25 sec",
		"MOUSE: (34, 56)",
		"",
		"PRESSED KEYS:",
		" - BUTTON.LEFT",
		" - SHIFT",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected block %q, got %q", want, got)
	}
}

// TestLinesNothingHeld tests the block without held tokens
func TestLinesNothingHeld(t *testing.T) {
	got := Lines(0, timeline.State{})
	if len(got) != 4 {
		t.Fatalf("Expected 4 header lines, got %q", got)
	}
	if got[0] != "TIME: 0.00 sec" || got[3] != "PRESSED KEYS:" {
		t.Errorf("Unexpected block %q", got)
	}
}

// TestAnnotate tests timeline lookup and draw placement
func TestAnnotate(t *testing.T) {
	tl := timeline.Build([]event.Event{
		{Timestamp: 0, Kind: event.MouseMove, X: 10, Y: 20},
		{Timestamp: 1, Kind: event.Keyboard, X: -1, Y: -1, Token: "ctrl_l", Pressed: true},
	})

	r := &fakeRenderer{}
	a := NewAnnotator(tl, r)

	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	out, err := a.Annotate(frame, 1.5)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if out != image.Image(frame) {
		t.Error("Expected the renderer's frame back")
	}

	if r.at != Position || r.at.X != 20 || r.at.Y != 20 {
		t.Errorf("Expected block anchored at (20,20), got %v", r.at)
	}
	if r.lines[1] != "MOUSE: (10, 20)" {
		t.Errorf("Expected cursor from the timeline, got %q", r.lines[1])
	}
	if r.lines[4] != " - CTRL_L" {
		t.Errorf("Expected held key in block, got %q", r.lines)
	}
}

// TestWriteSRT tests cue pacing and content
func TestWriteSRT(t *testing.T) {
	tl := timeline.Build([]event.Event{
		{Timestamp: 0, Kind: event.MouseMove, X: 10, Y: 10},
		{Timestamp: 0.6, Kind: event.Keyboard, X: -1, Y: -1, Token: "a", Pressed: true},
	})

	var sb strings.Builder
	if err := WriteSRT(&sb, tl, 2, 1.5); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}
	out := sb.String()

	cues := strings.Split(strings.TrimRight(out, "\n"), "\n\n")
	if len(cues) != 3 {
		t.Fatalf("Expected 3 cues over 1.5s at 2fps, got %d:\n%s", len(cues), out)
	}

	if !strings.HasPrefix(cues[0], "1\n00:00:00,000 --> 00:00:00,500\nTIME: 0.00 sec") {
		t.Errorf("Unexpected first cue:\n%s", cues[0])
	}
	if strings.Contains(cues[1], " - A") {
		t.Errorf("Key held from 0.6 must not show in the cue sampled at 0.5:\n%s", cues[1])
	}
	if !strings.Contains(cues[2], " - A") {
		t.Errorf("Expected held key in the cue sampled at 1.0:\n%s", cues[2])
	}
	if !strings.Contains(cues[2], "00:00:01,000 --> 00:00:01,500") {
		t.Errorf("Expected final cue clamped to duration:\n%s", cues[2])
	}

	if err := WriteSRT(&sb, tl, 0, 1); err == nil {
		t.Error("Expected error for non-positive frame rate")
	}
}
