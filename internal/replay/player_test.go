package replay

import (
	"errors"
	"testing"
	"time"

	"iorec/internal/event"
	"iorec/internal/input"
)

type call struct {
	op      string
	x, y    int
	button  input.MouseButton
	key     input.Key
	pressed bool
}

// fakeInjector records injections and optionally fails at a given call index
type fakeInjector struct {
	calls  []call
	failAt int
}

func newFakeInjector() *fakeInjector { return &fakeInjector{failAt: -1} }

func (f *fakeInjector) record(c call) error {
	if f.failAt == len(f.calls) {
		return errors.New("injection refused")
	}
	f.calls = append(f.calls, c)
	return nil
}

func (f *fakeInjector) InjectMousePosition(x, y int) error {
	return f.record(call{op: "pos", x: x, y: y})
}

func (f *fakeInjector) InjectMouseMove(dx, dy int) error {
	return f.record(call{op: "move", x: dx, y: dy})
}

func (f *fakeInjector) InjectMouseButton(button input.MouseButton, pressed bool) error {
	return f.record(call{op: "button", button: button, pressed: pressed})
}

func (f *fakeInjector) InjectKey(key input.Key, pressed bool) error {
	return f.record(call{op: "key", key: key, pressed: pressed})
}

func newTestPlayer(t *testing.T, inj *fakeInjector, scale float64) (*Player, *[]time.Duration) {
	t.Helper()
	p, err := NewPlayer(inj, scale)
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}
	var sleeps []time.Duration
	p.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return p, &sleeps
}

func near(got, want time.Duration) bool {
	diff := got - want
	return diff > -time.Microsecond && diff < time.Microsecond
}

// TestPlayTimingFidelity tests wait decomposition at real-time scale
func TestPlayTimingFidelity(t *testing.T) {
	inj := newFakeInjector()
	p, sleeps := newTestPlayer(t, inj, 1.0)

	events := []event.Event{
		{Timestamp: 0, Kind: event.MouseMove, X: 0, Y: 0},
		{Timestamp: 0.5, Kind: event.MouseMove, X: 1, Y: 1},
		{Timestamp: 1.2, Kind: event.MouseMove, X: 2, Y: 2},
	}
	if err := p.Play(events); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if len(*sleeps) != 2 {
		t.Fatalf("Expected 2 waits, got %d", len(*sleeps))
	}
	if !near((*sleeps)[0], 500*time.Millisecond) {
		t.Errorf("Expected first wait 500ms, got %v", (*sleeps)[0])
	}
	if !near((*sleeps)[1], 700*time.Millisecond) {
		t.Errorf("Expected second wait 700ms, got %v", (*sleeps)[1])
	}
}

// TestPlayScale tests that the scale multiplies recorded delays
func TestPlayScale(t *testing.T) {
	inj := newFakeInjector()
	p, sleeps := newTestPlayer(t, inj, 0.5)

	events := []event.Event{
		{Timestamp: 0, Kind: event.MouseMove, X: 0, Y: 0},
		{Timestamp: 1.0, Kind: event.MouseMove, X: 1, Y: 1},
	}
	if err := p.Play(events); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(*sleeps) != 1 || !near((*sleeps)[0], 500*time.Millisecond) {
		t.Errorf("Expected one 500ms wait at half scale, got %v", *sleeps)
	}
}

// TestPlayDeltaReconstruction tests relative moves against recorded positions
func TestPlayDeltaReconstruction(t *testing.T) {
	inj := newFakeInjector()
	p, _ := newTestPlayer(t, inj, 1.0)

	events := []event.Event{
		{Timestamp: 0, Kind: event.MouseMove, X: 100, Y: 100},
		{Timestamp: 0.1, Kind: event.MouseMove, X: 110, Y: 95},
		{Timestamp: 0.2, Kind: event.MouseMove, X: 108, Y: 99},
	}
	if err := p.Play(events); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	want := []call{
		{op: "pos", x: 100, y: 100},
		{op: "move", x: 10, y: -5},
		{op: "move", x: -2, y: 4},
	}
	if len(inj.calls) != len(want) {
		t.Fatalf("Expected %d calls, got %d: %+v", len(want), len(inj.calls), inj.calls)
	}
	for i, c := range inj.calls {
		if c != want[i] {
			t.Errorf("call %d: expected %+v, got %+v", i, want[i], c)
		}
	}
}

// TestPlayFirstEventPrimesOnly tests that the first event is never dispatched
func TestPlayFirstEventPrimesOnly(t *testing.T) {
	inj := newFakeInjector()
	p, sleeps := newTestPlayer(t, inj, 1.0)

	events := []event.Event{
		{Timestamp: 0, Kind: event.MouseClick, X: 50, Y: 50, Token: "Button.left", Pressed: true},
		{Timestamp: 0.1, Kind: event.MouseClick, X: 50, Y: 50, Token: "Button.left", Pressed: false},
	}
	if err := p.Play(events); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if len(inj.calls) != 2 {
		t.Fatalf("Expected prime plus one dispatch, got %+v", inj.calls)
	}
	if inj.calls[0].op != "pos" || inj.calls[0].x != 50 {
		t.Errorf("Expected cursor priming first, got %+v", inj.calls[0])
	}
	if inj.calls[1].op != "button" || inj.calls[1].pressed {
		t.Errorf("Expected release dispatch, got %+v", inj.calls[1])
	}
	if len(*sleeps) != 1 || !near((*sleeps)[0], 100*time.Millisecond) {
		t.Errorf("Expected a single 100ms wait, got %v", *sleeps)
	}
}

// TestPlayKeyboardFirst tests that a coordinate-free first event skips priming
func TestPlayKeyboardFirst(t *testing.T) {
	inj := newFakeInjector()
	p, _ := newTestPlayer(t, inj, 1.0)

	events := []event.Event{
		{Timestamp: 0, Kind: event.Keyboard, X: -1, Y: -1, Token: "a", Pressed: true},
		{Timestamp: 0.1, Kind: event.Keyboard, X: -1, Y: -1, Token: "a", Pressed: false},
		{Timestamp: 0.2, Kind: event.MouseMove, X: 30, Y: 40},
	}
	if err := p.Play(events); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	want := []call{
		{op: "key", key: input.CharKey('a'), pressed: false},
		{op: "pos", x: 30, y: 40},
	}
	if len(inj.calls) != len(want) {
		t.Fatalf("Expected %d calls, got %+v", len(want), inj.calls)
	}
	for i, c := range inj.calls {
		if c != want[i] {
			t.Errorf("call %d: expected %+v, got %+v", i, want[i], c)
		}
	}
}

// TestPlayStableOrder tests re-sorting with ties kept in file order
func TestPlayStableOrder(t *testing.T) {
	inj := newFakeInjector()
	p, _ := newTestPlayer(t, inj, 1.0)

	events := []event.Event{
		{Timestamp: 0.5, Kind: event.MouseClick, X: 10, Y: 10, Token: "Button.left", Pressed: true},
		{Timestamp: 0, Kind: event.MouseMove, X: 10, Y: 10},
		{Timestamp: 0.5, Kind: event.MouseClick, X: 10, Y: 10, Token: "Button.left", Pressed: false},
	}
	if err := p.Play(events); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if len(inj.calls) != 3 {
		t.Fatalf("Expected 3 calls, got %+v", inj.calls)
	}
	if inj.calls[1].op != "button" || !inj.calls[1].pressed {
		t.Errorf("Expected press dispatched before release, got %+v", inj.calls)
	}
	if inj.calls[2].op != "button" || inj.calls[2].pressed {
		t.Errorf("Expected release dispatched last, got %+v", inj.calls)
	}
}

// TestPlayScrollNotInjected tests that scroll rows only hold a timing slot
func TestPlayScrollNotInjected(t *testing.T) {
	inj := newFakeInjector()
	p, sleeps := newTestPlayer(t, inj, 1.0)

	events := []event.Event{
		{Timestamp: 0, Kind: event.MouseMove, X: 0, Y: 0},
		{Timestamp: 0.2, Kind: event.MouseScroll, X: 5, Y: 5, Token: "scroll(0:-1)"},
		{Timestamp: 0.4, Kind: event.MouseMove, X: 10, Y: 10},
	}
	if err := p.Play(events); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	want := []call{
		{op: "pos", x: 0, y: 0},
		{op: "move", x: 5, y: 5}, // delta measured from the scroll position
	}
	if len(inj.calls) != len(want) {
		t.Fatalf("Expected %d calls, got %+v", len(want), inj.calls)
	}
	for i, c := range inj.calls {
		if c != want[i] {
			t.Errorf("call %d: expected %+v, got %+v", i, want[i], c)
		}
	}
	if len(*sleeps) != 2 {
		t.Errorf("Expected scroll to keep its wait, got %v", *sleeps)
	}
}

// TestPlayClickTokenFallback tests literal key injection for unknown buttons
func TestPlayClickTokenFallback(t *testing.T) {
	inj := newFakeInjector()
	p, _ := newTestPlayer(t, inj, 1.0)

	events := []event.Event{
		{Timestamp: 0, Kind: event.MouseMove, X: 0, Y: 0},
		{Timestamp: 0.1, Kind: event.MouseClick, X: 0, Y: 0, Token: "Button.forward", Pressed: true},
	}
	if err := p.Play(events); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	last := inj.calls[len(inj.calls)-1]
	if last.op != "key" || last.key.Name != "Button.forward" || !last.pressed {
		t.Errorf("Expected literal key fallback, got %+v", last)
	}
}

// TestPlayInjectionFailureHalts tests that a failed injection aborts replay
func TestPlayInjectionFailureHalts(t *testing.T) {
	inj := newFakeInjector()
	inj.failAt = 1 // fail the first dispatch after priming
	p, _ := newTestPlayer(t, inj, 1.0)

	events := []event.Event{
		{Timestamp: 0, Kind: event.MouseMove, X: 0, Y: 0},
		{Timestamp: 0.1, Kind: event.MouseMove, X: 1, Y: 1},
		{Timestamp: 0.2, Kind: event.MouseMove, X: 2, Y: 2},
	}
	err := p.Play(events)
	if err == nil {
		t.Fatal("Expected replay to fail")
	}
	if len(inj.calls) != 1 {
		t.Errorf("Expected no further injections after the failure, got %+v", inj.calls)
	}
}

// TestPlayEmptyAndValidation tests the empty sequence and scale validation
func TestPlayEmptyAndValidation(t *testing.T) {
	inj := newFakeInjector()
	p, _ := newTestPlayer(t, inj, 1.0)
	if err := p.Play(nil); err != nil {
		t.Errorf("Expected empty replay to succeed, got %v", err)
	}
	if len(inj.calls) != 0 {
		t.Errorf("Expected no injections for empty sequence, got %+v", inj.calls)
	}

	if _, err := NewPlayer(inj, 0); err == nil {
		t.Error("Expected error for zero scale")
	}
	if _, err := NewPlayer(inj, -1); err == nil {
		t.Error("Expected error for negative scale")
	}
}
