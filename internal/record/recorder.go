package record

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"iorec/internal/event"
	"iorec/internal/input"
)

// Recorder bridges raw input notifications to the persisted event log.
// It normalizes platform notifications into events, de-duplicates
// auto-repeated presses through a per-instance held set, timestamps each
// accepted event relative to the session start and hands it to the
// writer's frame gate.
//
// Normalization, admission and append run under a single mutex so mouse
// and keyboard notifications arriving concurrently cannot corrupt the
// held set or reorder the log.
type Recorder struct {
	mu      sync.Mutex
	capture input.InputCapture
	writer  *Writer
	clock   func() time.Time
	onEvent func(event.Event)

	start   time.Time
	held    map[string]bool
	running bool
	done    chan struct{}
	err     error
}

// NewRecorder returns a recorder that consumes notifications from capture
// and appends them through writer.
func NewRecorder(capture input.InputCapture, writer *Writer) *Recorder {
	return &Recorder{
		capture: capture,
		writer:  writer,
		clock:   time.Now,
		held:    make(map[string]bool),
	}
}

// SetOnEvent registers a callback invoked for every persisted-or-queued
// event, used by the live monitor. Must be called before Start.
func (r *Recorder) SetOnEvent(cb func(event.Event)) {
	r.onEvent = cb
}

// Start records the session start time and begins consuming notifications.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("recorder already running")
	}

	r.start = r.clock()
	r.writer.Start(r.start)
	if err := r.capture.Start(); err != nil {
		return fmt.Errorf("start input capture: %w", err)
	}

	r.running = true
	r.done = make(chan struct{})
	go r.consume()

	log.Info().Msg("Recorder: input capture started")
	return nil
}

// Stop stops capture, drains outstanding notifications and closes the
// log. Safe to call without a prior Start and idempotent.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.mu.Unlock()

	capErr := r.capture.Stop()
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()

	closeErr := r.writer.Close()
	if closeErr == nil {
		closeErr = r.err
	}
	log.Info().Int("events", r.writer.Count()).Msg("Recorder: stopped")

	if capErr != nil {
		return fmt.Errorf("stop input capture: %w", capErr)
	}
	return closeErr
}

// Count returns the number of events persisted so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer.Count()
}

// consume drains the capture channel until it closes. Notifications
// delivered while Stop is tearing down are still handled so nothing in
// flight is lost.
func (r *Recorder) consume() {
	defer close(r.done)
	for n := range r.capture.Events() {
		r.handle(n)
	}
}

func (r *Recorder) handle(n input.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.normalize(n)
	if !ok {
		return
	}

	now := r.clock()
	ev.Timestamp = now.Sub(r.start).Seconds()

	if err := r.writer.Append(ev, now); err != nil {
		if r.err == nil {
			r.err = err
		}
		log.Error().Err(err).Msg("Recorder: failed to append event")
		return
	}
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

// normalize converts a raw notification into a log event. Press
// notifications for a token already held are discarded (auto-repeat),
// and a release for a token not held is a no-op.
func (r *Recorder) normalize(n input.Notification) (event.Event, bool) {
	switch n.Kind {
	case input.KindMove:
		return event.Event{Kind: event.MouseMove, X: n.X, Y: n.Y}, true

	case input.KindButton:
		tok := event.ButtonToken(n.Button)
		if !r.toggleHeld(tok, n.Pressed) {
			return event.Event{}, false
		}
		return event.Event{Kind: event.MouseClick, X: n.X, Y: n.Y, Token: tok, Pressed: n.Pressed}, true

	case input.KindWheel:
		tok := event.ScrollToken(n.DX, n.DY)
		return event.Event{Kind: event.MouseScroll, X: n.X, Y: n.Y, Token: tok}, true

	case input.KindKey:
		tok := event.KeyToken(n.Key)
		if !r.toggleHeld(tok, n.Pressed) {
			return event.Event{}, false
		}
		return event.Event{Kind: event.Keyboard, X: -1, Y: -1, Token: tok, Pressed: n.Pressed}, true
	}
	return event.Event{}, false
}

func (r *Recorder) toggleHeld(token string, pressed bool) bool {
	if pressed {
		if r.held[token] {
			return false
		}
		r.held[token] = true
		return true
	}
	if !r.held[token] {
		return false
	}
	delete(r.held, token)
	return true
}
