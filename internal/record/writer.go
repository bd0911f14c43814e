// Package record captures input notifications into a persisted event log
// alongside a screen recording.
package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"iorec/internal/event"
	"iorec/internal/gate"
)

// Writer appends events to a CSV log behind a frame gate. Events that
// pass admission are written together with any queued backlog and flushed
// to disk. Clicks, key transitions and scrolls that fail admission are
// queued for the next admitted tick so none of them is lost; plain moves
// are simply dropped between ticks.
//
// Writer is not safe for concurrent use; the recorder serializes access.
type Writer struct {
	file  *os.File
	cw    *csv.Writer
	gate  *gate.Gate
	queue []event.Event
	count int
}

// NewWriter creates the log file at path, writes the header row and
// returns a writer gated at the given frame rate.
func NewWriter(path string, frameRate float64) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create event log: %w", err)
	}

	w := &Writer{
		file: f,
		cw:   csv.NewWriter(f),
		gate: gate.New(frameRate),
	}
	if err := w.cw.Write(event.Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write event log header: %w", err)
	}
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("write event log header: %w", err)
	}
	return w, nil
}

// Start rebases the frame gate on the session start time.
func (w *Writer) Start(now time.Time) {
	w.gate.Start(now)
}

// Append offers an event to the gate. Admitted events flush the queued
// backlog along with themselves; rejected state-changing events join the
// queue, rejected moves are dropped.
func (w *Writer) Append(ev event.Event, now time.Time) error {
	if w.gate.Admit(now) {
		w.queue = append(w.queue, ev)
		return w.flush()
	}
	if ev.Kind != event.MouseMove {
		w.queue = append(w.queue, ev)
	}
	return nil
}

// Count returns the number of event rows written so far.
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) flush() error {
	for _, ev := range w.queue {
		if err := w.cw.Write(event.Record(ev)); err != nil {
			return fmt.Errorf("append event log: %w", err)
		}
		w.count++
	}
	w.queue = w.queue[:0]
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return fmt.Errorf("flush event log: %w", err)
	}
	return nil
}

// Close drains any queued backlog and closes the log file. The backlog
// is written even though it never passed admission; nothing queued is
// lost at shutdown.
func (w *Writer) Close() error {
	flushErr := w.flush()
	if err := w.file.Close(); err != nil && flushErr == nil {
		return fmt.Errorf("close event log: %w", err)
	}
	return flushErr
}
