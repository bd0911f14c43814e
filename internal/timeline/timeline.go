// Package timeline reconstructs cursor position and held-token state at
// arbitrary points in a recorded session.
package timeline

import (
	"sort"

	"iorec/internal/event"
)

// State is a point-in-time snapshot: where the cursor was and which
// buttons and keys were held. Held is sorted lexically ascending.
// Callers must not modify Held; snapshots are shared between queries.
type State struct {
	Time float64
	X, Y int
	Held []string
}

// Timeline is an immutable checkpoint sequence built from an event log.
// Once built it is safe for concurrent queries.
type Timeline struct {
	checkpoints []State
}

// Build derives checkpoints from the event sequence. Events are walked in
// timestamp order (ties keep input order). Moves and clicks update the
// cursor position, clicks and key events toggle held-token membership,
// and every such event appends a checkpoint. Scroll events change neither
// position nor held state and produce no checkpoint.
func Build(events []event.Event) *Timeline {
	seq := make([]event.Event, len(events))
	copy(seq, events)
	sort.SliceStable(seq, func(i, j int) bool { return seq[i].Timestamp < seq[j].Timestamp })

	tl := &Timeline{}
	held := make(map[string]bool)
	var x, y int

	for _, ev := range seq {
		switch ev.Kind {
		case event.MouseMove:
			x, y = ev.X, ev.Y

		case event.MouseClick:
			x, y = ev.X, ev.Y
			toggle(held, ev.Token, ev.Pressed)

		case event.Keyboard:
			toggle(held, ev.Token, ev.Pressed)

		case event.MouseScroll:
			continue
		}

		tl.checkpoints = append(tl.checkpoints, State{
			Time: ev.Timestamp,
			X:    x,
			Y:    y,
			Held: heldSnapshot(held),
		})
	}
	return tl
}

func toggle(held map[string]bool, token string, pressed bool) {
	if pressed {
		held[token] = true
	} else {
		delete(held, token)
	}
}

func heldSnapshot(held map[string]bool) []string {
	if len(held) == 0 {
		return nil
	}
	out := make([]string, 0, len(held))
	for tok := range held {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// StateAt returns the state at time at: the checkpoint with the greatest
// time not exceeding at, with duplicates resolved last-write-wins. Times
// before the first checkpoint return the first checkpoint's state; an
// empty timeline returns the zero state.
func (t *Timeline) StateAt(at float64) State {
	if len(t.checkpoints) == 0 {
		return State{}
	}
	// First checkpoint strictly past at; the answer sits just before it.
	idx := sort.Search(len(t.checkpoints), func(i int) bool {
		return t.checkpoints[i].Time > at
	})
	if idx == 0 {
		return t.checkpoints[0]
	}
	return t.checkpoints[idx-1]
}

// Checkpoints exposes the built sequence for iteration, oldest first.
// The returned slice is shared and must not be modified.
func (t *Timeline) Checkpoints() []State {
	return t.checkpoints
}

// End returns the time of the last checkpoint, or 0 for an empty timeline.
func (t *Timeline) End() float64 {
	if len(t.checkpoints) == 0 {
		return 0
	}
	return t.checkpoints[len(t.checkpoints)-1].Time
}
