// Package gate provides frame-rate admission control for captured events.
package gate

import "time"

// Gate decides whether an event arriving at a given time is persisted
// immediately or held back until the next admitted tick. It bounds the
// persisted-event rate to roughly one batch per frame interval no matter
// how fast raw notifications arrive.
//
// Gate is not safe for concurrent use; the owning recorder serializes
// access inside its own critical section.
type Gate struct {
	interval time.Duration
	last     time.Time
}

// New returns a gate for the given frame rate in frames per second.
// The rate must be positive.
func New(frameRate float64) *Gate {
	return &Gate{interval: time.Duration(float64(time.Second) / frameRate)}
}

// Interval returns the configured frame interval.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Start rebases the gate on the session start time. Events arriving
// within one interval of start are not admitted.
func (g *Gate) Start(now time.Time) {
	g.last = now
}

// Admit reports whether an event arriving at now passes the gate.
// It returns true and resets the gate iff strictly more than one frame
// interval has elapsed since the last admitted event.
func (g *Gate) Admit(now time.Time) bool {
	if now.Sub(g.last) > g.interval {
		g.last = now
		return true
	}
	return false
}
