// Package replay plays a recorded event sequence back through input
// injection, preserving the original inter-event timing.
package replay

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"iorec/internal/event"
	"iorec/internal/input"
)

// Player replays events against an injector. Scale multiplies every
// recorded delay: 1.0 is real time, 0.5 halves each wait, 2.0 doubles it.
type Player struct {
	injector input.InputInjector
	scale    float64
	sleep    func(time.Duration)
}

// NewPlayer returns a player for the given injector and timing scale.
// Scale must be positive.
func NewPlayer(injector input.InputInjector, scale float64) (*Player, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("replay scale must be positive, got %v", scale)
	}
	return &Player{injector: injector, scale: scale, sleep: time.Sleep}, nil
}

// Play replays the sequence. Events are re-sorted by timestamp with ties
// keeping their original order. The first event only primes the cursor at
// its absolute coordinates; every later event waits out its scaled delay
// and is then dispatched by kind. Scroll events keep their place in the
// timing chain but are not injected.
//
// Injection failures abort the replay immediately; a partial action has
// already reached the OS, so there is no safe retry.
func (p *Player) Play(events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	seq := make([]event.Event, len(events))
	copy(seq, events)
	sort.SliceStable(seq, func(i, j int) bool { return seq[i].Timestamp < seq[j].Timestamp })

	var lastX, lastY int
	primed := false

	first := seq[0]
	if first.Kind != event.Keyboard {
		if err := p.injector.InjectMousePosition(first.X, first.Y); err != nil {
			return fmt.Errorf("prime cursor position: %w", err)
		}
		lastX, lastY = first.X, first.Y
		primed = true
	}

	log.Info().Int("events", len(seq)).Float64("scale", p.scale).Msg("Player: replay started")

	prev := first
	for _, ev := range seq[1:] {
		if wait := time.Duration((ev.Timestamp - prev.Timestamp) * p.scale * float64(time.Second)); wait > 0 {
			p.sleep(wait)
		}

		switch ev.Kind {
		case event.MouseMove:
			if primed {
				if err := p.injector.InjectMouseMove(ev.X-lastX, ev.Y-lastY); err != nil {
					return fmt.Errorf("inject mouse move: %w", err)
				}
			} else {
				// No coordinate-bearing event has run yet, so there is
				// no reference for a delta; place the cursor once.
				if err := p.injector.InjectMousePosition(ev.X, ev.Y); err != nil {
					return fmt.Errorf("inject mouse position: %w", err)
				}
			}
			lastX, lastY = ev.X, ev.Y
			primed = true

		case event.MouseClick:
			if err := p.injectClick(ev); err != nil {
				return err
			}
			lastX, lastY = ev.X, ev.Y
			primed = true

		case event.MouseScroll:
			lastX, lastY = ev.X, ev.Y
			primed = true

		case event.Keyboard:
			if err := p.injector.InjectKey(event.ParseKeyToken(ev.Token), ev.Pressed); err != nil {
				return fmt.Errorf("inject key %q: %w", ev.Token, err)
			}
		}

		prev = ev
	}

	log.Info().Msg("Player: replay finished")
	return nil
}

// injectClick dispatches a click row. Tokens that do not decode to a
// known button are replayed as literal key input rather than rejected,
// mirroring the recorder's promise that unknown identities never fail.
func (p *Player) injectClick(ev event.Event) error {
	btn, err := event.ParseButtonToken(ev.Token)
	if err != nil {
		if err := p.injector.InjectKey(event.ParseKeyToken(ev.Token), ev.Pressed); err != nil {
			return fmt.Errorf("inject click fallback %q: %w", ev.Token, err)
		}
		return nil
	}
	if err := p.injector.InjectMouseButton(btn, ev.Pressed); err != nil {
		return fmt.Errorf("inject mouse button %q: %w", ev.Token, err)
	}
	return nil
}
