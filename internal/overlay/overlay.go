// Package overlay formats the per-frame status block shown over a
// recorded session and exports it as subtitles.
package overlay

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	"iorec/internal/timeline"
)

// Position is where the status block is drawn on each frame.
var Position = image.Pt(20, 20)

// Renderer is the external drawing capability. Implementations draw the
// given lines as a block anchored at the given point and return the
// annotated frame.
type Renderer interface {
	DrawTextBlock(frame image.Image, lines []string, at image.Point) (image.Image, error)
}

// Lines formats the status block for display time at: elapsed time,
// cursor position and the held tokens uppercased. Held tokens are listed
// in the state's lexical order.
func Lines(at float64, st timeline.State) []string {
	lines := []string{
		fmt.Sprintf("TIME: %.2f sec", at),
		fmt.Sprintf("MOUSE: (%d, %d)", st.X, st.Y),
		"",
		"PRESSED KEYS:",
	}
	for _, tok := range st.Held {
		lines = append(lines, " - "+strings.ToUpper(tok))
	}
	return lines
}

// Annotator stamps frames with the status block for their sample time.
// It holds no mutable state; the timeline is shared and immutable.
type Annotator struct {
	timeline *timeline.Timeline
	renderer Renderer
}

// NewAnnotator returns an annotator drawing through r.
func NewAnnotator(tl *timeline.Timeline, r Renderer) *Annotator {
	return &Annotator{timeline: tl, renderer: r}
}

// Annotate draws the status block for time at onto frame.
func (a *Annotator) Annotate(frame image.Image, at float64) (image.Image, error) {
	st := a.timeline.StateAt(at)
	out, err := a.renderer.DrawTextBlock(frame, Lines(at, st), Position)
	if err != nil {
		return nil, fmt.Errorf("draw status block: %w", err)
	}
	return out, nil
}

// WriteSRT writes the status block as an SRT subtitle track, one cue per
// frame interval, so the overlay can be burned in by any player without
// an image pipeline here. Cues cover [0, duration).
func WriteSRT(w io.Writer, tl *timeline.Timeline, frameRate, duration float64) error {
	if frameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %v", frameRate)
	}

	interval := 1 / frameRate
	for i := 0; ; i++ {
		t := float64(i) * interval
		if t >= duration {
			return nil
		}
		end := t + interval
		if end > duration {
			end = duration
		}

		st := tl.StateAt(t)
		cue := fmt.Sprintf("%d\n%s --> %s\n%s\n\n",
			i+1, srtStamp(t), srtStamp(end), strings.Join(Lines(t, st), "\n"))
		if _, err := io.WriteString(w, cue); err != nil {
			return fmt.Errorf("write subtitle cue: %w", err)
		}
	}
}

func srtStamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int(math.Round(sec * 1000))
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		ms/3600000, ms%3600000/60000, ms%60000/1000, ms%1000)
}
