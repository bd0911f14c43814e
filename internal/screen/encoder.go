// Package screen records the display by driving an external ffmpeg
// process for the duration of a session.
package screen

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrRecordingFailed reports that the encoder process exited before it
// was asked to stop. Event rows written up to that point remain valid.
var ErrRecordingFailed = errors.New("screen recording failed")

// quitTimeout bounds how long Stop waits after the quit command before
// killing the process.
const quitTimeout = 10 * time.Second

// Options configure the encoder invocation.
type Options struct {
	FFmpegPath string // encoder binary, "ffmpeg" when empty
	FrameRate  int    // output frame rate, default 20
	Size       string // capture size as WxH, platform default when empty
	Display    string // X11 display to grab, ":0.0" when empty
}

// Encoder runs one ffmpeg capture per Start/Stop cycle. Stop writes the
// interactive quit command to ffmpeg's stdin and waits for exit so the
// output container is finalized before it returns.
type Encoder struct {
	mu      sync.Mutex
	opts    Options
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	done    chan error
	running bool
}

// NewEncoder returns an encoder with defaults applied.
func NewEncoder(opts Options) *Encoder {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 20
	}
	if opts.Display == "" {
		opts.Display = ":0.0"
	}
	return &Encoder{opts: opts}
}

// buildArgs assembles the capture command line for the given platform.
func buildArgs(goos string, opts Options, outputPath string) []string {
	var args []string
	switch goos {
	case "windows":
		args = []string{"-f", "gdigrab", "-draw_mouse", "1", "-i", "desktop"}
	case "darwin":
		args = []string{"-f", "avfoundation", "-capture_cursor", "1", "-i", "1:none"}
	default:
		args = []string{"-f", "x11grab", "-draw_mouse", "1"}
		if opts.Size != "" {
			args = append(args, "-s", opts.Size)
		}
		args = append(args, "-i", opts.Display)
	}
	args = append(args,
		"-c:v", "libx264",
		"-r", strconv.Itoa(opts.FrameRate),
		"-y", outputPath,
	)
	return args
}

// Start spawns the encoder writing to outputPath.
func (e *Encoder) Start(outputPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return fmt.Errorf("encoder already running")
	}

	cmd := exec.Command(e.opts.FFmpegPath, buildArgs(runtime.GOOS, e.opts, outputPath)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open encoder stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("start %s: %w", e.opts.FFmpegPath, err)
	}

	e.cmd = cmd
	e.stdin = stdin
	e.done = make(chan error, 1)
	go func() { e.done <- cmd.Wait() }()
	e.running = true

	log.Info().Str("output", outputPath).Int("fps", e.opts.FrameRate).Msg("Encoder: ffmpeg started")
	return nil
}

// Stop asks the encoder to finish and waits for it to exit. A second
// Stop, or a Stop without Start, is a no-op. If the process already died
// the error wraps ErrRecordingFailed.
func (e *Encoder) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	e.running = false

	select {
	case waitErr := <-e.done:
		e.stdin.Close()
		if waitErr != nil {
			return fmt.Errorf("%w: %v", ErrRecordingFailed, waitErr)
		}
		return ErrRecordingFailed
	default:
	}

	if _, err := io.WriteString(e.stdin, "q\n"); err != nil {
		e.cmd.Process.Kill()
		<-e.done
		e.stdin.Close()
		return fmt.Errorf("%w: quit command not delivered: %v", ErrRecordingFailed, err)
	}
	e.stdin.Close()

	select {
	case waitErr := <-e.done:
		if waitErr != nil {
			return fmt.Errorf("encoder exit: %w", waitErr)
		}
	case <-time.After(quitTimeout):
		e.cmd.Process.Kill()
		<-e.done
		return fmt.Errorf("encoder ignored quit command, killed")
	}

	log.Info().Msg("Encoder: ffmpeg finished")
	return nil
}

// Running reports whether a capture is in flight.
func (e *Encoder) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}
