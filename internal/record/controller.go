package record

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"iorec/internal/config"
	"iorec/internal/event"
	"iorec/internal/hotkey"
	"iorec/internal/input"
	"iorec/internal/monitor"
	"iorec/internal/osutils"
	"iorec/internal/protocol"
	"iorec/internal/screen"
	"iorec/internal/session"
)

// screenEncoder is the video capture dependency of the controller.
type screenEncoder interface {
	Start(outputPath string) error
	Stop() error
}

// Controller runs complete recording sessions: one directory per session
// holding the screen capture and the event log, plus the optional live
// monitor, the stop hotkey and a catalog entry on finish.
type Controller struct {
	mu         sync.Mutex
	configMgr  *config.Manager
	capture    input.InputCapture
	newEncoder func(cfg *config.Config) screenEncoder

	recorder *Recorder
	encoder  screenEncoder
	hotkeys  *hotkey.Manager
	monitor  *monitor.Server

	layout  session.Layout
	started time.Time
	running bool
	release func()
	onStop  func(session.Info)
}

// NewController creates a controller recording through capture.
func NewController(configMgr *config.Manager, capture input.InputCapture) *Controller {
	return &Controller{
		configMgr:  configMgr,
		capture:    capture,
		newEncoder: defaultEncoder,
	}
}

func defaultEncoder(cfg *config.Config) screenEncoder {
	return screen.NewEncoder(screen.Options{
		FFmpegPath: cfg.Recording.FFmpegPath,
		FrameRate:  int(cfg.Recording.FrameRate),
		Size:       cfg.Recording.CaptureSize,
		Display:    cfg.Recording.Display,
	})
}

// SetOnStop sets a callback fired with the session summary after the
// stop hotkey ends a session.
func (c *Controller) SetOnStop(callback func(session.Info)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStop = callback
}

// EnableMonitor serves the live monitor on addr until Close. Idempotent.
func (c *Controller) EnableMonitor(addr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.monitor != nil {
		return nil
	}
	srv := monitor.NewServer(c.status)
	if err := srv.Start(addr); err != nil {
		return err
	}
	c.monitor = srv
	return nil
}

// MonitorAddr returns the live monitor address, or "" when disabled.
func (c *Controller) MonitorAddr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitor == nil {
		return ""
	}
	return c.monitor.Addr()
}

// Start begins a new session: creates the session directory, spawns the
// encoder and starts consuming input. Partially started subsystems are
// unwound if any step fails.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("recording already running")
	}

	cfg := c.configMgr.Get()
	c.started = time.Now()

	layout := session.NewLayout(cfg.Recording.OutputRoot, c.started)
	if err := layout.Create(); err != nil {
		return err
	}

	writer, err := NewWriter(layout.EventsPath(), cfg.Recording.FrameRate)
	if err != nil {
		return err
	}

	encoder := c.newEncoder(cfg)
	if err := encoder.Start(layout.VideoPath()); err != nil {
		writer.Close()
		return fmt.Errorf("start screen capture: %w", err)
	}

	hotkeys := hotkey.NewManager()
	if cfg.Recording.StopHotkey != "" {
		if err := hotkeys.Register(cfg.Recording.StopHotkey, c.hotkeyStop); err != nil {
			log.Warn().Err(err).Str("hotkey", cfg.Recording.StopHotkey).Msg("Controller: invalid stop hotkey")
		}
	}

	recorder := NewRecorder(c.capture, writer)
	mon := c.monitor
	recorder.SetOnEvent(func(ev event.Event) {
		hotkeys.Feed(ev)
		if mon != nil {
			mon.Broadcast(ev)
		}
	})

	if err := recorder.Start(); err != nil {
		encoder.Stop()
		writer.Close()
		return err
	}

	if cfg.Recording.KeepAwake {
		if release, err := osutils.KeepAwake(); err != nil {
			log.Warn().Err(err).Msg("Controller: keep-awake unavailable")
		} else {
			c.release = release
		}
	}

	c.layout = layout
	c.recorder = recorder
	c.encoder = encoder
	c.hotkeys = hotkeys
	c.running = true

	if c.monitor != nil {
		c.monitor.BroadcastStatus(c.statusLocked())
	}
	log.Info().Str("session", layout.Name()).Msg("Controller: recording started")
	return nil
}

// Stop ends the running session, catalogs it and returns its summary.
// Safe to call when nothing is running and idempotent.
func (c *Controller) Stop() (session.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

func (c *Controller) stopLocked() (session.Info, error) {
	if !c.running {
		return session.Info{}, nil
	}
	c.running = false

	if c.release != nil {
		c.release()
		c.release = nil
	}
	c.hotkeys.Clear()

	recErr := c.recorder.Stop()
	encErr := c.encoder.Stop()

	info := session.Info{
		Dir:       c.layout.Dir,
		StartedAt: c.started,
		Duration:  time.Since(c.started).Seconds(),
		Events:    c.recorder.Count(),
	}
	c.catalogInfo(&info)

	if c.monitor != nil {
		c.monitor.BroadcastStatus(c.statusLocked())
	}
	log.Info().Str("session", c.layout.Name()).Int("events", info.Events).Msg("Controller: recording stopped")

	if recErr != nil {
		return info, recErr
	}
	return info, encErr
}

// catalogInfo adds the finished session to the catalog. Catalog problems
// are logged, not fatal; the session artifacts are already on disk.
func (c *Controller) catalogInfo(info *session.Info) {
	cfg := c.configMgr.Get()
	cat, err := session.OpenCatalog(filepath.Join(cfg.Recording.OutputRoot, "catalog.db"))
	if err != nil {
		log.Warn().Err(err).Msg("Controller: catalog unavailable")
		return
	}
	defer cat.Close()

	id, err := cat.Add(*info)
	if err != nil {
		log.Warn().Err(err).Msg("Controller: failed to catalog session")
		return
	}
	info.ID = id
}

// Close stops any running session and shuts the monitor down.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.stopLocked()
	if c.monitor != nil {
		if merr := c.monitor.Stop(); err == nil {
			err = merr
		}
		c.monitor = nil
	}
	return err
}

// Running reports whether a session is in flight.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SessionName returns the running session's directory name, or "".
func (c *Controller) SessionName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return ""
	}
	return c.layout.Name()
}

func (c *Controller) hotkeyStop() {
	log.Info().Msg("Controller: stop hotkey pressed")
	info, err := c.Stop()
	if err != nil {
		log.Error().Err(err).Msg("Controller: stop failed")
	}

	c.mu.Lock()
	onStop := c.onStop
	c.mu.Unlock()
	if onStop != nil {
		onStop(info)
	}
}

// status snapshots recording state for the monitor's HTTP handlers.
func (c *Controller) status() protocol.StatusPayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() protocol.StatusPayload {
	st := protocol.StatusPayload{Recording: c.running}
	if c.running {
		st.Session = c.layout.Name()
		st.Events = c.recorder.Count()
	}
	return st
}
