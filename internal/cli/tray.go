package cli

import (
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"iorec/internal/autostart"
	"iorec/internal/input"
	"iorec/internal/record"
	"iorec/internal/session"
	"iorec/internal/tray"
)

func newTrayCmd(a *app) *cobra.Command {
	var monitorAddr string

	cmd := &cobra.Command{
		Use:   "tray",
		Short: "Run the recorder from the system tray",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTray(a, monitorAddr)
		},
	}

	cmd.Flags().StringVar(&monitorAddr, "monitor", "", "Serve the live monitor on this address (for example: :18792)")
	return cmd
}

func runTray(a *app, monitorAddr string) error {
	ctrl := record.NewController(a.cfg, input.NewCapture())
	defer ctrl.Close()

	cfg := a.cfg.Get()
	addr := monitorAddr
	if addr == "" && cfg.Monitor.Enabled {
		addr = cfg.Monitor.Addr
	}
	if addr != "" {
		if err := ctrl.EnableMonitor(addr); err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("Tray: live monitor unavailable")
		}
	}

	t := tray.New("iorec - screen and input recorder")

	var recordItem int
	recordItem = t.AddMenuItem("Start Recording", func() {
		if ctrl.Running() {
			if _, err := ctrl.Stop(); err != nil {
				log.Error().Err(err).Msg("Tray: stop failed")
			}
			t.SetItemTitle(recordItem, "Start Recording")
			return
		}
		if err := ctrl.Start(); err != nil {
			log.Error().Err(err).Msg("Tray: start failed")
			return
		}
		t.SetItemTitle(recordItem, "Stop Recording")
	})

	// The stop hotkey ends the session without a menu click; reset the
	// label when that happens.
	ctrl.SetOnStop(func(session.Info) {
		t.SetItemTitle(recordItem, "Start Recording")
	})

	if addr := ctrl.MonitorAddr(); addr != "" {
		url := monitorURL(addr)
		t.AddMenuItem("Open Monitor", func() {
			if err := openBrowser(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Tray: failed to open browser")
			}
		})
	}

	t.AddSeparator()

	var loginItem int
	loginItem = t.AddMenuItem("Start at Login", func() {
		enable := !autostart.IsEnabled()

		var err error
		if enable {
			err = autostart.Enable()
		} else {
			err = autostart.Disable()
		}
		if err != nil {
			log.Error().Err(err).Bool("enable", enable).Msg("Tray: autostart change failed")
			return
		}
		t.SetItemChecked(loginItem, enable)

		cfg := a.cfg.Get()
		cfg.General.StartOnBoot = enable
		a.cfg.Set(cfg)
		if err := a.cfg.Save(); err != nil {
			log.Warn().Err(err).Msg("Tray: failed to save config")
		}
	})

	if autostart.IsEnabled() {
		t.SetItemChecked(loginItem, true)
	} else if cfg.General.StartOnBoot {
		// Config asks for it but the login entry is missing; re-register.
		if err := autostart.Enable(); err != nil {
			log.Warn().Err(err).Msg("Tray: autostart registration failed")
		} else {
			t.SetItemChecked(loginItem, true)
		}
	}

	t.AddSeparator()

	t.AddMenuItem("Quit", func() {
		t.Stop()
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Tray: shutting down")
		t.Stop()
	}()

	log.Info().Msg("Tray: running")
	t.Run()
	return nil
}

// openBrowser opens url in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
