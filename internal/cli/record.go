package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"iorec/internal/input"
	"iorec/internal/record"
	"iorec/internal/session"
)

func newRecordCmd(a *app) *cobra.Command {
	var (
		duration    time.Duration
		monitorAddr string
	)

	cmd := &cobra.Command{
		Use:     "record",
		Aliases: []string{"rec"},
		Short:   "Capture the screen and input events until stopped",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := record.NewController(a.cfg, input.NewCapture())
			defer ctrl.Close()

			cfg := a.cfg.Get()
			addr := monitorAddr
			if addr == "" && cfg.Monitor.Enabled {
				addr = cfg.Monitor.Addr
			}
			if addr != "" {
				if err := ctrl.EnableMonitor(addr); err != nil {
					return fmt.Errorf("start live monitor: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Live monitor at %s\n", monitorURL(ctrl.MonitorAddr()))
			}

			hotkeyDone := make(chan session.Info, 1)
			ctrl.SetOnStop(func(info session.Info) { hotkeyDone <- info })

			if err := ctrl.Start(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recording %s\n", ctrl.SessionName())
			if cfg.Recording.StopHotkey != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Press %s or Ctrl+C to stop\n", cfg.Recording.StopHotkey)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			var timeout <-chan time.Time
			if duration > 0 {
				timer := time.NewTimer(duration)
				defer timer.Stop()
				timeout = timer.C
			}

			var (
				info    session.Info
				stopErr error
			)
			select {
			case info = <-hotkeyDone:
			case <-quit:
				info, stopErr = ctrl.Stop()
			case <-timeout:
				info, stopErr = ctrl.Stop()
			}

			if info.Dir != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d events, %.1fs)\n", info.Dir, info.Events, info.Duration)
			}
			return stopErr
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Stop automatically after this long (for example: 30s, 5m)")
	cmd.Flags().StringVar(&monitorAddr, "monitor", "", "Serve the live monitor on this address (for example: :18792)")
	return cmd
}

// monitorURL turns a bound listen address into one a browser can open;
// wildcard hosts are rewritten to the loopback address.
func monitorURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "::", "0.0.0.0":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
