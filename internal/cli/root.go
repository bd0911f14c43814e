// Package cli wires the commands of the iorec binary.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"iorec/internal/config"
	"iorec/internal/event"
	"iorec/internal/input"
	"iorec/internal/overlay"
	"iorec/internal/replay"
	"iorec/internal/session"
	"iorec/internal/timeline"
)

const version = "0.1.0"

// app carries the state shared by all commands: the persistent flags
// and the config manager built from them.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Manager
}

// NewRootCommand builds the iorec command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "iorec",
		Short:             "Record the screen and input events as one synchronized session",
		PersistentPreRunE: a.setup,
	}
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: the platform config directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error (default: from config)")

	rootCmd.AddCommand(
		newRecordCmd(a),
		newPlayCmd(a),
		newStateCmd(a),
		newOverlayCmd(a),
		newListCmd(a),
		newConfigCmd(a),
		newTrayCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and applies the log level before any
// command runs.
func (a *app) setup(_ *cobra.Command, _ []string) error {
	var mgr *config.Manager
	if a.configPath != "" {
		mgr = config.NewManagerAt(a.configPath)
	} else {
		m, err := config.NewManager()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		mgr = m
	}
	if err := mgr.Load(); err != nil {
		return err
	}
	a.cfg = mgr

	level := a.logLevel
	if level == "" {
		level = mgr.Get().General.LogLevel
	}
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// loadEvents reads the event log of a session directory or a direct log
// path and returns the resolved path alongside the events.
func loadEvents(path string) (string, []event.Event, error) {
	logPath, err := session.ResolveEvents(path)
	if err != nil {
		return "", nil, err
	}
	events, err := event.ReadLogFile(logPath)
	if err != nil {
		return "", nil, fmt.Errorf("read event log: %w", err)
	}
	return logPath, events, nil
}

func newPlayCmd(a *app) *cobra.Command {
	var scale float64

	cmd := &cobra.Command{
		Use:     "play <session-dir|events.csv>",
		Aliases: []string{"replay"},
		Short:   "Replay the recorded input events with their original timing",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logPath, events, err := loadEvents(args[0])
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No events in %s\n", logPath)
				return nil
			}

			player, err := replay.NewPlayer(input.NewInjector(), scale)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Replaying %d events from %s\n", len(events), logPath)
			if err := player.Play(events); err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Replay finished")
			return nil
		},
	}

	cmd.Flags().Float64VarP(&scale, "scale", "s", 1.0, "Delay multiplier: 0.5 plays twice as fast, 2.0 twice as slow")
	return cmd
}

func newStateCmd(a *app) *cobra.Command {
	var at float64

	cmd := &cobra.Command{
		Use:   "state <session-dir|events.csv>",
		Short: "Show the cursor position and held keys at a point in time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, events, err := loadEvents(args[0])
			if err != nil {
				return err
			}

			tl := timeline.Build(events)
			for _, line := range overlay.Lines(at, tl.StateAt(at)) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&at, "at", "t", 0, "Seconds from the recording start")
	return cmd
}

func newOverlayCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "overlay <session-dir|events.csv>",
		Short: "Export the status overlay as an SRT subtitle track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logPath, events, err := loadEvents(args[0])
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No events in %s\n", logPath)
				return nil
			}

			tl := timeline.Build(events)

			out := output
			if out == "" {
				out = filepath.Join(filepath.Dir(logPath), "overlay.srt")
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create subtitle file: %w", err)
			}

			frameRate := a.cfg.Get().Recording.FrameRate
			if err := overlay.WriteSRT(f, tl, frameRate, tl.End()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close subtitle file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Subtitle path (default: overlay.srt next to the event log)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cataloged recordings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalogPath := filepath.Join(a.cfg.Get().Recording.OutputRoot, "catalog.db")
			cat, err := session.OpenCatalog(catalogPath)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer cat.Close()

			rows, err := cat.List()
			if err != nil {
				return fmt.Errorf("list recordings: %w", err)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recordings cataloged yet")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ID\tSTARTED\tDURATION\tEVENTS\tDIR")
			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.1fs\t%d\t%s\n",
					row.ID, row.StartedAt.Format(time.RFC3339), row.Duration, row.Events, row.Dir)
			}
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigPathCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(a.cfg.Get())
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.cfg.Path())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the iorec version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "iorec %s\n", version)
		},
	}
}
