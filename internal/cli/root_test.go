package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute %v failed: %v", args, err)
	}
	return out.String()
}

// writeEventLog writes a small session log: a move, a held ctrl_l and a
// left click pair inside the hold
func writeEventLog(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "input_events.csv")
	rows := []string{
		"timestamp,type,x,y,button_or_key,pressed",
		"0.000,mouse_move,100,200,,",
		"0.500,keyboard,-1,-1,ctrl_l,True",
		"1.000,mouse_click,150,250,Button.left,True",
		"1.200,mouse_click,150,250,Button.left,False",
		"2.000,keyboard,-1,-1,ctrl_l,False",
	}
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write event log: %v", err)
	}
	return path
}

func TestCommandAliases(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()

	tests := []struct {
		name    string
		input   []string
		wantUse string
	}{
		{name: "record alias", input: []string{"rec"}, wantUse: "record"},
		{name: "play alias", input: []string{"replay"}, wantUse: "play"},
		{name: "list alias", input: []string{"ls"}, wantUse: "list"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd, _, err := root.Find(tc.input)
			if err != nil {
				t.Fatalf("root.Find failed: %v", err)
			}
			if cmd.Name() != tc.wantUse {
				t.Fatalf("resolved to %q, want %q", cmd.Name(), tc.wantUse)
			}
		})
	}
}

func TestShortFlags(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()

	tests := []struct {
		command string
		short   string
	}{
		{command: "record", short: "d"},
		{command: "play", short: "s"},
		{command: "state", short: "t"},
		{command: "overlay", short: "o"},
	}

	for _, tc := range tests {
		cmd, _, err := root.Find([]string{tc.command})
		if err != nil {
			t.Fatalf("root.Find(%s) failed: %v", tc.command, err)
		}
		if cmd.Flags().ShorthandLookup(tc.short) == nil {
			t.Errorf("short flag -%s is not configured for %s", tc.short, tc.command)
		}
	}
}

func TestStateCommand(t *testing.T) {
	dir := t.TempDir()
	writeEventLog(t, dir)
	cfgPath := filepath.Join(dir, "config.yaml")

	// The session directory form resolves to its event log.
	out := runCommand(t, "--config", cfgPath, "state", dir, "--at", "1.5")

	for _, want := range []string{"TIME: 1.50 sec", "MOUSE: (150, 250)", " - CTRL_L"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "BUTTON.LEFT") {
		t.Errorf("Expected the released button to be absent at 1.5s, got:\n%s", out)
	}
}

func TestOverlayCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := writeEventLog(t, dir)
	cfgPath := filepath.Join(dir, "config.yaml")
	outPath := filepath.Join(dir, "overlay.srt")

	out := runCommand(t, "--config", cfgPath, "overlay", logPath, "-o", outPath)
	if !strings.Contains(out, outPath) {
		t.Errorf("Expected output to name %q, got:\n%s", outPath, out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read subtitle file: %v", err)
	}
	srt := string(data)
	if !strings.HasPrefix(srt, "1\n00:00:00,000 --> 00:00:00,050\n") {
		t.Errorf("Expected the first cue to cover the first frame, got:\n%.120s", srt)
	}
	if !strings.Contains(srt, "TIME: 0.00 sec") {
		t.Errorf("Expected the status block in the subtitles, got:\n%.120s", srt)
	}
}

func TestListCommandEmpty(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "recording:\n  output_root: " + dir + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out := runCommand(t, "--config", cfgPath, "list")
	if !strings.Contains(out, "No recordings cataloged yet") {
		t.Errorf("Expected empty catalog notice, got:\n%s", out)
	}
}

func TestConfigPathCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out := runCommand(t, "--config", cfgPath, "config", "path")
	if strings.TrimSpace(out) != cfgPath {
		t.Errorf("Expected %q, got %q", cfgPath, strings.TrimSpace(out))
	}
}

func TestVersionCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out := runCommand(t, "--config", cfgPath, "version")
	if strings.TrimSpace(out) != "iorec "+version {
		t.Errorf("Expected version line, got %q", out)
	}
}
