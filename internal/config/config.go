// Package config provides configuration management for the recorder.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Recording contains capture settings
	Recording RecordingConfig `yaml:"recording"`

	// Monitor contains live monitor settings
	Monitor MonitorConfig `yaml:"monitor"`

	// General contains general application settings
	General GeneralConfig `yaml:"general"`
}

// RecordingConfig contains capture settings
type RecordingConfig struct {
	// OutputRoot is the directory session directories are created under
	OutputRoot string `yaml:"output_root"`

	// FrameRate caps both the video frame rate and the persisted event rate
	FrameRate float64 `yaml:"frame_rate"`

	// FFmpegPath is the encoder binary to spawn
	FFmpegPath string `yaml:"ffmpeg_path"`

	// CaptureSize is the grabbed region as WxH; empty lets ffmpeg decide
	CaptureSize string `yaml:"capture_size,omitempty"`

	// Display is the X11 display grabbed on Linux
	Display string `yaml:"display,omitempty"`

	// StopHotkey ends a recording from the keyboard (e.g. "Ctrl+Alt+F10")
	StopHotkey string `yaml:"stop_hotkey"`

	// KeepAwake blocks display sleep while recording
	KeepAwake bool `yaml:"keep_awake"`
}

// MonitorConfig contains live monitor settings
type MonitorConfig struct {
	// Enabled serves the monitor page while recording
	Enabled bool `yaml:"enabled"`

	// Addr is the monitor listen address (default: :18792)
	Addr string `yaml:"addr"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// StartOnBoot starts tray mode at login
	StartOnBoot bool `yaml:"start_on_boot"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Recording: RecordingConfig{
			OutputRoot: ".",
			FrameRate:  20,
			FFmpegPath: "ffmpeg",
			Display:    ":0.0",
			StopHotkey: "Ctrl+Alt+F10",
			KeepAwake:  true,
		},
		Monitor: MonitorConfig{
			Enabled: false,
			Addr:    ":18792",
		},
		General: GeneralConfig{
			LogLevel:    "info",
			StartOnBoot: false,
		},
	}
}

// Validate checks settings that other components rely on.
func (c *Config) Validate() error {
	if c.Recording.FrameRate <= 0 {
		return fmt.Errorf("recording.frame_rate must be positive, got %v", c.Recording.FrameRate)
	}
	if c.Recording.OutputRoot == "" {
		return fmt.Errorf("recording.output_root must not be empty")
	}
	if c.Monitor.Enabled && c.Monitor.Addr == "" {
		return fmt.Errorf("monitor.addr must be set when the monitor is enabled")
	}
	return nil
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	onChanged  func()
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath), nil
}

// NewManagerAt creates a manager bound to an explicit config file path.
func NewManagerAt(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		config:     DefaultConfig(),
	}
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "iorec")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "iorec")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "iorec")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.yaml"), nil
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		// No config file, use defaults
		return nil
	}
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", m.configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", m.configPath, err)
	}

	m.mu.Lock()
	m.config = cfg
	onChanged := m.onChanged
	m.mu.Unlock()

	if onChanged != nil {
		onChanged()
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return err
	}

	log.Info().Str("path", m.configPath).Int("bytes", len(data)).Msg("Config: saving configuration")
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set updates the configuration
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	m.config = config
	onChanged := m.onChanged
	m.mu.Unlock()

	if onChanged != nil {
		onChanged()
	}
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}
