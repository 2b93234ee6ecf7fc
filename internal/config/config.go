// Package config loads the docktop configuration from the XDG config
// directory. Missing files and missing keys fall back to defaults so the
// dashboard always starts.
package config

import (
	"os"
	"path/filepath"
	"time"

	"docktop/internal/errors"
	"docktop/internal/xdg"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the docktop configuration
type Config struct {
	Engine EngineConfig `toml:"engine"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
}

type EngineConfig struct {
	SocketPath            string `toml:"socket_path"`             // Engine daemon control socket
	ListIntervalSeconds   int    `toml:"list_interval_seconds"`   // Slow container discovery poll
	DetailIntervalSeconds int    `toml:"detail_interval_seconds"` // Stats/inspect refresh for the focused container
	EventBackoffSeconds   int    `toml:"event_backoff_seconds"`   // Reconnect wait after the event stream drops
	LogTail               int    `toml:"log_tail"`                // Lines of history when a log stream opens
}

type UIConfig struct {
	Theme string `toml:"theme"` // Theme name, resolved by the UI layer
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			SocketPath:            "/var/run/docker.sock",
			ListIntervalSeconds:   10,
			DetailIntervalSeconds: 2,
			EventBackoffSeconds:   5,
			LogTail:               100,
		},
		UI: UIConfig{
			Theme: "monochrome",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads config.toml from the XDG config directory. A missing file
// yields the defaults; a malformed file is an error.
func Load() (*Config, error) {
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(configDir, "config.toml"))
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, "failed to read config file", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, "failed to parse config file", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in zero values with defaults
func applyDefaults(cfg *Config) {
	defaults := Default()
	if cfg.Engine.SocketPath == "" {
		cfg.Engine.SocketPath = defaults.Engine.SocketPath
	}
	if cfg.Engine.ListIntervalSeconds == 0 {
		cfg.Engine.ListIntervalSeconds = defaults.Engine.ListIntervalSeconds
	}
	if cfg.Engine.DetailIntervalSeconds == 0 {
		cfg.Engine.DetailIntervalSeconds = defaults.Engine.DetailIntervalSeconds
	}
	if cfg.Engine.EventBackoffSeconds == 0 {
		cfg.Engine.EventBackoffSeconds = defaults.Engine.EventBackoffSeconds
	}
	if cfg.Engine.LogTail == 0 {
		cfg.Engine.LogTail = defaults.Engine.LogTail
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// validate rejects values the tasks cannot run with
func validate(cfg *Config) error {
	if cfg.Engine.ListIntervalSeconds < 0 {
		return errors.NewWithDetails(errors.ErrConfigInvalid, "invalid config value", "engine.list_interval_seconds must be positive")
	}
	if cfg.Engine.DetailIntervalSeconds < 0 {
		return errors.NewWithDetails(errors.ErrConfigInvalid, "invalid config value", "engine.detail_interval_seconds must be positive")
	}
	if cfg.Engine.EventBackoffSeconds < 0 {
		return errors.NewWithDetails(errors.ErrConfigInvalid, "invalid config value", "engine.event_backoff_seconds must be positive")
	}
	if cfg.Engine.LogTail < 0 {
		return errors.NewWithDetails(errors.ErrConfigInvalid, "invalid config value", "engine.log_tail must be positive")
	}
	return nil
}

// ListInterval returns the discovery poll interval as a duration
func (c *Config) ListInterval() time.Duration {
	return time.Duration(c.Engine.ListIntervalSeconds) * time.Second
}

// DetailInterval returns the focused-container refresh interval as a duration
func (c *Config) DetailInterval() time.Duration {
	return time.Duration(c.Engine.DetailIntervalSeconds) * time.Second
}

// EventBackoff returns the event stream reconnect wait as a duration
func (c *Config) EventBackoff() time.Duration {
	return time.Duration(c.Engine.EventBackoffSeconds) * time.Second
}
