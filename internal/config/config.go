// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mlvnd/banner/internal/present"
)

// Duration is a time.Duration that can be unmarshaled from
// human-readable strings like "5s" or "1m30s", or from integer
// milliseconds. A value of "0" or 0 means never expire.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m30s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the banner configuration, loaded from
// ~/.config/banner/config.toml.
type Config struct {
	Display  DisplayConfig `toml:"display"`
	Timeouts TimeoutConfig `toml:"timeouts"`
	Audio    AudioConfig   `toml:"audio"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	Position string `toml:"position"`  // "top-right", "top-left", etc.
	MaxWidth int    `toml:"max_width"` // Banner width cap in cells
}

// TimeoutConfig contains timeout settings per severity level.
// A value of "0" or 0 means never expire.
type TimeoutConfig struct {
	Low      Duration `toml:"low"`      // e.g., "5s" or 5000
	Normal   Duration `toml:"normal"`   // e.g., "10s" or 10000
	Critical Duration `toml:"critical"` // e.g., "0" for never expire
}

// AudioConfig contains show-sound settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-severity sound file paths.
type SoundConfig struct {
	Low      string `toml:"low"`
	Normal   string `toml:"normal"`
	Critical string `toml:"critical"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Position: "top-right",
			MaxWidth: 60,
		},
		Timeouts: TimeoutConfig{
			Low:      Duration(5 * time.Second),
			Normal:   Duration(10 * time.Second),
			Critical: 0, // critical messages stay until acted on
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  100,
		},
	}
}

// Path returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "banner", "config.toml")
}

// Load loads configuration from the specified path. If path is empty,
// the default config path is used. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// TimeoutFor returns the configured timeout for a severity level.
func (c *Config) TimeoutFor(severity int) time.Duration {
	switch severity {
	case present.SeverityLow:
		return c.Timeouts.Low.Duration()
	case present.SeverityCritical:
		return c.Timeouts.Critical.Duration()
	default:
		return c.Timeouts.Normal.Duration()
	}
}

// PresentFor builds a presentation config for a severity level.
func (c *Config) PresentFor(severity int) *present.Config {
	return &present.Config{
		Timeout:  c.TimeoutFor(severity),
		Position: c.Display.Position,
		MaxWidth: c.Display.MaxWidth,
	}
}

// SoundPaths returns the per-severity sound map for binding.WithSound.
// Returns nil when audio is disabled.
func (c *Config) SoundPaths() map[int]string {
	if !c.Audio.Enabled {
		return nil
	}
	return map[int]string{
		present.SeverityLow:      c.Audio.Sounds.Low,
		present.SeverityNormal:   c.Audio.Sounds.Normal,
		present.SeverityCritical: c.Audio.Sounds.Critical,
	}
}
