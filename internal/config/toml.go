// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tracker   TrackerConfig   `toml:"tracker"`
	Runner    RunnerConfig    `toml:"runner"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Practice  PracticeConfig  `toml:"practice"`
}

// TrackerConfig maps result store settings.
type TrackerConfig struct {
	DataFile    *string `toml:"data-file"`
	TrendWindow *int    `toml:"trend-window"`
}

// RunnerConfig maps test runner settings.
type RunnerConfig struct {
	Pause     *string `toml:"pause"`
	CasesFile *string `toml:"cases-file"`
}

// PauseDuration parses the pause setting. ok is false when it is unset.
func (c RunnerConfig) PauseDuration() (d time.Duration, ok bool, err error) {
	if c.Pause == nil {
		return 0, false, nil
	}
	d, err = time.ParseDuration(*c.Pause)
	if err != nil {
		return 0, false, fmt.Errorf("invalid runner pause %q: %w", *c.Pause, err)
	}
	return d, true, nil
}

// DashboardConfig maps dashboard settings.
type DashboardConfig struct {
	Recent *int `toml:"recent"`
}

// PracticeConfig maps practice-set settings.
type PracticeConfig struct {
	Count      *int     `toml:"count"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
