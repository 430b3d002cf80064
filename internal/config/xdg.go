// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "cptrack"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultArchivePath returns the default SQLite export path.
func DefaultArchivePath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultCasesPath returns where an extra case file is looked up when none is configured.
func DefaultCasesPath() string {
	return filepath.Join(XDGConfigHome(), appName, "cases.yaml")
}
