package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Tracker.DataFile)
	assert.Nil(t, cfg.Practice.Count)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[tracker]
data-file = "/tmp/perf.json"
trend-window = 3

[runner]
pause = "250ms"

[dashboard]
recent = 8

[practice]
count = 4
focus-weak = true
weak-factor = 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Tracker.DataFile)
	assert.Equal(t, "/tmp/perf.json", *cfg.Tracker.DataFile)
	assert.Equal(t, 3, *cfg.Tracker.TrendWindow)
	assert.Equal(t, 8, *cfg.Dashboard.Recent)
	assert.Equal(t, 4, *cfg.Practice.Count)
	assert.True(t, *cfg.Practice.FocusWeak)
	assert.Equal(t, 1.5, *cfg.Practice.WeakFactor)
	assert.Nil(t, cfg.Practice.WeakTop)
	assert.Nil(t, cfg.Runner.CasesFile)

	d, ok, err := cfg.Runner.PauseDuration()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nwords = 10\n"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "practice.words")
}

func TestPauseDuration(t *testing.T) {
	_, ok, err := RunnerConfig{}.PauseDuration()
	require.NoError(t, err)
	assert.False(t, ok)

	bad := "soon"
	_, _, err = RunnerConfig{Pause: &bad}.PauseDuration()
	assert.Error(t, err)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/cfg", "cptrack", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/cfg", "cptrack", "cases.yaml"), DefaultCasesPath())
	assert.Equal(t, filepath.Join("/data", "cptrack", "cptrack.db"), DefaultArchivePath())
}
