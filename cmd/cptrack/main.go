// Package main provides the CLI entrypoint for cptrack.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cptrack/internal/config"
	"github.com/verte-zerg/cptrack/internal/model"
	"github.com/verte-zerg/cptrack/internal/tracker"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const (
	defaultRecent      = 5
	defaultCount       = 3
	defaultWeakTop     = 3
	defaultWeakFactor  = 2.0
	defaultHistoryLast = 20
)

var (
	dataPath   string
	configPath string
	verbose    bool

	trendWindow int
	fileCfg     config.FileConfig
	logger      = slog.Default()
)

// usageError marks invalid arguments or input.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func usageErrf(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	return exitError
}

func main() {
	rootCmd := newRootCmd()
	os.Exit(exitCode(rootCmd.Execute()))
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "cptrack",
		Short:             "Competitive programming practice tracker",
		SilenceUsage:      true,
		SilenceErrors:     false,
		Args:              noArgs,
		PersistentPreRunE: setup,
		RunE:              runDashboardCmd,
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	rootCmd.PersistentFlags().StringVar(&dataPath, "data", tracker.DefaultDataFile, "performance data file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/cptrack/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addDashboardFlags(rootCmd)

	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPracticeCmd())
	rootCmd.AddCommand(newGoalsCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newInsightsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newProblemsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err: err}
	}
	return nil
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return usageErrf("failed to load config: %w", err)
	}
	fileCfg = cfg
	logger.Debug("config loaded", "path", path)

	trendWindow = model.DefaultTrendWindow
	if cfg.Tracker.TrendWindow != nil {
		if *cfg.Tracker.TrendWindow < 1 {
			return usageErrf("tracker.trend-window must be >= 1")
		}
		trendWindow = *cfg.Tracker.TrendWindow
	}
	applyStringConfig(cmd, "data", &dataPath, cfg.Tracker.DataFile)
	return nil
}

func openTracker() *tracker.Tracker {
	return tracker.Open(dataPath, tracker.WithLogger(logger), tracker.WithTrendWindow(trendWindow))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  noArgs,
		RunE:  runConfigCmd,
		// The file may be broken; skip loading it so it can still be edited.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cptrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[tracker]
# data-file = %q   # Performance data file
# trend-window = %d                       # Results compared by the improvement trend

[runner]
# pause = %q         # Pause between problems
# cases-file = ""         # Extra YAML test cases (default %q if present)

[dashboard]
# recent = %d             # Entries in the recent activity section

[practice]
# count = %d              # Problems per practice set
# focus-weak = false      # Bias practice toward weak problems
# weak-top = %d           # Number of weak problems to focus on
# weak-factor = %.1f      # Extra weight for weak problems
`,
		tracker.DefaultDataFile,
		model.DefaultTrendWindow,
		"100ms",
		config.DefaultCasesPath(),
		defaultRecent,
		defaultCount,
		defaultWeakTop,
		defaultWeakFactor,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
