package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cptrack/internal/casefile"
	"github.com/verte-zerg/cptrack/internal/config"
	"github.com/verte-zerg/cptrack/internal/model"
	"github.com/verte-zerg/cptrack/internal/picker"
	"github.com/verte-zerg/cptrack/internal/problems"
	"github.com/verte-zerg/cptrack/internal/runner"
	"github.com/verte-zerg/cptrack/internal/stats"
)

var (
	runDay   int
	runCases string
	runPause string

	practiceCount      int
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceSeed       int64
)

func addRunnerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runCases, "cases", "", "YAML file with extra test cases")
	cmd.Flags().StringVar(&runPause, "pause", runner.DefaultPause.String(), "pause between problems")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the built-in problem suites",
		Args:  noArgs,
		RunE:  runRunCmd,
	}
	cmd.Flags().IntVar(&runDay, "day", 0, "only run the suites of this day")
	addRunnerFlags(cmd)
	return cmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveRunnerConfig(cmd)
	if err != nil {
		return err
	}
	suites := problems.All()
	if cmd.Flags().Changed("day") {
		suites, err = problems.ForDay(runDay)
		if err != nil {
			logErrf("Invalid day %d. Available days: %v\n", runDay, problems.Days())
			return usageError{err: err}
		}
	}
	suites, err = withExtraCases(suites, cfg.CasesFile)
	if err != nil {
		return err
	}
	return runSuites(cmd, suites, cfg)
}

func newPracticeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Run a randomly picked practice set",
		Args:  noArgs,
		RunE:  runPracticeCmd,
	}
	cmd.Flags().IntVar(&practiceCount, "count", defaultCount, "problems per practice set")
	cmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias the set toward weak problems")
	cmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak problems to focus on")
	cmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "extra weight for weak problems")
	cmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed (0 uses the clock)")
	addRunnerFlags(cmd)
	return cmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	applyIntConfig(cmd, "count", &practiceCount, fileCfg.Practice.Count)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)

	pcfg := model.PracticeConfig{
		Count:      practiceCount,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		Seed:       practiceSeed,
	}
	if err := validatePracticeConfig(pcfg); err != nil {
		return err
	}
	rcfg, err := resolveRunnerConfig(cmd)
	if err != nil {
		return err
	}
	suites, err := withExtraCases(problems.All(), rcfg.CasesFile)
	if err != nil {
		return err
	}

	p := picker.New(pcfg.Seed)
	if !pcfg.FocusWeak {
		return runSuites(cmd, p.Pick(suites, pcfg.Count), rcfg)
	}
	snap := openTracker().Snapshot()
	weak := stats.SelectWeakProblems(stats.ProblemAggregates(snap.Results), pcfg.WeakTop)
	if len(weak) == 0 {
		logErrln("no results available for weak-problem focus yet; picking uniformly")
	}
	logger.Debug("weak problems selected", "count", len(weak))
	return runSuites(cmd, p.PickWeighted(suites, pcfg.Count, weak, pcfg.WeakFactor), rcfg)
}

func resolveRunnerConfig(cmd *cobra.Command) (model.RunnerConfig, error) {
	applyStringConfig(cmd, "cases", &runCases, fileCfg.Runner.CasesFile)
	pause, err := parsePause(runPause)
	if err != nil {
		return model.RunnerConfig{}, err
	}
	if !cmd.Flags().Changed("pause") {
		d, ok, err := fileCfg.Runner.PauseDuration()
		if err != nil {
			return model.RunnerConfig{}, usageError{err: err}
		}
		if ok {
			pause = d
		}
	}
	if pause < 0 {
		return model.RunnerConfig{}, usageErrf("--pause must be >= 0")
	}
	cases := runCases
	if cases == "" {
		if _, err := os.Stat(config.DefaultCasesPath()); err == nil {
			cases = config.DefaultCasesPath()
		}
	}
	return model.RunnerConfig{Pause: pause, CasesFile: cases}, nil
}

func withExtraCases(suites []runner.Suite, path string) ([]runner.Suite, error) {
	if path == "" {
		return suites, nil
	}
	extra, err := casefile.Load(path)
	if err != nil {
		if errors.Is(err, casefile.ErrEmpty) {
			logErrf("case file %s has no cases\n", path)
			return suites, nil
		}
		return nil, usageErrf("failed to load cases: %w", err)
	}
	out, unknown := problems.Extend(suites, extra)
	for _, id := range unknown {
		logErrf("case file references unknown problem %q\n", id)
	}
	logger.Debug("extra cases loaded", "path", path, "problems", len(extra))
	return out, nil
}

func runSuites(cmd *cobra.Command, suites []runner.Suite, cfg model.RunnerConfig) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	t := openTracker()
	r := runner.New(t,
		runner.WithOutput(cmd.OutOrStdout()),
		runner.WithLogger(logger),
		runner.WithPause(cfg.Pause),
	)
	sum := r.RunSuites(ctx, suites)
	logger.Debug("run finished", "passed", sum.Passed, "total", sum.Total, "data", t.Path())
	if sum.Cancelled && errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("run interrupted")
	}
	return nil
}

func validatePracticeConfig(cfg model.PracticeConfig) error {
	if cfg.Count <= 0 {
		return usageErrf("--count must be > 0")
	}
	if cfg.WeakTop < 0 {
		return usageErrf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return usageErrf("--weak-factor must be >= 0")
	}
	return nil
}

func parsePause(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, usageErrf("invalid --pause value %q: %w", s, err)
	}
	return d, nil
}
