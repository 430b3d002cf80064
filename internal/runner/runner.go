// Package runner executes problem suites against their test cases and records the outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/verte-zerg/cptrack/internal/model"
	"github.com/verte-zerg/cptrack/internal/stats"
	"github.com/verte-zerg/cptrack/internal/tracker"
	"github.com/verte-zerg/cptrack/internal/value"
)

// DefaultPause separates consecutive suites in RunSuites.
const DefaultPause = 100 * time.Millisecond

var errNilSolution = errors.New("suite has no solution")

// Solution is a problem implementation. List inputs arrive spread as positional arguments.
type Solution func(args ...value.Value) (value.Value, error)

// Case is one input/expected pair of a suite.
type Case struct {
	Input       value.Value
	Expected    value.Value
	Description string
}

// Suite groups the test cases of one problem.
type Suite struct {
	ID       string
	Day      int
	Name     string
	Cases    []Case
	Solution Solution
}

// Recorder is the part of the tracker the runner reports to.
type Recorder interface {
	StartAttempt(problemID string, day int, name string) *tracker.Attempt
	EndAttempt(a *tracker.Attempt, passed bool, attempts int) (model.ProblemResult, error)
}

// CaseResult is the verdict for one test case.
type CaseResult struct {
	Index       int
	Description string
	Passed      bool
	Expected    value.Value
	Got         value.Value
	Err         error
}

// Outcome summarizes one suite run.
type Outcome struct {
	SuiteID  string
	Name     string
	Passed   int
	Total    int
	Success  bool
	Attempts int
	Cases    []CaseResult
	Result   *model.ProblemResult
}

// Summary aggregates a RunSuites call.
type Summary struct {
	Outcomes  []Outcome
	Passed    int
	Total     int
	Elapsed   time.Duration
	Cancelled bool
}

// SuccessRate returns passed suites over total suites.
func (s Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total)
}

// Runner runs suites sequentially.
type Runner struct {
	rec    Recorder
	out    io.Writer
	logger *slog.Logger
	pause  time.Duration
	now    func() time.Time

	pass func(a ...any) string
	fail func(a ...any) string
	bold func(a ...any) string
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where progress is printed.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the logger for harness faults.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPause sets the delay between suites. Zero disables it.
func WithPause(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.pause = d
		}
	}
}

// WithClock replaces the wall clock used for elapsed time.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns a Runner reporting to rec.
func New(rec Recorder, opts ...Option) *Runner {
	r := &Runner{
		rec:    rec,
		out:    io.Discard,
		logger: slog.Default(),
		pause:  DefaultPause,
		now:    time.Now,
		pass:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		fail:   color.New(color.FgRed, color.Bold).SprintFunc(),
		bold:   color.New(color.Bold).SprintFunc(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunProblem times s, evaluates every case and records the outcome.
func (r *Runner) RunProblem(ctx context.Context, s Suite) Outcome {
	r.printf("\n%s %s (day %d)\n", r.bold("Testing:"), s.Name, s.Day)
	r.printf("%s\n", strings.Repeat("─", 50))

	attempt := r.rec.StartAttempt(s.ID, s.Day, s.Name)
	out := Outcome{
		SuiteID:  s.ID,
		Name:     s.Name,
		Total:    len(s.Cases),
		Attempts: 1,
	}

	fault := r.runCases(ctx, s, &out)
	if fault != nil {
		out.Attempts++
		r.logger.Error("suite run aborted", "suite", s.ID, "error", fault)
		r.printf("%s running %s: %v\n", r.fail("Error"), s.Name, fault)
	}
	out.Success = fault == nil && out.Passed == out.Total

	res, err := r.rec.EndAttempt(attempt, out.Success, out.Attempts)
	if err != nil {
		r.logger.Warn("failed to record attempt", "suite", s.ID, "error", err)
	} else {
		out.Result = &res
	}

	r.printf("\nResult: %d/%d tests passed\n", out.Passed, out.Total)
	if out.Result != nil {
		r.printf("Time: %s\n", stats.FormatDuration(float64(out.Result.Duration)))
	}
	return out
}

// runCases evaluates cases in order. A non-nil return is a harness fault that stopped iteration.
func (r *Runner) runCases(ctx context.Context, s Suite, out *Outcome) (fault error) {
	defer func() {
		if rec := recover(); rec != nil {
			fault = fmt.Errorf("harness panic: %v", rec)
		}
	}()
	if s.Solution == nil {
		return errNilSolution
	}
	for i, c := range s.Cases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run interrupted: %w", err)
		}
		cr := r.runCase(s.Solution, i+1, c)
		out.Cases = append(out.Cases, cr)
		if cr.Passed {
			out.Passed++
		}
		r.reportCase(cr)
	}
	return nil
}

func (r *Runner) runCase(solution Solution, index int, c Case) CaseResult {
	cr := CaseResult{
		Index:       index,
		Description: c.Description,
		Expected:    c.Expected,
	}
	got, err := call(solution, spread(c.Input))
	if err != nil {
		cr.Err = err
		return cr
	}
	cr.Got = got
	equal, err := value.Equal(got, c.Expected)
	if err != nil {
		cr.Err = err
		return cr
	}
	cr.Passed = equal
	return cr
}

func spread(input value.Value) []value.Value {
	if items, ok := input.Items(); ok {
		return items
	}
	return []value.Value{input}
}

func call(solution Solution, args []value.Value) (got value.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("solution panicked: %v", rec)
		}
	}()
	return solution(args...)
}

func (r *Runner) reportCase(cr CaseResult) {
	switch {
	case cr.Err != nil:
		r.printf("  Test %d: %s\n", cr.Index, r.fail("ERROR"))
	case cr.Passed:
		r.printf("  Test %d: %s\n", cr.Index, r.pass("PASS"))
	default:
		r.printf("  Test %d: %s\n", cr.Index, r.fail("FAIL"))
	}
	if cr.Description != "" {
		r.printf("    %s\n", cr.Description)
	}
	if cr.Err != nil {
		r.printf("    %v\n", cr.Err)
		return
	}
	if !cr.Passed {
		r.printf("    Expected: %s\n", cr.Expected)
		r.printf("    Got:      %s\n", cr.Got)
	}
}

// RunSuites runs suites one after another with a pause in between.
// A cancelled ctx stops before the next suite starts.
func (r *Runner) RunSuites(ctx context.Context, suites []Suite) Summary {
	r.printf("%s\n", r.bold("Starting practice run"))
	r.printf("%s\n", strings.Repeat("=", 60))

	start := r.now()
	var sum Summary
	for i, s := range suites {
		if i > 0 && !r.wait(ctx) {
			sum.Cancelled = true
			break
		}
		if ctx.Err() != nil {
			sum.Cancelled = true
			break
		}
		o := r.RunProblem(ctx, s)
		sum.Outcomes = append(sum.Outcomes, o)
		if o.Success {
			sum.Passed++
		}
	}
	sum.Total = len(suites)
	sum.Elapsed = r.now().Sub(start)

	r.printf("\n%s\n", r.bold("Run complete"))
	r.printf("%s\n", strings.Repeat("=", 60))
	r.printf("Problems solved: %d/%d\n", sum.Passed, sum.Total)
	r.printf("Total time:      %s\n", stats.FormatDuration(float64(sum.Elapsed.Milliseconds())))
	r.printf("Success rate:    %s\n", stats.FormatPercent(sum.SuccessRate()))
	if sum.Cancelled {
		r.printf("Run cancelled after %d of %d problems\n", len(sum.Outcomes), sum.Total)
	}
	return sum
}

func (r *Runner) wait(ctx context.Context) bool {
	if r.pause <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(r.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (r *Runner) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.logger.Debug("runner output failed", "error", err)
	}
}
