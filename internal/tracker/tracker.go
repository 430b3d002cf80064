// Package tracker records problem attempts and persists them as a JSON document.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/cptrack/internal/model"
	"github.com/verte-zerg/cptrack/internal/schema"
	"github.com/verte-zerg/cptrack/internal/stats"
)

// DefaultDataFile is the store location used when none is configured.
const DefaultDataFile = "performance-data.json"

var (
	// ErrNoActiveAttempt is returned when ending an attempt that was never started or already ended.
	ErrNoActiveAttempt = errors.New("no active attempt")
	// ErrInvalidGoal is returned when a goal update is out of range.
	ErrInvalidGoal = errors.New("invalid goal")
)

// Tracker owns the performance document and keeps its derived statistics current.
type Tracker struct {
	path        string
	logger      *slog.Logger
	now         func() time.Time
	trendWindow int

	mu   sync.Mutex
	data model.PerformanceData
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for status and persistence messages.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithTrendWindow sets the number of results per improvement-trend window.
func WithTrendWindow(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.trendWindow = n
		}
	}
}

// Attempt is an in-flight timing of one problem.
type Attempt struct {
	ID          string
	ProblemID   string
	Day         int
	ProblemName string
	Start       time.Time

	ended bool
}

// Open loads the document at path. Any load failure yields a fresh document.
func Open(path string, opts ...Option) *Tracker {
	if path == "" {
		path = DefaultDataFile
	}
	t := &Tracker{
		path:        path,
		logger:      slog.Default(),
		now:         time.Now,
		trendWindow: model.DefaultTrendWindow,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.data = t.load()
	return t
}

// Path returns the backing file path.
func (t *Tracker) Path() string {
	return t.path
}

func (t *Tracker) load() model.PerformanceData {
	raw, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			t.logger.Info("no performance data yet, starting fresh", "path", t.path)
		} else {
			t.logger.Warn("failed to read performance data, starting fresh", "path", t.path, "error", err)
		}
		return model.NewPerformanceData()
	}

	if err := schema.ValidatePerformance(raw); err != nil {
		t.logger.Warn("performance data is invalid, starting fresh", "path", t.path, "error", err)
		return model.NewPerformanceData()
	}

	var data model.PerformanceData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.logger.Warn("failed to decode performance data, starting fresh", "path", t.path, "error", err)
		return model.NewPerformanceData()
	}
	if data.Version > model.DataVersion {
		t.logger.Warn("performance data version is newer than supported, starting fresh",
			"file_version", data.Version,
			"supported_version", model.DataVersion,
		)
		return model.NewPerformanceData()
	}

	data.Version = model.DataVersion
	if data.Results == nil {
		data.Results = []model.ProblemResult{}
	}
	data.OverallStats, data.DayStats = stats.Recompute(data.Results, t.trendWindow)
	t.logger.Debug("loaded performance data", "path", t.path, "results", len(data.Results))
	return data
}

// StartAttempt begins timing a problem. Nothing is persisted until EndAttempt.
func (t *Tracker) StartAttempt(problemID string, day int, name string) *Attempt {
	a := &Attempt{
		ID:          uuid.NewString(),
		ProblemID:   problemID,
		Day:         day,
		ProblemName: name,
		Start:       t.now(),
	}
	t.logger.Info("attempt started", "problem", name, "day", day)
	return a
}

// EndAttempt finishes a, appends its result and persists the document.
func (t *Tracker) EndAttempt(a *Attempt, passed bool, attempts int) (model.ProblemResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if a == nil || a.ended {
		t.logger.Warn("no active attempt to end")
		return model.ProblemResult{}, ErrNoActiveAttempt
	}
	if attempts < 1 {
		attempts = 1
	}

	end := t.now()
	startMs := a.Start.UnixMilli()
	duration := max(end.UnixMilli()-startMs, 0)
	result := model.ProblemResult{
		ID:          a.ID,
		ProblemID:   a.ProblemID,
		Day:         a.Day,
		ProblemName: a.ProblemName,
		StartTime:   startMs,
		EndTime:     startMs + duration,
		Duration:    duration,
		Passed:      passed,
		Attempts:    attempts,
		Timestamp:   end,
	}

	t.data.Results = append(t.data.Results, result)
	t.recomputeLocked()
	t.persistLocked()
	a.ended = true

	t.logger.Info("attempt finished",
		"problem", a.ProblemName,
		"passed", passed,
		"duration", stats.FormatDuration(float64(duration)),
		"attempts", attempts,
	)
	return result, nil
}

// SetGoals applies the non-nil fields of u. Out-of-range values abort without changes.
func (t *Tracker) SetGoals(u model.GoalsUpdate) error {
	if err := validateGoals(u); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if u.TargetTimePerProblem != nil {
		t.data.Goals.TargetTimePerProblem = *u.TargetTimePerProblem
	}
	if u.TargetSuccessRate != nil {
		t.data.Goals.TargetSuccessRate = *u.TargetSuccessRate
	}
	if u.DailyProblemGoal != nil {
		t.data.Goals.DailyProblemGoal = *u.DailyProblemGoal
	}
	t.persistLocked()
	t.logger.Info("goals updated")
	return nil
}

func validateGoals(u model.GoalsUpdate) error {
	if v := u.TargetTimePerProblem; v != nil && (*v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return fmt.Errorf("%w: target time must be positive, got %v", ErrInvalidGoal, *v)
	}
	if v := u.TargetSuccessRate; v != nil && (*v < 0 || *v > 1 || math.IsNaN(*v)) {
		return fmt.Errorf("%w: target success rate must be within 0..1, got %v", ErrInvalidGoal, *v)
	}
	if v := u.DailyProblemGoal; v != nil && *v < 1 {
		return fmt.Errorf("%w: daily problem goal must be at least 1, got %d", ErrInvalidGoal, *v)
	}
	return nil
}

// Clear drops every result and derived statistic. Goals are kept.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.Results = []model.ProblemResult{}
	t.data.DayStats = []model.DayStats{}
	t.data.OverallStats = model.EmptyOverallStats()
	t.persistLocked()
	t.logger.Info("performance data cleared")
}

// Snapshot returns a deep copy of the document.
func (t *Tracker) Snapshot() model.PerformanceData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data.Clone()
}

// RecentResults returns up to n of the latest results, oldest first.
func (t *Tracker) RecentResults(n int) []model.ProblemResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= 0 {
		return []model.ProblemResult{}
	}
	results := t.data.Results
	if len(results) > n {
		results = results[len(results)-n:]
	}
	return append([]model.ProblemResult{}, results...)
}

func (t *Tracker) recomputeLocked() {
	t.data.OverallStats, t.data.DayStats = stats.Recompute(t.data.Results, t.trendWindow)
}

// persistLocked writes the document; failures are logged and in-memory state is kept.
func (t *Tracker) persistLocked() {
	if err := writeAtomic(t.path, t.data); err != nil {
		t.logger.Warn("failed to save performance data", "path", t.path, "error", err)
		return
	}
	t.logger.Debug("saved performance data", "path", t.path)
}

func writeAtomic(path string, data model.PerformanceData) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		if cerr := tmp.Close(); cerr != nil {
			_ = cerr
		}
		_ = os.Remove(tmpPath)
		return fmt.Errorf("encode performance data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
