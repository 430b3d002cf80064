package tracker

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cptrack/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTest(t *testing.T, path string, clock *fakeClock, opts ...Option) *Tracker {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger()), WithClock(clock.Now)}, opts...)
	return Open(path, opts...)
}

func record(t *testing.T, tr *Tracker, clock *fakeClock, id string, day int, d time.Duration, passed bool) model.ProblemResult {
	t.Helper()
	a := tr.StartAttempt(id, day, "Problem "+id)
	clock.Advance(d)
	res, err := tr.EndAttempt(a, passed, 1)
	require.NoError(t, err)
	return res
}

func TestOpenMissingFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	tr := openTest(t, path, newFakeClock())

	snap := tr.Snapshot()
	assert.Empty(t, snap.Results)
	assert.Empty(t, snap.DayStats)
	assert.Equal(t, model.DefaultGoals(), snap.Goals)
	assert.True(t, math.IsInf(snap.OverallStats.BestTime, 1))
	assert.Equal(t, path, tr.Path())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenDefaultPath(t *testing.T) {
	tr := Open("", WithLogger(quietLogger()))
	assert.Equal(t, DefaultDataFile, tr.Path())
}

func TestEndAttemptRecordsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	clock := newFakeClock()
	tr := openTest(t, path, clock)

	a := tr.StartAttempt("max-array", 1, "Find Maximum in Array")
	start := clock.Now()
	clock.Advance(1500 * time.Millisecond)
	res, err := tr.EndAttempt(a, true, 1)
	require.NoError(t, err)

	assert.Equal(t, a.ID, res.ID)
	assert.Equal(t, "max-array", res.ProblemID)
	assert.Equal(t, 1, res.Day)
	assert.Equal(t, int64(1500), res.Duration)
	assert.Equal(t, res.EndTime-res.StartTime, res.Duration)
	assert.Equal(t, start.UnixMilli(), res.StartTime)
	assert.True(t, res.Passed)
	assert.Equal(t, 1, res.Attempts)

	snap := tr.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.Equal(t, 1, snap.OverallStats.TotalProblems)
	assert.Equal(t, 1, snap.OverallStats.TotalSolved)
	assert.Equal(t, 1500.0, snap.OverallStats.BestTime)
	require.Len(t, snap.DayStats, 1)
	assert.Equal(t, 1.0, snap.DayStats[0].SuccessRate)

	reopened := openTest(t, path, clock)
	again := reopened.Snapshot()
	require.Len(t, again.Results, 1)
	assert.Equal(t, res.ID, again.Results[0].ID)
	assert.True(t, res.Timestamp.Equal(again.Results[0].Timestamp))
	assert.Equal(t, snap.OverallStats, again.OverallStats)
	assert.Equal(t, snap.DayStats, again.DayStats)
}

func TestEndAttemptWithoutStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	tr := openTest(t, path, newFakeClock())

	_, err := tr.EndAttempt(nil, true, 1)
	require.ErrorIs(t, err, ErrNoActiveAttempt)
	assert.Empty(t, tr.Snapshot().Results)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEndAttemptTwice(t *testing.T) {
	clock := newFakeClock()
	tr := openTest(t, filepath.Join(t.TempDir(), "data.json"), clock)

	a := tr.StartAttempt("p", 1, "P")
	_, err := tr.EndAttempt(a, true, 1)
	require.NoError(t, err)
	_, err = tr.EndAttempt(a, true, 1)
	require.ErrorIs(t, err, ErrNoActiveAttempt)
	assert.Len(t, tr.Snapshot().Results, 1)
}

func TestEndAttemptNormalizesAttemptsAndDuration(t *testing.T) {
	clock := newFakeClock()
	tr := openTest(t, filepath.Join(t.TempDir(), "data.json"), clock)

	a := tr.StartAttempt("p", 2, "P")
	clock.Advance(-time.Second)
	res, err := tr.EndAttempt(a, false, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, int64(0), res.Duration)
	assert.Equal(t, res.StartTime, res.EndTime)
}

func TestIndependentAttempts(t *testing.T) {
	clock := newFakeClock()
	tr := openTest(t, filepath.Join(t.TempDir(), "data.json"), clock)

	outer := tr.StartAttempt("outer", 1, "Outer")
	clock.Advance(time.Second)
	inner := tr.StartAttempt("inner", 1, "Inner")
	clock.Advance(2 * time.Second)

	innerRes, err := tr.EndAttempt(inner, true, 1)
	require.NoError(t, err)
	outerRes, err := tr.EndAttempt(outer, false, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(2000), innerRes.Duration)
	assert.Equal(t, int64(3000), outerRes.Duration)
	assert.Len(t, tr.Snapshot().Results, 2)
}

func TestOpenCorruptFileStartsFresh(t *testing.T) {
	cases := map[string]string{
		"truncated": `{"results": [`,
		"schema":    `{"results": "nope", "goals": {}}`,
		"newer":     `{"version": 99, "results": [], "goals": {"targetTimePerProblem": 1, "targetSuccessRate": 0.5, "dailyProblemGoal": 1}}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			tr := openTest(t, path, newFakeClock())
			snap := tr.Snapshot()
			assert.Empty(t, snap.Results)
			assert.Equal(t, model.DefaultGoals(), snap.Goals)
		})
	}
}

func TestOpenRecomputesStoredStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	doc := `{
  "results": [
    {"problemId": "a", "day": 2, "problemName": "A", "startTime": 0, "endTime": 4000, "duration": 4000,
     "passed": true, "attempts": 1, "timestamp": "2024-01-01T00:00:04Z"},
    {"problemId": "b", "day": 1, "problemName": "B", "startTime": 0, "endTime": 2000, "duration": 2000,
     "passed": false, "attempts": 2, "timestamp": "2024-01-01T00:00:06Z"}
  ],
  "dayStats": [],
  "goals": {"targetTimePerProblem": 60000, "targetSuccessRate": 0.5, "dailyProblemGoal": 2},
  "overallStats": {"totalProblems": 0, "totalSolved": 0, "averageTime": 0, "bestTime": null, "worstTime": 0, "improvementTrend": 0}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	snap := openTest(t, path, newFakeClock()).Snapshot()
	assert.Equal(t, model.DataVersion, snap.Version)
	assert.Equal(t, 2, snap.OverallStats.TotalProblems)
	assert.Equal(t, 1, snap.OverallStats.TotalSolved)
	assert.Equal(t, 2000.0, snap.OverallStats.BestTime)
	assert.Equal(t, 60000.0, snap.Goals.TargetTimePerProblem)
	require.Len(t, snap.DayStats, 2)
	assert.Equal(t, 1, snap.DayStats[0].Day)
	assert.Equal(t, 2, snap.DayStats[1].Day)
}

func TestSetGoals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	clock := newFakeClock()
	tr := openTest(t, path, clock)

	rate := 0.9
	require.NoError(t, tr.SetGoals(model.GoalsUpdate{TargetSuccessRate: &rate}))
	goals := tr.Snapshot().Goals
	assert.Equal(t, 0.9, goals.TargetSuccessRate)
	assert.Equal(t, float64(model.DefaultTargetTimePerProblem), goals.TargetTimePerProblem)
	assert.Equal(t, model.DefaultDailyProblemGoal, goals.DailyProblemGoal)

	assert.Equal(t, goals, openTest(t, path, clock).Snapshot().Goals)
}

func TestSetGoalsRejectsInvalid(t *testing.T) {
	tr := openTest(t, filepath.Join(t.TempDir(), "data.json"), newFakeClock())
	before := tr.Snapshot().Goals

	zero := 0.0
	high := 1.5
	daily := 0
	valid := 120000.0
	for _, u := range []model.GoalsUpdate{
		{TargetTimePerProblem: &zero},
		{TargetSuccessRate: &high},
		{DailyProblemGoal: &daily},
		{TargetTimePerProblem: &valid, DailyProblemGoal: &daily},
	} {
		err := tr.SetGoals(u)
		require.ErrorIs(t, err, ErrInvalidGoal)
	}
	assert.Equal(t, before, tr.Snapshot().Goals)
}

func TestClearKeepsGoals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	clock := newFakeClock()
	tr := openTest(t, path, clock)

	daily := 7
	require.NoError(t, tr.SetGoals(model.GoalsUpdate{DailyProblemGoal: &daily}))
	record(t, tr, clock, "a", 1, time.Second, true)
	record(t, tr, clock, "b", 2, time.Second, false)
	goals := tr.Snapshot().Goals

	tr.Clear()
	snap := tr.Snapshot()
	assert.Empty(t, snap.Results)
	assert.Empty(t, snap.DayStats)
	assert.Equal(t, model.EmptyOverallStats().TotalProblems, snap.OverallStats.TotalProblems)
	assert.True(t, math.IsInf(snap.OverallStats.BestTime, 1))
	assert.Equal(t, goals, snap.Goals)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"bestTime": null`)
	assert.Contains(t, string(raw), `"dailyProblemGoal": 7`)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	clock := newFakeClock()
	tr := openTest(t, filepath.Join(t.TempDir(), "data.json"), clock)
	record(t, tr, clock, "a", 1, time.Second, true)

	first := tr.Snapshot()
	second := tr.Snapshot()
	assert.Equal(t, first, second)

	first.Results[0].Passed = false
	first.DayStats[0].TotalProblems = 99
	first.Goals.DailyProblemGoal = 42
	assert.Equal(t, second, tr.Snapshot())
}

func TestRecentResults(t *testing.T) {
	clock := newFakeClock()
	tr := openTest(t, filepath.Join(t.TempDir(), "data.json"), clock)
	for _, id := range []string{"a", "b", "c"} {
		record(t, tr, clock, id, 1, time.Second, true)
	}

	recent := tr.RecentResults(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].ProblemID)
	assert.Equal(t, "c", recent[1].ProblemID)
	assert.Len(t, tr.RecentResults(10), 3)
	assert.Empty(t, tr.RecentResults(0))
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	clock := newFakeClock()
	tr := openTest(t, filepath.Join(blocker, "data.json"), clock)
	record(t, tr, clock, "a", 1, time.Second, true)

	assert.Len(t, tr.Snapshot().Results, 1)
}

func TestPersistedDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	clock := newFakeClock()
	tr := openTest(t, path, clock)
	record(t, tr, clock, "a", 1, 2*time.Second, true)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "{\n  \"version\": 1,"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"version", "results", "dayStats", "goals", "overallStats"} {
		assert.Contains(t, doc, key)
	}
	result := doc["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "a", result["problemId"])
	assert.Equal(t, 2000.0, result["duration"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConcurrentAttempts(t *testing.T) {
	clock := newFakeClock()
	tr := openTest(t, filepath.Join(t.TempDir(), "data.json"), clock)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := tr.StartAttempt("p", 1, "P")
			_, err := tr.EndAttempt(a, true, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap := tr.Snapshot()
	assert.Len(t, snap.Results, 8)
	assert.Equal(t, 8, snap.OverallStats.TotalProblems)
}

func TestTrendWindowOption(t *testing.T) {
	clock := newFakeClock()
	tr := openTest(t, filepath.Join(t.TempDir(), "data.json"), clock, WithTrendWindow(1))
	record(t, tr, clock, "a", 1, 4*time.Second, true)
	record(t, tr, clock, "a", 1, time.Second, true)

	assert.Equal(t, 3000.0, tr.Snapshot().OverallStats.ImprovementTrend)
}
