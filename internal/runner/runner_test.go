package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cptrack/internal/tracker"
	"github.com/verte-zerg/cptrack/internal/value"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRunner(t *testing.T, opts ...Option) (*Runner, *tracker.Tracker, *bytes.Buffer) {
	t.Helper()
	tr := tracker.Open(filepath.Join(t.TempDir(), "data.json"), tracker.WithLogger(quietLogger()))
	var buf bytes.Buffer
	opts = append([]Option{WithOutput(&buf), WithLogger(quietLogger()), WithPause(0)}, opts...)
	return New(tr, opts...), tr, &buf
}

func double(args ...value.Value) (value.Value, error) {
	n, ok := args[0].AsNumber()
	if !ok {
		return value.Value{}, errors.New("not a number")
	}
	return value.Number(n * 2), nil
}

func TestRunProblemAllPass(t *testing.T) {
	r, tr, buf := newTestRunner(t)
	suite := Suite{
		ID:       "double",
		Day:      1,
		Name:     "Double",
		Solution: double,
		Cases: []Case{
			{Input: value.Int(2), Expected: value.Int(4), Description: "two"},
			{Input: value.Int(-3), Expected: value.Int(-6)},
		},
	}

	out := r.RunProblem(context.Background(), suite)
	assert.True(t, out.Success)
	assert.Equal(t, 2, out.Passed)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 1, out.Attempts)
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Passed)
	assert.Equal(t, "double", out.Result.ProblemID)

	snap := tr.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.Equal(t, out.Result.ID, snap.Results[0].ID)

	text := buf.String()
	assert.Contains(t, text, "Double (day 1)")
	assert.Contains(t, text, "Test 1:")
	assert.Contains(t, text, "PASS")
	assert.Contains(t, text, "Result: 2/2 tests passed")
}

func TestRunProblemCaseFailuresContinue(t *testing.T) {
	r, tr, buf := newTestRunner(t)
	calls := 0
	suite := Suite{
		ID:   "mixed",
		Day:  2,
		Name: "Mixed",
		Solution: func(args ...value.Value) (value.Value, error) {
			calls++
			switch calls {
			case 1:
				return value.Int(1), nil
			case 2:
				return value.Value{}, errors.New("boom")
			case 3:
				panic("solution exploded")
			case 4:
				return value.Text("1"), nil
			default:
				return value.Int(2), nil
			}
		},
		Cases: []Case{
			{Input: value.Int(0), Expected: value.Int(1)},
			{Input: value.Int(0), Expected: value.Int(1)},
			{Input: value.Int(0), Expected: value.Int(1)},
			{Input: value.Int(0), Expected: value.Int(1)},
			{Input: value.Int(0), Expected: value.Int(1)},
		},
	}

	out := r.RunProblem(context.Background(), suite)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 1, out.Passed)
	assert.Equal(t, 5, out.Total)
	assert.False(t, out.Success)
	assert.Equal(t, 1, out.Attempts)
	require.Len(t, out.Cases, 5)

	assert.EqualError(t, out.Cases[1].Err, "boom")
	assert.ErrorContains(t, out.Cases[2].Err, "solution panicked: solution exploded")
	var mismatch *value.MismatchError
	assert.ErrorAs(t, out.Cases[3].Err, &mismatch)
	assert.NoError(t, out.Cases[4].Err)
	assert.False(t, out.Cases[4].Passed)

	text := buf.String()
	assert.Contains(t, text, "ERROR")
	assert.Contains(t, text, "Expected: 1")
	assert.Contains(t, text, "Got:      2")

	snap := tr.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.False(t, snap.Results[0].Passed)
}

func TestRunProblemNilSolutionIsHarnessFault(t *testing.T) {
	r, tr, _ := newTestRunner(t)
	out := r.RunProblem(context.Background(), Suite{
		ID:    "broken",
		Day:   1,
		Name:  "Broken",
		Cases: []Case{{Input: value.Int(1), Expected: value.Int(1)}},
	})
	assert.False(t, out.Success)
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, 0, out.Passed)
	assert.Empty(t, out.Cases)

	snap := tr.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.Equal(t, 2, snap.Results[0].Attempts)
	assert.False(t, snap.Results[0].Passed)
}

func TestRunProblemNoCases(t *testing.T) {
	r, _, _ := newTestRunner(t)
	out := r.RunProblem(context.Background(), Suite{ID: "empty", Day: 1, Name: "Empty", Solution: double})
	assert.True(t, out.Success)
	assert.Equal(t, 0, out.Total)

	out = r.RunProblem(context.Background(), Suite{ID: "empty-broken", Day: 1, Name: "Empty"})
	assert.False(t, out.Success)
}

func TestRunProblemSpreadsListInput(t *testing.T) {
	r, _, _ := newTestRunner(t)
	var got []value.Value
	suite := Suite{
		ID:   "args",
		Day:  1,
		Name: "Args",
		Solution: func(args ...value.Value) (value.Value, error) {
			got = args
			return value.Int(len(args)), nil
		},
		Cases: []Case{
			{Input: value.List(value.Ints(1, 2), value.Int(3)), Expected: value.Int(2)},
		},
	}
	out := r.RunProblem(context.Background(), suite)
	assert.True(t, out.Success)
	require.Len(t, got, 2)
	assert.Equal(t, value.KindList, got[0].Kind())
}

func TestRunSuitesSummary(t *testing.T) {
	r, tr, buf := newTestRunner(t)
	suites := []Suite{
		{ID: "ok", Day: 1, Name: "OK", Solution: double, Cases: []Case{{Input: value.Int(1), Expected: value.Int(2)}}},
		{ID: "bad", Day: 2, Name: "Bad", Solution: double, Cases: []Case{{Input: value.Int(1), Expected: value.Int(3)}}},
	}

	sum := r.RunSuites(context.Background(), suites)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 2, sum.Total)
	assert.InDelta(t, 0.5, sum.SuccessRate(), 1e-9)
	assert.False(t, sum.Cancelled)
	require.Len(t, sum.Outcomes, 2)
	assert.Equal(t, "ok", sum.Outcomes[0].SuiteID)
	assert.Equal(t, "bad", sum.Outcomes[1].SuiteID)
	assert.Len(t, tr.Snapshot().Results, 2)
	assert.Contains(t, buf.String(), "Problems solved: 1/2")
	assert.Contains(t, buf.String(), "Success rate:    50.0%")
}

func TestRunSuitesCancelled(t *testing.T) {
	r, tr, buf := newTestRunner(t, WithPause(DefaultPause))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum := r.RunSuites(ctx, []Suite{{ID: "ok", Day: 1, Name: "OK", Solution: double}})
	assert.True(t, sum.Cancelled)
	assert.Empty(t, sum.Outcomes)
	assert.Empty(t, tr.Snapshot().Results)
	assert.Contains(t, buf.String(), "Run cancelled after 0 of 1 problems")
}

func TestSummaryEmpty(t *testing.T) {
	assert.Zero(t, Summary{}.SuccessRate())
}
