// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/cptrack/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Recompute rebuilds the overall and per-day statistics from the full result log.
// Nothing is patched incrementally, so the output is always consistent with results.
func Recompute(results []model.ProblemResult, trendWindow int) (model.OverallStats, []model.DayStats) {
	return Overall(results, trendWindow), Days(results)
}

// Overall computes totals, average/best/worst durations and the improvement trend.
func Overall(results []model.ProblemResult, trendWindow int) model.OverallStats {
	out := model.EmptyOverallStats()
	out.TotalProblems = len(results)
	if len(results) == 0 {
		return out
	}
	var sum float64
	best := math.Inf(1)
	worst := 0.0
	for _, r := range results {
		if r.Passed {
			out.TotalSolved++
		}
		d := float64(r.Duration)
		sum += d
		if d < best {
			best = d
		}
		if d > worst {
			worst = d
		}
	}
	out.AverageTime = sum / float64(len(results))
	out.BestTime = best
	out.WorstTime = worst
	out.ImprovementTrend = ImprovementTrend(results, trendWindow)
	return out
}

// ImprovementTrend compares the mean duration of the window before the most recent
// window with the mean of the most recent window. Positive means recent runs are faster.
// It is 0 until 2*window results exist.
func ImprovementTrend(results []model.ProblemResult, window int) float64 {
	if window <= 0 {
		window = model.DefaultTrendWindow
	}
	n := len(results)
	if n < 2*window {
		return 0
	}
	previous := meanDuration(results[n-2*window : n-window])
	recent := meanDuration(results[n-window:])
	return previous - recent
}

func meanDuration(results []model.ProblemResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += float64(r.Duration)
	}
	return sum / float64(len(results))
}

// Days groups results by day and aggregates each group, ordered by day.
func Days(results []model.ProblemResult) []model.DayStats {
	groups := map[int][]model.ProblemResult{}
	for _, r := range results {
		groups[r.Day] = append(groups[r.Day], r)
	}
	days := make([]int, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	sort.Ints(days)

	out := make([]model.DayStats, 0, len(days))
	for _, day := range days {
		group := groups[day]
		ds := model.DayStats{Day: day, TotalProblems: len(group)}
		for _, r := range group {
			if r.Passed {
				ds.SolvedProblems++
			}
			ds.TotalTime += float64(r.Duration)
		}
		if ds.TotalProblems > 0 {
			ds.AverageTime = ds.TotalTime / float64(ds.TotalProblems)
			ds.SuccessRate = float64(ds.SolvedProblems) / float64(ds.TotalProblems)
		}
		out = append(out, ds)
	}
	return out
}

// ProblemAggregates summarizes results per problem id, in order of first attempt.
func ProblemAggregates(results []model.ProblemResult) []model.ProblemAggregate {
	index := map[string]int{}
	var out []model.ProblemAggregate
	for _, r := range results {
		i, ok := index[r.ProblemID]
		if !ok {
			i = len(out)
			index[r.ProblemID] = i
			out = append(out, model.ProblemAggregate{
				ProblemID:   r.ProblemID,
				ProblemName: r.ProblemName,
				Day:         r.Day,
				BestTime:    math.Inf(1),
			})
		}
		agg := &out[i]
		agg.Attempts++
		if r.Passed {
			agg.Passed++
		}
		d := float64(r.Duration)
		agg.AverageTime += (d - agg.AverageTime) / float64(agg.Attempts)
		if d < agg.BestTime {
			agg.BestTime = d
		}
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// DurationSeries returns result durations in seconds, oldest first.
func DurationSeries(results []model.ProblemResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = float64(r.Duration) / 1000
	}
	return out
}

// FormatDuration renders milliseconds as "Xm Ys" or "Ys".
func FormatDuration(ms float64) string {
	if math.IsInf(ms, 0) || math.IsNaN(ms) {
		return "-"
	}
	if ms < 0 {
		ms = 0
	}
	seconds := int64(math.Floor(ms / 1000))
	minutes := seconds / 60
	rem := seconds % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, rem)
	}
	return fmt.Sprintf("%ds", rem)
}

// FormatPercent renders a 0..1 rate with one decimal.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// FilterResults narrows results in recording order. Last applies after the other filters.
func FilterResults(results []model.ProblemResult, f model.ResultFilter) []model.ProblemResult {
	out := make([]model.ProblemResult, 0, len(results))
	for _, r := range results {
		if f.Day > 0 && r.Day != f.Day {
			continue
		}
		if f.Since != nil && r.Timestamp.Before(*f.Since) {
			continue
		}
		if f.Passed != nil && r.Passed != *f.Passed {
			continue
		}
		out = append(out, r)
	}
	if f.Last > 0 && len(out) > f.Last {
		out = out[len(out)-f.Last:]
	}
	return out
}
