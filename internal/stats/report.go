package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/cptrack/internal/model"
)

const (
	ruleWidth      = 50
	progressBarLen = 20
	chartHeight    = 8
	smoothWindow   = 3
	sparkWindow    = 20
	topPracticed   = 3
)

// DashboardOptions controls the text dashboard.
type DashboardOptions struct {
	Recent int
	Now    time.Time
	Width  int
	Color  bool
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) heading(title string) {
	p.linef("")
	p.linef("%s", title)
	p.linef("%s", strings.Repeat("=", ruleWidth))
}

// RenderOverall writes the overall summary.
func RenderOverall(w io.Writer, data model.PerformanceData) error {
	p := &printer{w: w}
	s := data.OverallStats
	p.heading("Overall performance")
	p.linef("Problems attempted: %d", s.TotalProblems)
	p.linef("Problems solved:    %d", s.TotalSolved)
	p.linef("Success rate:       %s", FormatPercent(s.SuccessRate()))
	if s.TotalProblems > 0 {
		p.linef("Average time:       %s", FormatDuration(s.AverageTime))
		p.linef("Best time:          %s", FormatDuration(s.BestTime))
		p.linef("Worst time:         %s", FormatDuration(s.WorstTime))
		if s.ImprovementTrend != 0 {
			p.linef("Trend:              %s", TrendLabel(s.ImprovementTrend))
		}
		p.linef("Recent times:       %s", Sparkline(DurationSeries(lastResults(data.Results, sparkWindow))))
		if top := TopProblemsByAttempts(ProblemAggregates(data.Results), topPracticed); len(top) > 1 {
			p.linef("Most practiced:     %s", strings.Join(top, ", "))
		}
	}
	return p.err
}

// TrendLabel describes an improvement trend in seconds.
func TrendLabel(trend float64) string {
	change := math.Abs(trend / 1000)
	if trend > 0 {
		return fmt.Sprintf("improving (%.1fs faster)", change)
	}
	return fmt.Sprintf("needs work (%.1fs slower)", change)
}

// RenderGoals writes progress toward each goal.
func RenderGoals(w io.Writer, data model.PerformanceData, now time.Time) error {
	p := &printer{w: w}
	g := data.Goals
	s := data.OverallStats
	p.heading("Goals")
	if s.TotalProblems > 0 {
		p.linef("%s Average time:  %s / %s", mark(s.AverageTime <= g.TargetTimePerProblem),
			FormatDuration(s.AverageTime), FormatDuration(g.TargetTimePerProblem))
		p.linef("%s Success rate:  %s / %s", mark(s.SuccessRate() >= g.TargetSuccessRate),
			FormatPercent(s.SuccessRate()), FormatPercent(g.TargetSuccessRate))
	} else {
		p.linef("[ ] Average time:  - / %s", FormatDuration(g.TargetTimePerProblem))
		p.linef("[ ] Success rate:  - / %s", FormatPercent(g.TargetSuccessRate))
	}
	today := TodayCount(data.Results, now)
	p.linef("%s Daily problems: %d / %d today", mark(today >= g.DailyProblemGoal), today, g.DailyProblemGoal)
	return p.err
}

func mark(ok bool) string {
	if ok {
		return "[x]"
	}
	return "[-]"
}

// TodayCount returns how many results were recorded on now's calendar day.
func TodayCount(results []model.ProblemResult, now time.Time) int {
	y, m, d := now.Date()
	count := 0
	for _, r := range results {
		ry, rm, rd := r.Timestamp.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			count++
		}
	}
	return count
}

// DayRating buckets a success rate into good, fair or poor.
func DayRating(rate float64) string {
	switch {
	case rate >= 0.8:
		return "good"
	case rate >= 0.6:
		return "fair"
	default:
		return "poor"
	}
}

// RenderDays writes the per-day breakdown table.
func RenderDays(w io.Writer, data model.PerformanceData) error {
	p := &printer{w: w}
	p.heading("Daily breakdown")
	if len(data.DayStats) == 0 {
		p.linef("  No progress data available yet.")
		return p.err
	}
	headers := []string{"Day", "Solved", "Success", "Avg time", "Total time", "Rating"}
	rows := make([][]string, 0, len(data.DayStats))
	for _, ds := range data.DayStats {
		rows = append(rows, []string{
			strconv.Itoa(ds.Day),
			fmt.Sprintf("%d/%d", ds.SolvedProblems, ds.TotalProblems),
			FormatPercent(ds.SuccessRate),
			FormatDuration(ds.AverageTime),
			FormatDuration(ds.TotalTime),
			DayRating(ds.SuccessRate),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}) {
		p.linef("%s", line)
	}
	return p.err
}

// RenderRecent writes the last n results, oldest first.
func RenderRecent(w io.Writer, data model.PerformanceData, n int, now time.Time) error {
	p := &printer{w: w}
	recent := lastResults(data.Results, n)
	p.heading(fmt.Sprintf("Recent activity (last %d)", n))
	if len(recent) == 0 {
		p.linef("  No recent activity.")
		return p.err
	}
	for i, r := range recent {
		status := "FAIL"
		if r.Passed {
			status = "PASS"
		}
		p.linef("%d. %s %s (day %d)", len(recent)-i, status, r.ProblemName, r.Day)
		p.linef("   Time: %s | %s", FormatDuration(float64(r.Duration)), humanize.RelTime(r.Timestamp, now, "ago", "from now"))
		if r.Attempts > 1 {
			p.linef("   Attempts: %d", r.Attempts)
		}
	}
	return p.err
}

func lastResults(results []model.ProblemResult, n int) []model.ProblemResult {
	if n <= 0 {
		return nil
	}
	if len(results) > n {
		return results[len(results)-n:]
	}
	return results
}

// RenderInsights writes the numbered insight list.
func RenderInsights(w io.Writer, data model.PerformanceData, now time.Time) error {
	p := &printer{w: w}
	p.heading("Insights")
	insights := Insights(data, now)
	if len(insights) == 0 {
		p.linef("  Complete more problems to get personalized insights.")
		return p.err
	}
	for i, insight := range insights {
		p.linef("%d. %s", i+1, insight)
	}
	return p.err
}

// ProgressBar renders a fixed-width bar for a 0..1 rate.
func ProgressBar(rate float64) string {
	filled := int(math.Floor(rate * progressBarLen))
	filled = max(0, min(progressBarLen, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarLen-filled)
}

// RenderProgress writes success-rate bars per day and the duration curve.
func RenderProgress(w io.Writer, data model.PerformanceData, width int, color bool) error {
	p := &printer{w: w}
	p.heading("Progress (success rate by day)")
	if len(data.DayStats) == 0 {
		p.linef("  No data to chart yet.")
		return p.err
	}
	for _, ds := range data.DayStats {
		p.linef("Day %d: [%s] %s", ds.Day, ProgressBar(ds.SuccessRate), FormatPercent(ds.SuccessRate))
	}
	if p.err != nil || len(data.Results) < 2 {
		return p.err
	}
	p.linef("")
	durations := DurationSeries(data.Results)
	chart := Chart{
		Title: "Duration per attempt",
		Unit:  "s",
		Series: []Series{
			{Name: "duration", Values: durations},
			{Name: "moving avg", Values: MovingAverage(durations, smoothWindow)},
		},
		Width:  width,
		Height: chartHeight,
		Color:  color,
	}
	return chart.Render(w)
}

// RenderDashboard writes every section in order.
func RenderDashboard(w io.Writer, data model.PerformanceData, opts DashboardOptions) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	recent := opts.Recent
	if recent <= 0 {
		recent = 5
	}
	p := &printer{w: w}
	p.linef("Competitive programming performance dashboard")
	p.linef("%s", strings.Repeat("=", ruleWidth+10))
	if p.err != nil {
		return p.err
	}
	steps := []func() error{
		func() error { return RenderOverall(w, data) },
		func() error { return RenderGoals(w, data, now) },
		func() error { return RenderDays(w, data) },
		func() error { return RenderRecent(w, data, recent, now) },
		func() error { return RenderInsights(w, data, now) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
