package stats

import (
	"fmt"
	"time"

	"github.com/verte-zerg/cptrack/internal/model"
)

const (
	minInsightResults = 3
	slowdownThreshold = -30000 // ms
	recentInsightSize = 5
	recentFailLimit   = 3
)

// Insights derives practice recommendations from the recorded data.
func Insights(data model.PerformanceData, now time.Time) []string {
	if len(data.Results) < minInsightResults {
		return []string{"Complete more problems to unlock detailed insights."}
	}
	var out []string
	s := data.OverallStats
	g := data.Goals

	switch rate := s.SuccessRate(); {
	case rate < 0.5:
		out = append(out, "Focus on accuracy: review problem solutions before timing yourself.")
	case rate > 0.9:
		out = append(out, "Excellent accuracy. Try harder problems to challenge yourself.")
	}

	switch {
	case s.AverageTime > g.TargetTimePerProblem*1.5:
		out = append(out, "Work on speed: practice similar problem patterns to build familiarity.")
	case s.AverageTime < g.TargetTimePerProblem*0.5:
		out = append(out, "Great speed. Consider more complex algorithmic challenges.")
	}

	switch {
	case s.ImprovementTrend > 0:
		out = append(out, "You are getting faster. Keep practicing consistently.")
	case s.ImprovementTrend < slowdownThreshold:
		out = append(out, "Review problem-solving strategies and take breaks when stuck.")
	}

	if len(data.DayStats) > 1 {
		hardest, easiest := data.DayStats[0], data.DayStats[0]
		for _, ds := range data.DayStats[1:] {
			if ds.AverageTime > hardest.AverageTime {
				hardest = ds
			}
			if ds.AverageTime < easiest.AverageTime {
				easiest = ds
			}
		}
		if hardest.Day != easiest.Day {
			out = append(out, fmt.Sprintf("Day %d topics took longest. Consider reviewing those concepts.", hardest.Day))
		}
	}

	recent := lastResults(data.Results, recentInsightSize)
	if len(recent) >= recentInsightSize {
		failures := 0
		for _, r := range recent {
			if !r.Passed {
				failures++
			}
		}
		if failures >= recentFailLimit {
			out = append(out, "Take a break and review fundamentals. You might be rushing.")
		}
	}

	if left := g.DailyProblemGoal - TodayCount(data.Results, now); left > 0 {
		out = append(out, fmt.Sprintf("Solve %d more problem(s) today to reach the daily goal.", left))
	}
	return out
}
