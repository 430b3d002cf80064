// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"math"
	"time"
)

// Default goal values.
const (
	DefaultTargetTimePerProblem = 300000 // 5 minutes in ms
	DefaultTargetSuccessRate    = 0.8
	DefaultDailyProblemGoal     = 3
	DefaultTrendWindow          = 5
)

// DataVersion is the current persisted document version.
const DataVersion = 1

// ProblemResult captures one finished attempt. It is never modified after creation.
type ProblemResult struct {
	ID          string    `json:"id" yaml:"id"`
	ProblemID   string    `json:"problemId" yaml:"problemId"`
	Day         int       `json:"day" yaml:"day"`
	ProblemName string    `json:"problemName" yaml:"problemName"`
	StartTime   int64     `json:"startTime" yaml:"startTime"`
	EndTime     int64     `json:"endTime" yaml:"endTime"`
	Duration    int64     `json:"duration" yaml:"duration"`
	Passed      bool      `json:"passed" yaml:"passed"`
	Attempts    int       `json:"attempts" yaml:"attempts"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// StartedAt returns the start time as a time.Time.
func (r ProblemResult) StartedAt() time.Time { return time.UnixMilli(r.StartTime) }

// EndedAt returns the end time as a time.Time.
func (r ProblemResult) EndedAt() time.Time { return time.UnixMilli(r.EndTime) }

// Elapsed returns the attempt duration.
func (r ProblemResult) Elapsed() time.Duration { return time.Duration(r.Duration) * time.Millisecond }

// DayStats aggregates the results recorded for one day/category.
type DayStats struct {
	Day            int     `json:"day" yaml:"day"`
	TotalProblems  int     `json:"totalProblems" yaml:"totalProblems"`
	SolvedProblems int     `json:"solvedProblems" yaml:"solvedProblems"`
	AverageTime    float64 `json:"averageTime" yaml:"averageTime"`
	SuccessRate    float64 `json:"successRate" yaml:"successRate"`
	TotalTime      float64 `json:"totalTime" yaml:"totalTime"`
}

// Goals holds user-configured targets.
type Goals struct {
	TargetTimePerProblem float64 `json:"targetTimePerProblem" yaml:"targetTimePerProblem"`
	TargetSuccessRate    float64 `json:"targetSuccessRate" yaml:"targetSuccessRate"`
	DailyProblemGoal     int     `json:"dailyProblemGoal" yaml:"dailyProblemGoal"`
}

// DefaultGoals returns the goals used for a fresh store.
func DefaultGoals() Goals {
	return Goals{
		TargetTimePerProblem: DefaultTargetTimePerProblem,
		TargetSuccessRate:    DefaultTargetSuccessRate,
		DailyProblemGoal:     DefaultDailyProblemGoal,
	}
}

// GoalsUpdate carries optional goal changes; nil fields are left untouched.
type GoalsUpdate struct {
	TargetTimePerProblem *float64
	TargetSuccessRate    *float64
	DailyProblemGoal     *int
}

// IsEmpty reports whether no field is set.
func (u GoalsUpdate) IsEmpty() bool {
	return u.TargetTimePerProblem == nil && u.TargetSuccessRate == nil && u.DailyProblemGoal == nil
}

// OverallStats summarizes every recorded result.
// BestTime is +Inf while no result exists.
type OverallStats struct {
	TotalProblems    int     `json:"totalProblems" yaml:"totalProblems"`
	TotalSolved      int     `json:"totalSolved" yaml:"totalSolved"`
	AverageTime      float64 `json:"averageTime" yaml:"averageTime"`
	BestTime         float64 `json:"bestTime" yaml:"bestTime"`
	WorstTime        float64 `json:"worstTime" yaml:"worstTime"`
	ImprovementTrend float64 `json:"improvementTrend" yaml:"improvementTrend"`
}

// EmptyOverallStats returns the zeroed stats with the best-time sentinel.
func EmptyOverallStats() OverallStats {
	return OverallStats{BestTime: math.Inf(1)}
}

// SuccessRate returns solved/total or 0 for an empty log.
func (s OverallStats) SuccessRate() float64 {
	if s.TotalProblems == 0 {
		return 0
	}
	return float64(s.TotalSolved) / float64(s.TotalProblems)
}

type overallStatsJSON struct {
	TotalProblems    int      `json:"totalProblems" yaml:"totalProblems"`
	TotalSolved      int      `json:"totalSolved" yaml:"totalSolved"`
	AverageTime      float64  `json:"averageTime" yaml:"averageTime"`
	BestTime         *float64 `json:"bestTime" yaml:"bestTime"`
	WorstTime        float64  `json:"worstTime" yaml:"worstTime"`
	ImprovementTrend float64  `json:"improvementTrend" yaml:"improvementTrend"`
}

func (s OverallStats) wire() overallStatsJSON {
	out := overallStatsJSON{
		TotalProblems:    s.TotalProblems,
		TotalSolved:      s.TotalSolved,
		AverageTime:      s.AverageTime,
		WorstTime:        s.WorstTime,
		ImprovementTrend: s.ImprovementTrend,
	}
	if !math.IsInf(s.BestTime, 0) && !math.IsNaN(s.BestTime) {
		best := s.BestTime
		out.BestTime = &best
	}
	return out
}

// MarshalJSON encodes an infinite best time as null.
func (s OverallStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// MarshalYAML encodes an infinite best time as null.
func (s OverallStats) MarshalYAML() (any, error) {
	return s.wire(), nil
}

// UnmarshalJSON restores a null best time to +Inf.
func (s *OverallStats) UnmarshalJSON(data []byte) error {
	var in overallStatsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = OverallStats{
		TotalProblems:    in.TotalProblems,
		TotalSolved:      in.TotalSolved,
		AverageTime:      in.AverageTime,
		BestTime:         math.Inf(1),
		WorstTime:        in.WorstTime,
		ImprovementTrend: in.ImprovementTrend,
	}
	if in.BestTime != nil {
		s.BestTime = *in.BestTime
	}
	return nil
}

// PerformanceData is the aggregate root persisted by the tracker.
type PerformanceData struct {
	Version      int             `json:"version" yaml:"version"`
	Results      []ProblemResult `json:"results" yaml:"results"`
	DayStats     []DayStats      `json:"dayStats" yaml:"dayStats"`
	Goals        Goals           `json:"goals" yaml:"goals"`
	OverallStats OverallStats    `json:"overallStats" yaml:"overallStats"`
}

// NewPerformanceData returns an empty document with default goals.
func NewPerformanceData() PerformanceData {
	return PerformanceData{
		Version:      DataVersion,
		Results:      []ProblemResult{},
		DayStats:     []DayStats{},
		Goals:        DefaultGoals(),
		OverallStats: EmptyOverallStats(),
	}
}

// Clone returns a deep copy.
func (d PerformanceData) Clone() PerformanceData {
	out := d
	out.Results = append([]ProblemResult{}, d.Results...)
	out.DayStats = append([]DayStats{}, d.DayStats...)
	return out
}

// ProblemAggregate summarizes the attempts of one problem.
type ProblemAggregate struct {
	ProblemID   string
	ProblemName string
	Day         int
	Attempts    int
	Passed      int
	AverageTime float64
	BestTime    float64
}

// SuccessRate returns passed/attempts.
func (a ProblemAggregate) SuccessRate() float64 {
	if a.Attempts == 0 {
		return 0
	}
	return float64(a.Passed) / float64(a.Attempts)
}

// ResultFilter narrows result listings.
type ResultFilter struct {
	Day    int
	Since  *time.Time
	Last   int
	Passed *bool
}

// RunnerConfig defines runner settings.
type RunnerConfig struct {
	Pause     time.Duration
	CasesFile string
}

// PracticeConfig defines practice-set selection settings.
type PracticeConfig struct {
	Count      int
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	Seed       int64
}
