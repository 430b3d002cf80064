// Package store archives performance data in SQLite for querying and export.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/cptrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for archived results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			problem_id TEXT NOT NULL,
			day INTEGER NOT NULL,
			problem_name TEXT NOT NULL,
			start_ms INTEGER NOT NULL,
			end_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS day_stats (
			day INTEGER PRIMARY KEY,
			total_problems INTEGER NOT NULL,
			solved_problems INTEGER NOT NULL,
			average_ms REAL NOT NULL,
			success_rate REAL NOT NULL,
			total_ms REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS goals (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			target_time_ms REAL NOT NULL,
			target_success_rate REAL NOT NULL,
			daily_problem_goal INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_day ON results(day);`,
		`CREATE INDEX IF NOT EXISTS idx_results_problem ON results(problem_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceAll swaps the archived contents for data in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, data model.PerformanceData) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, table := range []string{"results", "day_stats", "goals"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if len(data.Results) > 0 {
		if err = insertResults(ctx, tx, data.Results); err != nil {
			return err
		}
	}
	for _, ds := range data.DayStats {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO day_stats (day, total_problems, solved_problems, average_ms, success_rate, total_ms)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			ds.Day, ds.TotalProblems, ds.SolvedProblems, ds.AverageTime, ds.SuccessRate, ds.TotalTime,
		); err != nil {
			return fmt.Errorf("insert day %d: %w", ds.Day, err)
		}
	}
	g := data.Goals
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO goals (id, target_time_ms, target_success_rate, daily_problem_goal) VALUES (1, ?, ?, ?)`,
		g.TargetTimePerProblem, g.TargetSuccessRate, g.DailyProblemGoal,
	); err != nil {
		return fmt.Errorf("insert goals: %w", err)
	}

	return tx.Commit()
}

func insertResults(ctx context.Context, tx *sql.Tx, results []model.ProblemResult) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (id, problem_id, day, problem_name, start_ms, end_ms, duration_ms, passed, attempts, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, r := range results {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.ProblemID, r.Day, r.ProblemName,
			r.StartTime, r.EndTime, r.Duration, r.Passed, r.Attempts,
			r.Timestamp.UTC().Format(timeLayout),
		); err != nil {
			return fmt.Errorf("insert result %s: %w", r.ID, err)
		}
	}
	return nil
}

// ListResults returns archived results in recording order, narrowed by filter.
func (s *Store) ListResults(ctx context.Context, filter model.ResultFilter) ([]model.ProblemResult, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Day > 0 {
		clauses = append(clauses, "day = ?")
		args = append(args, filter.Day)
	}
	if filter.Since != nil {
		clauses = append(clauses, "recorded_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	if filter.Passed != nil {
		clauses = append(clauses, "passed = ?")
		args = append(args, *filter.Passed)
	}
	query := fmt.Sprintf(`SELECT id, problem_id, day, problem_name, start_ms, end_ms, duration_ms, passed, attempts, recorded_at
		FROM results
		WHERE %s
		ORDER BY seq ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ProblemResult
	for rows.Next() {
		var r model.ProblemResult
		var recordedAt string
		if err := rows.Scan(&r.ID, &r.ProblemID, &r.Day, &r.ProblemName, &r.StartTime, &r.EndTime,
			&r.Duration, &r.Passed, &r.Attempts, &recordedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, err
		}
		r.Timestamp = parsed
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(results) > filter.Last {
		results = results[len(results)-filter.Last:]
	}
	return results, nil
}

// ListDayStats returns the archived per-day statistics ordered by day.
func (s *Store) ListDayStats(ctx context.Context) ([]model.DayStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, total_problems, solved_problems, average_ms, success_rate, total_ms
		FROM day_stats
		ORDER BY day ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.DayStats
	for rows.Next() {
		var ds model.DayStats
		if err := rows.Scan(&ds.Day, &ds.TotalProblems, &ds.SolvedProblems, &ds.AverageTime, &ds.SuccessRate, &ds.TotalTime); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProblemAggregates summarizes archived results per problem, slowest first.
func (s *Store) ListProblemAggregates(ctx context.Context) ([]model.ProblemAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT problem_id, MAX(problem_name), MIN(day), COUNT(*), SUM(passed),
			AVG(duration_ms), MIN(duration_ms)
		FROM results
		GROUP BY problem_id
		ORDER BY AVG(duration_ms) DESC, problem_id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.ProblemAggregate
	for rows.Next() {
		var agg model.ProblemAggregate
		if err := rows.Scan(&agg.ProblemID, &agg.ProblemName, &agg.Day, &agg.Attempts, &agg.Passed,
			&agg.AverageTime, &agg.BestTime); err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Goals returns the archived goals.
func (s *Store) Goals(ctx context.Context) (model.Goals, error) {
	var g model.Goals
	err := s.db.QueryRowContext(ctx,
		`SELECT target_time_ms, target_success_rate, daily_problem_goal FROM goals WHERE id = 1`,
	).Scan(&g.TargetTimePerProblem, &g.TargetSuccessRate, &g.DailyProblemGoal)
	if err != nil {
		return model.Goals{}, err
	}
	return g, nil
}
