package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cptrack/internal/config"
	"github.com/verte-zerg/cptrack/internal/export"
	"github.com/verte-zerg/cptrack/internal/model"
	"github.com/verte-zerg/cptrack/internal/stats"
	"github.com/verte-zerg/cptrack/internal/store"
)

var (
	historyLast    int
	historyDay     int
	historySince   string
	historyPassed  bool
	historyFailed  bool
	historyArchive string

	exportFormat string
	exportOut    string

	archiveDB string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded results",
		Args:  noArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to the last N results (0 for all)")
	cmd.Flags().IntVar(&historyDay, "day", 0, "only results of this day")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&historyPassed, "passed", false, "only passed results")
	cmd.Flags().BoolVar(&historyFailed, "failed", false, "only failed results")
	cmd.Flags().StringVar(&historyArchive, "archive", "", "read from a SQLite archive instead of the data file")
	cmd.MarkFlagsMutuallyExclusive("passed", "failed")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}
	var results []model.ProblemResult
	if historyArchive != "" {
		results, err = archivedResults(cmd, historyArchive, filter)
		if err != nil {
			return err
		}
	} else if filter == (model.ResultFilter{Last: filter.Last}) && filter.Last > 0 {
		results = openTracker().RecentResults(filter.Last)
	} else {
		results = stats.FilterResults(openTracker().Snapshot().Results, filter)
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No matching results.")
		return err
	}
	return export.WriteResultsTable(cmd.OutOrStdout(), results)
}

func historyFilter() (model.ResultFilter, error) {
	if historyLast < 0 {
		return model.ResultFilter{}, usageErrf("--last must be >= 0")
	}
	if historyDay < 0 {
		return model.ResultFilter{}, usageErrf("--day must be >= 0")
	}
	filter := model.ResultFilter{Day: historyDay, Last: historyLast}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return model.ResultFilter{}, usageErrf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	switch {
	case historyPassed:
		passed := true
		filter.Passed = &passed
	case historyFailed:
		passed := false
		filter.Passed = &passed
	}
	return filter, nil
}

func archivedResults(cmd *cobra.Command, path string, filter model.ResultFilter) ([]model.ProblemResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, usageErrf("archive not found: %s", path)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close archive: %v\n", cerr)
		}
	}()
	return st.ListResults(cmd.Context(), filter)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export raw performance data",
		Args:  noArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", string(export.FormatJSON), "output format (json, yaml, csv, table, sqlite)")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return usageError{err: err}
	}
	data := openTracker().Snapshot()
	if format == export.FormatSQLite {
		path := exportOut
		if path == "" {
			path = config.DefaultArchivePath()
		}
		if err := export.ToSQLite(cmd.Context(), path, data); err != nil {
			return err
		}
		logErrf("Wrote %s\n", path)
		return nil
	}
	if exportOut == "" {
		return export.Write(cmd.Context(), cmd.OutOrStdout(), data, format)
	}
	return writeExportFile(cmd, exportOut, data, format)
}

func writeExportFile(cmd *cobra.Command, path string, data model.PerformanceData, format export.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if err := export.Write(cmd.Context(), tmpFile, data, format); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logErrf("Wrote %s\n", path)
	return nil
}

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Sync results into the SQLite archive and summarize it",
		Args:  noArgs,
		RunE:  runArchiveCmd,
	}
	cmd.Flags().StringVar(&archiveDB, "db", "", "archive path (default: $XDG_DATA_HOME/cptrack/cptrack.db)")
	return cmd
}

func runArchiveCmd(cmd *cobra.Command, _ []string) error {
	path := archiveDB
	if path == "" {
		path = config.DefaultArchivePath()
	}
	data := openTracker().Snapshot()
	ctx := cmd.Context()
	if err := export.ToSQLite(ctx, path, data); err != nil {
		return err
	}

	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close archive: %v\n", cerr)
		}
	}()
	aggs, err := st.ListProblemAggregates(ctx)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	days, err := st.ListDayStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	goals, err := st.Goals(ctx)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Archived %d results to %s\n", len(data.Results), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Goals: %s per problem, %s success, %d per day\n\n",
		stats.FormatDuration(goals.TargetTimePerProblem), stats.FormatPercent(goals.TargetSuccessRate), goals.DailyProblemGoal); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(aggs) > 0 {
		if err := export.WriteProblemTable(out, aggs); err != nil {
			return err
		}
	}
	return stats.RenderDays(out, model.PerformanceData{DayStats: days})
}
