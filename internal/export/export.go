// Package export writes performance data in interchange and display formats.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/cptrack/internal/model"
	"github.com/verte-zerg/cptrack/internal/stats"
	"github.com/verte-zerg/cptrack/internal/store"
)

// Format names an export encoding.
type Format string

// Supported formats.
const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatCSV    Format = "csv"
	FormatTable  Format = "table"
	FormatSQLite Format = "sqlite"
)

const tableTimeLayout = "2006-01-02 15:04"

var (
	// ErrUnknownFormat is returned for unsupported format names.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrNeedsPath is returned when a format can only be written to a file.
	ErrNeedsPath = errors.New("format requires an output path")
)

// Formats lists every supported format name.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatCSV), string(FormatTable), string(FormatSQLite)}
}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FormatJSON, FormatYAML, FormatCSV, FormatTable, FormatSQLite:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
}

// Write encodes data to w in the given stream format.
func Write(ctx context.Context, w io.Writer, data model.PerformanceData, format Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return err
		}
		return encoder.Close()
	case FormatCSV:
		return writeCSV(w, data.Results)
	case FormatTable:
		return WriteResultsTable(w, data.Results)
	case FormatSQLite:
		return ErrNeedsPath
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeCSV(w io.Writer, results []model.ProblemResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"id",
		"problem_id",
		"day",
		"problem_name",
		"start_ms",
		"end_ms",
		"duration_ms",
		"passed",
		"attempts",
		"timestamp",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.ID,
			r.ProblemID,
			strconv.Itoa(r.Day),
			r.ProblemName,
			strconv.FormatInt(r.StartTime, 10),
			strconv.FormatInt(r.EndTime, 10),
			strconv.FormatInt(r.Duration, 10),
			strconv.FormatBool(r.Passed),
			strconv.Itoa(r.Attempts),
			r.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultsTable renders results as an aligned table, oldest first.
func WriteResultsTable(w io.Writer, results []model.ProblemResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Problem", "Day", "Result", "Time", "Attempts", "When"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(results))
	for i, r := range results {
		status := "FAIL"
		if r.Passed {
			status = "PASS"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.ProblemName,
			strconv.Itoa(r.Day),
			status,
			stats.FormatDuration(float64(r.Duration)),
			strconv.Itoa(r.Attempts),
			r.Timestamp.Local().Format(tableTimeLayout),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteProblemTable renders per-problem aggregates in the given order.
func WriteProblemTable(w io.Writer, aggs []model.ProblemAggregate) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Problem", "Day", "Attempts", "Solved", "Success", "Avg time", "Best time"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		data = append(data, []string{
			agg.ProblemName,
			strconv.Itoa(agg.Day),
			strconv.Itoa(agg.Attempts),
			strconv.Itoa(agg.Passed),
			stats.FormatPercent(agg.SuccessRate()),
			stats.FormatDuration(agg.AverageTime),
			stats.FormatDuration(agg.BestTime),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// ToSQLite replaces the contents of the SQLite archive at path with data.
func ToSQLite(ctx context.Context, path string, data model.PerformanceData) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if err := st.ReplaceAll(ctx, data); err != nil {
		if cerr := st.Close(); cerr != nil {
			// Best-effort close after a failed write.
			_ = cerr
		}
		return fmt.Errorf("write archive: %w", err)
	}
	return st.Close()
}
