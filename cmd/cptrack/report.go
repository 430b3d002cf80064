package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cptrack/internal/dashui"
	"github.com/verte-zerg/cptrack/internal/model"
	"github.com/verte-zerg/cptrack/internal/problems"
	"github.com/verte-zerg/cptrack/internal/stats"
	"github.com/verte-zerg/cptrack/internal/tracker"
)

var (
	dashboardTUI    bool
	dashboardRecent int

	goalsTime        float64
	goalsSuccessRate float64
	goalsDaily       int

	clearYes bool
)

func addDashboardFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dashboardTUI, "tui", false, "open the interactive dashboard")
	cmd.Flags().IntVar(&dashboardRecent, "recent", defaultRecent, "entries in the recent activity section")
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the performance dashboard",
		Args:  noArgs,
		RunE:  runDashboardCmd,
	}
	addDashboardFlags(cmd)
	return cmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	applyIntConfig(cmd, "recent", &dashboardRecent, fileCfg.Dashboard.Recent)
	if dashboardRecent <= 0 {
		return usageErrf("--recent must be > 0")
	}
	if dashboardTUI {
		load := func() (model.PerformanceData, error) {
			return openTracker().Snapshot(), nil
		}
		program := tea.NewProgram(dashui.NewModel(load, dashui.Options{Recent: dashboardRecent}), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run dashboard TUI: %w", err)
		}
		return nil
	}
	data := openTracker().Snapshot()
	return stats.RenderDashboard(cmd.OutOrStdout(), data, stats.DashboardOptions{Recent: dashboardRecent})
}

func newGoalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "View or update practice goals",
		Args:  noArgs,
		RunE:  runGoalsCmd,
	}
	cmd.Flags().Float64Var(&goalsTime, "time", 0, "target time per problem in minutes")
	cmd.Flags().Float64Var(&goalsSuccessRate, "success-rate", 0, "target success rate (0-1)")
	cmd.Flags().IntVar(&goalsDaily, "daily", 0, "problems per day")
	return cmd
}

func runGoalsCmd(cmd *cobra.Command, _ []string) error {
	t := openTracker()
	var update model.GoalsUpdate
	if cmd.Flags().Changed("time") {
		ms := goalsTime * float64(time.Minute/time.Millisecond)
		update.TargetTimePerProblem = &ms
	}
	if cmd.Flags().Changed("success-rate") {
		update.TargetSuccessRate = &goalsSuccessRate
	}
	if cmd.Flags().Changed("daily") {
		update.DailyProblemGoal = &goalsDaily
	}
	out := cmd.OutOrStdout()
	if !update.IsEmpty() {
		if err := t.SetGoals(update); err != nil {
			if errors.Is(err, tracker.ErrInvalidGoal) {
				return usageError{err: err}
			}
			return err
		}
		if _, err := fmt.Fprintln(out, "Goals updated."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return stats.RenderGoals(out, t.Snapshot(), time.Now())
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear recorded results (goals are kept)",
		Args:  noArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	t := openTracker()
	out := cmd.OutOrStdout()
	if !clearYes {
		n := len(t.Snapshot().Results)
		if _, err := fmt.Fprintf(out, "Clear %d recorded results? Goals are kept. [y/N]: ", n); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if !confirm(cmd.InOrStdin()) {
			_, err := fmt.Fprintln(out, "Aborted.")
			return err
		}
	}
	t.Clear()
	_, err := fmt.Fprintln(out, "All results cleared.")
	return err
}

func confirm(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show the progress chart",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stats.RenderProgress(cmd.OutOrStdout(), openTracker().Snapshot(), 0, false)
		},
	}
}

func newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show practice insights",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stats.RenderInsights(cmd.OutOrStdout(), openTracker().Snapshot(), time.Now())
		},
	}
}

func newProblemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "problems",
		Short: "List the built-in problem suites",
		Args:  noArgs,
		RunE:  runProblemsCmd,
	}
}

func runProblemsCmd(cmd *cobra.Command, _ []string) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header([]string{"ID", "Day", "Problem", "Cases"})
	rows := [][]string{}
	for _, s := range problems.All() {
		rows = append(rows, []string{s.ID, strconv.Itoa(s.Day), s.Name, strconv.Itoa(len(s.Cases))})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
