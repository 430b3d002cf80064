// Package dashui provides the Bubble Tea performance dashboard.
package dashui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cptrack/internal/model"
	"github.com/verte-zerg/cptrack/internal/stats"
)

const (
	tabOverview = iota
	tabDays
	tabRecent
	tabInsights
)

const (
	plotHeight    = 8
	defaultRecent = 10
	fallbackWidth = 80
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Loader returns a fresh snapshot of the performance data.
type Loader func() (model.PerformanceData, error)

// Options tunes the dashboard.
type Options struct {
	Recent int
	Now    func() time.Time
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	load   Loader
	recent int
	now    func() time.Time

	data     model.PerformanceData
	errMsg   string
	loadedAt time.Time

	tabs      []string
	activeTab int
	viewports []viewport.Model
	dayTable  table.Model

	width  int
	height int
}

// NewModel constructs a dashboard model and performs the first load.
func NewModel(load Loader, opts Options) *Model {
	m := &Model{
		load:   load,
		recent: opts.Recent,
		now:    opts.Now,
		tabs:   []string{"Overview", "Days", "Recent", "Insights"},
	}
	if m.recent <= 0 {
		m.recent = defaultRecent
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.dayTable = table.New(
		table.WithColumns(dayColumns()),
		table.WithHeight(1),
	)
	m.dayTable.SetStyles(dayTableStyles())
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.reload()
			m.updateLayout()
			return m, nil
		case "g", "home":
			if m.activeTab == tabDays {
				m.dayTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabDays {
				m.dayTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabDays {
				var cmd tea.Cmd
				m.dayTable, cmd = m.dayTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) reload() {
	data, err := m.load()
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load performance data.")
		}
		return
	}
	m.errMsg = ""
	m.data = data
	m.loadedAt = m.now()
	m.dayTable.SetRows(dayRows(data.DayStats))
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.dayTable.SetWidth(m.width)
	m.dayTable.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabDays {
		m.dayTable.Focus()
	} else {
		m.dayTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	summary := fmt.Sprintf("Results: %d  Days: %d", len(m.data.Results), len(m.data.DayStats))
	if !m.loadedAt.IsZero() {
		summary += "  Loaded: " + m.loadedAt.Format("15:04:05")
	}
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabDays && m.errMsg == "" {
		if len(m.data.DayStats) == 0 {
			return "No progress data available yet."
		}
		return tableMutedStyle.Render(m.dayTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	now := m.now()
	m.viewports[tabOverview].SetContent(renderOverview(m.data, width, now))
	m.viewports[tabRecent].SetContent(renderSection(func(b *bytes.Buffer) error {
		return stats.RenderRecent(b, m.data, m.recent, now)
	}))
	m.viewports[tabInsights].SetContent(renderSection(func(b *bytes.Buffer) error {
		return stats.RenderInsights(b, m.data, now)
	}))
}

func renderOverview(data model.PerformanceData, width int, now time.Time) string {
	if len(data.Results) == 0 {
		return "No results recorded yet. Run some problems first."
	}
	goals := renderSection(func(b *bytes.Buffer) error {
		return stats.RenderGoals(b, data, now)
	})
	parts := []string{renderSummaryCards(data.OverallStats, width), goals}
	if curve := renderDurationCurve(data.Results, width); curve != "" {
		parts = append(parts, curve)
	}
	return strings.Join(parts, "\n\n")
}

func renderSummaryCards(s model.OverallStats, width int) string {
	trend := "-"
	if s.ImprovementTrend != 0 {
		trend = stats.TrendLabel(s.ImprovementTrend)
	}
	cards := []string{
		metricCard("Attempted", strconv.Itoa(s.TotalProblems)),
		metricCard("Solved", strconv.Itoa(s.TotalSolved)),
		metricCard("Success", stats.FormatPercent(s.SuccessRate())),
		metricCard("Avg time", stats.FormatDuration(s.AverageTime)),
		metricCard("Best time", stats.FormatDuration(s.BestTime)),
		metricCard("Trend", trend),
	}
	if width < fallbackWidth {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderDurationCurve(results []model.ProblemResult, width int) string {
	if len(results) < 2 {
		return ""
	}
	durations := stats.DurationSeries(results)
	chart := stats.Chart{
		Title: "Duration per attempt",
		Unit:  "s",
		Series: []stats.Series{
			{Name: "duration", Values: durations},
			{Name: "moving avg", Values: stats.MovingAverage(durations, 3)},
		},
		Width:  stats.PlotWidthFor(width),
		Height: plotHeight,
		Color:  true,
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSection(render func(*bytes.Buffer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Sprintf("Failed to render: %v", err)
	}
	return strings.Trim(buf.String(), "\n")
}

func dayColumns() []table.Column {
	return []table.Column{
		{Title: "Day", Width: 4},
		{Title: "Solved", Width: 8},
		{Title: "Success", Width: 8},
		{Title: "Avg time", Width: 10},
		{Title: "Total time", Width: 11},
		{Title: "Rating", Width: 6},
	}
}

func dayRows(days []model.DayStats) []table.Row {
	rows := make([]table.Row, 0, len(days))
	for _, ds := range days {
		rows = append(rows, table.Row{
			strconv.Itoa(ds.Day),
			fmt.Sprintf("%d/%d", ds.SolvedProblems, ds.TotalProblems),
			stats.FormatPercent(ds.SuccessRate),
			stats.FormatDuration(ds.AverageTime),
			stats.FormatDuration(ds.TotalTime),
			stats.DayRating(ds.SuccessRate),
		})
	}
	return rows
}

func dayTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
