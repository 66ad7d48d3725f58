package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/zigen/internal/model"
	"github.com/verte-zerg/zigen/internal/stats"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = activeNavStyle.
				Foreground(lipgloss.Color("#B0B0B0")).
				Bold(false).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

func (m *Model) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts[i] = activeNavStyle.Render(tab)
		} else {
			parts[i] = inactiveNavStyle.Render(tab)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: since=%s  last=%s  window=%d", since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabRadicalCurves {
		help = "Nav: left/right  Scroll: up/down  Pick radicals: enter  Window: -/=  Settings: /  Quit: q"
	}
	out := headerStyle.Render(help)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.renderFilterForm()
	}
	if m.activeTab != tabRadicalTable {
		return m.viewports[m.activeTab].View()
	}
	switch {
	case len(m.report.Sessions) == 0:
		return "No sessions found."
	case len(m.report.RadicalAggsAll) == 0:
		return "No radical stats found."
	default:
		return m.table.View()
	}
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	sum := stats.Summarize(sessions)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", sum.Sessions)),
		metricCard("Completed", fmt.Sprintf("%d", sum.Completed)),
		metricCard("Answers", fmt.Sprintf("%d", sum.Answers)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", sum.Accuracy*100)),
		metricCard("Avg/min", fmt.Sprintf("%.1f", sum.AvgAPM)),
		metricCard("Practiced", sum.Practiced.Round(time.Second).String()),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...),
		)
	}

	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, window, width, plotHeight, true); err != nil {
		return summary + "\n\n" + fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderRadicalCurves(sessions []model.SessionAggregate, selection []string, perSession map[int64]map[string]model.RadicalAggregate, window, width int, errMsg string) string {
	switch {
	case len(sessions) == 0:
		return "No sessions found."
	case errMsg != "":
		return fmt.Sprintf("Failed to load radical curves: %s", errMsg)
	case len(selection) == 0:
		return "No radicals selected. Press Enter to pick some."
	}
	header := headerStyle.Render("Radicals: " + strings.Join(selection, " "))
	var buf bytes.Buffer
	if err := stats.RenderRadicalCurvesWithSize(&buf, sessions, perSession, selection, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render radical curves: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func radicalColumns() []table.Column {
	return []table.Column{
		{Title: "Radical", Width: 7},
		{Title: "Code", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Latency (ms)", Width: 17},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Total", Width: 6},
	}
}

// radicalRows lists the weakest radicals first.
func radicalRows(sessions []model.SessionAggregate, aggs []model.RadicalAggregate) []table.Row {
	if len(sessions) == 0 {
		return nil
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, r := range stats.RadicalRows(aggs) {
		rows = append(rows, table.Row{
			r.Text,
			r.Code,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f", r.LatencyMs),
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Incorrect),
			strconv.Itoa(r.Correct + r.Incorrect),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Foreground(lipgloss.Color("#B8B8B8")).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
