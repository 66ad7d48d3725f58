// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/zigen/internal/model"
	"github.com/verte-zerg/zigen/internal/stats"
	"github.com/verte-zerg/zigen/internal/store"
)

const (
	tabOverview = iota
	tabRadicalTable
	tabRadicalCurves
)

const (
	plotHeight       = 8
	defaultSelection = 5
	fallbackWidth    = 80
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report   stats.Report
	errMsg   string
	curveErr string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	table     table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	selection       []string
	selectionCustom bool
	perSession      map[int64]map[string]model.RadicalAggregate

	selectMode  bool
	selectInput textinput.Model
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Radicals", "Radical Curves"},
		table: table.New(table.WithColumns(radicalColumns()), table.WithStyles(tableStyles())),
	}
	m.selection = parseRadicals(cfg.Radicals)
	m.selectionCustom = len(m.selection) > 0
	m.filterInputs = []textinput.Model{
		newInput("Since (YYYY-MM-DD): "),
		newInput("Last: "),
		newInput("Curve window: "),
	}
	m.selectInput = newInput("Radicals: ")
	m.selectInput.Placeholder = "丁乙丙"
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
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
		if msg.Type == tea.KeyCtrlC || (msg.String() == "q" && !m.filterMode && !m.selectMode) {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.selectMode {
			return m.updateSelect(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l", "tab":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		return m, nil
	case "-":
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		return m, nil
	case "/":
		return m, m.startFilter()
	case "enter":
		if m.activeTab == tabRadicalCurves {
			return m, m.startSelect()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.activeTab == tabRadicalTable {
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.selectMode {
		return fitLines(m.renderSelectModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs()+"\n"+m.renderFilterSummary(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
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
	m.table.SetWidth(m.width)
	m.table.SetHeight(bodyHeight)
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
	m.selectInput.Width = max(10, modalInnerWidth(m.width)-lipgloss.Width(m.selectInput.Prompt))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabRadicalTable {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.curveErr = ""
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	if !m.selectionCustom {
		m.selection = stats.TopRadicalsByAttempts(report.RadicalAggsAll, defaultSelection)
	}
	m.loadPerSession()
	m.table.SetRows(radicalRows(report.Sessions, report.RadicalAggsWindow))
	m.table.GotoTop()
	m.renderTabContents()
}

func (m *Model) loadPerSession() {
	m.curveErr = ""
	m.perSession = nil
	if len(m.report.Sessions) == 0 || len(m.selection) == 0 {
		return
	}
	perSession, err := m.store.ListRadicalStatsForSessions(context.Background(), stats.SessionIDs(m.report.Sessions), m.selection)
	if err != nil {
		m.curveErr = err.Error()
		return
	}
	m.perSession = perSession
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width))
	m.viewports[tabRadicalCurves].SetContent(renderRadicalCurves(m.report.Sessions, m.selection, m.perSession, m.cfg.CurveWindow, width, m.curveErr))
}
