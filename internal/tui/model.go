// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/zigen/internal/generator"
	"github.com/verte-zerg/zigen/internal/logging"
	"github.com/verte-zerg/zigen/internal/model"
	"github.com/verte-zerg/zigen/internal/scheduler"
	"github.com/verte-zerg/zigen/internal/store"
)

type radicalStat struct {
	code         string
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// Options wires a practice Model to its session and collaborators.
// Store may be nil, in which case nothing is persisted.
type Options struct {
	Config      model.Config
	Scheduler   *scheduler.Scheduler
	Store       *store.Store
	Gen         *generator.Generator
	Log         *logging.Logger
	SessionID   string
	StartedAt   time.Time
	RadicalFile string
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config      model.Config
	sched       *scheduler.Scheduler
	store       *store.Store
	gen         *generator.Generator
	log         *logging.Logger
	sessionID   string
	startedAt   time.Time
	radicalFile string

	input  textinput.Model
	width  int
	height int
	filler string

	runStartedAt time.Time
	shownAt      time.Time
	runCorrect   int
	runWrong     int
	radicalStats map[string]*radicalStat

	done      bool
	persisted bool
	err       error
	now       func() time.Time
}

var (
	radicalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Padding(0, 1)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	fillerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6E6E6E")).Padding(1, 3)
	congratsStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#52C41A"))
)

// NewModel constructs a practice TUI model.
func NewModel(opts Options) *Model {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "code"
	input.CharLimit = 16
	input.Focus()

	gen := opts.Gen
	if gen == nil {
		gen = generator.New()
	}
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	m := &Model{
		config:       opts.Config,
		sched:        opts.Scheduler,
		store:        opts.Store,
		gen:          gen,
		log:          log,
		sessionID:    opts.SessionID,
		startedAt:    opts.StartedAt,
		radicalFile:  opts.RadicalFile,
		input:        input,
		radicalStats: map[string]*radicalStat{},
		now:          time.Now,
	}
	m.runStartedAt = m.now()
	m.shownAt = m.runStartedAt
	if m.startedAt.IsZero() {
		m.startedAt = m.runStartedAt
	}
	m.refreshFiller()
	return m
}

// Err returns the first persistence error, if any.
func (m *Model) Err() error {
	return m.err
}

// Completed reports whether every radical has been practiced.
func (m *Model) Completed() bool {
	return m.done
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refreshFiller()
		return m, nil
	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}
		switch {
		case msg.Type == tea.KeyCtrlC, msg.Type == tea.KeyEsc, msg.String() == "alt+q":
			m.persist(false)
			return m, tea.Quit
		case msg.Type == tea.KeyEnter:
			m.submit()
			m.refreshFiller()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.refreshFiller()
		return m, cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) submit() {
	value := m.input.Value()
	m.input.Reset()
	fb := m.sched.Evaluate(value, m.config)
	if !fb.Recorded() {
		return
	}

	now := m.now()
	latency := now.Sub(m.shownAt).Milliseconds()
	entry := m.radicalEntry(fb.Radical)
	if fb.Correct() {
		m.runCorrect++
		entry.correct++
		entry.latencySumMs += latency
		entry.latencyCount++
	} else {
		m.runWrong++
		entry.incorrect++
	}
	m.log.Debug("answer",
		"radical", fb.Radical.Text,
		"input", value,
		"correct", fb.Correct(),
		"remaining", m.sched.Remaining(m.sched.CurrentIndex()),
		"latency_ms", latency,
	)
	if !fb.Correct() {
		return
	}

	if !m.sched.Advance(m.config) && m.sched.IsComplete() {
		m.done = true
		m.persist(true)
		return
	}
	m.shownAt = now
}

func (m *Model) radicalEntry(r model.Radical) *radicalStat {
	entry, ok := m.radicalStats[r.Text]
	if !ok {
		entry = &radicalStat{code: r.Code}
		m.radicalStats[r.Text] = entry
	}
	return entry
}

// persist records this run as a session and saves or clears the snapshot.
// It runs at most once per model.
func (m *Model) persist(completed bool) {
	if m.persisted || m.store == nil {
		return
	}
	m.persisted = true
	ctx := context.Background()
	endedAt := m.now()

	if m.runCorrect+m.runWrong > 0 {
		stats := model.SessionStats{
			SessionID:    m.sessionID,
			StartedAt:    m.runStartedAt,
			EndedAt:      endedAt,
			RadicalFile:  m.radicalFile,
			PracticeMode: m.config.PracticeMode,
			Order:        m.config.Order,
			Penalty:      m.config.Penalty,
			MinPractice:  m.config.MinPractice,
			Correct:      m.runCorrect,
			Wrong:        m.runWrong,
			Completed:    completed,
			DurationMs:   endedAt.Sub(m.runStartedAt).Milliseconds(),
		}
		if _, err := m.store.InsertSession(ctx, stats, m.collectRadicalStats()); err != nil {
			m.fail(fmt.Errorf("failed to save session: %w", err))
		}
	}

	if completed {
		if err := m.store.DeleteSnapshot(ctx); err != nil {
			m.fail(fmt.Errorf("failed to clear saved session: %w", err))
		}
		m.log.Info("session completed", "session", m.sessionID, "correct", m.runCorrect, "wrong", m.runWrong)
		return
	}

	snap := m.sched.Snapshot()
	snap.SessionID = m.sessionID
	snap.StartedAt = m.startedAt
	snap.SavedAt = endedAt
	snap.Config = m.config
	if err := m.store.SaveSnapshot(ctx, snap); err != nil {
		m.fail(fmt.Errorf("failed to save progress: %w", err))
		return
	}
	m.log.Info("session saved", "session", m.sessionID, "correct", m.runCorrect, "wrong", m.runWrong)
}

func (m *Model) fail(err error) {
	m.log.Error("persistence failed", "error", err)
	m.err = errors.Join(m.err, err)
}

func (m *Model) collectRadicalStats() []model.RadicalStats {
	out := make([]model.RadicalStats, 0, len(m.radicalStats))
	for text, entry := range m.radicalStats {
		out = append(out, model.RadicalStats{
			Text:         text,
			Code:         entry.code,
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	return out
}

func (m *Model) refreshFiller() {
	if m.config.Interface == model.InterfacePretend {
		m.filler = m.gen.Filler()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return m.place(m.renderCongrats())
	}
	if m.config.Interface == model.InterfacePretend {
		return m.renderPretend()
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderRadical(),
		"",
		m.input.View(),
		"",
		m.renderFeedback(),
		"",
		renderKeyboard(m.sched.LastCode()),
	)
	body := frameStyle.Render(content)
	if m.width == 0 || m.height < 3 {
		return body + "\n" + m.renderStatus()
	}
	placed := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	status := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderStatus())
	return placed + "\n" + status
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderRadical() string {
	rad, ok := m.sched.Current()
	if !ok {
		return noticeStyle.Render("nothing to practice")
	}
	return radicalStyle.Render(rad.Text)
}

func (m *Model) renderFeedback() string {
	fb, ok := m.sched.LastFeedback()
	if !ok {
		return ""
	}
	style := noticeStyle
	switch fb.Status {
	case scheduler.StatusCorrect:
		style = correctStyle
	case scheduler.StatusWrong:
		style = wrongStyle
	}
	width := 0
	if m.width > 0 {
		width = max(m.width*7/10, 1)
	}
	lines := wrapText(fb.Message, width)
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus() string {
	completed, total := m.sched.Progress()
	correct, wrong, _ := m.sched.Counts()
	pct := 0
	if total > 0 {
		pct = completed * 100 / total
	}
	segments := []string{
		fmt.Sprintf("progress %d/%d (%d%%)", completed, total, pct),
		fmt.Sprintf("correct %d", correct),
		fmt.Sprintf("wrong %d", wrong),
		"esc quit",
	}
	return footerStyle.Render(strings.Join(segments, " | "))
}

// renderPretend drops the frame and keyboard and buries the prompt below a
// screen of noise.
func (m *Model) renderPretend() string {
	rad, _ := m.sched.Current()
	lines := []string{
		fillerStyle.Render(m.filler),
		"",
		rad.Text + " " + m.input.View(),
	}
	if fb := m.renderFeedback(); fb != "" {
		lines = append(lines, fb)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCongrats() string {
	correct, wrong, _ := m.sched.Counts()
	acc := 0.0
	if correct+wrong > 0 {
		acc = float64(correct) / float64(correct+wrong) * 100
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		congratsStyle.Render("All radicals practiced!"),
		"",
		fmt.Sprintf("%d radicals · %d correct · %d wrong · %.1f%% accuracy", len(m.sched.Radicals()), correct, wrong, acc),
		"",
		footerStyle.Render("press any key to exit"),
	)
}
