package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/zigen/internal/generator"
	"github.com/verte-zerg/zigen/internal/model"
	"github.com/verte-zerg/zigen/internal/scheduler"
	"github.com/verte-zerg/zigen/internal/store"
)

func newTestModel(t *testing.T, radicals []model.Radical, cfg model.Config, st *store.Store) *Model {
	t.Helper()
	gen := generator.NewSeeded(7)
	m := NewModel(Options{
		Config:    cfg,
		Scheduler: scheduler.New(radicals, cfg, gen),
		Store:     st,
		Gen:       gen,
		SessionID: "test-session",
	})
	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}
	return m
}

func typeAnswer(m *Model, answer string) tea.Cmd {
	if answer != "" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(answer)})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "zigen.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSubmitWrongKeepsRadical(t *testing.T) {
	radicals := []model.Radical{
		{Code: "a", Text: "丁", BigCode: "a"},
		{Code: "b", Text: "乙", BigCode: "b"},
	}
	m := newTestModel(t, radicals, model.Config{Penalty: 2, MinPractice: 1}, nil)

	typeAnswer(m, "z")
	if m.sched.CurrentIndex() != 0 {
		t.Fatalf("expected wrong answer to keep the radical, got index %d", m.sched.CurrentIndex())
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input to be cleared, got %q", m.input.Value())
	}
	if m.runWrong != 1 || m.radicalStats["丁"].incorrect != 1 {
		t.Fatalf("expected wrong answer to be recorded: %+v", m.radicalStats["丁"])
	}
	if !strings.Contains(m.View(), "[wrong]") {
		t.Fatalf("expected wrong feedback in view")
	}

	typeAnswer(m, "A")
	if m.sched.CurrentIndex() != 1 {
		t.Fatalf("expected correct answer to advance, got index %d", m.sched.CurrentIndex())
	}
	if m.radicalStats["丁"].latencyCount != 1 {
		t.Fatalf("expected latency to be recorded for correct answer")
	}
}

func TestSubmitEmptyInputRecordsNothing(t *testing.T) {
	m := newTestModel(t, []model.Radical{{Code: "a", Text: "丁", BigCode: "a"}}, model.Config{Penalty: 2, MinPractice: 1}, nil)
	typeAnswer(m, "")
	if m.runCorrect+m.runWrong != 0 || len(m.radicalStats) != 0 {
		t.Fatalf("expected nothing recorded for empty input")
	}
	if !strings.Contains(m.View(), "input must not be empty") {
		t.Fatalf("expected empty-input notice in view")
	}
}

func TestCompletionPersistsAndQuitsOnNextKey(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	if err := st.SaveSnapshot(ctx, model.Snapshot{SessionID: "old"}); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	m := newTestModel(t, []model.Radical{{Code: "a", Text: "丁", BigCode: "a"}}, model.Config{Penalty: 2, MinPractice: 1}, st)
	if cmd := typeAnswer(m, "a"); cmd != nil {
		t.Fatalf("expected no command on completion")
	}
	if !m.Completed() {
		t.Fatalf("expected session to be complete")
	}
	if !strings.Contains(m.View(), "All radicals practiced!") {
		t.Fatalf("expected congratulation screen")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd == nil {
		t.Fatalf("expected quit after completion")
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}

	if _, err := st.LoadSnapshot(ctx); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatalf("expected snapshot to be cleared, got %v", err)
	}
	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || !sessions[0].Completed || sessions[0].Correct != 1 {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}

func TestQuitSavesSnapshot(t *testing.T) {
	st := openStore(t)
	radicals := []model.Radical{
		{Code: "a", Text: "丁", BigCode: "a"},
		{Code: "b", Text: "乙", BigCode: "b"},
	}
	cfg := model.Config{Penalty: 3, MinPractice: 2, Order: model.OrderAlphabetical}
	m := newTestModel(t, radicals, cfg, st)
	typeAnswer(m, "x")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}, Alt: true})
	if cmd == nil {
		t.Fatalf("expected alt+q to quit")
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}

	snap, err := st.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap.SessionID != "test-session" || snap.Config.Order != model.OrderAlphabetical {
		t.Fatalf("unexpected snapshot identity: %+v", snap)
	}
	if snap.Remaining[0] != 5 || snap.WrongCount != 1 {
		t.Fatalf("unexpected snapshot counters: %+v", snap)
	}

	// A second quit does not write another session row.
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Completed {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}

func TestStatusBar(t *testing.T) {
	radicals := []model.Radical{
		{Code: "a", Text: "丁", BigCode: "a"},
		{Code: "b", Text: "乙", BigCode: "b"},
	}
	m := newTestModel(t, radicals, model.Config{Penalty: 4, MinPractice: 2}, nil)
	typeAnswer(m, "x")
	out := m.renderStatus()
	for _, want := range []string{"progress 1/9 (11%)", "correct 0", "wrong 1", "esc quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status missing %q: %s", want, out)
		}
	}
}

func TestPretendViewHidesKeyboard(t *testing.T) {
	m := newTestModel(t, []model.Radical{{Code: "a", Text: "丁", BigCode: "a"}}, model.Config{MinPractice: 1, Interface: model.InterfacePretend}, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	out := m.View()
	if strings.Contains(out, " Q ") {
		t.Fatalf("expected no keyboard in pretend mode")
	}
	if !strings.Contains(out, "丁") {
		t.Fatalf("expected radical in pretend view")
	}
	if lines := strings.Count(out, "\n"); lines < 21 {
		t.Fatalf("expected filler lines, got %d", lines)
	}
}
