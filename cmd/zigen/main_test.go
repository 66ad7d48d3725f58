package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/zigen/internal/config"
	"github.com/verte-zerg/zigen/internal/logging"
	"github.com/verte-zerg/zigen/internal/model"
	"github.com/verte-zerg/zigen/internal/scheduler"
	"github.com/verte-zerg/zigen/internal/store"
)

func validConfig() model.Config {
	return model.Config{
		RadicalFile:   defaultRadicalFile,
		FrequencyFile: defaultFrequencyFile,
		Penalty:       defaultPenalty,
		MinPractice:   defaultMinPractice,
		WeakTop:       defaultWeakTop,
		WeakWindow:    defaultWeakWindow,
		WeakBonus:     defaultWeakBonus,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected defaults to be valid: %v", err)
	}
	cases := map[string]func(*model.Config){
		"--radicals":     func(c *model.Config) { c.RadicalFile = " " },
		"--frequency":    func(c *model.Config) { c.FrequencyFile = "" },
		"--penalty":      func(c *model.Config) { c.Penalty = 11 },
		"--min-practice": func(c *model.Config) { c.MinPractice = 0 },
		"--weak-top":     func(c *model.Config) { c.WeakTop = -1 },
		"--weak-window":  func(c *model.Config) { c.WeakWindow = -1 },
		"--weak-bonus":   func(c *model.Config) { c.WeakBonus = -1 },
	}
	for flag, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		err := validateConfig(cfg)
		if err == nil || !strings.HasPrefix(err.Error(), flag+" ") {
			t.Fatalf("expected %s error, got %v", flag, err)
		}
	}
}

func TestDefaultConfigTemplateKeysAreKnown(t *testing.T) {
	uncomment := regexp.MustCompile(`(?m)^# ([a-z-]+ = )`)
	content := uncomment.ReplaceAllString(defaultConfigTemplate(), "$1")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load uncommented template: %v\n%s", err, content)
	}
	pc := cfg.Practice
	if pc.RadicalFile == nil || *pc.RadicalFile != defaultRadicalFile {
		t.Fatalf("unexpected radicals: %v", pc.RadicalFile)
	}
	if pc.Penalty == nil || *pc.Penalty != defaultPenalty {
		t.Fatalf("unexpected penalty: %v", pc.Penalty)
	}
	if pc.Order == nil || *pc.Order != defaultOrder {
		t.Fatalf("unexpected order: %v", pc.Order)
	}
	if pc.LogFile == nil || *pc.LogFile != "" {
		t.Fatalf("unexpected log file: %v", pc.LogFile)
	}
}

func TestBuildConfigRejectsUnknownOrder(t *testing.T) {
	practiceMode, practiceOrder, practiceInterface = "big", "sideways", "normal"
	t.Cleanup(func() {
		practiceMode, practiceOrder, practiceInterface = defaultMode, defaultOrder, defaultInterface
	})
	if _, err := buildConfig(); err == nil || !strings.HasPrefix(err.Error(), "--order") {
		t.Fatalf("expected order error, got %v", err)
	}
	practiceOrder = "keyboard"
	cfg, err := buildConfig()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.PracticeMode != model.BigCode || cfg.Order != model.OrderKeyboard {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestResolveResourceListsCandidates(t *testing.T) {
	_, err := resolveResource("radicals", "definitely-missing-table.txt")
	if err == nil {
		t.Fatalf("expected missing resource error")
	}
	msg := err.Error()
	if !strings.Contains(msg, `radicals file "definitely-missing-table.txt" not found`) {
		t.Fatalf("unexpected message: %s", msg)
	}
	if strings.Count(msg, "definitely-missing-table.txt") < 3 {
		t.Fatalf("expected candidate locations in message: %s", msg)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "codes.txt")
	if err := os.WriteFile(path, []byte("a 丁\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := resolveResource("radicals", path)
	if err != nil || got != path {
		t.Fatalf("expected absolute path to resolve, got %q %v", got, err)
	}
}

func TestWriteSnapshotFormats(t *testing.T) {
	snap := model.Snapshot{
		SessionID: "abc",
		SavedAt:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Config:    model.Config{Order: model.OrderFrequency, PracticeMode: model.BigCode},
		Radicals:  []model.Radical{{Code: "a", Text: "丁", BigCode: "a"}},
		Remaining: []int{2},
	}

	var buf bytes.Buffer
	if err := writeSnapshot(&buf, snap, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	for _, want := range []string{`"session_id": "abc"`, `"order": "freq"`, `"practice_mode": "big"`, `"text": "丁"`} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %s in json:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := writeSnapshot(&buf, snap, "yaml"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	for _, want := range []string{"session_id: abc", "order: freq", "practice_mode: big", "text: 丁"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %s in yaml:\n%s", want, buf.String())
		}
	}
}

func TestRenderPlainStats(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "zigen.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	end := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = st.InsertSession(ctx, model.SessionStats{
		SessionID:  "s",
		StartedAt:  end.Add(-time.Minute),
		EndedAt:    end,
		Correct:    4,
		Wrong:      1,
		Completed:  true,
		DurationMs: 60000,
	}, []model.RadicalStats{{Text: "丁", Code: "a", Correct: 4, Incorrect: 1, LatencySumMs: 2000, LatencyCount: 4}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var buf bytes.Buffer
	if err := renderPlainStats(ctx, &buf, st, model.StatsConfig{CurveWindow: 1}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 1 (1 completed)", "Learning Curves", "Per-Radical (Windowed)", "Radical 丁"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSplitRadicals(t *testing.T) {
	if got := splitRadicals("丁 乙"); len(got) != 2 || got[1] != "乙" {
		t.Fatalf("unexpected glyph split: %q", got)
	}
	if got := splitRadicals("丁乙, 丙"); len(got) != 2 || got[0] != "丁乙" {
		t.Fatalf("unexpected comma split: %q", got)
	}
}

func TestApplyWeakFocus(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "zigen.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	logPath := filepath.Join(dir, "zigen.log")
	log, err := logging.New(logPath)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	ctx := context.Background()
	cfg := validConfig()
	radicals := []model.Radical{
		{Code: "ab", Text: "丁", BigCode: "a", SmallCode: "b"},
		{Code: "cd", Text: "乙", BigCode: "c", SmallCode: "d"},
	}

	sched := scheduler.New(radicals, cfg, nil)
	applyWeakFocus(ctx, st, sched, cfg, log)
	log.Sync()
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"level":"warn"`) || !strings.Contains(string(data), `"msg":"weak focus skipped"`) {
		t.Fatalf("expected a warning without stats, got %q", data)
	}
	if sched.Remaining(0) != cfg.MinPractice || sched.Remaining(1) != cfg.MinPractice {
		t.Fatalf("expected untouched counters without stats")
	}

	end := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = st.InsertSession(ctx, model.SessionStats{SessionID: "s", StartedAt: end.Add(-time.Minute), EndedAt: end, Correct: 1, Wrong: 3}, []model.RadicalStats{
		{Text: "乙", Code: "cd", Correct: 1, Incorrect: 3},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	sched = scheduler.New(radicals, cfg, nil)
	applyWeakFocus(ctx, st, sched, cfg, log)
	if sched.Remaining(0) != cfg.MinPractice || sched.Remaining(1) != cfg.MinPractice+cfg.WeakBonus {
		t.Fatalf("expected only the weak radical boosted, got %d %d", sched.Remaining(0), sched.Remaining(1))
	}
}
