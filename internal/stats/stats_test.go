package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/zigen/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	apm, acc := SessionMetrics(9, 3, 60000)
	if apm != 12 {
		t.Fatalf("expected 12 answers/min, got %.2f", apm)
	}
	if acc != 0.75 {
		t.Fatalf("expected accuracy 0.75, got %.2f", acc)
	}
	apm, acc = SessionMetrics(2, 0, 0)
	if apm != 0 || acc != 1 {
		t.Fatalf("expected zero speed and full accuracy, got %.2f %.2f", apm, acc)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %.2f, got %.2f", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 5}, 0)
	if same[0] != 1 || same[1] != 5 {
		t.Fatalf("expected passthrough for window 0, got %v", same)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}

	buf.Reset()
	sessions := []model.SessionAggregate{
		{Correct: 9, Wrong: 1, Completed: true, DurationMs: 60000},
		{Correct: 5, Wrong: 5, DurationMs: 30000},
	}
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2 (1 completed)", "Answers: 20", "Accuracy: 70.00%", "Best answers/min: 20.00", "Time practiced: 1m30s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderRadicalTable(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.RadicalAggregate{
		{Text: "丁", Code: "a", Correct: 4, LatencySumMs: 800, LatencyCount: 4},
		{Text: "乙", Code: "bk", Correct: 1, Incorrect: 1, LatencySumMs: 1000, LatencyCount: 2},
	}
	if err := RenderRadicalTable(&buf, aggs); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 4 {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	if !strings.HasPrefix(lines[2], "乙") || !strings.HasPrefix(lines[3], "丁") {
		t.Fatalf("expected weakest radical first:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "50.00%") || !strings.Contains(lines[2], "500.0") {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestRenderCurvesWithSize(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{Correct: 9, Wrong: 1, DurationMs: 60000},
		{Correct: 10, Wrong: 0, DurationMs: 30000},
	}
	if err := RenderCurvesWithSize(&buf, sessions, 1, 40, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Accuracy %: min=90.00 max=100.00") {
		t.Fatalf("unexpected curves:\n%s", out)
	}
}

func TestRenderRadicalCurvesWithSize(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{{ID: 1}, {ID: 2}}
	perSession := map[int64]map[string]model.RadicalAggregate{
		1: {"丁": {Text: "丁", Correct: 1, Incorrect: 1, LatencySumMs: 400, LatencyCount: 2}},
		2: {"丁": {Text: "丁", Correct: 2, LatencySumMs: 300, LatencyCount: 2}},
	}
	if err := RenderRadicalCurvesWithSize(&buf, sessions, perSession, []string{"丁"}, 1, 40, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Per-Radical Curves", "Radical 丁", "Latency ms: min=150.00 max=200.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
