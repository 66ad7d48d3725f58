// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/verte-zerg/zigen/internal/model"
)

// SessionMetrics computes answers per minute and accuracy for a session.
func SessionMetrics(correct, wrong int, durationMs int64) (apm, accuracy float64) {
	answers := correct + wrong
	if answers > 0 {
		accuracy = float64(correct) / float64(answers)
	}
	if durationMs > 0 {
		apm = float64(answers) / (float64(durationMs) / 60000.0)
	}
	return apm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Summary holds totals across a set of sessions.
type Summary struct {
	Sessions  int
	Completed int
	Answers   int
	Accuracy  float64
	AvgAPM    float64
	BestAPM   float64
	Practiced time.Duration
}

// Summarize folds sessions into a Summary. Accuracy is weighted by answers.
func Summarize(sessions []model.SessionAggregate) Summary {
	var sum Summary
	var correct int
	var totalAPM float64
	for _, s := range sessions {
		apm, _ := SessionMetrics(s.Correct, s.Wrong, s.DurationMs)
		sum.Sessions++
		if s.Completed {
			sum.Completed++
		}
		sum.Answers += s.Correct + s.Wrong
		correct += s.Correct
		totalAPM += apm
		sum.BestAPM = max(sum.BestAPM, apm)
		sum.Practiced += time.Duration(s.DurationMs) * time.Millisecond
	}
	if sum.Answers > 0 {
		sum.Accuracy = float64(correct) / float64(sum.Answers)
	}
	if sum.Sessions > 0 {
		sum.AvgAPM = totalAPM / float64(sum.Sessions)
	}
	return sum
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	return writeLines(w,
		"Summary",
		fmt.Sprintf("Sessions: %d (%d completed)", sum.Sessions, sum.Completed),
		fmt.Sprintf("Answers: %d", sum.Answers),
		fmt.Sprintf("Accuracy: %.2f%%", sum.Accuracy*100),
		fmt.Sprintf("Avg answers/min: %.2f", sum.AvgAPM),
		fmt.Sprintf("Best answers/min: %.2f", sum.BestAPM),
		fmt.Sprintf("Time practiced: %s", sum.Practiced.Round(time.Second)),
		"",
	)
}

// RenderCurvesWithSize prints accuracy and speed curves sized to totalWidth.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	apms := make([]float64, len(sessions))
	for i, s := range sessions {
		apm, acc := SessionMetrics(s.Correct, s.Wrong, s.DurationMs)
		accs[i] = acc * 100
		apms[i] = apm
	}
	return PlotSeries(w, "Learning Curves", []Series{
		{Name: "Accuracy %", Values: MovingAverage(accs, window)},
		{Name: "Answers/min", Values: MovingAverage(apms, window)},
	}, plotWidth(totalWidth), height, useColor)
}

// RadicalRow is one line of the per-radical table.
type RadicalRow struct {
	Text      string
	Code      string
	Accuracy  float64
	LatencyMs float64
	Correct   int
	Incorrect int
}

// RadicalRows converts aggregates into table rows, weakest first.
func RadicalRows(aggs []model.RadicalAggregate) []RadicalRow {
	rows := make([]RadicalRow, 0, len(aggs))
	for _, agg := range aggs {
		row := RadicalRow{
			Text:      agg.Text,
			Code:      agg.Code,
			Accuracy:  accuracy(agg),
			Correct:   agg.Correct,
			Incorrect: agg.Incorrect,
		}
		if agg.LatencyCount > 0 {
			row.LatencyMs = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Accuracy == rows[j].Accuracy {
			return rows[i].Text < rows[j].Text
		}
		return rows[i].Accuracy < rows[j].Accuracy
	})
	return rows
}

// RenderRadicalTable prints per-radical aggregates.
func RenderRadicalTable(w io.Writer, aggs []model.RadicalAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No radical stats found.")
		return err
	}
	headers := []string{"Radical", "Code", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	rows := RadicalRows(aggs)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Text,
			r.Code,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f", r.LatencyMs),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
		})
	}
	lines := append([]string{"Per-Radical (Windowed)"}, formatTable(headers, cells, map[int]bool{2: true, 3: true, 4: true, 5: true})...)
	return writeLines(w, append(lines, "")...)
}

// RenderRadicalCurvesWithSize prints accuracy and latency curves per radical.
func RenderRadicalCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.RadicalAggregate, texts []string, window, totalWidth, height int, useColor bool) error {
	if len(texts) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Radical Curves"); err != nil {
		return err
	}
	for _, text := range texts {
		accs := make([]float64, len(sessions))
		lats := make([]float64, len(sessions))
		for i, s := range sessions {
			agg, ok := perSession[s.ID][text]
			if !ok {
				continue
			}
			if agg.Correct+agg.Incorrect > 0 {
				accs[i] = accuracy(agg) * 100
			}
			if agg.LatencyCount > 0 {
				lats[i] = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
			}
		}
		if err := PlotSeries(w, "Radical "+text, []Series{
			{Name: "Accuracy %", Values: MovingAverage(accs, window)},
			{Name: "Latency ms", Values: MovingAverage(lats, window)},
		}, plotWidth(totalWidth), height, useColor); err != nil {
			return err
		}
	}
	return nil
}

func plotWidth(totalWidth int) int {
	if totalWidth <= 0 {
		return 0
	}
	return PlotWidthFor(totalWidth)
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
