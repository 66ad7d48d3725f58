package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	terminalWidthBackup = 80
	axisTop             = "max ┤ "
	axisBottom          = "min ┤ "
	axisBlank           = "    │ "
)

var seriesColors = []lipgloss.Color{"6", "5", "3", "2", "4"}

// brailleBits maps a dot at (x%2, y%4) inside a cell to its braille bit.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// PlotSeries renders the series as a braille line chart. Each series is
// scaled to its own range; the range is printed above the chart.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	useColor = useColor && os.Getenv("NO_COLOR") == ""

	dotsX, dotsY := width*2, height*4
	layers := make([][][]uint8, len(series))
	bounds := make([][2]float64, len(series))
	for si, s := range series {
		values := resample(s.Values, dotsX)
		lo, hi := valueRange(s.Values)
		bounds[si] = [2]float64{lo, hi}
		layer := make([][]uint8, height)
		for y := range layer {
			layer[y] = make([]uint8, width)
		}
		prev := -1
		for x, v := range values {
			y := scaleRow(v, lo, hi, dotsY)
			from, to := y, y
			if prev >= 0 {
				from, to = min(prev, y), max(prev, y)
			}
			for dy := from; dy <= to; dy++ {
				layer[dy/4][x/2] |= brailleBits[x%2][dy%4]
			}
			prev = y
		}
		layers[si] = layer
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	for si, s := range series {
		fmt.Fprintf(&b, "%s: min=%.2f max=%.2f\n", s.Name, bounds[si][0], bounds[si][1])
	}
	for y := 0; y < height; y++ {
		switch y {
		case 0:
			b.WriteString(axisTop)
		case height - 1:
			b.WriteString(axisBottom)
		default:
			b.WriteString(axisBlank)
		}
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for si := range layers {
				if bits := layers[si][y][x]; bits != 0 {
					mask |= bits
					if owner < 0 {
						owner = si
					}
				}
			}
			cell := string(rune(0x2800 + int(mask)))
			if useColor && owner >= 0 {
				cell = paint(owner, cell)
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	legend := make([]string, len(series))
	for si, s := range series {
		label := "⣿ " + s.Name
		if useColor {
			label = paint(si, label)
		}
		legend[si] = label
	}
	b.WriteString("Legend: " + strings.Join(legend, "  ") + "\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-runewidth.StringWidth(axisTop), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func paint(idx int, s string) string {
	return lipgloss.NewStyle().Foreground(seriesColors[idx%len(seriesColors)]).Render(s)
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// resample stretches or squeezes values to exactly n points. Squeezing
// averages buckets; stretching interpolates linearly.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == 1:
		for i := range out {
			out[i] = values[0]
		}
	case n == 1:
		out[0] = values[len(values)-1]
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			lo := int(pos)
			if lo >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(lo)
			out[i] = values[lo]*(1-frac) + values[lo+1]*frac
		}
	}
	return out
}

func valueRange(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func scaleRow(v, lo, hi float64, rows int) int {
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}
