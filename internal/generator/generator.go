// Package generator provides the randomness used by a practice session.
package generator

import (
	"math/rand"
	"strings"
	"time"
)

const fillerAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator wraps a pseudo-random source. It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed, for reproducible runs.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform integer in [0, n).
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}

// Shuffle permutes n elements using swap.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	g.rnd.Shuffle(n, swap)
}

// Between returns a uniform integer in [lo, hi].
func (g *Generator) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rnd.Intn(hi-lo+1)
}

// Filler produces dense alphanumeric noise for the pretend interface:
// 20-29 lines of 30-49 characters, an occasional blank line, and a final
// full line without a trailing newline.
func (g *Generator) Filler() string {
	var b strings.Builder
	lines := g.Between(20, 29)
	for i := 0; i < lines; i++ {
		g.writeFillerLine(&b)
		b.WriteByte('\n')
		if g.rnd.Float64() < 0.1 {
			b.WriteByte('\n')
		}
	}
	g.writeFillerLine(&b)
	return b.String()
}

func (g *Generator) writeFillerLine(b *strings.Builder) {
	n := g.Between(30, 49)
	for i := 0; i < n; i++ {
		b.WriteByte(fillerAlphabet[g.rnd.Intn(len(fillerAlphabet))])
	}
}
