// Package scheduler owns the state of a practice session: which radical is
// on screen, how many repetitions each radical still needs, and the recent
// presentation history used to avoid immediate repeats.
package scheduler

import (
	"github.com/verte-zerg/zigen/internal/catalog"
	"github.com/verte-zerg/zigen/internal/model"
)

const (
	minRecencyWindow = 3
	maxRecencyWindow = 6

	// MinPracticeFloor and MinPracticeCeil bound the initial repetitions.
	MinPracticeFloor = 1
	MinPracticeCeil  = 5
)

// Rand is the randomness a Scheduler draws from. *rand.Rand and
// generator.Generator satisfy it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Scheduler is the state of one practice session. It is owned by a single
// session loop and is not safe for concurrent use.
type Scheduler struct {
	radicals  []model.Radical
	current   int
	remaining []int
	recent    history

	correct int
	wrong   int
	total   int

	lastFeedback Feedback
	hasFeedback  bool
	lastCode     string
	rnd          Rand
	freq         *frequencyTable
}

// New creates a session over an already arranged catalog. Every radical
// starts with cfg.MinPractice repetitions, clamped to [1, 5]. The first
// radical is presented first.
func New(radicals []model.Radical, cfg model.Config, rnd Rand) *Scheduler {
	minPractice := cfg.MinPractice
	if minPractice < MinPracticeFloor {
		minPractice = MinPracticeFloor
	}
	if minPractice > MinPracticeCeil {
		minPractice = MinPracticeCeil
	}
	remaining := make([]int, len(radicals))
	for i := range remaining {
		remaining[i] = minPractice
	}
	return &Scheduler{
		radicals:  radicals,
		remaining: remaining,
		rnd:       rnd,
	}
}

// Advance selects the next radical. It returns false, leaving the state
// untouched, when no radical has repetitions left.
func (s *Scheduler) Advance(cfg model.Config) bool {
	if len(s.radicals) == 0 {
		return false
	}
	candidates := catalog.Candidates(s.radicals, cfg.Order, s.rnd)
	window := minRecencyWindow + s.rnd.Intn(maxRecencyWindow-minRecencyWindow+1)

	next := -1
	for _, i := range candidates {
		if s.remaining[i] > 0 && !s.shownRecently(i, window) {
			next = i
			break
		}
	}
	if next < 0 {
		// Few radicals left: allow a recent one rather than stall.
		for i, left := range s.remaining {
			if left > 0 {
				next = i
				break
			}
		}
	}
	if next < 0 {
		return false
	}
	s.recent.push(next)
	s.current = next
	return true
}

// shownRecently reports whether the glyph of radical i is among the window
// newest presentations. Radicals sharing a glyph count as the same one here,
// while their repetition counters stay separate.
func (s *Scheduler) shownRecently(i, window int) bool {
	text := s.radicals[i].Text
	return s.recent.within(window, func(j int) bool {
		return s.radicals[j].Text == text
	})
}

// IsComplete reports whether every radical has zero repetitions left.
func (s *Scheduler) IsComplete() bool {
	for _, left := range s.remaining {
		if left != 0 {
			return false
		}
	}
	return true
}

// Progress returns answered attempts and the current expected total. The
// total grows when a wrong answer adds a penalty.
func (s *Scheduler) Progress() (completed, total int) {
	completed = s.correct + s.wrong
	total = completed
	for _, left := range s.remaining {
		total += left
	}
	return completed, total
}

// Boost adds extra repetitions to every radical whose text is in texts and
// returns how many radicals were boosted.
func (s *Scheduler) Boost(texts map[string]struct{}, extra int) int {
	if extra <= 0 || len(texts) == 0 {
		return 0
	}
	boosted := 0
	for i, r := range s.radicals {
		if _, ok := texts[r.Text]; ok {
			s.remaining[i] += extra
			boosted++
		}
	}
	return boosted
}

// Current returns the radical being drilled.
func (s *Scheduler) Current() (model.Radical, bool) {
	if len(s.radicals) == 0 {
		return model.Radical{}, false
	}
	return s.radicals[s.clampedIndex()], true
}

// CurrentIndex returns the catalog position being drilled.
func (s *Scheduler) CurrentIndex() int {
	return s.current
}

// Radicals returns the session catalog. Callers must not modify it.
func (s *Scheduler) Radicals() []model.Radical {
	return s.radicals
}

// Remaining returns the repetitions left for the radical at index.
func (s *Scheduler) Remaining(index int) int {
	if index < 0 || index >= len(s.remaining) {
		return 0
	}
	return s.remaining[index]
}

// Counts returns correct answers, wrong answers and total recorded attempts.
func (s *Scheduler) Counts() (correct, wrong, total int) {
	return s.correct, s.wrong, s.total
}

// History returns recently presented radical texts, newest first.
func (s *Scheduler) History() []string {
	idx := s.recent.slice()
	out := make([]string, len(idx))
	for i, v := range idx {
		out[i] = s.radicals[v].Text
	}
	return out
}

// LastFeedback returns the most recent evaluation outcome.
func (s *Scheduler) LastFeedback() (Feedback, bool) {
	return s.lastFeedback, s.hasFeedback
}

// LastCode returns the big code of the last answered radical, or "".
func (s *Scheduler) LastCode() string {
	return s.lastCode
}

func (s *Scheduler) clampedIndex() int {
	if s.current >= len(s.radicals) {
		return len(s.radicals) - 1
	}
	if s.current < 0 {
		return 0
	}
	return s.current
}
