package scheduler

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/zigen/internal/catalog"
	"github.com/verte-zerg/zigen/internal/model"
)

// Status classifies an evaluation outcome.
type Status int

const (
	StatusCorrect Status = iota
	StatusWrong
	// StatusEmptyInput means the answer was blank; nothing was recorded.
	StatusEmptyInput
	// StatusEmptyCatalog means there is nothing to practice.
	StatusEmptyCatalog
)

const (
	msgEmptyInput   = "input must not be empty"
	msgEmptyCatalog = "nothing to practice"
)

// Feedback is the outcome of one submitted answer.
type Feedback struct {
	Status   Status
	Message  string
	Radical  model.Radical
	Count    int
	Permille float64
	Rank     int
}

// Correct reports whether the answer matched.
func (f Feedback) Correct() bool {
	return f.Status == StatusCorrect
}

// Recorded reports whether the answer was counted as an attempt.
func (f Feedback) Recorded() bool {
	return f.Status == StatusCorrect || f.Status == StatusWrong
}

// Evaluate checks input against the current radical and records the attempt.
// A correct answer takes one repetition off the radical; a wrong one adds
// cfg.Penalty repetitions. Blank input and an empty catalog record nothing.
func (s *Scheduler) Evaluate(input string, cfg model.Config) Feedback {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.remember(Feedback{Status: StatusEmptyInput, Message: msgEmptyInput})
	}
	if len(s.radicals) == 0 {
		return s.remember(Feedback{Status: StatusEmptyCatalog, Message: msgEmptyCatalog})
	}

	s.current = s.clampedIndex()
	rad := s.radicals[s.current]
	expected := rad.Code
	if cfg.PracticeMode == model.BigCode {
		expected = rad.BigCode
	}
	fb := Feedback{Status: StatusWrong, Radical: rad}
	if strings.EqualFold(input, expected) {
		fb.Status = StatusCorrect
	}
	fb.Count, fb.Permille, fb.Rank = s.frequencyStats(s.current)
	fb.Message = feedbackMessage(fb)

	s.lastCode = rad.BigCode
	s.recent.push(s.current)
	s.total++
	if fb.Correct() {
		s.correct++
		if s.remaining[s.current] > 0 {
			s.remaining[s.current]--
		}
	} else {
		s.wrong++
		s.remaining[s.current] += cfg.Penalty
	}
	return s.remember(fb)
}

func (s *Scheduler) remember(fb Feedback) Feedback {
	s.lastFeedback = fb
	s.hasFeedback = true
	return fb
}

func feedbackMessage(fb Feedback) string {
	tag := "correct"
	if !fb.Correct() {
		tag = "wrong"
	}
	r := fb.Radical
	return fmt.Sprintf("[%s] %s is %s%s · used %d times (%.4f‰) · rank #%d",
		tag,
		r.Text,
		strings.ToUpper(r.BigCode),
		strings.ToLower(r.SmallCode),
		fb.Count,
		fb.Permille,
		fb.Rank,
	)
}

// frequencyTable caches catalog-wide frequency figures; the catalog never
// changes during a session.
type frequencyTable struct {
	sum  int
	rank []int
}

func newFrequencyTable(radicals []model.Radical) *frequencyTable {
	sum := 0
	for _, r := range radicals {
		sum += r.Frequency
	}
	order := catalog.ByFrequency(radicals, nil)
	rank := make([]int, len(radicals))
	for pos, idx := range order {
		rank[idx] = pos + 1
	}
	return &frequencyTable{sum: sum, rank: rank}
}

// frequencyStats returns the radical's count, its share of all counts in
// per-mille, and its 1-based rank by descending frequency.
func (s *Scheduler) frequencyStats(index int) (count int, permille float64, rank int) {
	if s.freq == nil {
		s.freq = newFrequencyTable(s.radicals)
	}
	count = s.radicals[index].Frequency
	if s.freq.sum > 0 {
		permille = float64(count) / float64(s.freq.sum) * 1000
	}
	return count, permille, s.freq.rank[index]
}
