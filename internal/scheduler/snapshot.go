package scheduler

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/zigen/internal/model"
)

// ErrInvalidSnapshot is returned by Restore for inconsistent snapshots.
var ErrInvalidSnapshot = errors.New("scheduler: invalid snapshot")

// Snapshot captures the persistent part of the session state. Session id,
// timestamps and config are left for the caller to fill in.
func (s *Scheduler) Snapshot() model.Snapshot {
	radicals := make([]model.Radical, len(s.radicals))
	copy(radicals, s.radicals)
	remaining := make([]int, len(s.remaining))
	copy(remaining, s.remaining)
	return model.Snapshot{
		Radicals:      radicals,
		CurrentIndex:  s.current,
		Remaining:     remaining,
		CorrectCount:  s.correct,
		WrongCount:    s.wrong,
		TotalPractice: s.total,
		History:       s.recent.slice(),
	}
}

// Restore rebuilds a Scheduler from a snapshot. Last feedback and last
// presented code start out empty.
func Restore(snap model.Snapshot, rnd Rand) (*Scheduler, error) {
	n := len(snap.Radicals)
	if len(snap.Remaining) != n {
		return nil, fmt.Errorf("%w: %d counters for %d radicals", ErrInvalidSnapshot, len(snap.Remaining), n)
	}
	if n > 0 && (snap.CurrentIndex < 0 || snap.CurrentIndex >= n) {
		return nil, fmt.Errorf("%w: current index %d out of range", ErrInvalidSnapshot, snap.CurrentIndex)
	}
	if snap.CorrectCount < 0 || snap.WrongCount < 0 || snap.TotalPractice < 0 {
		return nil, fmt.Errorf("%w: negative counter", ErrInvalidSnapshot)
	}
	remaining := make([]int, n)
	for i, left := range snap.Remaining {
		if left < 0 {
			return nil, fmt.Errorf("%w: negative repetitions for %q", ErrInvalidSnapshot, snap.Radicals[i].Text)
		}
		remaining[i] = left
	}
	radicals := make([]model.Radical, n)
	copy(radicals, snap.Radicals)

	s := &Scheduler{
		radicals:  radicals,
		current:   snap.CurrentIndex,
		remaining: remaining,
		correct:   snap.CorrectCount,
		wrong:     snap.WrongCount,
		total:     snap.TotalPractice,
		rnd:       rnd,
	}
	// History is stored newest first; replay oldest first.
	hist := snap.History
	if len(hist) > HistoryCapacity {
		hist = hist[:HistoryCapacity]
	}
	for i := len(hist) - 1; i >= 0; i-- {
		if hist[i] < 0 || hist[i] >= n {
			return nil, fmt.Errorf("%w: history entry %d out of range", ErrInvalidSnapshot, hist[i])
		}
		s.recent.push(hist[i])
	}
	return s, nil
}
