package scheduler

import (
	"errors"
	"testing"

	"github.com/verte-zerg/zigen/internal/model"
)

func TestSnapshotRestore(t *testing.T) {
	cfg := dualCfg(2)
	s := New(letters(4), cfg, stubRand{v: 1})
	s.Evaluate("ax", cfg)
	s.Advance(cfg)
	s.Evaluate("zz", cfg)

	snap := s.Snapshot()
	restored, err := Restore(snap, stubRand{})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.CurrentIndex() != s.CurrentIndex() {
		t.Fatalf("current index mismatch")
	}
	for i := range s.Radicals() {
		if restored.Remaining(i) != s.Remaining(i) {
			t.Fatalf("remaining mismatch at %d", i)
		}
	}
	c0, w0, t0 := s.Counts()
	c1, w1, t1 := restored.Counts()
	if c0 != c1 || w0 != w1 || t0 != t1 {
		t.Fatalf("counter mismatch")
	}
	want, got := s.History(), restored.History()
	if len(want) != len(got) {
		t.Fatalf("history length mismatch: %v vs %v", want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("history mismatch: %v vs %v", want, got)
		}
	}
	if _, ok := restored.LastFeedback(); ok {
		t.Fatalf("expected feedback to be reset")
	}
	if restored.LastCode() != "" {
		t.Fatalf("expected last code to be reset")
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	cfg := dualCfg(1)
	s := New(pair(), cfg, stubRand{})
	snap := s.Snapshot()
	snap.Remaining[0] = 99
	if s.Remaining(0) != 1 {
		t.Fatalf("snapshot aliased scheduler state")
	}
}

func TestRestoreRejectsInconsistentSnapshots(t *testing.T) {
	base := func() model.Snapshot {
		return model.Snapshot{Radicals: pair(), Remaining: []int{1, 1}}
	}
	cases := map[string]func(*model.Snapshot){
		"counter count":   func(s *model.Snapshot) { s.Remaining = []int{1} },
		"negative count":  func(s *model.Snapshot) { s.Remaining[1] = -1 },
		"index":           func(s *model.Snapshot) { s.CurrentIndex = 2 },
		"history":         func(s *model.Snapshot) { s.History = []int{0, 5} },
		"negative totals": func(s *model.Snapshot) { s.WrongCount = -1 },
	}
	for name, mutate := range cases {
		snap := base()
		mutate(&snap)
		if _, err := Restore(snap, stubRand{}); !errors.Is(err, ErrInvalidSnapshot) {
			t.Fatalf("%s: expected ErrInvalidSnapshot, got %v", name, err)
		}
	}
}

func TestHistoryRing(t *testing.T) {
	var h history
	for i := 0; i < 10; i++ {
		h.push(i)
	}
	if h.len() != HistoryCapacity {
		t.Fatalf("expected capacity %d, got %d", HistoryCapacity, h.len())
	}
	got := h.slice()
	for i, v := range got {
		if v != 9-i {
			t.Fatalf("expected newest first, got %v", got)
		}
	}
	is := func(v int) func(int) bool {
		return func(x int) bool { return x == v }
	}
	if !h.within(3, is(7)) || h.within(3, is(6)) || !h.within(4, is(6)) {
		t.Fatalf("unexpected window lookups on %v", got)
	}
}
