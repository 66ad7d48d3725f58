package stats

import (
	"testing"

	"github.com/verte-zerg/zigen/internal/model"
)

func TestTopRadicalsByAttempts(t *testing.T) {
	aggs := []model.RadicalAggregate{
		{Text: "乙", Correct: 3, Incorrect: 1},
		{Text: "丁", Correct: 2, Incorrect: 2},
		{Text: "丙", Correct: 1, Incorrect: 0},
	}
	top := TopRadicalsByAttempts(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 radicals, got %d", len(top))
	}
	if top[0] != "丁" || top[1] != "乙" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopRadicalsByAttempts(aggs, 10); len(got) != 3 {
		t.Fatalf("expected all radicals, got %v", got)
	}
}

func TestSelectWeakRadicals(t *testing.T) {
	aggs := []model.RadicalAggregate{
		{Text: "丁", Correct: 5},
		{Text: "乙", Correct: 1, Incorrect: 1, LatencySumMs: 400, LatencyCount: 2},
		{Text: "丙", Correct: 1, Incorrect: 1, LatencySumMs: 900, LatencyCount: 2},
		{Text: "甲"},
	}
	weak := SelectWeakRadicals(aggs, 1)
	if len(weak) != 1 {
		t.Fatalf("expected 1 weak radical, got %v", weak)
	}
	if _, ok := weak["丙"]; !ok {
		t.Fatalf("expected slower radical to win the tie, got %v", weak)
	}
	all := SelectWeakRadicals(aggs, 0)
	if len(all) != 3 {
		t.Fatalf("expected unanswered radicals to be skipped, got %v", all)
	}
	if _, ok := all["甲"]; ok {
		t.Fatalf("unanswered radical selected: %v", all)
	}
}
