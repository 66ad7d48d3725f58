package stats

import (
	"sort"

	"github.com/verte-zerg/zigen/internal/model"
)

// TopRadicalsByAttempts returns the n most answered radicals.
func TopRadicalsByAttempts(aggs []model.RadicalAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.RadicalAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti == tj {
			return sorted[i].Text < sorted[j].Text
		}
		return ti > tj
	})
	n = min(n, len(sorted))
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Text
	}
	return out
}
