package stats

import (
	"sort"

	"github.com/verte-zerg/zigen/internal/model"
)

// SelectWeakRadicals picks the lowest-accuracy radicals that have been
// answered at least once. Slower average latency breaks accuracy ties.
func SelectWeakRadicals(aggs []model.RadicalAggregate, top int) map[string]struct{} {
	weak := map[string]struct{}{}
	candidates := make([]model.RadicalAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Correct+agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ai, aj := accuracy(candidates[i]), accuracy(candidates[j])
		if ai != aj {
			return ai < aj
		}
		li, lj := avgLatency(candidates[i]), avgLatency(candidates[j])
		if li != lj {
			return li > lj
		}
		return candidates[i].Text < candidates[j].Text
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, agg := range candidates[:top] {
		weak[agg.Text] = struct{}{}
	}
	return weak
}

func accuracy(agg model.RadicalAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

func avgLatency(agg model.RadicalAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}
