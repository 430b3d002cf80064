package stats

import (
	"sort"

	"github.com/verte-zerg/cptrack/internal/model"
)

// SelectWeakProblems selects the lowest-success problems, slowest first on ties.
func SelectWeakProblems(aggs []model.ProblemAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.ProblemAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		ri := candidates[i].SuccessRate()
		rj := candidates[j].SuccessRate()
		if ri != rj {
			return ri < rj
		}
		if candidates[i].AverageTime != candidates[j].AverageTime {
			return candidates[i].AverageTime > candidates[j].AverageTime
		}
		return candidates[i].ProblemID < candidates[j].ProblemID
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		weakSet[candidates[i].ProblemID] = struct{}{}
	}
	return weakSet
}
