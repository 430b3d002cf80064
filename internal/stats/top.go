package stats

import (
	"sort"

	"github.com/verte-zerg/cptrack/internal/model"
)

// TopProblemsByAttempts returns the names of the N most practiced problems.
func TopProblemsByAttempts(aggs []model.ProblemAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	type item struct {
		name  string
		total int
	}
	items := make([]item, 0, len(aggs))
	for _, agg := range aggs {
		items = append(items, item{
			name:  agg.ProblemName,
			total: agg.Attempts,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total == items[j].total {
			return items[i].name < items[j].name
		}
		return items[i].total > items[j].total
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].name)
	}
	return out
}
