// Package picker selects practice sets from the available suites.
package picker

import (
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/cptrack/internal/runner"
)

// Picker draws suites without replacement.
type Picker struct {
	rnd *rand.Rand
}

// New returns a Picker. A zero seed uses the current time.
func New(seed int64) *Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects n suites uniformly. The result keeps the input order.
func (p *Picker) Pick(suites []runner.Suite, n int) []runner.Suite {
	return p.PickWeighted(suites, n, nil, 0)
}

// PickWeighted selects n suites, giving ids in weak a weight of 1+factor.
// The result keeps the input order.
func (p *Picker) PickWeighted(suites []runner.Suite, n int, weak map[string]struct{}, factor float64) []runner.Suite {
	if n <= 0 || len(suites) == 0 {
		return nil
	}
	if n >= len(suites) {
		return append([]runner.Suite{}, suites...)
	}
	if factor < 0 {
		factor = 0
	}

	weights := make([]float64, len(suites))
	total := 0.0
	for i, s := range suites {
		w := 1.0
		if _, ok := weak[s.ID]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	chosen := make([]int, 0, n)
	for len(chosen) < n {
		r := p.rnd.Float64() * total
		acc := 0.0
		idx := -1
		for j, w := range weights {
			if w == 0 {
				continue
			}
			idx = j
			acc += w
			if r < acc {
				break
			}
		}
		chosen = append(chosen, idx)
		total -= weights[idx]
		weights[idx] = 0
	}

	sort.Ints(chosen)
	out := make([]runner.Suite, len(chosen))
	for i, idx := range chosen {
		out[i] = suites[idx]
	}
	return out
}
