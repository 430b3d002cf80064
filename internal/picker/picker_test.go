package picker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cptrack/internal/runner"
)

func suites(n int) []runner.Suite {
	out := make([]runner.Suite, n)
	for i := range out {
		out[i] = runner.Suite{ID: fmt.Sprintf("s%d", i), Day: 1 + i%3}
	}
	return out
}

func ids(ss []runner.Suite) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.ID
	}
	return out
}

func TestPickKeepsOrderWithoutRepeats(t *testing.T) {
	all := suites(10)
	got := New(42).Pick(all, 4)
	require.Len(t, got, 4)

	seen := map[string]bool{}
	last := -1
	for _, s := range got {
		assert.False(t, seen[s.ID])
		seen[s.ID] = true
		var idx int
		_, err := fmt.Sscanf(s.ID, "s%d", &idx)
		require.NoError(t, err)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestPickDeterministicForSeed(t *testing.T) {
	all := suites(10)
	assert.Equal(t, ids(New(7).Pick(all, 3)), ids(New(7).Pick(all, 3)))
}

func TestPickBounds(t *testing.T) {
	all := suites(3)
	assert.Nil(t, New(1).Pick(all, 0))
	assert.Nil(t, New(1).Pick(nil, 2))
	assert.Equal(t, ids(all), ids(New(1).Pick(all, 5)))
}

func TestPickWeightedFavorsWeak(t *testing.T) {
	all := suites(10)
	weak := map[string]struct{}{"s3": {}}
	p := New(99)
	hits := 0
	const rounds = 500
	for i := 0; i < rounds; i++ {
		for _, s := range p.PickWeighted(all, 1, weak, 20) {
			if s.ID == "s3" {
				hits++
			}
		}
	}
	// weight 21 of 30 total
	assert.Greater(t, hits, rounds/2)
}

func TestPickWeightedNegativeFactor(t *testing.T) {
	got := New(3).PickWeighted(suites(5), 2, map[string]struct{}{"s1": {}}, -4)
	assert.Len(t, got, 2)
}
