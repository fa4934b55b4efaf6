package cachingcollections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateStopsRecordingOnceCacheIsComplete(t *testing.T) {
	c, err := newFilterCache[int](func(x int) bool { return x == 1 }, "one", 2, 1, 0)
	require.NoError(t, err)

	assert.True(t, evaluate(c, 1))
	assert.False(t, evaluate(c, 2))
	require.True(t, c.Complete())

	hits, misses := c.numHits, c.numMisses

	// Re-evaluating the same candidates after completion must not touch
	// the counters again, only answer from the hit set.
	assert.True(t, evaluate(c, 1))
	assert.False(t, evaluate(c, 2))
	assert.Equal(t, hits, c.numHits)
	assert.Equal(t, misses, c.numMisses)
}

func TestEvaluateOnDisabledCacheNeverConsultsHitSet(t *testing.T) {
	c, err := newFilterCache[int](func(x int) bool { return x == 1 }, "one", 10, 0, 0)
	require.NoError(t, err)

	c.recordMiss() // one miss already exceeds a zero utilization threshold
	require.True(t, c.Disabled())
	require.Equal(t, 0, c.items.Len())

	assert.True(t, evaluate(c, 1))
	assert.False(t, evaluate(c, 2))
	// Counters are frozen once disabled; only the predicate is consulted.
	assert.Equal(t, uint64(0), c.numHits)
	assert.Equal(t, uint64(1), c.numMisses)
}

func TestSourceDrivenPassPublishesOnlyOnExhaustion(t *testing.T) {
	source := func(yield func(int) bool) {
		for i := 1; i <= 10; i++ {
			if !yield(i) {
				return
			}
		}
	}

	sh := &sharedState[int]{
		source:                      source,
		dedupPolicy:                 true,
		cacheByName:                 make(map[FilterName]*FilterCache[int]),
		defaultUtilizationThreshold: 0.5,
	}

	e := newEnumerator(sh, map[FilterName]struct{}{})

	n := 0
	e.run(func(int) bool {
		n++
		return n < 3 // stop after 3 items, well before exhaustion
	})

	sh.mu.Lock()
	complete := sh.itemsComplete
	sh.mu.Unlock()

	assert.False(t, complete, "an early-stopped pass must not publish")

	e2 := newEnumerator(sh, map[FilterName]struct{}{})
	var all []int
	e2.run(func(x int) bool {
		all = append(all, x)
		return true
	})

	sh.mu.Lock()
	complete = sh.itemsComplete
	sh.mu.Unlock()

	assert.True(t, complete, "a pass drained to exhaustion must publish")
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, all)
}
