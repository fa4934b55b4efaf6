package cachingcollections

import "math"

/*
FilterCache is a per-predicate memoized hit set plus hit/miss counters.

================================================================================
LIFECYCLE
================================================================================

A FilterCache is created once, the first time a given filter name is seen
anywhere under a root QueryCore, and lives in the shared cache pool for the
lifetime of the root — it is disabled, never removed. Its predicate and name
are immutable after construction.

================================================================================
COMPLETION AND DISABLEMENT
================================================================================

A cache becomes "complete" once it has seen num_hits + num_misses candidates
equal to its expected item count (known once the root source has been fully
materialized at least once). A complete cache answers membership in O(1)
without mutating its counters further — see evaluate in enumerator.go for why
that distinction matters for idempotence.

A cache that has missed too many candidates relative to its expected count
(num_misses > max_allowed_misses, derived from utilization_threshold) is
disabled: its hit set is dropped (disabled ⇒ items.is_empty()) and from then
on every candidate is tested against the predicate directly, trading memory
for a direct predicate call. Disablement is a one-way transition.
*/
type FilterCache[T comparable] struct {
	predicate Predicate[T]
	name      FilterName
	seq       int // registration order, used as the reorder tiebreak

	items *orderedSet[T]

	numHits   uint64
	numMisses uint64

	expectedItemCount    int64
	utilizationThreshold float64
	maxAllowedMisses     int64

	disabled bool
}

func newFilterCache[T comparable](predicate Predicate[T], name FilterName, expectedItemCount int64, utilizationThreshold float64, seq int) (*FilterCache[T], error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "filter name must not be empty"}
	}

	if utilizationThreshold < 0 || utilizationThreshold > 1 {
		return nil, &ValidationError{Field: "utilizationThreshold", Message: "must be within [0, 1]"}
	}

	if expectedItemCount != UnknownItemCount && expectedItemCount < 0 {
		return nil, &ValidationError{Field: "expectedItemCount", Message: "must be non-negative or UnknownItemCount"}
	}

	c := &FilterCache[T]{
		predicate:            predicate,
		name:                 name,
		seq:                  seq,
		items:                newOrderedSet[T](),
		expectedItemCount:    expectedItemCount,
		utilizationThreshold: utilizationThreshold,
	}
	c.recomputeMaxAllowedMisses()

	return c, nil
}

// Name reports the filter name this cache memoizes.
func (c *FilterCache[T]) Name() FilterName {
	return c.name
}

// Disabled reports whether the cache has self-disabled and dropped its hit
// set.
func (c *FilterCache[T]) Disabled() bool {
	return c.disabled
}

// Complete reports whether every distinct item has been evaluated against
// this cache's predicate at least once.
func (c *FilterCache[T]) Complete() bool {
	return c.expectedItemCount != UnknownItemCount &&
		c.numHits+c.numMisses == uint64(c.expectedItemCount)
}

// recordHit adds item to the hit set and increments num_hits. Called the
// first time item is observed to satisfy predicate.
func (c *FilterCache[T]) recordHit(item T) {
	c.items.Add(item)
	c.numHits++
}

// recordHitCached increments num_hits without touching the hit set, for an
// item already known to be present.
func (c *FilterCache[T]) recordHitCached() {
	c.numHits++
}

// recordMiss increments num_misses and checks whether this miss has pushed
// the cache over its utilization threshold, self-disabling it if so.
func (c *FilterCache[T]) recordMiss() {
	c.numMisses++
	c.tryDisable()
}

// setExpectedItemCount records the known total distinct item count,
// recomputes max_allowed_misses, and re-evaluates disablement.
func (c *FilterCache[T]) setExpectedItemCount(n int64) {
	c.expectedItemCount = n
	c.recomputeMaxAllowedMisses()
	c.tryDisable()
}

func (c *FilterCache[T]) recomputeMaxAllowedMisses() {
	if c.expectedItemCount == UnknownItemCount {
		return
	}

	c.maxAllowedMisses = int64(math.Ceil(float64(c.expectedItemCount) * c.utilizationThreshold))
}

// tryDisable disables the cache and clears its hit set if it has missed more
// candidates than its utilization threshold allows. Reports whether it
// disabled the cache on this call; a no-op on an already-disabled cache
// returns false.
func (c *FilterCache[T]) tryDisable() bool {
	if c.disabled {
		return false
	}

	if c.expectedItemCount == UnknownItemCount {
		return false
	}

	if int64(c.numMisses) <= c.maxAllowedMisses {
		return false
	}

	c.disabled = true
	c.items.Clear()

	return true
}

// selectivityKey orders caches from most to least restrictive: integer
// division of hits by misses when any misses have been observed, else the
// raw hit count. Lower sorts first. Ascending order places tight filters
// (few hits, many misses) ahead of loose ones (many hits, few or no misses).
func (c *FilterCache[T]) selectivityKey() uint64 {
	if c.numMisses == 0 {
		return c.numHits
	}

	return c.numHits / c.numMisses
}
