package cachingcollections

/*
cachingEnumerator drives exactly one pass over a scope's active filters. A
fresh instance is built by newEnumerator for every call to Iterate(); nothing
about it is reused across calls, which is how Reset ends up unsupported
without anyone having to enforce that.

================================================================================
DRIVER SELECTION
================================================================================

Built once, under lock, from three candidates in priority order:

 1. completedCacheDriver — the pool's current most-restrictive active cache,
    when the source is fully materialized and that cache is itself complete
    and not disabled. Membership in the driver implies its own predicate, so
    it is excluded from the residual filter list.

 2. materializedDriver — the deduplicated set (dedup policy on) or the raw
    first-seen list (dedup policy off), once the source is fully
    materialized but no active cache qualifies as the driver.

 3. sourceDriver — the raw lazy source, when the collection has never been
    fully materialized before. This is the only driver that can ever cause
    sharedState to transition to complete.
*/
type driverKind int

const (
	driverCompletedCache driverKind = iota
	driverMaterialized
	driverSource
)

type cachingEnumerator[T comparable] struct {
	shared *sharedState[T]

	driver      driverKind
	driverCache *FilterCache[T]
	residual    []*FilterCache[T]

	dedupPolicy    bool
	itemsCompleted bool // true for driverCompletedCache/driverMaterialized
}

// newEnumerator snapshots the driver choice and the residual filter list
// under the shared lock. It reorders the cache pool first, on every call.
func newEnumerator[T comparable](sh *sharedState[T], names map[FilterName]struct{}) *cachingEnumerator[T] {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	// Re-sorted on every call: counters observed during the previous pass
	// may have changed which cache is now most selective, and the cache
	// pool is small enough that a stable sort over it is never the
	// bottleneck.
	sh.reorderLocked()

	active := sh.activeCachesLocked(names)

	e := &cachingEnumerator[T]{
		shared:      sh,
		dedupPolicy: sh.dedupPolicy,
	}

	switch {
	case sh.itemsComplete && len(active) > 0 && !active[0].disabled && active[0].Complete():
		e.driver = driverCompletedCache
		e.driverCache = active[0]
		e.residual = active[1:]
		e.itemsCompleted = true
	case sh.itemsComplete:
		e.driver = driverMaterialized
		e.residual = active
		e.itemsCompleted = true
	default:
		e.driver = driverSource
		e.residual = active
		e.itemsCompleted = false
	}

	return e
}

// run drives the chosen driver, calling yield for every candidate that
// passes every residual filter, and stops as soon as yield returns false.
func (e *cachingEnumerator[T]) run(yield func(T) bool) {
	switch e.driver {
	case driverCompletedCache:
		e.driverCache.items.Range(func(x T) bool {
			return e.processCandidate(x, yield)
		})
	case driverMaterialized:
		e.runMaterialized(yield)
	case driverSource:
		e.runSourceDriven(yield)
	}
}

func (e *cachingEnumerator[T]) runMaterialized(yield func(T) bool) {
	if e.dedupPolicy {
		e.shared.mu.Lock()
		dedup := e.shared.dedupItems
		e.shared.mu.Unlock()

		dedup.Range(func(x T) bool {
			return e.processCandidate(x, yield)
		})

		return
	}

	e.shared.mu.Lock()
	items := e.shared.items
	e.shared.mu.Unlock()

	for _, x := range items {
		if !e.processCandidate(x, yield) {
			return
		}
	}
}

// runSourceDriven drains the lazy source exactly once, building the ordered
// and deduplicated collectors as it goes. If the caller stops the iteration
// early (yield returns false, or the range-over-func loop is exited via
// break), the collectors are discarded and items_complete remains false —
// dropping an iterator mid-traversal is legal, it just means the source may
// have to be re-driven on a later call. Only a pass that drains the source
// to exhaustion publishes.
func (e *cachingEnumerator[T]) runSourceDriven(yield func(T) bool) {
	sh := e.shared

	sh.mu.Lock()
	source := sh.source
	sh.mu.Unlock()

	ordered := make([]T, 0)
	dedup := newOrderedSet[T]()

	exhausted := true

	for x := range source {
		ordered = append(ordered, x)
		dedup.Add(x)

		if !e.processCandidate(x, yield) {
			exhausted = false
			break
		}
	}

	if !exhausted {
		return
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	if sh.itemsComplete {
		return
	}

	sh.publishMaterializedLocked(ordered, dedup)
}

// processCandidate evaluates every residual filter against x and, if all
// pass, yields x. Reports false exactly when yield requested that the whole
// enumeration stop; a candidate that merely fails its filters is skipped and
// iteration continues (processCandidate still returns true in that case).
func (e *cachingEnumerator[T]) processCandidate(x T, yield func(T) bool) bool {
	passed := true

	for _, c := range e.residual {
		if !evaluate(c, x) {
			passed = false

			if e.itemsCompleted {
				// Before completion every residual filter still gets a
				// chance to populate; after, a known failure is final.
				break
			}
		}
	}

	if !passed {
		return true
	}

	return yield(x)
}

// evaluate runs one FilterCache against a single candidate, returning
// whether the candidate passes. This is the single place counters are
// mutated, and it is careful to stop mutating a cache once it is complete:
// a disabled cache is tested directly against its predicate with no
// bookkeeping at all, a complete-but-enabled cache is a pure O(1) membership
// check with no bookkeeping either, and only a cache that is neither
// disabled nor complete records a hit or a miss. Without the complete
// branch, re-iterating a finished query would keep incrementing num_hits on
// every cache hit and violate the invariant that a completed cache's
// counters stop changing.
func evaluate[T comparable](c *FilterCache[T], x T) bool {
	if c.disabled {
		return callPredicate(c.name, c.predicate, x)
	}

	if c.Complete() {
		return c.items.Contains(x)
	}

	if c.items.Contains(x) {
		c.recordHitCached()
		return true
	}

	if callPredicate(c.name, c.predicate, x) {
		c.recordHit(x)
		return true
	}

	c.recordMiss()

	return false
}
