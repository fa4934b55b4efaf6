package cachingcollections

import (
	"iter"
	"slices"
	"sync"
)

/*
sharedState is the process-private bundle shared across every scope rooted
at one source. Exactly one exists per root QueryCore; every ScopedHandle
descended from it, however deeply nested, holds a pointer to the same
instance.

================================================================================
CONCURRENCY MODEL
================================================================================

mu guards every mutable field below. A pass of Iterate() takes it once at
enumerator construction, to snapshot the driver choice and the active cache
list; a materialized pass takes it once more to read the collection, and a
source-driven pass takes it once to read the source and once more on
exhaustion to publish the materialized results. FilterCache counter mutation
during per-candidate evaluation deliberately runs outside mu — see doc.go.
*/
type sharedState[T comparable] struct {
	mu sync.Mutex

	source iter.Seq[T]

	items         []T // first-seen order, duplicates retained
	dedupItems    *orderedSet[T]
	itemsComplete bool

	dedupPolicy bool

	cachePool   []*FilterCache[T]
	cacheByName map[FilterName]*FilterCache[T]
	nextSeq     int

	defaultUtilizationThreshold float64
}

// reorderLocked performs the query-order optimization: a stable sort of the
// cache pool by (selectivityKey, seq) ascending, so the most restrictive
// caches are consulted first. mu must already be held.
//
// The registration sequence seq is carried explicitly rather than relying on
// sort stability alone, because a stable sort's tiebreak on a second re-sort
// is the output order of the first sort, not the original registration
// order — without seq the documented tiebreak would silently erode after the
// first reorder.
func (sh *sharedState[T]) reorderLocked() {
	slices.SortStableFunc(sh.cachePool, func(a, b *FilterCache[T]) int {
		ka, kb := a.selectivityKey(), b.selectivityKey()

		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	})
}

// ensureMaterialized drains the lazy source at most once, populating items
// and dedupItems and marking itemsComplete. It is the mechanism behind
// Count, Contains, and ItemWithMax/ItemWithMin: none of those evaluate any
// filter, they only need the raw collection materialized. ItemWithMax and
// ItemWithMin always call it first and then fold over the materialized
// collection in a separate pass; the fold is not combined with the pass
// that drains the source.
//
// If itemsComplete is already true this is a no-op, satisfying "Count is
// O(1) thereafter."
func (sh *sharedState[T]) ensureMaterialized() {
	sh.mu.Lock()
	if sh.itemsComplete {
		sh.mu.Unlock()
		return
	}
	source := sh.source
	sh.mu.Unlock()

	ordered := make([]T, 0)
	dedup := newOrderedSet[T]()

	for x := range source {
		ordered = append(ordered, x)
		dedup.Add(x)
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	if sh.itemsComplete {
		// Another concurrent materialization already published; first
		// completer under the lock wins, this pass is discarded.
		return
	}

	sh.publishMaterializedLocked(ordered, dedup)
}

// publishMaterializedLocked transfers a freshly materialized collection into
// shared state and pushes the now-known expected item count into every
// FilterCache in the pool. mu must already be held.
func (sh *sharedState[T]) publishMaterializedLocked(ordered []T, dedup *orderedSet[T]) {
	sh.items = ordered
	sh.dedupItems = dedup
	sh.itemsComplete = true

	n := int64(dedup.Len())
	for _, c := range sh.cachePool {
		c.setExpectedItemCount(n)
	}
}

// activeCachesLocked returns the caches whose names are present in names, in
// current cache-pool order. mu must already be held.
func (sh *sharedState[T]) activeCachesLocked(names map[FilterName]struct{}) []*FilterCache[T] {
	active := make([]*FilterCache[T], 0, len(names))

	for _, c := range sh.cachePool {
		if _, ok := names[c.name]; ok {
			active = append(active, c)
		}
	}

	return active
}

// cacheStatsLocked returns a snapshot of every registered cache's counters.
// mu must already be held.
func (sh *sharedState[T]) cacheStatsLocked() []CacheStats {
	out := make([]CacheStats, 0, len(sh.cachePool))

	for _, c := range sh.cachePool {
		out = append(out, CacheStats{
			Name:     c.name,
			Hits:     c.numHits,
			Misses:   c.numMisses,
			Complete: c.Complete(),
			Disabled: c.disabled,
		})
	}

	return out
}

// CacheStats is a read-only snapshot of one registered FilterCache's
// counters, exposed so external observability code (see the metrics
// subpackage) can report on the engine without reaching into unexported
// state. It is a copy, not a handle into the pool: the cache pool and
// sharedState remain encapsulated.
type CacheStats struct {
	Name     FilterName
	Hits     uint64
	Misses   uint64
	Complete bool
	Disabled bool
}
