package cachingcollections

import "iter"

/*
QueryCore owns the root sharedState for one underlying collection. It is the
entry point: construct one with NewFromMaterialized or NewFromLazy, register
filters with AddFilter, and either iterate directly or fork a ScopedHandle
for a nested query that should not leak its own filters back out.
*/
type QueryCore[T comparable] struct {
	scope[T]
}

// NewFromMaterialized builds a QueryCore over an already-fully-known slice
// of items. The collection is immediately considered complete: Count is
// O(1) from the first call, and any filter registered afterward already
// knows its expected item count.
func NewFromMaterialized[T comparable](items []T, opts ...Option) *QueryCore[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dedup := newOrderedSet[T]()
	ordered := make([]T, len(items))
	copy(ordered, items)

	for _, x := range ordered {
		dedup.Add(x)
	}

	sh := &sharedState[T]{
		items:                       ordered,
		dedupItems:                  dedup,
		itemsComplete:               true,
		dedupPolicy:                 cfg.dedupPolicy,
		cacheByName:                 make(map[FilterName]*FilterCache[T]),
		defaultUtilizationThreshold: cfg.utilizationThreshold,
	}

	return &QueryCore[T]{scope: newRootScope(sh)}
}

// NewFromLazy builds a QueryCore over a source that is only walked as
// iteration actually demands it. The first pass that drains source to
// exhaustion materializes it once and for all; every later pass reuses the
// materialized collection.
func NewFromLazy[T comparable](source iter.Seq[T], opts ...Option) *QueryCore[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sh := &sharedState[T]{
		source:                      source,
		dedupPolicy:                 cfg.dedupPolicy,
		cacheByName:                 make(map[FilterName]*FilterCache[T]),
		defaultUtilizationThreshold: cfg.utilizationThreshold,
	}

	return &QueryCore[T]{scope: newRootScope(sh)}
}
