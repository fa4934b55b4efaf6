package cachingcollections

import "iter"

/*
scope is the unexported core embedded identically in QueryCore and
ScopedHandle. Both need to add and remove filters, iterate, and start a
nested scope of their own — QueryCore is simply the scope that owns the root
sharedState, and a ScopedHandle is a scope forked from a parent's active
filter set that also remembers which of those filters it inherited versus
introduced itself, for Dispose.
*/
type scope[T comparable] struct {
	shared *sharedState[T]

	// active is the set of filter names this scope's queries evaluate
	// against, inherited names and this scope's own names together.
	active map[FilterName]struct{}

	// introduced is the subset of active that this scope itself added,
	// as opposed to inheriting from its parent. Only these are candidates
	// for disablement when a ScopedHandle built on top of this scope is
	// disposed.
	introduced map[FilterName]struct{}

	filteredCount      int
	filteredCountValid bool
}

func newRootScope[T comparable](sh *sharedState[T]) scope[T] {
	return scope[T]{
		shared:     sh,
		active:     make(map[FilterName]struct{}),
		introduced: make(map[FilterName]struct{}),
	}
}

// forkScope builds the scope for a child ScopedHandle: every name active in
// parent is inherited, none of them count as introduced by the child.
func forkScope[T comparable](parent *scope[T]) scope[T] {
	active := make(map[FilterName]struct{}, len(parent.active))
	for name := range parent.active {
		active[name] = struct{}{}
	}

	return scope[T]{
		shared:     parent.shared,
		active:     active,
		introduced: make(map[FilterName]struct{}),
	}
}

// AddFilter registers predicate under name and activates it in this scope,
// using the scope's default utilization threshold. If name is already
// active in this scope, this is a no-op: a scope cannot register two
// different predicates under one name, and re-adding the same name is not
// an error.
func (s *scope[T]) AddFilter(name FilterName, predicate Predicate[T]) error {
	return s.AddFilterWithThreshold(name, predicate, s.shared.defaultUtilizationThreshold)
}

// AddFilterWithThreshold is AddFilter with an explicit per-filter
// utilization threshold, used only the first time name is ever registered
// anywhere under the root; if a FilterCache named name already exists in
// the shared pool, that cache's existing threshold is kept and this
// argument is ignored, since one cache can only have one threshold.
func (s *scope[T]) AddFilterWithThreshold(name FilterName, predicate Predicate[T], utilizationThreshold float64) error {
	if _, ok := s.active[name]; ok {
		return nil
	}

	sh := s.shared
	sh.mu.Lock()

	if _, exists := sh.cacheByName[name]; !exists {
		expected := int64(UnknownItemCount)
		if sh.itemsComplete {
			expected = int64(sh.dedupItems.Len())
		}

		c, err := newFilterCache[T](predicate, name, expected, utilizationThreshold, sh.nextSeq)
		if err != nil {
			sh.mu.Unlock()
			return err
		}

		sh.nextSeq++
		sh.cachePool = append(sh.cachePool, c)
		sh.cacheByName[name] = c
	}

	sh.mu.Unlock()

	s.active[name] = struct{}{}
	s.introduced[name] = struct{}{}

	return nil
}

// RemoveFilter deactivates name in this scope. The underlying FilterCache,
// if any, stays in the shared pool untouched — removal only narrows which
// filters this scope's own queries evaluate, it never disables or discards
// memoized state another scope may still depend on.
func (s *scope[T]) RemoveFilter(name FilterName) {
	delete(s.active, name)
	delete(s.introduced, name)
}

// Iterate returns a fresh iterator over every item that passes every filter
// active in this scope. Each call builds a new cachingEnumerator; there is
// no Reset because there is no iterator object to reset, only ever a new
// one.
func (s *scope[T]) Iterate() iter.Seq[T] {
	return func(yield func(T) bool) {
		e := newEnumerator(s.shared, s.active)
		e.run(yield)
	}
}

// Count reports the total number of items in the underlying collection:
// distinct items when the dedup policy is on, every item including
// duplicates when it is off. Materializes the collection first if
// necessary. It ignores this scope's active filters entirely.
func (s *scope[T]) Count() int {
	s.shared.ensureMaterialized()

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	if s.shared.dedupPolicy {
		return s.shared.dedupItems.Len()
	}

	return len(s.shared.items)
}

// FilteredCount reports the number of items that pass every filter active
// in this scope, computed by a full pass the first time it is called and
// memoized from then on. It is deliberately never invalidated automatically
// by AddFilter or RemoveFilter: recomputing on every mutation would defeat
// the point of memoizing it, so a caller that wants a fresh count after
// changing this scope's filters must ask for one some other way (a fresh
// scope, or counting Iterate's own output).
func (s *scope[T]) FilteredCount() int {
	if s.filteredCountValid {
		return s.filteredCount
	}

	n := 0
	for range s.Iterate() {
		n++
	}

	s.filteredCount = n
	s.filteredCountValid = true

	return n
}

// Contains reports whether item is present anywhere in the underlying
// collection, ignoring this scope's active filters. Materializes the
// collection first if necessary.
func (s *scope[T]) Contains(item T) bool {
	s.shared.ensureMaterialized()

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	if s.shared.dedupPolicy {
		return s.shared.dedupItems.Contains(item)
	}

	for _, x := range s.shared.items {
		if x == item {
			return true
		}
	}

	return false
}

// ItemWithMax returns the item in the underlying collection for which keyFn
// is greatest, and false if the collection is empty. Like Count and
// Contains, this ignores this scope's active filters entirely and
// materializes the collection first if necessary. Ties keep the
// first-encountered item.
func (s *scope[T]) ItemWithMax(keyFn func(T) int) (T, bool) {
	return s.extremum(keyFn, func(candidate, best int) bool { return candidate > best })
}

// ItemWithMin is ItemWithMax with the comparison reversed.
func (s *scope[T]) ItemWithMin(keyFn func(T) int) (T, bool) {
	return s.extremum(keyFn, func(candidate, best int) bool { return candidate < best })
}

// extremum folds keyFn over the materialized, unfiltered collection —
// dedupItems when the dedup policy is on, the raw first-seen list otherwise
// — the same source Count and Contains read from.
func (s *scope[T]) extremum(keyFn func(T) int, better func(candidate, best int) bool) (T, bool) {
	s.shared.ensureMaterialized()

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	var best T
	bestKey := 0
	found := false

	fold := func(x T) bool {
		k := keyFn(x)

		if !found || better(k, bestKey) {
			best = x
			bestKey = k
			found = true
		}

		return true
	}

	if s.shared.dedupPolicy {
		s.shared.dedupItems.Range(fold)
	} else {
		for _, x := range s.shared.items {
			fold(x)
		}
	}

	return best, found
}

// StartScopedQuery forks a child ScopedHandle inheriting this scope's
// currently active filters. Filters the child adds are invisible to this
// scope and to any sibling scope, and are discarded when the child is
// disposed.
func (s *scope[T]) StartScopedQuery() *ScopedHandle[T] {
	return &ScopedHandle[T]{scope: forkScope(s)}
}

// CacheStats returns a snapshot of every FilterCache registered anywhere
// under the root, not just the ones active in this scope.
func (s *scope[T]) CacheStats() []CacheStats {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	return s.shared.cacheStatsLocked()
}
