package cachingcollections

/*
ScopedHandle is a nested query forked from a QueryCore or from another
ScopedHandle. It inherits its parent's active filters at the moment it was
created, can add and remove its own on top of them, and can itself be
scoped further — scope is embedded identically here and in QueryCore for
exactly that reason.

Disposing a ScopedHandle does not remove anything from the shared cache
pool; it only runs the threshold check (tryDisable) on the FilterCaches this
handle itself introduced. It does not check whether another scope has a
filter of the same name active, and a cache under its utilization threshold
stays enabled.
*/
type ScopedHandle[T comparable] struct {
	scope[T]
	disposed bool
}

// Dispose gives the FilterCaches this handle introduced a chance to
// self-disable via tryDisable, the same threshold-conditional check every
// miss already runs. It is idempotent: a second call is a no-op. Filters
// this handle inherited from its parent are left untouched, since the
// parent scope (or a sibling forked from it) may still be relying on them.
//
// This is deliberately not a forced disable: a cache that has stayed under
// its utilization threshold is a healthy, well-populated memoization and
// scope exit is not grounds to discard it.
func (h *ScopedHandle[T]) Dispose() {
	if h.disposed {
		return
	}
	h.disposed = true

	sh := h.shared
	sh.mu.Lock()
	defer sh.mu.Unlock()

	for name := range h.introduced {
		if c, ok := sh.cacheByName[name]; ok {
			c.tryDisable()
		}
	}
}
