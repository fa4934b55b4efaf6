/*
Package cachingcollections implements an in-memory caching query engine over
a read-mostly collection of reference-typed items.

Clients build queries by composing named boolean predicates ("filters") in a
fluent style. The engine enumerates the underlying collection lazily,
memoizes per-filter results in a FilterCache, dynamically reorders filter
evaluation by observed selectivity, and supports nested "scoped" queries
whose added filters are discarded on scope exit while the shared cache pool
persists.

================================================================================
ARCHITECTURAL OVERVIEW
================================================================================

The engine is built from three tightly coupled pieces:

 1. sharedState — a single mutex-guarded bundle holding the materialized
    source, the deduplicated item set, and the pool of FilterCaches. One
    sharedState exists per root QueryCore and is referenced by every scope
    descended from it.

 2. FilterCache — a per-predicate memoized hit set plus hit/miss counters.
    A cache that records more misses than its utilization threshold allows
    disables itself and drops its hit set, whether or not it is complete.
    Otherwise, once it has observed every distinct item (it becomes
    "complete"), it serves O(1) membership checks.

 3. cachingEnumerator — a single-pass iterator, constructed fresh for every
    call to Iterate(), that picks the cheapest available driver (a completed
    FilterCache, the already-materialized item list, or the raw lazy source)
    and evaluates the scope's active filters against each candidate in
    selectivity order.

QueryCore owns a root sharedState; ScopedHandle forks a QueryCore's active
filter set while continuing to share the same sharedState and cache pool.
Disposing a ScopedHandle runs the utilization-threshold check on the
FilterCaches that scope introduced, disabling (but never removing) those over
their threshold; caches it inherited are left untouched.

================================================================================
CONCURRENCY MODEL
================================================================================

Every sharedState field is guarded by a single sync.Mutex. A pass of
Iterate() takes it once to snapshot the driver and the active filter list;
a materialized pass takes it once more to read the collection, and a
source-driven pass takes it once to read the source and once more to
publish the materialized results on exhaustion. Per-candidate predicate evaluation and
FilterCache counter updates run lock-free against the snapshot. This engine
assumes single-threaded cooperative iteration; it does not attempt to make
concurrent iterations over the same FilterCache individually consistent
beyond "the first completer to publish wins."
*/
package cachingcollections
