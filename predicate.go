package cachingcollections

// Predicate is a pure, total, side-effect-free test over an item. Predicates
// registered under different names within the same QueryCore are assumed
// commutative: the order filters are added in must never change which items
// a query yields, only the order caches are consulted in.
type Predicate[T any] func(T) bool

// FilterName uniquely identifies a predicate within a scope's active filter
// set and its FilterCache within the shared cache pool.
type FilterName = string

// UnknownItemCount is the sentinel expected-item-count value meaning "the
// total distinct item count is not yet known." It must never be confused
// with a legitimate count of zero.
const UnknownItemCount = -1
