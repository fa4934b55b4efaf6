package cachingcollections

import "fmt"

// ValidationError reports a caller-supplied argument outside its documented
// range: an out-of-bounds utilization threshold, a negative expected item
// count other than UnknownItemCount, or an empty filter name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cachingcollections: invalid %s: %s", e.Field, e.Message)
}

// PredicateFailure wraps a panic raised by a caller-supplied Predicate during
// filter evaluation, tagging it with the filter name that was being evaluated
// when it occurred. The engine recovers the original panic only long enough
// to attach this context, then re-panics so the failure still propagates out
// of the call that triggered evaluation (Iterate, FilteredCount). A panic
// raised by the key function passed to ItemWithMax or ItemWithMin is not
// wrapped: it propagates as the original panic value.
//
// No cache invariant is left inconsistent by a PredicateFailure: record_hit
// and record_miss are only ever called after a predicate returns normally,
// so a panicking candidate simply never gets recorded.
type PredicateFailure struct {
	FilterName FilterName
	Cause      any
}

func (e *PredicateFailure) Error() string {
	return fmt.Sprintf("cachingcollections: predicate %q failed: %v", e.FilterName, e.Cause)
}

// UnsupportedOperation reports an operation the engine deliberately does not
// implement. Iterate returns a fresh iter.Seq[T] on every call rather than an
// iterator object with a Reset method, so there is no Reset to call in the
// first place; this type exists so a wrapper that exposes its own
// Reset-shaped API has a stable error to return instead of inventing one.
type UnsupportedOperation struct {
	Operation string
}

func (e *UnsupportedOperation) Error() string {
	return fmt.Sprintf("cachingcollections: unsupported operation: %s", e.Operation)
}

// callPredicate invokes predicate on item, normalizing any panic into a
// *PredicateFailure tagged with name before letting it continue to propagate.
func callPredicate[T any](name FilterName, predicate Predicate[T], item T) bool {
	defer func() {
		if r := recover(); r != nil {
			panic(&PredicateFailure{FilterName: name, Cause: r})
		}
	}()

	return predicate(item)
}
