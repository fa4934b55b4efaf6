package cachingcollections

import "testing"

/*
BenchmarkIterateWarmCache measures the cost of a filtered pass once every
FilterCache involved is already complete.

PURPOSE

This benchmark isolates the steady-state cost of Iterate(): the collection is
materialized and its one filter cache was completed by an earlier pass, so
this measures only
driver selection, the reorder sort, and the per-candidate residual-filter
loop, with none of the first-pass predicate or materialization cost mixed
in.

WHAT THIS BENCHMARK REPRESENTS

- The common case for a long-lived QueryCore queried repeatedly with the
  same filter set.
- A single FilterCache (at most one active filter), so the completed-cache
  driver is always selected and the residual loop is empty.

For a benchmark that also exercises the residual loop and the reorder sort
across several filters, see BenchmarkIterateManyFilters.
*/
func BenchmarkIterateWarmCache(b *testing.B) {
	items := make([]int, 10000)
	for i := range items {
		items[i] = i
	}

	q := NewFromMaterialized(items)
	if err := q.AddFilter("even", func(x int) bool { return x%2 == 0 }); err != nil {
		b.Fatal(err)
	}

	for range q.Iterate() {
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for range q.Iterate() {
		}
	}
}

// BenchmarkIterateManyFilters measures repeated passes through several
// competing filters over a materialized collection, starting before any of
// them has completed. Each pass runs reorderLocked and the residual-filter
// loop, which stops at a candidate's first failing filter; over the first
// passes the caches either complete or self-disable.
func BenchmarkIterateManyFilters(b *testing.B) {
	items := make([]int, 10000)
	for i := range items {
		items[i] = i
	}

	q := NewFromMaterialized(items)
	if err := q.AddFilter("div2", func(x int) bool { return x%2 == 0 }); err != nil {
		b.Fatal(err)
	}
	if err := q.AddFilter("div3", func(x int) bool { return x%3 == 0 }); err != nil {
		b.Fatal(err)
	}
	if err := q.AddFilter("div5", func(x int) bool { return x%5 == 0 }); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for range q.Iterate() {
		}
	}
}
