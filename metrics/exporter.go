/*
Package metrics exposes a QueryCore's or ScopedHandle's per-filter cache
statistics as Prometheus metrics, following the custom prometheus.Collector
pattern: metrics are computed on demand from a live StatsSource rather than
tracked incrementally, so Collect is always a consistent snapshot and can
never drift from the engine's own counters.
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	cachingcollections "github.com/Ski-Dive-Dev/CachingCollections"
)

// StatsSource is satisfied by *cachingcollections.QueryCore[T] and
// *cachingcollections.ScopedHandle[T] for any comparable T.
type StatsSource interface {
	CacheStats() []cachingcollections.CacheStats
}

var (
	hitsDesc = prometheus.NewDesc(
		"cachingcollections_filter_cache_hits_total",
		"Number of candidates a named filter cache has recorded as passing its predicate.",
		[]string{"filter"}, nil,
	)
	missesDesc = prometheus.NewDesc(
		"cachingcollections_filter_cache_misses_total",
		"Number of candidates a named filter cache has recorded as failing its predicate.",
		[]string{"filter"}, nil,
	)
	completeDesc = prometheus.NewDesc(
		"cachingcollections_filter_cache_complete",
		"1 if the named filter cache has seen every distinct item at least once, 0 otherwise.",
		[]string{"filter"}, nil,
	)
	disabledDesc = prometheus.NewDesc(
		"cachingcollections_filter_cache_disabled",
		"1 if the named filter cache has self-disabled and dropped its hit set, 0 otherwise.",
		[]string{"filter"}, nil,
	)
)

// Exporter implements prometheus.Collector over one StatsSource. It holds no
// counters of its own: every Collect call re-reads the source from scratch,
// so scraping never observes a metric the engine itself could not also
// report through CacheStats.
type Exporter struct {
	source StatsSource
}

// NewExporter wraps source for registration with a prometheus.Registerer.
func NewExporter(source StatsSource) *Exporter {
	return &Exporter{source: source}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- hitsDesc
	ch <- missesDesc
	ch <- completeDesc
	ch <- disabledDesc
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	for _, s := range e.source.CacheStats() {
		ch <- prometheus.MustNewConstMetric(hitsDesc, prometheus.CounterValue, float64(s.Hits), s.Name)
		ch <- prometheus.MustNewConstMetric(missesDesc, prometheus.CounterValue, float64(s.Misses), s.Name)
		ch <- prometheus.MustNewConstMetric(completeDesc, prometheus.GaugeValue, boolToFloat(s.Complete), s.Name)
		ch <- prometheus.MustNewConstMetric(disabledDesc, prometheus.GaugeValue, boolToFloat(s.Disabled), s.Name)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

var _ prometheus.Collector = (*Exporter)(nil)
