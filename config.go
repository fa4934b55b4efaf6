package cachingcollections

/*
config holds construction-time settings for a QueryCore.

DESIGN PATTERN

Mirrors tempuscache's functional options: New() takes a default-valued
config struct and a variadic list of Option functions that mutate it in
place, so adding a new knob later never changes NewFromMaterialized's or
NewFromLazy's signature.
*/
type config struct {
	dedupPolicy          bool
	utilizationThreshold float64
}

func defaultConfig() config {
	return config{
		dedupPolicy:          true,
		utilizationThreshold: defaultUtilizationThreshold,
	}
}

// defaultUtilizationThreshold is the fraction of a FilterCache's expected
// item count that may be missed before it self-disables, unless overridden
// per construction or per filter.
const defaultUtilizationThreshold = 0.5

// Option configures a QueryCore at construction time.
type Option func(*config)

// WithDedupPolicy controls whether duplicate item references in the source
// are collapsed in Count, Contains, and filtered iteration. Defaults to on.
func WithDedupPolicy(enabled bool) Option {
	return func(c *config) {
		c.dedupPolicy = enabled
	}
}

// WithUtilizationThreshold sets the default utilization threshold new
// FilterCaches are constructed with. Must be within [0, 1]; out-of-range
// values are rejected when the first filter is actually added, not here,
// since Option application cannot itself return an error.
func WithUtilizationThreshold(threshold float64) Option {
	return func(c *config) {
		c.utilizationThreshold = threshold
	}
}
