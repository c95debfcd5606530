package parastage

import (
	"github.com/parastage/parastage/metrics"
	"github.com/parastage/parastage/pool"
)

// Option configures a Config. Use NewConfig(opts...) or pass opts
// directly to ParallelMap/ParallelFilter/Readahead.
type Option func(*configOptions)

// internal builder state for options assembly.
type configOptions struct {
	cfg Config
}

// WithThreads overrides the worker count (n >= 1). Panics if n == 0:
// this is a structurally invalid option value, caught eagerly at
// option-application time.
func WithThreads(n uint) Option {
	return func(co *configOptions) {
		if n == 0 {
			panic(Namespace + ": WithThreads requires n > 0")
		}
		co.cfg.Workers = n
	}
}

// WithMaxInFlight overrides the max-in-flight bound. A nonzero value
// below the worker count is clamped up by validateConfig; a zero value
// is rejected outright as a misconfiguration, the same as a zero
// worker count.
func WithMaxInFlight(m uint) Option {
	return func(co *configOptions) { co.cfg.MaxInFlight = m }
}

// WithSharedPool borrows worker execution slots from an external,
// possibly shared, pool.Pool instead of a private one sized to Workers.
func WithSharedPool(p pool.Pool) Option {
	return func(co *configOptions) { co.cfg.SharedPool = p }
}

// WithProfileProvider installs a caller-supplied metrics.Provider for
// the profiling hooks (ingress/egress/user-fn timing).
func WithProfileProvider(p metrics.Provider) Option {
	return func(co *configOptions) {
		if p == nil {
			p = metrics.NewDisabled()
		}
		co.cfg.Metrics = p
	}
}

// WithProfileBasic enables profiling hooks using the in-memory
// metrics.Recorder, suitable for tests and lightweight apps that want
// Stats() without standing up a real metrics backend.
func WithProfileBasic() Option {
	return func(co *configOptions) { co.cfg.Metrics = metrics.NewRecorder() }
}
