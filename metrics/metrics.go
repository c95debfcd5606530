// Package metrics defines the instrument contract a stage's profiling
// hooks record into: a Counter for ingress/egress totals, an
// UpDownCounter for in-flight depth, and a Histogram for user-function
// duration. Disabled hands back noop instruments at zero observable
// cost; Recorder is a minimal in-memory Provider good enough for tests
// and a caller's own Stats() read-out. A production deployment swaps
// either out for its own Provider backed by OpenTelemetry, Prometheus,
// or whatever the host already exports metrics through.
package metrics

// Provider constructs instruments by name. Implementations must be
// concurrency-safe and must hand back the same instrument instance for
// repeated calls carrying the same name.
type Provider interface {
	Counter(name string, opts ...Option) Counter
	UpDownCounter(name string, opts ...Option) UpDownCounter
	Histogram(name string, opts ...Option) Histogram
}

// Counter accumulates a monotonically increasing count.
type Counter interface {
	Add(n int64)
}

// UpDownCounter accumulates a count that may move in either direction.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of float64 measurements.
type Histogram interface {
	Record(v float64)
}

// Descriptor carries advisory metadata about an instrument. A Provider
// is free to ignore it; Recorder does, keeping only the name.
type Descriptor struct {
	Description string
	Unit        string
	Attributes  map[string]string
}

// Option mutates a Descriptor.
type Option func(*Descriptor)

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) Option {
	return func(d *Descriptor) { d.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g. "seconds").
func WithUnit(unit string) Option {
	return func(d *Descriptor) { d.Unit = unit }
}

// WithAttributes merges attrs into the instrument's static attribute
// set. Keep cardinality bounded; a Provider may ignore attributes
// entirely.
func WithAttributes(attrs map[string]string) Option {
	return func(d *Descriptor) {
		if len(attrs) == 0 {
			return
		}
		if d.Attributes == nil {
			d.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			d.Attributes[k] = v
		}
	}
}

