package parastage

import (
	"time"

	"github.com/parastage/parastage/metrics"
)

const (
	metricIngress  = "parastage_ingress_total"
	metricEgress   = "parastage_egress_total"
	metricInFlight = "parastage_in_flight"
	metricFnDur    = "parastage_fn_duration_seconds"
)

// profilingHooks records three instrument points: ingress to the input
// channel, egress from the output channel, and timing around each
// user-function invocation. Instrumentation never alters ordering or
// backpressure; every call here is a plain instrument write. When
// Metrics is a metrics.Disabled provider (the default), every
// instrument is a noop value, so this is a single interface call with no branch on a
// bool — zero observable cost at the call-site level.
type profilingHooks struct {
	ingress  metrics.Counter
	egress   metrics.Counter
	inFlight metrics.UpDownCounter
	fnDur    metrics.Histogram
}

func newProfilingHooks(p metrics.Provider) profilingHooks {
	return profilingHooks{
		ingress:  p.Counter(metricIngress, metrics.WithDescription("items admitted past the top-up phase")),
		egress:   p.Counter(metricEgress, metrics.WithDescription("items retired in order: delivered, dropped, or faulted")),
		inFlight: p.UpDownCounter(metricInFlight, metrics.WithDescription("items currently inside the stage")),
		fnDur:    p.Histogram(metricFnDur, metrics.WithUnit("seconds")),
	}
}

func (h profilingHooks) recordIngress() {
	h.ingress.Add(1)
	h.inFlight.Add(1)
}

func (h profilingHooks) recordEgress() {
	h.egress.Add(1)
	h.inFlight.Add(-1)
}

// timeFn measures fn's wall-clock duration and records it to the
// user-function-duration histogram.
func (h profilingHooks) timeFn(fn func()) {
	start := time.Now()
	fn()
	h.fnDur.Record(time.Since(start).Seconds())
}

// Stats is a point-in-time read-out of a stage's profiling hooks,
// available after profiling was enabled via WithProfileBasic or with a
// metrics.Recorder passed to WithProfileProvider. Fields are zero for
// any other provider, including when profiling was never enabled.
type Stats struct {
	Ingress       int64
	Egress        int64
	FnCalls       int64
	FnMeanSeconds float64
}

func readStats(p metrics.Provider) Stats {
	var st Stats
	if c, ok := p.Counter(metricIngress).(*metrics.RecordedCounter); ok {
		st.Ingress = c.Snapshot()
	}
	if c, ok := p.Counter(metricEgress).(*metrics.RecordedCounter); ok {
		st.Egress = c.Snapshot()
	}
	if h, ok := p.Histogram(metricFnDur).(*metrics.RecordedHistogram); ok {
		snap := h.Snapshot()
		st.FnCalls = snap.Count
		st.FnMeanSeconds = snap.Mean
	}
	return st
}
