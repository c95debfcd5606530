// Package parastage inserts order-preserving parallel stages into a
// lazily-pulled, single-producer sequence.
//
// A [Sequence] is the minimal lazy-pull abstraction this package operates
// on: Next returns the next item, or signals end-of-stream, or surfaces a
// captured fault. Three stage constructors attach onto one:
//
//   - ParallelMap: fan out items to a worker pool, reorder results.
//   - ParallelFilter: same engine, workers return a keep/drop verdict.
//   - Readahead: single prefetch goroutine, bounded FIFO, no reordering
//     needed since there is exactly one producer.
//
// Scoped variants (ParallelMapScoped, ParallelFilterScoped,
// ReadaheadScoped) take a *Scope so workers may safely borrow values
// from the caller's stack frame; the Scope, built on
// golang.org/x/sync/errgroup, guarantees every spawned goroutine is
// joined before it returns.
//
// # Constructors
//
//   - NewConfig builds a validated [Config] directly.
//   - functional options (With*) build the same Config through a small
//     builder, for callers who want incremental configuration.
//
// # Defaults
//
// Unless overridden, a stage uses:
//   - Workers: runtime.NumCPU() (see DESIGN.md for why this package
//     settles on the logical CPU count rather than physical cores)
//   - MaxInFlight: max(Workers, 1), clamped up to Workers if smaller
//   - Profiling: disabled (noop metrics provider)
//
// # Faults
//
// A panic raised by the user function, or by an upstream Sequence, is
// captured at the point it occurs, converted to a *Fault, and surfaced
// from the next Next() call on the caller's goroutine. Exactly one fault
// is ever surfaced per stage; every call after that returns end-of-stream.
package parastage
