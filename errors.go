package parastage

import "errors"

// Namespace prefixes every sentinel error message in this package.
const Namespace = "parastage"

var (
	// ErrInvalidConfig is returned when a Config fails validation
	// (worker_count == 0, or max_in_flight == 0 before any clamping).
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrStageClosed is returned by a ParallelMap or ParallelFilter
	// stage's Next() once Close() has been called, whether or not upstream
	// was exhausted first. A Readahead stage's Next() does not return it.
	ErrStageClosed = errors.New(Namespace + ": stage closed")
)
