package parastage

import (
	"fmt"
	"runtime"

	"github.com/parastage/parastage/metrics"
	"github.com/parastage/parastage/pool"
)

// Config holds the resolved parameters of a stage.
type Config struct {
	// Workers is the worker pool size. Zero is a misconfiguration:
	// validateConfig rejects it with ErrInvalidConfig.
	// Default: runtime.NumCPU()
	Workers uint

	// MaxInFlight bounds the number of items simultaneously inside the
	// stage: input channel depth + workers in flight + output channel
	// depth + reorder buffer size. Must be >= Workers; smaller nonzero
	// values are clamped up, and zero is rejected.
	// Default: equal to Workers.
	MaxInFlight uint

	// SharedPool, when non-nil, borrows worker execution slots from an
	// external pool.Pool shared across several stage instances instead
	// of this stage privately bounding its own concurrency. See
	// DESIGN.md for the rationale.
	// Default: nil (stage owns a private fixed pool sized to Workers).
	SharedPool pool.Pool

	// Metrics installs the profiling-hooks provider. A
	// metrics.Disabled provider keeps profiling at zero observable cost.
	// Default: metrics.NewDisabled().
	Metrics metrics.Provider
}

// defaultConfig returns the Config defaults.
func defaultConfig() Config {
	n := uint(runtime.NumCPU())
	if n == 0 {
		n = 1
	}
	return Config{
		Workers:     n,
		MaxInFlight: n,
		Metrics:     metrics.NewDisabled(),
	}
}

// validateConfig rejects a worker count of 0 and a max-in-flight of 0
// outright — both are misconfigurations, not values to repair — then
// clamps any nonzero max-in-flight below the worker count up to it (a
// worker with no item in flight cannot contribute).
func validateConfig(cfg *Config) error {
	if cfg.Workers == 0 {
		return fmt.Errorf("%w: worker count must be >= 1", ErrInvalidConfig)
	}
	if cfg.MaxInFlight == 0 {
		return fmt.Errorf("%w: max in flight must be >= 1", ErrInvalidConfig)
	}
	if cfg.MaxInFlight < cfg.Workers {
		cfg.MaxInFlight = cfg.Workers
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewDisabled()
	}
	return nil
}

// NewConfig builds a validated Config starting from defaults and
// applying opts, returning ErrInvalidConfig if the result is invalid.
func NewConfig(opts ...Option) (Config, error) {
	co := configOptions{cfg: defaultConfig()}
	for _, opt := range opts {
		if opt == nil {
			panic(Namespace + ": nil option")
		}
		opt(&co)
	}
	if err := validateConfig(&co.cfg); err != nil {
		return Config{}, err
	}
	return co.cfg, nil
}
