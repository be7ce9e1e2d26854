package mandelfield

import (
	"fmt"
	"runtime"

	"github.com/mrange/mandelfield/internal/kernel"
	"github.com/mrange/mandelfield/internal/wide"
)

// Option configures an Engine during creation.
// Use functional options to customize Engine behavior.
//
// Example:
//
//	// CPU-detected lane width, one worker per CPU
//	e, err := mandelfield.NewEngine()
//
//	// Two rows per batch like the AVX2 kernel, 8 lanes, 4 workers
//	e, err := mandelfield.NewEngine(
//		mandelfield.WithRowGroup(2),
//		mandelfield.WithLaneWidth(8),
//		mandelfield.WithWorkers(4),
//	)
type Option func(*engineOptions)

// engineOptions holds the configuration for Engine creation.
type engineOptions struct {
	workers   int
	lanes     int
	rowGroup  int
	unroll    int
	minChunk  int
	earlyExit bool
	warmStart bool
	precision Precision
	padded    bool
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		workers:   0, // GOMAXPROCS
		lanes:     0, // DetectLaneWidth
		rowGroup:  1,
		unroll:    kernel.DefaultUnroll,
		minChunk:  1,
		earlyExit: true,
		warmStart: true,
		precision: Float64,
	}
}

// WithWorkers sets the number of worker goroutines.
// Zero or a negative value means runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// WithLaneWidth sets the number of points iterated in lockstep, 1 to 64.
// Zero selects a width from CPU capability detection.
// The width must be a multiple of the row group.
func WithLaneWidth(n int) Option {
	return func(o *engineOptions) {
		o.lanes = n
	}
}

// WithRowGroup sets how many consecutive rows share one lane batch.
// With a group of 2 and 8 lanes, each batch covers 4 columns of 2 rows.
func WithRowGroup(rows int) Option {
	return func(o *engineOptions) {
		o.rowGroup = rows
	}
}

// WithUnroll sets the number of iterations between escape checks.
func WithUnroll(n int) Option {
	return func(o *engineOptions) {
		o.unroll = n
	}
}

// WithMinChunk sets the smallest number of row groups a worker claims at once.
func WithMinChunk(groups int) Option {
	return func(o *engineOptions) {
		o.minChunk = groups
	}
}

// WithEarlyExit enables or disables the all-lanes-escaped test.
// Disabling it runs every batch for the full budget.
// The output does not depend on this setting.
func WithEarlyExit(enabled bool) Option {
	return func(o *engineOptions) {
		o.earlyExit = enabled
	}
}

// WithWarmStart enables or disables skipping escape checks for a batch
// whose predecessor in the same row group ran the full budget.
// The output does not depend on this setting.
func WithWarmStart(enabled bool) Option {
	return func(o *engineOptions) {
		o.warmStart = enabled
	}
}

// WithPrecision selects the floating-point type used for sampling and iteration.
func WithPrecision(p Precision) Option {
	return func(o *engineOptions) {
		o.precision = p
	}
}

// WithPaddedRows accepts widths that are not a multiple of 8.
// The unused low bits of the last byte of each row are zero.
func WithPaddedRows(enabled bool) Option {
	return func(o *engineOptions) {
		o.padded = enabled
	}
}

// resolve fills in derived defaults and validates the result.
func (o *engineOptions) resolve() error {
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if !o.precision.IsValid() {
		return fmt.Errorf("%w: precision %d", ErrInvalidOption, int(o.precision))
	}
	if o.rowGroup < 1 || o.rowGroup > wide.MaxLanes {
		return fmt.Errorf("%w: row group %d out of range [1, %d]", ErrInvalidOption, o.rowGroup, wide.MaxLanes)
	}
	if o.lanes == 0 {
		// Round the detected width up to a whole number of columns per group.
		l := DetectLaneWidth(o.precision)
		l = (l + o.rowGroup - 1) / o.rowGroup * o.rowGroup
		o.lanes = min(l, wide.MaxLanes/o.rowGroup*o.rowGroup)
	}
	if o.lanes < 1 || o.lanes > wide.MaxLanes {
		return fmt.Errorf("%w: lane width %d out of range [1, %d]", ErrInvalidOption, o.lanes, wide.MaxLanes)
	}
	if o.lanes%o.rowGroup != 0 {
		return fmt.Errorf("%w: lane width %d is not a multiple of row group %d", ErrInvalidOption, o.lanes, o.rowGroup)
	}
	if o.unroll < 1 {
		return fmt.Errorf("%w: unroll %d must be positive", ErrInvalidOption, o.unroll)
	}
	if o.minChunk < 1 {
		return fmt.Errorf("%w: min chunk %d must be positive", ErrInvalidOption, o.minChunk)
	}
	return nil
}

// kernelConfig returns the iterator configuration for a budget.
func (o *engineOptions) kernelConfig(budget IterationBudget) kernel.Config {
	return kernel.Config{
		MaxIter:   int(budget),
		Unroll:    o.unroll,
		EarlyExit: o.earlyExit,
		WarmStart: o.warmStart,
	}
}
