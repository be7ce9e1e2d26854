package kernel

import (
	"github.com/mrange/mandelfield/internal/wide"
)

// DefaultUnroll is the number of iterations issued between escape checks.
const DefaultUnroll = 8

// Config controls how an Iterator runs a batch.
type Config struct {
	// MaxIter is the iteration budget. Must be positive.
	MaxIter int

	// Unroll is the block length between escape checks.
	// Values below 1 are treated as 1.
	Unroll int

	// EarlyExit enables the all-lanes-escaped test after each block.
	EarlyExit bool

	// WarmStart skips the block tests for a batch whose predecessor ran
	// the full budget. Only meaningful with EarlyExit.
	WarmStart bool
}

// Result describes a single batch run.
type Result struct {
	// Iterations is the number of steps applied to each lane.
	Iterations int

	// EarlyExit is set when the batch stopped before the budget ran out.
	EarlyExit bool

	// WarmStart is set when block tests were skipped for this batch.
	WarmStart bool
}

// Iterator runs lane batches through the escape-time recurrence.
//
// Thread safety: Iterator is NOT thread-safe. It carries warm-start state
// from one batch to the next and must be owned by a single worker for the
// lifetime of a row group.
type Iterator[T wide.Float] struct {
	cfg Config

	// fullDepth records that the previous batch ran the whole budget.
	fullDepth bool
}

// NewIterator creates an iterator for the given configuration.
func NewIterator[T wide.Float](cfg Config) *Iterator[T] {
	if cfg.Unroll < 1 {
		cfg.Unroll = 1
	}
	if cfg.MaxIter < 0 {
		cfg.MaxIter = 0
	}
	return &Iterator[T]{cfg: cfg}
}

// Config returns the normalized configuration.
func (it *Iterator[T]) Config() Config {
	return it.cfg
}

// Reset clears the warm-start state. Call at the start of each row group.
func (it *Iterator[T]) Reset() {
	it.fullDepth = false
}

// Run iterates every active lane of l and writes membership into bounded,
// which must hold at least l.Len() elements. Lanes are seeded by the caller.
func (it *Iterator[T]) Run(l *wide.Lanes[T], bounded []bool) Result {
	var res Result

	checked := it.cfg.EarlyExit
	if checked && it.cfg.WarmStart && it.fullDepth {
		checked = false
		res.WarmStart = true
	}

	maxIter, unroll := it.cfg.MaxIter, it.cfg.Unroll
	for res.Iterations+unroll <= maxIter {
		l.Advance(unroll)
		res.Iterations += unroll

		// The final block is decided by the membership test below.
		if checked && res.Iterations < maxIter && l.AllEscaped() {
			clear(bounded[:l.Len()])
			res.EarlyExit = true
			it.fullDepth = false
			return res
		}
	}

	if tail := maxIter - res.Iterations; tail > 0 {
		l.Advance(tail)
		res.Iterations += tail
	}

	l.Bounded(bounded)
	it.fullDepth = true
	return res
}

// Bounded reports whether c = (cx, cy) stays within the radius-2 disk after
// maxIter iterations starting from z₀ = c. It runs every iteration with no
// early exit and serves as the reference classification.
func Bounded[T wide.Float](cx, cy T, maxIter int) bool {
	x, y := cx, cy
	for range maxIter {
		x2 := T(x * x)
		y2 := T(y * y)
		xy := T(x * y)
		y = xy + xy + cy
		x = x2 - y2 + cx
	}
	return T(x*x)+T(y*y) <= wide.EscapeRadius2
}
