package mandelfield

import (
	"fmt"
	"time"
)

// Stats describes the work done for one field.
type Stats struct {
	// Pixels is the number of classified points.
	Pixels int

	// Batches is the number of lane batches run.
	Batches int

	// Iterations is the total number of lane-iterations, counting every
	// active lane of every batch. Lanes of an early-exited batch count
	// only the blocks actually run.
	Iterations int64

	// EarlyExits is the number of batches stopped by the escape test.
	EarlyExits int

	// WarmStarts is the number of batches run without escape tests.
	WarmStarts int

	// Chunks is the number of scheduler claims.
	Chunks int

	// Workers is the size of the worker pool.
	Workers int

	// Lanes is the lane width used.
	Lanes int

	// Elapsed is the wall-clock time of the computation.
	Elapsed time.Duration
}

// MeanIterations returns Iterations/Pixels, or 0 for an empty field.
func (s Stats) MeanIterations() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Iterations) / float64(s.Pixels)
}

// add merges per-worker counters.
func (s *Stats) add(o Stats) {
	s.Pixels += o.Pixels
	s.Batches += o.Batches
	s.Iterations += o.Iterations
	s.EarlyExits += o.EarlyExits
	s.WarmStarts += o.WarmStarts
	s.Chunks += o.Chunks
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("pixels=%d batches=%d mean_iter=%.2f early_exits=%d warm_starts=%d chunks=%d workers=%d lanes=%d elapsed=%v",
		s.Pixels, s.Batches, s.MeanIterations(), s.EarlyExits, s.WarmStarts, s.Chunks, s.Workers, s.Lanes, s.Elapsed)
}
