// Package kernel implements the lane batch iterator of the escape-time engine.
//
// An Iterator runs a wide.Lanes batch through the quadratic recurrence for a
// fixed iteration budget. Iterations are issued in unrolled blocks; after each
// block the batch is tested and abandoned as soon as every lane has escaped.
// The Iterator also carries the warm-start state for one row group: when the
// previous batch ran the whole budget, the next one skips the block checks.
//
// Bounded is the scalar reference: one point, no batching, no early exit.
// Every Iterator configuration classifies points exactly like Bounded.
package kernel
