// Package wide provides SIMD-friendly lane batches for escape-time iteration.
//
// A lane batch holds N independent complex points in Structure-of-Arrays
// layout and advances all of them in lockstep. The loops are written over
// equal-length slices so the Go compiler can eliminate bounds checks and
// keep independent lanes in flight, which is where the throughput comes
// from on superscalar cores.
//
// # Lanes
//
// Lanes[T] is generic over the float type (float32 or float64). The lane
// count is a runtime value so that a single implementation covers the 1, 4,
// 8, 16 and 32 wide kernels. The element type is fixed by the type parameter,
// which makes mixing precisions within one batch impossible.
//
// # Numeric Semantics
//
// Every product is converted back to T before it is used. An explicit
// conversion forces rounding and prevents the compiler from fusing a
// multiply and an add, so results are identical on every architecture.
//
// # Usage Example
//
//	l := wide.NewLanes[float64](8)
//	for i := range l.Len() {
//	    l.Seed(i, cx[i], cy)
//	}
//	l.Advance(8)
//	if l.AllEscaped() {
//	    // every lane left the radius-2 disk
//	}
package wide
