// Package mandelfield computes escape-time fields of the Mandelbrot set as
// 1-bit bitmaps.
//
// # Overview
//
// Every pixel of a viewport is mapped to a point c of the complex plane and
// iterated through z ← z² + c, starting at z₀ = c, for a fixed budget. A pixel
// is bounded (set) when |z|² ≤ 4 after the last iteration and escaped (clear)
// otherwise. The result is packed 8 pixels per byte, most significant bit
// first, which is the raster layout of a binary PBM file.
//
// # Quick Start
//
//	import "github.com/mrange/mandelfield"
//
//	bm, err := mandelfield.ComputeField(mandelfield.Classic,
//		mandelfield.Square(200), mandelfield.DefaultIterations)
//	if err != nil {
//		log.Fatal(err)
//	}
//	f, _ := os.Create("mandelbrot.pbm")
//	defer f.Close()
//	bm.Emit(rasterio.NewPBMWriter(f))
//
// # Architecture
//
// The engine is organized into:
//   - Sampler: pixel to complex coordinate, in float32 or float64
//   - Lanes (internal/wide): a batch of points iterated in lockstep
//   - Iterator (internal/kernel): unrolled blocks with a shared escape test
//   - Packer (internal/raster): booleans to MSB-first row bytes
//   - Scheduler (internal/parallel): guided row-group split over a worker pool
//
// # Determinism
//
// Every product is rounded to the working precision before it is used, so
// the output does not depend on fused multiply-add. Lane width, row group,
// unroll, early exit, warm start and the number of workers change only how
// fast a field is computed, never which bits are set. Reference computes the
// same field one pixel at a time and is the oracle for that property.
package mandelfield

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
