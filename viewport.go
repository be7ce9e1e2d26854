package mandelfield

import (
	"fmt"
	"math"

	"github.com/mrange/mandelfield/internal/wide"
)

// Viewport is the rectangular region of the complex plane being sampled.
// Real parts span [MinX, MaxX), imaginary parts span [MinY, MaxY).
type Viewport struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Validate reports whether the viewport is finite and non-empty on both axes.
func (v Viewport) Validate() error {
	for _, f := range [...]float64{v.MinX, v.MinY, v.MaxX, v.MaxY} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v is not finite", ErrInvalidViewport, v)
		}
	}
	if !(v.MaxX > v.MinX) || !(v.MaxY > v.MinY) {
		return fmt.Errorf("%w: %v must have max > min on both axes", ErrInvalidViewport, v)
	}
	return nil
}

// Width returns the real extent of the viewport.
func (v Viewport) Width() float64 {
	return v.MaxX - v.MinX
}

// Height returns the imaginary extent of the viewport.
func (v Viewport) Height() float64 {
	return v.MaxY - v.MinY
}

// String returns the viewport as {minX,minY,maxX,maxY}.
func (v Viewport) String() string {
	return fmt.Sprintf("{%g,%g,%g,%g}", v.MinX, v.MinY, v.MaxX, v.MaxY)
}

// Resolution is the output size in pixels.
type Resolution struct {
	Width, Height int
}

// MaxPixels is the largest Width*Height accepted by Validate. The packed
// bitmap of a field this size is 256 MiB.
const MaxPixels = 1<<31 - 1

// Square returns a dim×dim resolution.
func Square(dim int) Resolution {
	return Resolution{Width: dim, Height: dim}
}

// Validate checks that both dimensions are positive, that the field has at
// most MaxPixels pixels and, unless padded rows are allowed, that Width is a
// multiple of 8 so every row packs into whole bytes.
func (r Resolution) Validate(padded bool) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d must be positive", ErrInvalidDimension, r.Width, r.Height)
	}
	if r.Width > MaxPixels/r.Height {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidDimension, r.Width, r.Height, MaxPixels)
	}
	if !padded && r.Width%8 != 0 {
		return fmt.Errorf("%w: width %d is not a multiple of 8", ErrInvalidDimension, r.Width)
	}
	return nil
}

// Pixels returns Width*Height. The product is only meaningful for a
// resolution that passed Validate.
func (r Resolution) Pixels() int {
	return r.Width * r.Height
}

// String returns the resolution as WIDTHxHEIGHT.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// IterationBudget is the fixed number of iterations applied to every pixel.
type IterationBudget int

// DefaultIterations is the iteration budget used by the command-line tools.
const DefaultIterations IterationBudget = 50

// Validate checks that the budget is positive.
func (b IterationBudget) Validate() error {
	if b <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, int(b))
	}
	return nil
}

// validateInputs checks all field inputs before any work starts.
func validateInputs(vp Viewport, res Resolution, budget IterationBudget, padded bool) error {
	if err := res.Validate(padded); err != nil {
		return err
	}
	if err := vp.Validate(); err != nil {
		return err
	}
	return budget.Validate()
}

// sampler maps pixel coordinates to the complex plane in precision T.
// All arithmetic stays in T; products are rounded explicitly so results
// do not depend on whether the target fuses multiply-add.
type sampler[T wide.Float] struct {
	minX, minY     T
	scaleX, scaleY T
}

func newSampler[T wide.Float](vp Viewport, res Resolution) sampler[T] {
	minX, minY := T(vp.MinX), T(vp.MinY)
	return sampler[T]{
		minX:   minX,
		minY:   minY,
		scaleX: (T(vp.MaxX) - minX) / T(res.Width),
		scaleY: (T(vp.MaxY) - minY) / T(res.Height),
	}
}

// x returns the real part for pixel column px.
func (s sampler[T]) x(px int) T {
	return s.minX + T(T(px)*s.scaleX)
}

// y returns the imaginary part for pixel row py.
func (s sampler[T]) y(py int) T {
	return s.minY + T(T(py)*s.scaleY)
}

// columns returns the real parts of every column of a row.
func (s sampler[T]) columns(width int) []T {
	xs := make([]T, width)
	for px := range xs {
		xs[px] = s.x(px)
	}
	return xs
}

// Sample returns the point c = (cx, cy) that pixel (px, py) maps to, in
// double precision:
//
//	cx = MinX + px·(MaxX−MinX)/Width
//	cy = MinY + py·(MaxY−MinY)/Height
func Sample(vp Viewport, res Resolution, px, py int) (cx, cy float64) {
	s := newSampler[float64](vp, res)
	return s.x(px), s.y(py)
}
