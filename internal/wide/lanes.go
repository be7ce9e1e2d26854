package wide

// Float is the element type of a lane batch.
type Float interface {
	~float32 | ~float64
}

// MaxLanes is the largest supported lane count.
const MaxLanes = 64

// EscapeRadius2 is the squared escape radius. A point whose orbit has
// x²+y² > EscapeRadius2 is known to diverge.
const EscapeRadius2 = 4

// Lanes holds a batch of complex points for lockstep iteration.
// Uses Structure-of-Arrays (SoA) layout:
//
//	X:  [x0, x1, x2, ..., xN]   orbit real parts
//	Y:  [y0, y1, y2, ..., yN]   orbit imaginary parts
//	CX: [c0, c1, c2, ..., cN]   seed real parts
//	CY: [c0, c1, c2, ..., cN]   seed imaginary parts
//
// Only the first Len() lanes are active. The backing arrays are sized
// once at construction and reused for every batch.
type Lanes[T Float] struct {
	X, Y   []T
	CX, CY []T

	n int
}

// NewLanes creates a lane batch with capacity for width points.
// width is clamped to [1, MaxLanes]. All lanes start active.
func NewLanes[T Float](width int) *Lanes[T] {
	width = clampWidth(width)

	buf := make([]T, 4*width)
	return &Lanes[T]{
		X:  buf[0*width : 1*width : 1*width],
		Y:  buf[1*width : 2*width : 2*width],
		CX: buf[2*width : 3*width : 3*width],
		CY: buf[3*width : 4*width : 4*width],
		n:  width,
	}
}

func clampWidth(width int) int {
	switch {
	case width < 1:
		return 1
	case width > MaxLanes:
		return MaxLanes
	default:
		return width
	}
}

// Cap returns the lane capacity.
func (l *Lanes[T]) Cap() int {
	return len(l.X)
}

// Len returns the number of active lanes.
func (l *Lanes[T]) Len() int {
	return l.n
}

// Reset sets the number of active lanes, clamped to [0, Cap()].
// Lane contents are left untouched; callers Seed every active lane.
func (l *Lanes[T]) Reset(n int) {
	switch {
	case n < 0:
		n = 0
	case n > len(l.X):
		n = len(l.X)
	}
	l.n = n
}

// Seed loads lane i with the point c = (cx, cy) and starts its orbit at z₀ = c.
func (l *Lanes[T]) Seed(i int, cx, cy T) {
	l.CX[i] = cx
	l.CY[i] = cy
	l.X[i] = cx
	l.Y[i] = cy
}

// Step advances every active lane by one iteration of z ← z² + c:
//
//	x' = x² − y² + cx
//	y' = 2xy + cy
func (l *Lanes[T]) Step() {
	n := l.n
	x := l.X[:n]
	y := l.Y[:len(x)]
	cx := l.CX[:len(x)]
	cy := l.CY[:len(x)]

	for i := range x {
		xi, yi := x[i], y[i]
		x2 := T(xi * xi)
		y2 := T(yi * yi)
		xy := T(xi * yi)
		y[i] = xy + xy + cy[i]
		x[i] = x2 - y2 + cx[i]
	}
}

// Advance runs steps iterations on every active lane.
func (l *Lanes[T]) Advance(steps int) {
	for range steps {
		l.Step()
	}
}

// Magnitude2 returns x²+y² for lane i.
func (l *Lanes[T]) Magnitude2(i int) T {
	x, y := l.X[i], l.Y[i]
	return T(x*x) + T(y*y)
}

// AllEscaped reports whether every active lane has x²+y² > EscapeRadius2.
// NaN magnitudes (overflowed orbits) count as escaped.
// An empty batch is trivially escaped.
func (l *Lanes[T]) AllEscaped() bool {
	n := l.n
	x := l.X[:n]
	y := l.Y[:len(x)]

	for i := range x {
		if T(x[i]*x[i])+T(y[i]*y[i]) <= EscapeRadius2 {
			return false
		}
	}
	return true
}

// Bounded writes the membership of each active lane into dst:
// true when x²+y² ≤ EscapeRadius2. dst must hold at least Len() elements.
func (l *Lanes[T]) Bounded(dst []bool) {
	n := l.n
	x := l.X[:n]
	y := l.Y[:len(x)]
	dst = dst[:len(x)]

	for i := range x {
		dst[i] = T(x[i]*x[i])+T(y[i]*y[i]) <= EscapeRadius2
	}
}
