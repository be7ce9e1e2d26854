package mandelfield

import (
	"fmt"

	"github.com/mrange/mandelfield/internal/kernel"
	"github.com/mrange/mandelfield/internal/raster"
	"github.com/mrange/mandelfield/internal/wide"
)

// Reference computes a field one pixel at a time on the calling goroutine,
// with every point run for the full budget and no early exit.
//
// It shares the sampler and recurrence with the engine and exists as the
// oracle the engine is checked against. Any positive width is accepted.
func Reference(vp Viewport, res Resolution, budget IterationBudget, p Precision) (*Bitmap, error) {
	if err := validateInputs(vp, res, budget, true); err != nil {
		return nil, err
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: precision %d", ErrInvalidOption, int(p))
	}

	bm := newBitmap(res.Width, res.Height)
	if p == Float32 {
		referenceRows[float32](bm, vp, budget)
	} else {
		referenceRows[float64](bm, vp, budget)
	}
	return bm, nil
}

func referenceRows[T wide.Float](bm *Bitmap, vp Viewport, budget IterationBudget) {
	s := newSampler[T](vp, bm.Resolution())
	w := raster.NewBitWriter(bm.pix)
	for py := range bm.height {
		cy := s.y(py)
		for px := range bm.width {
			w.WriteBit(kernel.Bounded(s.x(px), cy, int(budget)))
		}
		w.Flush()
	}
}
