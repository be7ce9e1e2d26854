package mandelfield

import (
	"github.com/mrange/mandelfield/internal/kernel"
	"github.com/mrange/mandelfield/internal/parallel"
	"github.com/mrange/mandelfield/internal/raster"
	"github.com/mrange/mandelfield/internal/wide"
)

// rowScratch is the per-worker state for processing row groups.
// It is owned by one pool slot for the duration of a field.
type rowScratch[T wide.Float] struct {
	lanes   *wide.Lanes[T]
	iter    *kernel.Iterator[T]
	bounded []bool
	rows    [][]bool // one membership row per row of the group
	stats   Stats
}

// fieldJob computes one bitmap in precision T.
//
// The field is split into row groups of rowGroup consecutive rows. Each
// batch covers rowGroup rows × lanes/rowGroup columns, with lane index
// r*cols + c for row r and column c of the batch. A row group is
// processed start to finish by one worker, which alone writes the packed
// bytes of its rows.
type fieldJob[T wide.Float] struct {
	bm       *Bitmap
	sampler  sampler[T]
	xs       []T // real part of every column
	lanes    int
	rowGroup int
	cfg      kernel.Config
	scratch  []*rowScratch[T]
}

func newFieldJob[T wide.Float](bm *Bitmap, vp Viewport, budget IterationBudget, o *engineOptions, pool *scratchPool[T], slots int) *fieldJob[T] {
	res := bm.Resolution()
	s := newSampler[T](vp, res)
	j := &fieldJob[T]{
		bm:       bm,
		sampler:  s,
		xs:       s.columns(res.Width),
		lanes:    o.lanes,
		rowGroup: o.rowGroup,
		cfg:      o.kernelConfig(budget),
		scratch:  make([]*rowScratch[T], slots),
	}
	for i := range j.scratch {
		j.scratch[i] = pool.get(res.Width, j.cfg)
	}
	return j
}

// groups returns the number of row groups.
func (j *fieldJob[T]) groups() int {
	return (j.bm.height + j.rowGroup - 1) / j.rowGroup
}

// run schedules every row group on the pool and returns merged statistics.
func (j *fieldJob[T]) run(pool *parallel.WorkerPool, minChunk int) Stats {
	pool.ExecuteGuided(j.groups(), minChunk, func(slot, start, end int) {
		sc := j.scratch[slot]
		sc.stats.Chunks++
		for g := start; g < end; g++ {
			j.group(sc, g)
		}
	})

	var st Stats
	for _, sc := range j.scratch {
		st.add(sc.stats)
	}
	return st
}

// release hands the scratch back to pool.
func (j *fieldJob[T]) release(pool *scratchPool[T]) {
	for i, sc := range j.scratch {
		pool.put(sc)
		j.scratch[i] = nil
	}
}

// group computes and packs row group g.
func (j *fieldJob[T]) group(sc *rowScratch[T], g int) {
	width := j.bm.width
	y0 := g * j.rowGroup
	nrows := min(j.rowGroup, j.bm.height-y0)
	cols := j.lanes / j.rowGroup

	var cy [wide.MaxLanes]T
	for r := range nrows {
		cy[r] = j.sampler.y(y0 + r)
	}

	sc.iter.Reset()
	for x0 := 0; x0 < width; x0 += cols {
		nc := min(cols, width-x0)
		n := nrows * nc

		sc.lanes.Reset(n)
		for r := range nrows {
			for c := range nc {
				sc.lanes.Seed(r*nc+c, j.xs[x0+c], cy[r])
			}
		}

		res := sc.iter.Run(sc.lanes, sc.bounded)

		for r := range nrows {
			copy(sc.rows[r][x0:x0+nc], sc.bounded[r*nc:r*nc+nc])
		}

		sc.stats.Batches++
		sc.stats.Pixels += n
		sc.stats.Iterations += int64(res.Iterations) * int64(n)
		if res.EarlyExit {
			sc.stats.EarlyExits++
		}
		if res.WarmStart {
			sc.stats.WarmStarts++
		}
	}

	for r := range nrows {
		raster.PackRow(j.bm.row(y0+r), sc.rows[r])
	}
}
