package mandelfield

import (
	"sync"

	"github.com/mrange/mandelfield/internal/kernel"
	"github.com/mrange/mandelfield/internal/wide"
)

// scratchPool reuses per-worker row buffers between fields.
//
// Buffers are grouped by field width, so a server answering many requests
// of the same size stops allocating scratch after the first field. Lane
// width and row group are fixed per engine and need no bucket key.
//
// Thread safety: All methods are safe for concurrent use.
type scratchPool[T wide.Float] struct {
	mu       sync.Mutex
	buckets  map[int][]*rowScratch[T]
	maxSize  int // max buffers per bucket
	lanes    int
	rowGroup int
}

func newScratchPool[T wide.Float](lanes, rowGroup, maxPerBucket int) *scratchPool[T] {
	return &scratchPool[T]{
		buckets:  make(map[int][]*rowScratch[T]),
		maxSize:  maxPerBucket,
		lanes:    lanes,
		rowGroup: rowGroup,
	}
}

// get returns scratch for rows of width pixels, configured for cfg.
// Statistics and warm-start state are reset.
func (p *scratchPool[T]) get(width int, cfg kernel.Config) *rowScratch[T] {
	p.mu.Lock()
	bucket := p.buckets[width]
	if n := len(bucket); n > 0 {
		sc := bucket[n-1]
		p.buckets[width] = bucket[:n-1]
		p.mu.Unlock()

		sc.iter = kernel.NewIterator[T](cfg)
		sc.stats = Stats{}
		return sc
	}
	p.mu.Unlock()

	rows := make([][]bool, p.rowGroup)
	for r := range rows {
		rows[r] = make([]bool, width)
	}
	return &rowScratch[T]{
		lanes:   wide.NewLanes[T](p.lanes),
		iter:    kernel.NewIterator[T](cfg),
		bounded: make([]bool, p.lanes),
		rows:    rows,
	}
}

// put returns scratch to the pool. Scratch beyond the bucket capacity is
// dropped.
func (p *scratchPool[T]) put(sc *rowScratch[T]) {
	if sc == nil || len(sc.rows) == 0 {
		return
	}
	width := len(sc.rows[0])

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[width]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[width] = append(bucket, sc)
}
