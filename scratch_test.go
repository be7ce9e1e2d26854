package mandelfield

import (
	"testing"

	"github.com/mrange/mandelfield/internal/kernel"
)

func TestScratchPool_Reuse(t *testing.T) {
	p := newScratchPool[float64](8, 2, 2)
	cfg := kernel.Config{MaxIter: 50, Unroll: 8, EarlyExit: true}

	sc := p.get(24, cfg)
	if len(sc.rows) != 2 || len(sc.rows[0]) != 24 || sc.lanes.Cap() != 8 || len(sc.bounded) != 8 {
		t.Fatalf("get() shape: rows=%d width=%d lanes=%d bounded=%d",
			len(sc.rows), len(sc.rows[0]), sc.lanes.Cap(), len(sc.bounded))
	}
	sc.stats.Batches = 7
	p.put(sc)

	cfg2 := kernel.Config{MaxIter: 9, Unroll: 3}
	again := p.get(24, cfg2)
	if again != sc {
		t.Error("get() after put() did not reuse the buffer")
	}
	if again.stats.Batches != 0 {
		t.Errorf("reused stats.Batches = %d, want 0", again.stats.Batches)
	}
	if again.iter.Config() != cfg2 {
		t.Errorf("reused iterator config = %+v, want %+v", again.iter.Config(), cfg2)
	}

	if other := p.get(32, cfg); other == sc {
		t.Error("get() returned a buffer of a different width")
	}
}

func TestScratchPool_BucketCapacity(t *testing.T) {
	p := newScratchPool[float32](4, 1, 2)
	cfg := kernel.Config{MaxIter: 10, Unroll: 1}

	for range 5 {
		p.put(p.newForTest(16, cfg))
	}
	if n := len(p.buckets[16]); n != 2 {
		t.Errorf("bucket size = %d, want 2", n)
	}

	p.put(nil) // must not panic
}

// newForTest bypasses the pool so several distinct buffers can be put.
func (p *scratchPool[T]) newForTest(width int, cfg kernel.Config) *rowScratch[T] {
	empty := newScratchPool[T](p.lanes, p.rowGroup, p.maxSize)
	return empty.get(width, cfg)
}
