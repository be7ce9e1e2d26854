package parallel

import "sync/atomic"

// Guided hands out chunks of the index range [0, total) in decreasing sizes.
//
// Each call to Next claims max(minChunk, remaining/(2*workers)) indices, so
// early chunks are large and the tail of the range is split finely. This is
// the classic guided schedule: it keeps per-claim overhead low while still
// letting idle workers pick up the expensive rows near the end.
//
// Thread safety: Guided is safe for concurrent use. Claims never overlap.
type Guided struct {
	next     atomic.Int64
	total    int64
	divisor  int64
	minChunk int64
}

// NewGuided creates a guided schedule over [0, total) for the given number
// of workers. workers and minChunk values below 1 are treated as 1.
func NewGuided(total, workers, minChunk int) *Guided {
	if total < 0 {
		total = 0
	}
	if workers < 1 {
		workers = 1
	}
	if minChunk < 1 {
		minChunk = 1
	}
	return &Guided{
		total:    int64(total),
		divisor:  2 * int64(workers),
		minChunk: int64(minChunk),
	}
}

// Next claims the next chunk. It returns ok=false once the range is exhausted.
func (g *Guided) Next() (start, end int, ok bool) {
	for {
		s := g.next.Load()
		if s >= g.total {
			return 0, 0, false
		}

		chunk := (g.total - s) / g.divisor
		if chunk < g.minChunk {
			chunk = g.minChunk
		}
		e := min(s+chunk, g.total)

		if g.next.CompareAndSwap(s, e) {
			return int(s), int(e), true
		}
	}
}
