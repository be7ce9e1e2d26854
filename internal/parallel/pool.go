package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool is a fixed set of goroutines, one per slot.
//
// Every job submitted to the pool runs once on each slot. A slot is bound
// to a single goroutine, so per-slot state (row scratch, lane buffers,
// statistics) never needs a lock. Load balancing happens inside the job:
// slots claim row groups from a shared Guided cursor until it is drained,
// which keeps a slot busy with cheap exterior rows while another works
// through rows on the set boundary.
//
// Thread safety: WorkerPool is safe for concurrent use. Jobs from
// concurrent calls interleave per slot but never overlap on one slot.
type WorkerPool struct {
	workers int

	// slots holds one job queue per worker goroutine.
	slots []chan func(slot int)

	// mu orders submissions against Close.
	mu     sync.RWMutex
	closed bool

	wg sync.WaitGroup
}

// NewWorkerPool creates a pool with the given number of slots.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		slots:   make([]chan func(slot int), workers),
	}
	p.wg.Add(workers)
	for i := range p.slots {
		p.slots[i] = make(chan func(slot int), 1)
		go p.worker(i)
	}
	return p
}

// worker runs the jobs of one slot until the queue is closed and empty.
func (p *WorkerPool) worker(slot int) {
	defer p.wg.Done()
	for job := range p.slots[slot] {
		job(slot)
	}
}

// Run calls fn once on every slot and waits for all calls to return.
// If the pool is closed, Run is a no-op.
func (p *WorkerPool) Run(fn func(slot int)) {
	var done sync.WaitGroup

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return
	}
	done.Add(p.workers)
	for _, q := range p.slots {
		q <- func(slot int) {
			defer done.Done()
			fn(slot)
		}
	}
	p.mu.RUnlock()

	done.Wait()
}

// ExecuteGuided runs fn over [0, total) using a guided schedule and waits
// for all chunks to complete.
//
// Each slot repeatedly claims a chunk and calls fn(slot, start, end) until
// the range is exhausted. slot is in [0, Workers()).
func (p *WorkerPool) ExecuteGuided(total, minChunk int, fn func(slot, start, end int)) {
	if total <= 0 {
		return
	}

	g := NewGuided(total, p.workers, minChunk)
	p.Run(func(slot int) {
		for {
			start, end, ok := g.Next()
			if !ok {
				return
			}
			fn(slot, start, end)
		}
	})
}

// Close stops the pool after every queued job has run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, q := range p.slots {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of slots.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts jobs.
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}
