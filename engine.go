package mandelfield

import (
	"sync"
	"time"

	"github.com/mrange/mandelfield/internal/parallel"
	"github.com/mrange/mandelfield/internal/wide"
)

// Engine computes escape-time fields on a fixed worker pool.
//
// An Engine is configured once with options and may compute any number of
// fields. Each Compute call produces a fresh Bitmap; nothing is cached
// between calls.
//
// Thread safety: Engine is safe for concurrent use. Concurrent Compute
// calls share the worker pool. Close waits for running computations.
type Engine struct {
	mu     sync.RWMutex
	pool   *parallel.WorkerPool
	opts   engineOptions
	closed bool

	scratch64 *scratchPool[float64]
	scratch32 *scratchPool[float32]
}

// NewEngine creates an engine and starts its worker pool.
func NewEngine(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.resolve(); err != nil {
		return nil, err
	}

	pool := parallel.NewWorkerPool(o.workers)
	e := &Engine{
		pool:      pool,
		opts:      o,
		scratch64: newScratchPool[float64](o.lanes, o.rowGroup, pool.Workers()),
		scratch32: newScratchPool[float32](o.lanes, o.rowGroup, pool.Workers()),
	}

	Logger().Info("mandelfield: engine created",
		"workers", e.pool.Workers(),
		"lanes", o.lanes,
		"row_group", o.rowGroup,
		"unroll", o.unroll,
		"precision", o.precision.String(),
		"early_exit", o.earlyExit,
		"warm_start", o.warmStart,
		"cpu", CPUFeatures())

	return e, nil
}

// Workers returns the size of the worker pool.
func (e *Engine) Workers() int {
	return e.pool.Workers()
}

// LaneWidth returns the resolved lane width.
func (e *Engine) LaneWidth() int {
	return e.opts.lanes
}

// RowGroup returns the number of rows per batch.
func (e *Engine) RowGroup() int {
	return e.opts.rowGroup
}

// Precision returns the floating-point precision of the engine.
func (e *Engine) Precision() Precision {
	return e.opts.precision
}

// Compute classifies every pixel of res over vp with the given budget.
//
// Inputs are validated before any work starts. The result is identical
// for every worker count, lane width, row group, unroll and early-exit
// setting.
func (e *Engine) Compute(vp Viewport, res Resolution, budget IterationBudget) (*Bitmap, error) {
	bm, _, err := e.ComputeStats(vp, res, budget)
	return bm, err
}

// ComputeStats is like Compute and also reports work statistics.
func (e *Engine) ComputeStats(vp Viewport, res Resolution, budget IterationBudget) (*Bitmap, Stats, error) {
	if err := validateInputs(vp, res, budget, e.opts.padded); err != nil {
		return nil, Stats{}, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, Stats{}, ErrEngineClosed
	}

	start := time.Now()
	bm := newBitmap(res.Width, res.Height)

	var st Stats
	switch e.opts.precision {
	case Float32:
		st = runField(e, bm, vp, budget, e.scratch32)
	default:
		st = runField(e, bm, vp, budget, e.scratch64)
	}
	st.Workers = e.pool.Workers()
	st.Lanes = e.opts.lanes
	st.Elapsed = time.Since(start)

	Logger().Debug("mandelfield: field computed",
		"viewport", vp.String(),
		"resolution", res.String(),
		"iterations", int(budget),
		"bounded", bm.Count(),
		"batches", st.Batches,
		"mean_iter", st.MeanIterations(),
		"early_exits", st.EarlyExits,
		"warm_starts", st.WarmStarts,
		"chunks", st.Chunks,
		"elapsed", st.Elapsed)

	return bm, st, nil
}

// runField computes bm in precision T on the engine's pool.
func runField[T wide.Float](e *Engine, bm *Bitmap, vp Viewport, budget IterationBudget, scratch *scratchPool[T]) Stats {
	j := newFieldJob(bm, vp, budget, &e.opts, scratch, e.pool.Workers())
	defer j.release(scratch)
	return j.run(e.pool, e.opts.minChunk)
}

// Close stops the worker pool. Running computations finish first.
// Close is safe to call multiple times.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.pool.Close()
	Logger().Info("mandelfield: engine closed")
}

// ComputeField computes a single field with a temporary engine.
func ComputeField(vp Viewport, res Resolution, budget IterationBudget, opts ...Option) (*Bitmap, error) {
	e, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}
	defer e.Close()
	return e.Compute(vp, res, budget)
}
