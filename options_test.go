package mandelfield

import (
	"errors"
	"runtime"
	"testing"

	"github.com/mrange/mandelfield/internal/kernel"
)

// TestDefaultOptions tests that an engine with no options uses the defaults.
func TestDefaultOptions(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	defer e.Close()

	if e.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers() = %d, want GOMAXPROCS=%d", e.Workers(), runtime.GOMAXPROCS(0))
	}
	if e.LaneWidth() != DetectLaneWidth(Float64) {
		t.Errorf("LaneWidth() = %d, want detected %d", e.LaneWidth(), DetectLaneWidth(Float64))
	}
	if e.RowGroup() != 1 {
		t.Errorf("RowGroup() = %d, want 1", e.RowGroup())
	}
	if e.Precision() != Float64 {
		t.Errorf("Precision() = %v, want float64", e.Precision())
	}
	if e.opts.unroll != kernel.DefaultUnroll {
		t.Errorf("unroll = %d, want %d", e.opts.unroll, kernel.DefaultUnroll)
	}
	if !e.opts.earlyExit || !e.opts.warmStart || e.opts.padded {
		t.Errorf("earlyExit, warmStart, padded = %v, %v, %v, want true, true, false",
			e.opts.earlyExit, e.opts.warmStart, e.opts.padded)
	}
}

// TestOptionsApplied tests that every option reaches the engine.
func TestOptionsApplied(t *testing.T) {
	e, err := NewEngine(
		WithWorkers(3),
		WithLaneWidth(12),
		WithRowGroup(3),
		WithUnroll(5),
		WithMinChunk(2),
		WithEarlyExit(false),
		WithWarmStart(false),
		WithPrecision(Float32),
		WithPaddedRows(true),
	)
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	defer e.Close()

	o := e.opts
	if e.Workers() != 3 || o.lanes != 12 || o.rowGroup != 3 || o.unroll != 5 || o.minChunk != 2 {
		t.Errorf("opts = %+v, workers %d", o, e.Workers())
	}
	if o.earlyExit || o.warmStart || !o.padded || o.precision != Float32 {
		t.Errorf("flags = %+v", o)
	}

	cfg := o.kernelConfig(77)
	want := kernel.Config{MaxIter: 77, Unroll: 5}
	if cfg != want {
		t.Errorf("kernelConfig(77) = %+v, want %+v", cfg, want)
	}
}

// TestAutoLaneWidthFitsRowGroup tests that the detected width is rounded to
// a whole number of columns per row group.
func TestAutoLaneWidthFitsRowGroup(t *testing.T) {
	for _, group := range []int{1, 2, 3, 4, 5, 7, 64} {
		o := defaultOptions()
		o.rowGroup = group
		if err := o.resolve(); err != nil {
			t.Fatalf("group=%d: resolve() error: %v", group, err)
		}
		if o.lanes%group != 0 || o.lanes < group || o.lanes > 64 {
			t.Errorf("group=%d: lanes = %d, want a multiple of the group in [group, 64]", group, o.lanes)
		}
	}
}

// TestInvalidOptions tests that inconsistent options are rejected.
func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"lanes_too_wide", []Option{WithLaneWidth(65)}},
		{"lanes_negative", []Option{WithLaneWidth(-1)}},
		{"lanes_not_multiple_of_group", []Option{WithLaneWidth(6), WithRowGroup(4)}},
		{"row_group_zero", []Option{WithRowGroup(0)}},
		{"row_group_too_large", []Option{WithRowGroup(65)}},
		{"unroll_zero", []Option{WithUnroll(0)}},
		{"min_chunk_zero", []Option{WithMinChunk(0)}},
		{"bad_precision", []Option{WithPrecision(Precision(3))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.opts...)
			if !errors.Is(err, ErrInvalidOption) {
				t.Errorf("NewEngine() error = %v, want ErrInvalidOption", err)
			}
			if e != nil {
				e.Close()
				t.Error("NewEngine() returned an engine on error")
			}
		})
	}
}
