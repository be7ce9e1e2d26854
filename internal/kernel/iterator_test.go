package kernel

import (
	"testing"

	"github.com/mrange/mandelfield/internal/wide"
)

// seedRow fills l with n points of the row cy spanning [x0, x1).
func seedRow(l *wide.Lanes[float64], n int, x0, x1, cy float64) {
	l.Reset(n)
	step := (x1 - x0) / float64(n)
	for i := range n {
		l.Seed(i, x0+float64(i)*step, cy)
	}
}

// =============================================================================
// Scalar Reference Tests
// =============================================================================

func TestBounded_KnownPoints(t *testing.T) {
	tests := []struct {
		name    string
		cx, cy  float64
		maxIter int
		want    bool
	}{
		{"origin", 0, 0, 50, true},
		{"origin single step", 0, 0, 1, true},
		{"period two bulb", -1, 0, 50, true},
		{"cusp", 0.25, 0, 50, true},
		{"far outside", 2, 2, 50, false},
		{"outside on axis", 0.5, 0, 50, false},
		{"tip", -2, 0, 50, true},
		{"just past tip", -2.01, 0, 50, false},
		{"zero budget inside disk", 1.5, 0, 0, true},
		{"zero budget outside disk", 2.5, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bounded(tt.cx, tt.cy, tt.maxIter); got != tt.want {
				t.Errorf("Bounded(%v, %v, %d) = %v, want %v", tt.cx, tt.cy, tt.maxIter, got, tt.want)
			}
			if got := Bounded(float32(tt.cx), float32(tt.cy), tt.maxIter); got != tt.want {
				t.Errorf("Bounded[float32](%v, %v, %d) = %v, want %v", tt.cx, tt.cy, tt.maxIter, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Iterator Tests
// =============================================================================

func TestNewIterator_Normalizes(t *testing.T) {
	it := NewIterator[float64](Config{MaxIter: -4, Unroll: 0})
	cfg := it.Config()
	if cfg.Unroll != 1 {
		t.Errorf("Unroll = %d, want 1", cfg.Unroll)
	}
	if cfg.MaxIter != 0 {
		t.Errorf("MaxIter = %d, want 0", cfg.MaxIter)
	}
}

func TestIterator_MatchesReference(t *testing.T) {
	configs := []Config{
		{MaxIter: 50, Unroll: 8},
		{MaxIter: 50, Unroll: 8, EarlyExit: true},
		{MaxIter: 50, Unroll: 8, EarlyExit: true, WarmStart: true},
		{MaxIter: 50, Unroll: 1, EarlyExit: true},
		{MaxIter: 50, Unroll: 7, EarlyExit: true, WarmStart: true},
		{MaxIter: 50, Unroll: 50, EarlyExit: true},
		{MaxIter: 49, Unroll: 8, EarlyExit: true, WarmStart: true},
		{MaxIter: 3, Unroll: 8, EarlyExit: true},
	}

	const rows = 40
	for _, cfg := range configs {
		for _, width := range []int{1, 4, 8, 16, 32} {
			it := NewIterator[float64](cfg)
			l := wide.NewLanes[float64](width)
			got := make([]bool, width)

			for r := range rows {
				cy := -1.0 + 2.0*float64(r)/rows
				it.Reset()
				for x0 := -2.0; x0 < 0.5; x0 += 0.5 {
					seedRow(l, width, x0, x0+0.5, cy)
					it.Run(l, got)

					for i := range width {
						want := Bounded(l.CX[i], l.CY[i], cfg.MaxIter)
						if got[i] != want {
							t.Fatalf("cfg %+v width %d: c=(%v, %v) bounded = %v, want %v",
								cfg, width, l.CX[i], l.CY[i], got[i], want)
						}
					}
				}
			}
		}
	}
}

func TestIterator_EarlyExit(t *testing.T) {
	it := NewIterator[float64](Config{MaxIter: 50, Unroll: 8, EarlyExit: true})
	l := wide.NewLanes[float64](8)
	for i := range 8 {
		l.Seed(i, 2, 2)
	}

	got := []bool{true, true, true, true, true, true, true, true}
	res := it.Run(l, got)

	if !res.EarlyExit {
		t.Error("EarlyExit = false for a batch at c=(2,2)")
	}
	if res.Iterations != 8 {
		t.Errorf("Iterations = %d, want 8 (one block)", res.Iterations)
	}
	for i, b := range got {
		if b {
			t.Errorf("lane %d bounded after early exit", i)
		}
	}
}

func TestIterator_NoEarlyExitRunsBudget(t *testing.T) {
	it := NewIterator[float64](Config{MaxIter: 50, Unroll: 8})
	l := wide.NewLanes[float64](4)
	for i := range 4 {
		l.Seed(i, 2, 2)
	}

	res := it.Run(l, make([]bool, 4))
	if res.EarlyExit {
		t.Error("EarlyExit = true with early exit disabled")
	}
	if res.Iterations != 50 {
		t.Errorf("Iterations = %d, want 50", res.Iterations)
	}
}

func TestIterator_InteriorRunsBudget(t *testing.T) {
	it := NewIterator[float32](Config{MaxIter: 50, Unroll: 8, EarlyExit: true})
	l := wide.NewLanes[float32](8)
	for i := range 8 {
		l.Seed(i, float32(i)*0.01-0.1, 0.05)
	}

	got := make([]bool, 8)
	res := it.Run(l, got)

	if res.Iterations != 50 {
		t.Errorf("Iterations = %d, want 50", res.Iterations)
	}
	for i, b := range got {
		if !b {
			t.Errorf("lane %d escaped inside the main cardioid", i)
		}
	}
}

func TestIterator_MixedBatchKeepsIterating(t *testing.T) {
	it := NewIterator[float64](Config{MaxIter: 50, Unroll: 8, EarlyExit: true})
	l := wide.NewLanes[float64](2)
	l.Seed(0, 2, 2) // escapes at once
	l.Seed(1, 0, 0) // never escapes

	got := make([]bool, 2)
	res := it.Run(l, got)

	if res.EarlyExit {
		t.Error("EarlyExit = true while one lane is still bounded")
	}
	if got[0] || !got[1] {
		t.Errorf("bounded = %v, want [false true]", got)
	}
}

func TestIterator_WarmStart(t *testing.T) {
	it := NewIterator[float64](Config{MaxIter: 50, Unroll: 8, EarlyExit: true, WarmStart: true})
	l := wide.NewLanes[float64](4)
	got := make([]bool, 4)

	// Interior batch runs the full budget and arms the warm start.
	for i := range 4 {
		l.Seed(i, 0, 0)
	}
	if res := it.Run(l, got); res.WarmStart {
		t.Error("first batch reported WarmStart")
	}

	// Exterior batch after it skips the checks but still classifies correctly.
	for i := range 4 {
		l.Seed(i, 2, 2)
	}
	res := it.Run(l, got)
	if !res.WarmStart {
		t.Error("WarmStart = false after a full-depth batch")
	}
	if res.EarlyExit || res.Iterations != 50 {
		t.Errorf("warm batch = %+v, want full budget without early exit", res)
	}
	for i, b := range got {
		if b {
			t.Errorf("lane %d bounded, want escaped", i)
		}
	}

	// After an early exit the next batch is checked again.
	it.Reset()
	for i := range 4 {
		l.Seed(i, 2, 2)
	}
	if res := it.Run(l, got); res.WarmStart || !res.EarlyExit {
		t.Errorf("after Reset = %+v, want checked early exit", res)
	}
	for i := range 4 {
		l.Seed(i, 2, 2)
	}
	if res := it.Run(l, got); res.WarmStart {
		t.Error("WarmStart = true after an early-exit batch")
	}
}

func TestIterator_WarmStartIgnoredWithoutEarlyExit(t *testing.T) {
	it := NewIterator[float64](Config{MaxIter: 16, Unroll: 8, WarmStart: true})
	l := wide.NewLanes[float64](1)
	l.Seed(0, 0, 0)

	it.Run(l, make([]bool, 1))
	l.Seed(0, 0, 0)
	if res := it.Run(l, make([]bool, 1)); res.WarmStart {
		t.Error("WarmStart reported with early exit disabled")
	}
}
