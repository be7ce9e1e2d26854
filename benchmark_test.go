package mandelfield

import (
	"fmt"
	"testing"
)

// BenchmarkCompute benchmarks the classic field at several sizes.
func BenchmarkCompute(b *testing.B) {
	for _, dim := range []int{200, 512, 1024} {
		b.Run(fmt.Sprintf("%dx%d", dim, dim), func(b *testing.B) {
			e, err := NewEngine()
			if err != nil {
				b.Fatal(err)
			}
			defer e.Close()

			b.ReportAllocs()
			b.SetBytes(int64(dim * dim / 8))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := e.Compute(Classic, Square(dim), DefaultIterations); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkCompute_Lanes compares lane widths at a fixed size.
func BenchmarkCompute_Lanes(b *testing.B) {
	for _, lanes := range []int{1, 4, 8, 16, 32} {
		for _, p := range []Precision{Float64, Float32} {
			b.Run(fmt.Sprintf("L%d/%s", lanes, p), func(b *testing.B) {
				e, err := NewEngine(WithLaneWidth(lanes), WithPrecision(p))
				if err != nil {
					b.Fatal(err)
				}
				defer e.Close()

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := e.Compute(Classic, Square(512), DefaultIterations); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkCompute_EarlyExit shows the cost of running every batch to full depth.
func BenchmarkCompute_EarlyExit(b *testing.B) {
	for _, early := range []bool{true, false} {
		b.Run(fmt.Sprintf("early=%v", early), func(b *testing.B) {
			e, err := NewEngine(WithEarlyExit(early))
			if err != nil {
				b.Fatal(err)
			}
			defer e.Close()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := e.Compute(Classic, Square(512), DefaultIterations); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkReference is the single-goroutine scalar baseline.
func BenchmarkReference(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Reference(Classic, Square(512), DefaultIterations, Float64); err != nil {
			b.Fatal(err)
		}
	}
}
