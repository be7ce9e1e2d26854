package wide

import "testing"

func benchmarkAdvance[T Float](b *testing.B, width int) {
	l := NewLanes[T](width)
	for i := range width {
		l.Seed(i, T(-0.75)+T(i)*T(0.001), T(0.1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := range width {
			l.X[j], l.Y[j] = l.CX[j], l.CY[j]
		}
		l.Advance(50)
	}
}

func BenchmarkLanes_Float64_1(b *testing.B)  { benchmarkAdvance[float64](b, 1) }
func BenchmarkLanes_Float64_4(b *testing.B)  { benchmarkAdvance[float64](b, 4) }
func BenchmarkLanes_Float64_8(b *testing.B)  { benchmarkAdvance[float64](b, 8) }
func BenchmarkLanes_Float64_16(b *testing.B) { benchmarkAdvance[float64](b, 16) }
func BenchmarkLanes_Float32_8(b *testing.B)  { benchmarkAdvance[float32](b, 8) }
func BenchmarkLanes_Float32_16(b *testing.B) { benchmarkAdvance[float32](b, 16) }
func BenchmarkLanes_Float32_32(b *testing.B) { benchmarkAdvance[float32](b, 32) }

func BenchmarkLanes_AllEscaped(b *testing.B) {
	l := NewLanes[float64](8)
	for i := range 8 {
		l.Seed(i, 3, 3)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.AllEscaped()
	}
}
