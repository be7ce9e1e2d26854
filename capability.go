package mandelfield

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// maxAutoLanes caps the detected lane width.
const maxAutoLanes = 32

// vectorBytes returns the width of the widest usable vector register.
func vectorBytes() int {
	switch {
	case cpu.X86.HasAVX512F:
		return 64
	case cpu.X86.HasAVX2, cpu.X86.HasAVX:
		return 32
	case cpu.X86.HasSSE2, cpu.ARM64.HasASIMD:
		return 16
	default:
		return 8
	}
}

// DetectLaneWidth returns the lane width suited to this CPU for precision p.
//
// The width covers two vector registers, so two independent dependency
// chains are in flight per step: AVX2 gives 8 float64 or 16 float32 lanes,
// AVX-512 gives 16 float64 or 32 float32 lanes.
func DetectLaneWidth(p Precision) int {
	lanes := 2 * vectorBytes() / p.Size()
	return min(max(lanes, 1), maxAutoLanes)
}

// CPUFeatures lists the vector extensions that influence lane detection.
func CPUFeatures() string {
	var f []string
	add := func(ok bool, name string) {
		if ok {
			f = append(f, name)
		}
	}
	add(cpu.X86.HasSSE2, "sse2")
	add(cpu.X86.HasAVX, "avx")
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasFMA, "fma")
	add(cpu.X86.HasAVX512F, "avx512f")
	add(cpu.ARM64.HasASIMD, "asimd")
	add(cpu.ARM64.HasSVE, "sve")
	if len(f) == 0 {
		return "none"
	}
	return strings.Join(f, ",")
}
