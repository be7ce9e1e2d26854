package mandelfield

import (
	"fmt"
	"strings"
)

// Precision selects the floating-point type used for a whole field.
type Precision int

const (
	// Float64 computes in double precision. This is the default.
	Float64 Precision = iota

	// Float32 computes in single precision. Twice the lanes fit in a
	// vector register, at the cost of resolution at deep zooms.
	Float32
)

// String returns the Go type name of the precision.
func (p Precision) String() string {
	switch p {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// Size returns the size of one element in bytes.
func (p Precision) Size() int {
	if p == Float32 {
		return 4
	}
	return 8
}

// IsValid reports whether p is a known precision.
func (p Precision) IsValid() bool {
	return p == Float64 || p == Float32
}

// ParsePrecision parses "float64"/"double"/"64" or "float32"/"single"/"32".
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float64", "f64", "double", "64":
		return Float64, nil
	case "float32", "f32", "single", "32":
		return Float32, nil
	default:
		return 0, fmt.Errorf("%w: unknown precision %q", ErrInvalidOption, s)
	}
}
