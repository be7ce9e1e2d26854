package mandelfield

import "errors"

// Common errors for field computation.
var (
	// ErrInvalidDimension is returned when the resolution is not positive
	// or the width is not aligned to the byte packing granularity.
	ErrInvalidDimension = errors.New("mandelfield: invalid dimension")

	// ErrInvalidViewport is returned when a viewport is empty, inverted
	// or not finite.
	ErrInvalidViewport = errors.New("mandelfield: invalid viewport")

	// ErrInvalidIterations is returned when the iteration budget is not positive.
	ErrInvalidIterations = errors.New("mandelfield: invalid iteration budget")

	// ErrInvalidOption is returned by NewEngine for inconsistent options.
	ErrInvalidOption = errors.New("mandelfield: invalid option")

	// ErrEngineClosed is returned when computing on a closed Engine.
	ErrEngineClosed = errors.New("mandelfield: engine closed")

	// ErrDimensionMismatch is returned when comparing bitmaps of different sizes.
	ErrDimensionMismatch = errors.New("mandelfield: bitmap dimensions differ")

	// ErrBufferSize is returned when a raw buffer does not match the
	// packed size of the requested dimensions.
	ErrBufferSize = errors.New("mandelfield: buffer size does not match dimensions")
)
