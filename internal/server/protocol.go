package server

import (
	"errors"
	"fmt"

	"github.com/mrange/mandelfield"
)

// Protocol errors.
var (
	// ErrBadRequest is returned for requests that cannot be turned into a field.
	ErrBadRequest = errors.New("server: bad request")

	// ErrTooLarge is returned when a request exceeds the pixel limit.
	ErrTooLarge = errors.New("server: field too large")

	// ErrDeadline is returned when a field is not ready within the request timeout.
	ErrDeadline = errors.New("server: deadline exceeded")

	// ErrRemote wraps an error reported by the server.
	ErrRemote = errors.New("server: remote error")
)

// Region is the wire form of a viewport.
type Region struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// RegionOf converts a viewport to its wire form.
func RegionOf(vp mandelfield.Viewport) *Region {
	return &Region{MinX: vp.MinX, MinY: vp.MinY, MaxX: vp.MaxX, MaxY: vp.MaxY}
}

// Request asks for one field.
//
// Exactly one of Name and Region selects the viewport. Dimension requests a
// square field; Width and Height override it per axis. Iterations defaults
// to mandelfield.DefaultIterations.
type Request struct {
	Name       string  `json:"name,omitempty"`
	Region     *Region `json:"region,omitempty"`
	Dimension  int     `json:"dimension,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Compress   bool    `json:"compress,omitempty"`
}

// ErrorReply is sent as a text message when a request fails.
type ErrorReply struct {
	Error string `json:"error"`
}

// Field returns the validated inputs described by the request.
func (r Request) Field() (mandelfield.Viewport, mandelfield.Resolution, mandelfield.IterationBudget, error) {
	var vp mandelfield.Viewport
	switch {
	case r.Name != "" && r.Region != nil:
		return vp, mandelfield.Resolution{}, 0, fmt.Errorf("%w: both name and region set", ErrBadRequest)
	case r.Name != "":
		v, err := mandelfield.LookupViewport(r.Name)
		if err != nil {
			return vp, mandelfield.Resolution{}, 0, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		vp = v
	case r.Region != nil:
		vp = mandelfield.Viewport{MinX: r.Region.MinX, MinY: r.Region.MinY, MaxX: r.Region.MaxX, MaxY: r.Region.MaxY}
	default:
		vp = mandelfield.Classic
	}

	res := mandelfield.Square(r.Dimension)
	if r.Width != 0 {
		res.Width = r.Width
	}
	if r.Height != 0 {
		res.Height = r.Height
	}

	budget := mandelfield.DefaultIterations
	if r.Iterations != 0 {
		budget = mandelfield.IterationBudget(r.Iterations)
	}

	if err := vp.Validate(); err != nil {
		return vp, res, budget, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := res.Validate(true); err != nil {
		return vp, res, budget, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := budget.Validate(); err != nil {
		return vp, res, budget, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return vp, res, budget, nil
}
