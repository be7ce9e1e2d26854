package mandelfield

import (
	"fmt"
	"sort"
	"strings"
)

// Well-known regions of the Mandelbrot set.
var (
	// Classic frames the whole set.
	Classic = Viewport{MinX: -1.5, MinY: -1, MaxX: 0.5, MaxY: 1}

	// SeahorseValley shows dense filaments and repeating curls.
	SeahorseValley = Viewport{MinX: -0.8, MinY: 0.05, MaxX: -0.7, MaxY: 0.15}

	// ElephantValley shows a large bulb with trunk-like tendrils.
	ElephantValley = Viewport{MinX: -1.85, MinY: -0.10, MaxX: -1.75, MaxY: -0.02}

	// SpiralMinibrot is a small copy of the set with tight spiral arms.
	SpiralMinibrot = Viewport{MinX: -0.7435, MinY: 0.1310, MaxX: -0.7420, MaxY: 0.1325}

	// TripleSpiral has threefold symmetric spirals.
	TripleSpiral = Viewport{MinX: -0.7480, MinY: 0.0950, MaxX: -0.7450, MaxY: 0.0980}

	// ValleyOfTheDragon has deep spiral filaments.
	ValleyOfTheDragon = Viewport{MinX: -0.7400, MinY: 0.1800, MaxX: -0.7350, MaxY: 0.1850}

	// MinibrotInMiniSpiral is a copy of the set inside a spiral arm.
	MinibrotInMiniSpiral = Viewport{MinX: -1.7390, MinY: -0.0235, MaxX: -1.7375, MaxY: -0.0220}
)

var landmarks = map[string]Viewport{
	"classic":                 Classic,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// LookupViewport returns the named region. Names are case-insensitive and
// accept either dashes or underscores, e.g. "seahorse-valley".
func LookupViewport(name string) (Viewport, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if vp, ok := landmarks[key]; ok {
		return vp, nil
	}
	return Viewport{}, fmt.Errorf("%w: unknown region %q (known: %s)",
		ErrInvalidViewport, name, strings.Join(ViewportNames(), ", "))
}

// ViewportNames returns the names accepted by LookupViewport, sorted.
func ViewportNames() []string {
	names := make([]string, 0, len(landmarks))
	for n := range landmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseViewport parses "minX,minY,maxX,maxY" or a region name.
func ParseViewport(s string) (Viewport, error) {
	if !strings.Contains(s, ",") {
		return LookupViewport(s)
	}
	var vp Viewport
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Viewport{}, fmt.Errorf("%w: %q needs 4 comma-separated values", ErrInvalidViewport, s)
	}
	dst := [...]*float64{&vp.MinX, &vp.MinY, &vp.MaxX, &vp.MaxY}
	for i, p := range parts {
		if _, err := fmt.Sscan(strings.TrimSpace(p), dst[i]); err != nil {
			return Viewport{}, fmt.Errorf("%w: %q: %v", ErrInvalidViewport, s, err)
		}
	}
	return vp, vp.Validate()
}
