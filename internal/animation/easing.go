package animation

import (
	"fmt"
	"math"
	"sort"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// Easing maps linear progress in [0, 1] onto animation progress.
type Easing func(t float64) float64

var easings = map[string]Easing{
	"linear":           linear,
	"ease_out_cubic":   easeOutCubic,
	"ease_in_out_quad": easeInOutQuad,
	"ease_out_back":    easeOutBack,
}

// EasingByName returns the easing function registered under name.
func EasingByName(name string) (Easing, error) {
	e, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown animation type %q (valid: %v)", name, EasingNames())
	}
	return e, nil
}

// EasingNames lists the supported easing names in lexical order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func linear(t float64) float64 { return t }

func easeOutCubic(t float64) float64 {
	p := 1 - t
	return 1 - p*p*p
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	p := -2*t + 2
	return 1 - p*p/2
}

// easeOutBack overshoots the target slightly before settling.
func easeOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	p := t - 1
	return 1 + c3*p*p*p + c1*p*p
}

func interpolate(start, end int, progress float64) int {
	return start + int(math.Round(float64(end-start)*progress))
}

// lerp returns the area between from and to at progress. Width and height
// never go below 1 so overshooting easings cannot collapse a window.
func lerp(from, to tiling.Area, progress float64) tiling.Area {
	w := interpolate(from.Width, to.Width, progress)
	h := interpolate(from.Height, to.Height, progress)
	return tiling.NewArea(
		interpolate(from.X, to.X, progress),
		interpolate(from.Y, to.Y, progress),
		max(w, 1),
		max(h, 1),
	)
}
