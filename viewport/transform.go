// Package viewport holds the pan/zoom transform applied on top of the projected map and the
// pure reducer that turns gestures into new transforms.
package viewport

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	DefaultMinScale = 1.0
	DefaultMaxScale = 8.0

	// Stroke contrast flips strictly above this scale.
	contrastThreshold = 1.5
	baseStrokeWidth   = 0.5
)

// Transform is a uniform scale K followed by a translation (X, Y): screen = content*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform the map starts with and returns to on reset.
func Identity() Transform {
	return Transform{K: 1}
}

// Apply maps a content-space point to screen space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen-space point back to content space.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

func (t Transform) translate(dx, dy float64) Transform {
	return Transform{X: t.X + t.K*dx, Y: t.Y + t.K*dy, K: t.K}
}

// Constraints bound a transform: scale range plus the viewport extent and the content
// extent the viewport may not leave.
type Constraints struct {
	MinScale        float64
	MaxScale        float64
	Extent          orb.Bound
	TranslateExtent orb.Bound
}

// DefaultConstraints uses [0,0]-[w,h] for both extents and a [1,8] scale range.
func DefaultConstraints(width, height int) Constraints {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{float64(width), float64(height)}}
	return Constraints{
		MinScale:        DefaultMinScale,
		MaxScale:        DefaultMaxScale,
		Extent:          b,
		TranslateExtent: b,
	}
}

// ClampScale limits k to the configured range.
func (c Constraints) ClampScale(k float64) float64 {
	if math.IsNaN(k) {
		return c.MinScale
	}
	return math.Max(c.MinScale, math.Min(c.MaxScale, k))
}

// Constrain clamps the scale and shifts the translation so the viewport extent stays inside
// the translate extent. When the content is smaller than the viewport on an axis it is centred.
func Constrain(t Transform, c Constraints) Transform {
	t.K = c.ClampScale(t.K)

	x0, y0 := t.Invert(c.Extent.Min[0], c.Extent.Min[1])
	x1, y1 := t.Invert(c.Extent.Max[0], c.Extent.Max[1])
	dx0 := x0 - c.TranslateExtent.Min[0]
	dx1 := x1 - c.TranslateExtent.Max[0]
	dy0 := y0 - c.TranslateExtent.Min[1]
	dy1 := y1 - c.TranslateExtent.Max[1]

	return t.translate(axisShift(dx0, dx1), axisShift(dy0, dy1))
}

func axisShift(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if m := math.Min(0, d0); m != 0 {
		return m
	}
	return math.Max(0, d1)
}

// StrokeWidth keeps outlines visually constant in screen pixels.
func StrokeWidth(k float64) float64 {
	if k <= 0 {
		return baseStrokeWidth
	}
	return baseStrokeWidth / k
}

// HighContrast reports whether outlines switch to the high-contrast colour.
func HighContrast(k float64) bool {
	return k > contrastThreshold
}
