package viewport

import "math"

// Gesture is one input step fed to Reduce.
type Gesture interface {
	gesture()
}

// Pan translates by a screen-space delta.
type Pan struct {
	DX, DY float64
}

// Zoom multiplies the scale by Factor keeping the screen point (AnchorX, AnchorY) fixed.
type Zoom struct {
	Factor           float64
	AnchorX, AnchorY float64
}

// Reset returns to the identity transform.
type Reset struct{}

func (Pan) gesture()   {}
func (Zoom) gesture()  {}
func (Reset) gesture() {}

// WheelFactor converts a wheel delta into a zoom multiplier.
func WheelFactor(wheelY float64) float64 {
	return math.Pow(2, wheelY*0.25)
}

// Reduce applies a gesture to t. The result is always scale clamped and translate constrained.
func Reduce(t Transform, g Gesture, c Constraints) Transform {
	switch g := g.(type) {
	case Pan:
		if !finite(g.DX) || !finite(g.DY) {
			return Constrain(t, c)
		}
		t.X += g.DX
		t.Y += g.DY
	case Zoom:
		if !finite(g.Factor) || g.Factor <= 0 {
			return Constrain(t, c)
		}
		k := c.ClampScale(t.K * g.Factor)
		wx, wy := t.Invert(g.AnchorX, g.AnchorY)
		t = Transform{X: g.AnchorX - wx*k, Y: g.AnchorY - wy*k, K: k}
	case Reset:
		t = Identity()
	}
	return Constrain(t, c)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
