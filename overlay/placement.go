package overlay

import (
	"image"
	"math"

	"github.com/paulmach/orb"

	"github.com/aldo-g/earliest-elephant/typedef"
)

// Rect is an axis aligned rectangle in content space.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return !(r.W > 0) || !(r.H > 0)
}

// Image rounds the rectangle outward to integer pixel coordinates.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)),
	)
}

// NormalizeTweak replaces an unusable scale factor with 1 and a non-finite offset with 0.
func NormalizeTweak(t typedef.Tweak) typedef.Tweak {
	if !(t.ScaleFactor > 0) || math.IsInf(t.ScaleFactor, 0) {
		t.ScaleFactor = 1
	}
	if math.IsNaN(t.YOffsetPercent) || math.IsInf(t.YOffsetPercent, 0) {
		t.YOffsetPercent = 0
	}
	return t
}

// TweakFor returns the table override for id, or the entity default.
func TweakFor(id string, table map[string]typedef.Tweak) typedef.Tweak {
	if t, ok := table[id]; ok {
		return NormalizeTweak(t)
	}
	return typedef.DefaultTweak()
}

// Place computes the image rectangle for a target bounding box. The rectangle is the box
// scaled by ScaleFactor about its centre, then pushed down by YOffsetPercent of the box height.
func Place(b orb.Bound, t typedef.Tweak) Rect {
	t = NormalizeTweak(t)
	wb := b.Max[0] - b.Min[0]
	hb := b.Max[1] - b.Min[1]
	w := wb * t.ScaleFactor
	h := hb * t.ScaleFactor
	return Rect{
		X: b.Min[0] - (w-wb)/2,
		Y: b.Min[1] - (h-hb)/2 + hb*t.YOffsetPercent,
		W: w,
		H: h,
	}
}

// CoverCrop returns the part of a natW x natH image that, scaled uniformly, exactly fills dst
// with the crop centred on both axes. The returned scale maps source pixels to content units.
func CoverCrop(natW, natH int, dst Rect) (Rect, float64) {
	if natW <= 0 || natH <= 0 || dst.Empty() {
		return Rect{}, 0
	}
	nw, nh := float64(natW), float64(natH)
	scale := math.Max(dst.W/nw, dst.H/nh)
	cw := dst.W / scale
	ch := dst.H / scale
	return Rect{X: (nw - cw) / 2, Y: (nh - ch) / 2, W: cw, H: ch}, scale
}
