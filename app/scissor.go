package app

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// ScissorContext tracks the current clipped drawing target. Sub-images share the root
// coordinate space, so children keep drawing at global positions.
type ScissorContext struct {
	Image *ebiten.Image
	Clip  image.Rectangle
}

// NewScissorContext creates a root scissor context for the provided screen.
func NewScissorContext(img *ebiten.Image) ScissorContext {
	return ScissorContext{Image: img, Clip: img.Bounds()}
}

// Push returns a new context clipped to the intersection of rect and the current clip.
func (c ScissorContext) Push(rect image.Rectangle) (ScissorContext, bool) {
	clip := rect.Intersect(c.Clip)
	if clip.Empty() {
		return ScissorContext{}, false
	}
	sub := c.Image.SubImage(clip).(*ebiten.Image)
	return ScissorContext{Image: sub, Clip: clip}, true
}
