package app

import (
	"image/color"
	"log"
	"math"
	"runtime/debug"

	"github.com/aldo-g/earliest-elephant/overlay"
	"github.com/aldo-g/earliest-elephant/viewport"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/paulmach/orb"
)

// DrawTriangles takes uint16 indices.
const maxBatchVertices = math.MaxUint16

// mesh holds triangles in content space; DstX/DstY are transformed per frame.
type mesh struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

type shapeLayer struct {
	fill        mesh
	border      mesh
	fillColor   [4]float32
	strokeColor [4]float32
}

type imageLayer struct {
	ref  string
	rect overlay.Rect
	clip mesh
}

// SceneRenderer executes a Scene with Ebiten: even-odd fills for silhouettes, per-edge quads
// for outlines, and textured triangles for the clipped images.
type SceneRenderer struct {
	whitePixel *ebiten.Image
	images     *ImageCache

	generation int
	fills      []mesh          // by shape command index, valid for one generation
	clips      map[string]mesh // image clip silhouettes by target, valid for one generation

	scene  *overlay.Scene
	shapes []shapeLayer
	layers []imageLayer

	vertices []ebiten.Vertex
	indices  []uint16
	oversize map[string]bool
}

func NewSceneRenderer(images *ImageCache) *SceneRenderer {
	whitePixel := ebiten.NewImage(1, 1)
	whitePixel.Fill(color.RGBA{255, 255, 255, 255})
	return &SceneRenderer{
		whitePixel: whitePixel,
		images:     images,
		generation: -1,
		clips:      make(map[string]mesh),
		oversize:   make(map[string]bool),
	}
}

// prepare rebuilds cached meshes when the projected shapes or the command list changed.
func (r *SceneRenderer) prepare(scene *overlay.Scene, generation int) {
	if generation != r.generation {
		r.generation = generation
		r.fills = r.fills[:0]
		r.clips = make(map[string]mesh)
		r.scene = nil
	}
	if scene == r.scene {
		return
	}
	r.scene = scene
	r.shapes = r.shapes[:0]
	r.layers = r.layers[:0]

	shapeIndex := 0
	for i := range scene.Commands {
		cmd := &scene.Commands[i]
		switch cmd.Op {
		case overlay.OpShape:
			if shapeIndex >= len(r.fills) {
				r.fills = append(r.fills, fillMesh(cmd.Path))
			}
			layer := shapeLayer{fill: r.fills[shapeIndex]}
			if cmd.Fill != nil {
				layer.fillColor = colorComponents(*cmd.Fill)
			}
			if cmd.Stroke != nil && cmd.StrokeWidth > 0 {
				layer.strokeColor = colorComponents(*cmd.Stroke)
				layer.border = borderMesh(cmd.Path, cmd.StrokeWidth)
			}
			r.shapes = append(r.shapes, layer)
			shapeIndex++
		case overlay.OpImage:
			if cmd.ImageRect == nil {
				continue
			}
			clip, ok := r.clips[cmd.TargetID]
			if !ok {
				clip = fillMesh(cmd.Path)
				r.clips[cmd.TargetID] = clip
			}
			r.layers = append(r.layers, imageLayer{ref: cmd.ImageRef, rect: *cmd.ImageRect, clip: clip})
		}
	}
}

// Draw renders scene onto dst. generation identifies the projected shape set.
func (r *SceneRenderer) Draw(dst *ebiten.Image, scene *overlay.Scene, generation int) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[PANIC] SceneRenderer.Draw recovered: %v\n%s", rec, debug.Stack())
		}
	}()
	if scene == nil {
		return
	}
	r.prepare(scene, generation)
	t := scene.Transform

	fillOpts := &ebiten.DrawTrianglesOptions{FillRule: ebiten.EvenOdd, AntiAlias: true}
	r.begin()
	for i := range r.shapes {
		r.push(dst, "fill", &r.shapes[i].fill, t, r.shapes[i].fillColor, fillOpts)
	}
	r.flush(dst, fillOpts)

	borderOpts := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	r.begin()
	for i := range r.shapes {
		r.push(dst, "border", &r.shapes[i].border, t, r.shapes[i].strokeColor, borderOpts)
	}
	r.flush(dst, borderOpts)

	for i := range r.layers {
		r.drawImage(dst, &r.layers[i], t)
	}
}

// drawImage paints the cover-fitted image through the target silhouette. Pixels of the clip
// that fall outside the crop sample transparent black, so slice overflow is never drawn.
func (r *SceneRenderer) drawImage(dst *ebiten.Image, layer *imageLayer, t viewport.Transform) {
	img, ok := r.images.Get(layer.ref)
	if !ok || len(layer.clip.vertices) == 0 || len(layer.clip.vertices) > maxBatchVertices {
		return
	}
	b := img.Bounds()
	crop, scale := overlay.CoverCrop(b.Dx(), b.Dy(), layer.rect)
	if scale <= 0 || crop.Empty() {
		return
	}
	src := img.SubImage(crop.Image()).(*ebiten.Image)

	r.vertices = r.vertices[:0]
	for _, v := range layer.clip.vertices {
		cx, cy := float64(v.DstX), float64(v.DstY)
		sx, sy := t.Apply(cx, cy)
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX:   float32(sx),
			DstY:   float32(sy),
			SrcX:   float32(float64(b.Min.X) + crop.X + (cx-layer.rect.X)/scale),
			SrcY:   float32(float64(b.Min.Y) + crop.Y + (cy-layer.rect.Y)/scale),
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		})
	}
	dst.DrawTriangles(r.vertices, layer.clip.indices, src, &ebiten.DrawTrianglesOptions{
		FillRule:  ebiten.EvenOdd,
		Address:   ebiten.AddressClampToZero,
		Filter:    ebiten.FilterLinear,
		AntiAlias: true,
	})
}

func (r *SceneRenderer) begin() {
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

// push appends m transformed to screen space, flushing first when the batch would overflow.
func (r *SceneRenderer) push(dst *ebiten.Image, kind string, m *mesh, t viewport.Transform, c [4]float32, opts *ebiten.DrawTrianglesOptions) {
	if len(m.vertices) == 0 {
		return
	}
	if len(m.vertices) > maxBatchVertices {
		if !r.oversize[kind] {
			r.oversize[kind] = true
			log.Printf("[RENDER] Skipping %s mesh with %d vertices", kind, len(m.vertices))
		}
		return
	}
	if len(r.vertices)+len(m.vertices) > maxBatchVertices {
		r.flush(dst, opts)
		r.begin()
	}

	base := uint16(len(r.vertices))
	for _, v := range m.vertices {
		x, y := t.Apply(float64(v.DstX), float64(v.DstY))
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			ColorR: c[0], ColorG: c[1], ColorB: c[2], ColorA: c[3],
		})
	}
	for _, idx := range m.indices {
		r.indices = append(r.indices, idx+base)
	}
}

func (r *SceneRenderer) flush(dst *ebiten.Image, opts *ebiten.DrawTrianglesOptions) {
	if len(r.vertices) == 0 || len(r.indices) == 0 {
		return
	}
	dst.DrawTriangles(r.vertices, r.indices, r.whitePixel, opts)
}

// fillMesh fans every ring from its first vertex. Drawn with the even-odd rule the fans
// reproduce the exact silhouette, holes and concavities included.
func fillMesh(mp orb.MultiPolygon) mesh {
	var m mesh
	for _, poly := range mp {
		for _, ring := range poly {
			n := len(ring)
			if n > 1 && ring[0] == ring[n-1] {
				n--
			}
			if n < 3 || len(m.vertices)+n > maxBatchVertices {
				continue
			}
			base := uint16(len(m.vertices))
			for _, pt := range ring[:n] {
				m.vertices = append(m.vertices, ebiten.Vertex{DstX: float32(pt[0]), DstY: float32(pt[1])})
			}
			for _, idx := range triangulateFan(n) {
				m.indices = append(m.indices, idx+base)
			}
		}
	}
	return m
}

// borderMesh builds one quad per ring edge, width in content units.
func borderMesh(mp orb.MultiPolygon, width float64) mesh {
	var m mesh
	half := width * 0.5
	for _, poly := range mp {
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				if len(m.vertices)+4 > maxBatchVertices {
					return m
				}
				p1, p2 := ring[i], ring[i+1]
				dx := p2[0] - p1[0]
				dy := p2[1] - p1[1]
				lengthSq := dx*dx + dy*dy
				if lengthSq < 1e-12 {
					continue
				}
				inv := 1 / math.Sqrt(lengthSq)
				nx := -dy * inv * half
				ny := dx * inv * half

				base := uint16(len(m.vertices))
				m.vertices = append(m.vertices,
					ebiten.Vertex{DstX: float32(p1[0] + nx), DstY: float32(p1[1] + ny)},
					ebiten.Vertex{DstX: float32(p1[0] - nx), DstY: float32(p1[1] - ny)},
					ebiten.Vertex{DstX: float32(p2[0] - nx), DstY: float32(p2[1] - ny)},
					ebiten.Vertex{DstX: float32(p2[0] + nx), DstY: float32(p2[1] + ny)},
				)
				m.indices = append(m.indices,
					base, base+1, base+2,
					base, base+2, base+3)
			}
		}
	}
	return m
}

// triangulateFan returns fan indices over n ring vertices.
func triangulateFan(n int) []uint16 {
	if n < 3 {
		return nil
	}
	is := make([]uint16, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	return is
}

func colorComponents(c overlay.Color) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
