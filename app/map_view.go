package app

import (
	"log"
	"time"

	"github.com/aldo-g/earliest-elephant/config"
	"github.com/aldo-g/earliest-elephant/dataset"
	"github.com/aldo-g/earliest-elephant/geo"
	"github.com/aldo-g/earliest-elephant/metrics"
	"github.com/aldo-g/earliest-elephant/overlay"
	"github.com/aldo-g/earliest-elephant/typedef"
	"github.com/aldo-g/earliest-elephant/viewport"

	"github.com/hajimehoshi/ebiten/v2"
)

// RecordSink receives the record a click resolved to.
type RecordSink interface {
	RecordSelected(rec typedef.SightingRecord)
}

const (
	keyZoomFactor = 1.5
	keyPanStep    = 40.0
)

// MapView is the interactive session: projected shapes, the pan/zoom transform and the
// current draw command list. Only the game loop touches it.
type MapView struct {
	entities []typedef.BoundaryEntity
	records  *dataset.Index
	regions  *overlay.RegionSet
	tweaks   map[string]typedef.Tweak
	keys     typedef.Keybinds

	debounce      time.Duration
	sized         bool
	width, height int
	pending       bool
	pendingW      int
	pendingH      int
	pendingAt     time.Time

	projector   *geo.Projector
	shapes      []geo.ProjectedShape
	generation  int // bumped whenever shapes are re-projected
	transform   viewport.Transform
	constraints viewport.Constraints

	scene  *overlay.Scene
	sceneK float64
	dirty  bool

	sinks    []RecordSink
	pointer  *PointerInput
	hover    overlay.Hit
	hovering bool
}

// NewMapView binds loaded datasets to the overlay configuration. The view stays degenerate
// until the first Resize.
func NewMapView(res *dataset.Result, ov config.Overlay, debounce time.Duration) *MapView {
	m := &MapView{
		regions:   overlay.NewRegionSet(ov.Regions),
		tweaks:    ov.Tweaks,
		keys:      ov.Keybinds,
		debounce:  debounce,
		transform: viewport.Identity(),
		pointer:   NewPointerInput(),
	}
	if res != nil {
		m.entities = res.Entities
		m.records = res.Records
	}
	typedef.NormalizeKeybinds(&m.keys)
	return m
}

// AddSink registers a receiver for resolved clicks.
func (m *MapView) AddSink(s RecordSink) {
	if s != nil {
		m.sinks = append(m.sinks, s)
	}
}

// Resize records a new viewport size. Until a usable size has been applied it takes effect
// immediately; afterwards bursts settle for the debounce interval first.
func (m *MapView) Resize(w, h int, now time.Time) {
	if m.projector == nil {
		if !m.sized || w != m.width || h != m.height {
			m.apply(w, h)
		}
		return
	}
	if w == m.width && h == m.height {
		m.pending = false
		return
	}
	if m.pending && w == m.pendingW && h == m.pendingH {
		return
	}
	m.pending = true
	m.pendingW, m.pendingH = w, h
	m.pendingAt = now
}

// Tick applies a pending resize once it has been stable long enough.
func (m *MapView) Tick(now time.Time) {
	if m.pending && now.Sub(m.pendingAt) >= m.debounce {
		m.pending = false
		m.apply(m.pendingW, m.pendingH)
	}
}

func (m *MapView) apply(w, h int) {
	m.sized = true
	m.width, m.height = w, h
	m.generation++
	m.dirty = true

	p, ok := geo.NewProjector(w, h)
	if !ok {
		m.projector = nil
		m.shapes = nil
		m.scene = nil
		m.hovering = false
		return
	}
	m.projector = p
	m.shapes = p.ProjectEntities(m.entities)
	m.constraints = viewport.DefaultConstraints(w, h)
	m.transform = viewport.Constrain(m.transform, m.constraints)
	log.Printf("[MAP] Projected %d shapes for %dx%d", len(m.shapes), w, h)
}

// Degenerate reports a zero-area viewport; the placeholder is shown instead of the map.
func (m *MapView) Degenerate() bool { return m.projector == nil }

func (m *MapView) Size() (int, int) { return m.width, m.height }

func (m *MapView) Transform() viewport.Transform { return m.transform }

func (m *MapView) Generation() int { return m.generation }

// ApplyGesture folds one gesture into the transform.
func (m *MapView) ApplyGesture(g viewport.Gesture) {
	if m.projector == nil {
		return
	}
	m.transform = viewport.Reduce(m.transform, g, m.constraints)
}

// Scene returns the current draw command list, rebuilding it when shapes changed or the
// zoom level moved. Translation alone never forces a rebuild.
func (m *MapView) Scene() *overlay.Scene {
	if m.projector == nil {
		return nil
	}
	if m.scene == nil || m.dirty || m.sceneK != m.transform.K {
		m.scene = overlay.BuildScene(overlay.SceneInput{
			Shapes:    m.shapes,
			Regions:   m.regions,
			Records:   m.records,
			Tweaks:    m.tweaks,
			Transform: m.transform,
		})
		m.sceneK = m.transform.K
		m.dirty = false
		metrics.SceneRebuildsTotal.Inc()
	}
	m.scene.Transform = m.transform
	return m.scene
}

// HitAt resolves a screen point to the frontmost shape under it.
func (m *MapView) HitAt(x, y float64) (overlay.Hit, bool) {
	scene := m.Scene()
	if scene == nil {
		return overlay.Hit{}, false
	}
	cx, cy := m.transform.Invert(x, y)
	return scene.HitTest(cx, cy)
}

// Click dispatches the record under a screen point to every sink, once. It reports whether a
// record was found.
func (m *MapView) Click(x, y float64) bool {
	hit, ok := m.HitAt(x, y)
	switch {
	case !ok:
		metrics.ClicksTotal.WithLabelValues(metrics.ClickMiss).Inc()
		return false
	case hit.Record == nil:
		metrics.ClicksTotal.WithLabelValues(metrics.ClickInert).Inc()
		return false
	}
	metrics.ClicksTotal.WithLabelValues(metrics.ClickRecord).Inc()
	rec := *hit.Record
	for _, s := range m.sinks {
		s.RecordSelected(rec)
	}
	return true
}

// HandleEvents turns pointer events into gestures and clicks.
func (m *MapView) HandleEvents(events []PointerEvent) {
	for _, e := range events {
		x, y := float64(e.Position.X), float64(e.Position.Y)
		switch e.Type {
		case PointerMove:
			if e.IsPrimary {
				m.ApplyGesture(viewport.Pan{DX: float64(e.Delta.X), DY: float64(e.Delta.Y)})
			}
		case PointerPinchZoom:
			m.ApplyGesture(viewport.Zoom{Factor: e.Scale, AnchorX: x, AnchorY: y})
		case PointerWheel:
			m.ApplyGesture(viewport.Zoom{Factor: viewport.WheelFactor(e.Wheel), AnchorX: x, AnchorY: y})
		case PointerClick:
			m.Click(x, y)
		}
	}
}

// handleKeys applies keyboard zoom, reset and pan.
func (m *MapView) handleKeys() {
	cx, cy := float64(m.width)/2, float64(m.height)/2
	if bindingJustPressed(m.keys.ZoomIn) {
		m.ApplyGesture(viewport.Zoom{Factor: keyZoomFactor, AnchorX: cx, AnchorY: cy})
	}
	if bindingJustPressed(m.keys.ZoomOut) {
		m.ApplyGesture(viewport.Zoom{Factor: 1 / keyZoomFactor, AnchorX: cx, AnchorY: cy})
	}
	if bindingJustPressed(m.keys.ResetView) {
		m.ApplyGesture(viewport.Reset{})
	}

	var dx, dy float64
	if bindingRepeated(m.keys.PanLeft) {
		dx += keyPanStep
	}
	if bindingRepeated(m.keys.PanRight) {
		dx -= keyPanStep
	}
	if bindingRepeated(m.keys.PanUp) {
		dy += keyPanStep
	}
	if bindingRepeated(m.keys.PanDown) {
		dy -= keyPanStep
	}
	if dx != 0 || dy != 0 {
		m.ApplyGesture(viewport.Pan{DX: dx, DY: dy})
	}
}

// updateHover tracks the shape under the cursor for the pointer cursor.
func (m *MapView) updateHover(x, y int) {
	m.hover, m.hovering = m.HitAt(float64(x), float64(y))
}

// Interactive reports whether the cursor is over a shape that would open a story.
func (m *MapView) Interactive() bool {
	return m.hovering && m.hover.Record != nil
}

// Update runs one frame of interaction. Input is ignored while inputEnabled is false (a modal
// panel owns it) but debounced resizes still settle.
func (m *MapView) Update(now time.Time, inputEnabled bool) {
	m.Tick(now)
	if !inputEnabled || m.projector == nil {
		m.pointer.Reset()
		m.hovering = false
		return
	}

	m.pointer.Update()
	m.HandleEvents(m.pointer.Events())
	m.handleKeys()

	if usingTouch() {
		m.hovering = false
	} else {
		m.updateHover(primaryPointerPosition())
	}
	if m.Interactive() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}
