package app

import (
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// PointerEventType enumerates generic pointer actions.
type PointerEventType int

const (
	PointerDown PointerEventType = iota
	PointerUp
	PointerMove
	PointerClick     // down/up pair that stayed within the move threshold
	PointerPinchZoom // scale > 1 zoom in, < 1 zoom out
	PointerWheel
)

// PointerEvent represents a unified mouse/touch action.
type PointerEvent struct {
	Type      PointerEventType
	ID        ebiten.TouchID
	Position  image.Point
	Delta     image.Point
	Scale     float64 // for pinch
	Wheel     float64 // vertical wheel delta
	IsPrimary bool
	IsMouse   bool
	Time      time.Time
}

type touchState struct {
	start   image.Point
	last    image.Point
	primary bool
	pinched bool
}

type pinchState struct {
	id1, id2 ebiten.TouchID
	lastDist float64
}

type touchSample struct {
	ID  ebiten.TouchID
	Pos image.Point
}

// pointerFrame is one poll of the raw input devices.
type pointerFrame struct {
	Focused   bool
	Mouse     image.Point
	MouseDown bool
	WheelY    float64
	Touches   []touchSample
}

// PointerInput normalizes mouse and touch input into pointer events.
type PointerInput struct {
	events          []PointerEvent
	touches         map[ebiten.TouchID]*touchState
	mouseDown       bool
	mouseStart      image.Point
	mouseLast       image.Point
	pinch           pinchState
	moveThresholdSq int
}

// NewPointerInput builds a pointer input helper with sensible defaults.
func NewPointerInput() *PointerInput {
	return &PointerInput{
		touches:         make(map[ebiten.TouchID]*touchState),
		moveThresholdSq: 64, // 8px
	}
}

// Events returns the collected pointer events for the last frame.
func (p *PointerInput) Events() []PointerEvent { return p.events }

// Update polls ebiten input APIs and emits normalized pointer events.
func (p *PointerInput) Update() {
	frame := pointerFrame{Focused: ebiten.IsFocused()}
	if frame.Focused {
		mx, my := ebiten.CursorPosition()
		frame.Mouse = image.Pt(mx, my)
		frame.MouseDown = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
		_, frame.WheelY = ebiten.Wheel()
		for _, id := range ebiten.TouchIDs() {
			tx, ty := ebiten.TouchPosition(id)
			frame.Touches = append(frame.Touches, touchSample{ID: id, Pos: image.Pt(tx, ty)})
		}
	}
	p.process(frame, time.Now())
}

func (p *PointerInput) process(frame pointerFrame, now time.Time) {
	p.events = p.events[:0]

	// Skip capturing pointer input when the window is unfocused.
	if !frame.Focused {
		p.resetState()
		return
	}

	mousePos := frame.Mouse
	if frame.WheelY != 0 {
		p.events = append(p.events, PointerEvent{Type: PointerWheel, Position: mousePos, Wheel: frame.WheelY, IsPrimary: true, IsMouse: true, Time: now})
	}

	if frame.MouseDown && !p.mouseDown {
		p.mouseDown = true
		p.mouseStart = mousePos
		p.mouseLast = mousePos
		p.events = append(p.events, PointerEvent{Type: PointerDown, Position: mousePos, IsPrimary: true, IsMouse: true, Time: now})
	}

	if p.mouseDown && frame.MouseDown {
		if mousePos != p.mouseLast {
			delta := mousePos.Sub(p.mouseLast)
			p.events = append(p.events, PointerEvent{Type: PointerMove, Position: mousePos, Delta: delta, IsPrimary: true, IsMouse: true, Time: now})
		}
		p.mouseLast = mousePos
	} else if p.mouseDown && !frame.MouseDown {
		p.events = append(p.events, PointerEvent{Type: PointerUp, Position: mousePos, IsPrimary: true, IsMouse: true, Time: now})
		if distSq(p.mouseStart, mousePos) <= p.moveThresholdSq {
			p.events = append(p.events, PointerEvent{Type: PointerClick, Position: mousePos, IsPrimary: true, IsMouse: true, Time: now})
		}
		p.mouseDown = false
	}

	// Touch pointers
	active := make(map[ebiten.TouchID]bool, len(frame.Touches))
	for _, t := range frame.Touches {
		active[t.ID] = true
		st, ok := p.touches[t.ID]
		if !ok {
			st = &touchState{start: t.Pos, last: t.Pos, primary: len(p.touches) == 0}
			p.touches[t.ID] = st
			p.events = append(p.events, PointerEvent{Type: PointerDown, ID: t.ID, Position: t.Pos, IsPrimary: st.primary, Time: now})
			continue
		}
		if t.Pos != st.last {
			delta := t.Pos.Sub(st.last)
			p.events = append(p.events, PointerEvent{Type: PointerMove, ID: t.ID, Position: t.Pos, Delta: delta, IsPrimary: st.primary && len(frame.Touches) == 1, Time: now})
			st.last = t.Pos
		}
	}

	// Touch releases
	for id, st := range p.touches {
		if active[id] {
			continue
		}
		p.events = append(p.events, PointerEvent{Type: PointerUp, ID: id, Position: st.last, IsPrimary: st.primary, Time: now})
		if st.primary && !st.pinched && distSq(st.start, st.last) <= p.moveThresholdSq {
			p.events = append(p.events, PointerEvent{Type: PointerClick, ID: id, Position: st.last, IsPrimary: true, Time: now})
		}
		delete(p.touches, id)
	}

	// Pinch zoom (use the first two touches)
	if len(frame.Touches) >= 2 {
		t1, t2 := frame.Touches[0], frame.Touches[1]
		p.touches[t1.ID].pinched = true
		p.touches[t2.ID].pinched = true
		dx, dy := float64(t2.Pos.X-t1.Pos.X), float64(t2.Pos.Y-t1.Pos.Y)
		dist := math.Hypot(dx, dy)

		if p.pinch.id1 != t1.ID || p.pinch.id2 != t2.ID {
			p.pinch = pinchState{id1: t1.ID, id2: t2.ID, lastDist: dist}
		} else if dist > 0 && p.pinch.lastDist > 0 && math.Abs(dist-p.pinch.lastDist) > 0.5 {
			scale := dist / p.pinch.lastDist
			mid := image.Pt((t1.Pos.X+t2.Pos.X)/2, (t1.Pos.Y+t2.Pos.Y)/2)
			p.events = append(p.events, PointerEvent{Type: PointerPinchZoom, ID: t1.ID, Position: mid, Scale: scale, Time: now})
			p.pinch.lastDist = dist
		} else {
			p.pinch.lastDist = dist
		}
	} else {
		p.pinch = pinchState{}
	}
}

// Reset clears all pointer state and outstanding events.
func (p *PointerInput) Reset() {
	p.resetState()
}

func (p *PointerInput) resetState() {
	p.events = p.events[:0]
	p.mouseDown = false
	p.mouseStart = image.Point{}
	p.mouseLast = image.Point{}
	p.pinch = pinchState{}

	for id := range p.touches {
		delete(p.touches, id)
	}
}

func distSq(a, b image.Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
