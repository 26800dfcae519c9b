package app

import (
	"image"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/paulmach/orb"

	"github.com/aldo-g/earliest-elephant/config"
	"github.com/aldo-g/earliest-elephant/dataset"
	"github.com/aldo-g/earliest-elephant/geo"
	"github.com/aldo-g/earliest-elephant/typedef"
	"github.com/aldo-g/earliest-elephant/viewport"
)

type recordingSink struct {
	got []typedef.SightingRecord
}

func (s *recordingSink) RecordSelected(rec typedef.SightingRecord) {
	s.got = append(s.got, rec)
}

func lonLatSquare(lon0, lat0, lon1, lat1 float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		{lon0, lat0}, {lon1, lat0}, {lon1, lat1}, {lon0, lat1}, {lon0, lat0},
	}}}
}

func testResult() *dataset.Result {
	return &dataset.Result{
		Entities: []typedef.BoundaryEntity{
			{ID: "356", Name: "India", Geometry: lonLatSquare(70, 10, 90, 30)},
			{ID: "124", Name: "Canada", Geometry: lonLatSquare(-120, 45, -80, 65)},
			{ID: "250", Name: "France", Geometry: lonLatSquare(0, 43, 6, 50)},
		},
		Records: dataset.NewIndex([]typedef.SightingRecord{
			{ID: "ASIA_ELEPHANT_REGION", ElephantName: "Hanno", DisplayName: "Asia", Story: []string{"one"}},
			{ID: "124", ElephantName: "Jumbo", DisplayName: "Canada", ArrivalYear: 1882, Story: []string{"two"}},
		}),
	}
}

// screenPoint projects lon/lat and applies the current view transform.
func screenPoint(c *qt.C, m *MapView, lon, lat float64) (float64, float64) {
	w, h := m.Size()
	p, ok := geo.NewProjector(w, h)
	c.Assert(ok, qt.IsTrue)
	pt := p.Point(orb.Point{lon, lat})
	return m.Transform().Apply(pt[0], pt[1])
}

func TestResizeAppliesFirstSizeThenDebounces(t *testing.T) {
	c := qt.New(t)
	m := NewMapView(testResult(), config.DefaultOverlay(), 150*time.Millisecond)
	t0 := time.Unix(1000, 0)

	m.Resize(1200, 600, t0)
	w, h := m.Size()
	c.Assert([2]int{w, h}, qt.Equals, [2]int{1200, 600})
	c.Assert(m.Degenerate(), qt.IsFalse)
	gen := m.Generation()

	m.Resize(800, 400, t0.Add(10*time.Millisecond))
	m.Tick(t0.Add(100 * time.Millisecond))
	w, _ = m.Size()
	c.Assert(w, qt.Equals, 1200)

	// A new size restarts the wait.
	m.Resize(900, 450, t0.Add(120*time.Millisecond))
	m.Tick(t0.Add(200 * time.Millisecond))
	w, _ = m.Size()
	c.Assert(w, qt.Equals, 1200)

	m.Tick(t0.Add(270 * time.Millisecond))
	w, h = m.Size()
	c.Assert([2]int{w, h}, qt.Equals, [2]int{900, 450})
	c.Assert(m.Generation(), qt.Equals, gen+1)
}

func TestResizeBackToCurrentCancelsPending(t *testing.T) {
	c := qt.New(t)
	m := NewMapView(testResult(), config.DefaultOverlay(), 150*time.Millisecond)
	t0 := time.Unix(1000, 0)
	m.Resize(1200, 600, t0)
	gen := m.Generation()

	m.Resize(800, 400, t0)
	m.Resize(1200, 600, t0.Add(50*time.Millisecond))
	m.Tick(t0.Add(time.Second))
	c.Assert(m.Generation(), qt.Equals, gen)
}

func TestDegenerateViewportShowsPlaceholder(t *testing.T) {
	c := qt.New(t)
	m := NewMapView(testResult(), config.DefaultOverlay(), 150*time.Millisecond)
	now := time.Unix(1000, 0)

	m.Resize(0, 0, now)
	c.Assert(m.Degenerate(), qt.IsTrue)
	c.Assert(m.Scene(), qt.IsNil)
	c.Assert(m.Click(10, 10), qt.IsFalse)

	// Leaving the degenerate state does not wait for the debounce.
	m.Resize(1200, 600, now.Add(time.Millisecond))
	c.Assert(m.Degenerate(), qt.IsFalse)
	c.Assert(m.Scene(), qt.Not(qt.IsNil))
}

func TestClickDispatchesResolvedRecord(t *testing.T) {
	c := qt.New(t)
	m := NewMapView(testResult(), config.DefaultOverlay(), 0)
	m.Resize(1200, 600, time.Now())
	a, b := &recordingSink{}, &recordingSink{}
	m.AddSink(a)
	m.AddSink(b)

	// India is a member of the Asia region, so it opens the region record.
	x, y := screenPoint(c, m, 80, 20)
	c.Assert(m.Click(x, y), qt.IsTrue)
	c.Assert(a.got, qt.HasLen, 1)
	c.Assert(a.got[0].ID, qt.Equals, "ASIA_ELEPHANT_REGION")
	c.Assert(b.got, qt.HasLen, 1)

	x, y = screenPoint(c, m, -100, 55)
	c.Assert(m.Click(x, y), qt.IsTrue)
	c.Assert(a.got[1].ElephantName, qt.Equals, "Jumbo")

	// France has no record; the ocean has no shape.
	x, y = screenPoint(c, m, 3, 46)
	c.Assert(m.Click(x, y), qt.IsFalse)
	x, y = screenPoint(c, m, -30, 0)
	c.Assert(m.Click(x, y), qt.IsFalse)
	c.Assert(a.got, qt.HasLen, 2)
}

func TestClickFollowsTransform(t *testing.T) {
	c := qt.New(t)
	m := NewMapView(testResult(), config.DefaultOverlay(), 0)
	m.Resize(1200, 600, time.Now())
	sink := &recordingSink{}
	m.AddSink(sink)

	m.ApplyGesture(viewport.Zoom{Factor: 4, AnchorX: 300, AnchorY: 200})
	x, y := screenPoint(c, m, -100, 55)
	c.Assert(m.Click(x, y), qt.IsTrue)
	c.Assert(sink.got[0].ID, qt.Equals, "124")
}

func TestHandleEventsWheelPanAndClick(t *testing.T) {
	c := qt.New(t)
	m := NewMapView(testResult(), config.DefaultOverlay(), 0)
	m.Resize(1200, 600, time.Now())
	sink := &recordingSink{}
	m.AddSink(sink)

	m.HandleEvents([]PointerEvent{{Type: PointerWheel, Position: image.Pt(600, 300), Wheel: 4}})
	c.Assert(m.Transform(), qt.Equals, viewport.Transform{X: -600, Y: -300, K: 2})

	m.HandleEvents([]PointerEvent{{Type: PointerMove, Delta: image.Pt(100, 50), IsPrimary: true}})
	c.Assert(m.Transform(), qt.Equals, viewport.Transform{X: -500, Y: -250, K: 2})

	// Secondary touches never pan.
	m.HandleEvents([]PointerEvent{{Type: PointerMove, Delta: image.Pt(100, 50)}})
	c.Assert(m.Transform().X, qt.Equals, -500.0)

	x, y := screenPoint(c, m, 80, 20)
	m.HandleEvents([]PointerEvent{{Type: PointerClick, Position: image.Pt(int(x), int(y)), IsPrimary: true}})
	c.Assert(sink.got, qt.HasLen, 1)
}

func TestSceneRebuildsOnlyOnZoom(t *testing.T) {
	c := qt.New(t)
	m := NewMapView(testResult(), config.DefaultOverlay(), 0)
	m.Resize(1200, 600, time.Now())

	s1 := m.Scene()
	m.ApplyGesture(viewport.Zoom{Factor: 2, AnchorX: 600, AnchorY: 300})
	s2 := m.Scene()
	c.Assert(s2 == s1, qt.IsFalse)

	m.ApplyGesture(viewport.Pan{DX: 30, DY: -10})
	s3 := m.Scene()
	c.Assert(s3 == s2, qt.IsTrue)
	c.Assert(s3.Transform, qt.Equals, m.Transform())
}
