package geo

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/paulmach/orb"

	"github.com/aldo-g/earliest-elephant/typedef"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func square(lon0, lat0, lon1, lat1 float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		{lon0, lat0}, {lon1, lat0}, {lon1, lat1}, {lon0, lat1}, {lon0, lat0},
	}}}
}

func TestNewProjectorDegenerate(t *testing.T) {
	c := qt.New(t)
	for _, size := range [][2]int{{0, 100}, {100, 0}, {-1, -1}} {
		p, ok := NewProjector(size[0], size[1])
		c.Assert(ok, qt.IsFalse)
		c.Assert(p, qt.IsNil)
	}
}

func TestProjectorOriginAndAntimeridian(t *testing.T) {
	c := qt.New(t)
	p, ok := NewProjector(1200, 600)
	c.Assert(ok, qt.IsTrue)

	o := p.Point(orb.Point{0, 0})
	c.Assert(near(o[0], 600), qt.IsTrue, qt.Commentf("x=%v", o[0]))
	c.Assert(near(o[1], 400), qt.IsTrue, qt.Commentf("y=%v", o[1]))

	e := p.Point(orb.Point{180, 0})
	c.Assert(near(e[0], 600+200*math.Pi), qt.IsTrue, qt.Commentf("x=%v", e[0]))

	// Northern latitudes go up the screen.
	n := p.Point(orb.Point{0, 45})
	c.Assert(n[1] < o[1], qt.IsTrue)
	c.Assert(near(n[1], 400-200*math.Log(math.Tan(math.Pi/4+math.Pi/8))), qt.IsTrue)
}

func TestProjectorClampsPoles(t *testing.T) {
	c := qt.New(t)
	p, _ := NewProjector(600, 300)
	pole := p.Point(orb.Point{10, 90})
	edge := p.Point(orb.Point{10, MaxLatitude})
	c.Assert(math.IsInf(pole[1], 0) || math.IsNaN(pole[1]), qt.IsFalse)
	c.Assert(near(pole[1], edge[1]), qt.IsTrue)

	south := p.Point(orb.Point{10, -90})
	c.Assert(near(south[1], p.Point(orb.Point{10, -MaxLatitude})[1]), qt.IsTrue)
}

func TestProjectIsDeterministicAndLeavesInput(t *testing.T) {
	c := qt.New(t)
	in := square(-10, -10, 10, 10)
	orig := square(-10, -10, 10, 10)

	a, _ := NewProjector(800, 400)
	b, _ := NewProjector(800, 400)
	c.Assert(a.Project(in), qt.DeepEquals, b.Project(in))
	c.Assert(in, qt.DeepEquals, orig)
}

func TestBoundsCollectionIsUnion(t *testing.T) {
	c := qt.New(t)
	p, _ := NewProjector(600, 300)

	left := square(-20, 0, -10, 10)
	right := square(30, -5, 40, 5)
	union := p.Bounds(orb.Collection{left, right})

	lb := p.Bounds(left)
	rb := p.Bounds(right)
	c.Assert(union.Min[0], qt.Equals, lb.Min[0])
	c.Assert(union.Max[0], qt.Equals, rb.Max[0])
	c.Assert(union.Min[1], qt.Equals, math.Min(lb.Min[1], rb.Min[1]))
	c.Assert(union.Max[1], qt.Equals, math.Max(lb.Max[1], rb.Max[1]))

	c.Assert(p.Bounds(orb.Collection{}), qt.Equals, orb.Bound{})
}

func TestProjectEntitiesAndContains(t *testing.T) {
	c := qt.New(t)
	p, _ := NewProjector(600, 300)
	shapes := p.ProjectEntities([]typedef.BoundaryEntity{
		{ID: "A", Name: "Alpha", Geometry: square(-10, -10, 10, 10)},
		{ID: "B", Name: "Empty"},
	})
	c.Assert(shapes, qt.HasLen, 2)
	c.Assert(shapes[0].ID, qt.Equals, "A")
	c.Assert(shapes[0].Bound, qt.Equals, p.Bounds(square(-10, -10, 10, 10)))

	centre := p.Point(orb.Point{0, 0})
	c.Assert(shapes[0].Contains(centre[0], centre[1]), qt.IsTrue)
	far := p.Point(orb.Point{50, 50})
	c.Assert(shapes[0].Contains(far[0], far[1]), qt.IsFalse)
	c.Assert(shapes[1].Contains(centre[0], centre[1]), qt.IsFalse)

	c.Assert(UnionBounds(shapes), qt.Equals, shapes[0].Bound)
}
