package geo

import (
	"math"

	"github.com/aldo-g/earliest-elephant/typedef"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// MaxLatitude bounds the square Mercator world; rings that touch the poles are clamped to it.
const MaxLatitude = 85.05112878

// Projector maps lon/lat geometry onto a W x H pixel canvas using a Mercator projection
// scaled to W/6 and translated to (W/2, H/1.5). It depends on the viewport size only.
type Projector struct {
	width  int
	height int
	k      float64
	tx     float64
	ty     float64
}

// ProjectedShape is an entity's silhouette in content (pixel) space.
type ProjectedShape struct {
	ID    string
	Name  string
	Path  orb.MultiPolygon
	Bound orb.Bound
}

// NewProjector returns false for a degenerate viewport; callers should wait for a valid size.
func NewProjector(width, height int) (*Projector, bool) {
	if width <= 0 || height <= 0 {
		return nil, false
	}
	return &Projector{
		width:  width,
		height: height,
		k:      float64(width) / 6,
		tx:     float64(width) / 2,
		ty:     float64(height) / 1.5,
	}, true
}

// Size returns the viewport dimensions the projector was built for.
func (p *Projector) Size() (int, int) {
	return p.width, p.height
}

// Point projects a single lon/lat coordinate to pixels.
func (p *Projector) Point(pt orb.Point) orb.Point {
	lat := pt[1]
	if lat > MaxLatitude {
		lat = MaxLatitude
	} else if lat < -MaxLatitude {
		lat = -MaxLatitude
	}
	m := project.WGS84.ToMercator(orb.Point{pt[0], lat})
	return orb.Point{
		p.tx + p.k*m[0]/orb.EarthRadius,
		p.ty - p.k*m[1]/orb.EarthRadius,
	}
}

func (p *Projector) ring(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, pt := range r {
		out[i] = p.Point(pt)
	}
	return out
}

// Project returns a projected copy of mp; the input is left untouched.
func (p *Projector) Project(mp orb.MultiPolygon) orb.MultiPolygon {
	out := make(orb.MultiPolygon, 0, len(mp))
	for _, poly := range mp {
		pp := make(orb.Polygon, 0, len(poly))
		for _, r := range poly {
			pp = append(pp, p.ring(r))
		}
		out = append(out, pp)
	}
	return out
}

// Bounds returns the pixel bounding box of a lon/lat geometry. Collections produce the
// union of their members' bounds. An empty geometry yields the zero Bound.
func (p *Projector) Bounds(g orb.Geometry) orb.Bound {
	var acc boundAccumulator
	p.visit(g, &acc)
	return acc.bound
}

func (p *Projector) visit(g orb.Geometry, acc *boundAccumulator) {
	switch v := g.(type) {
	case nil:
	case orb.Point:
		acc.add(p.Point(v))
	case orb.MultiPoint:
		for _, pt := range v {
			acc.add(p.Point(pt))
		}
	case orb.LineString:
		for _, pt := range v {
			acc.add(p.Point(pt))
		}
	case orb.MultiLineString:
		for _, ls := range v {
			p.visit(ls, acc)
		}
	case orb.Ring:
		for _, pt := range v {
			acc.add(p.Point(pt))
		}
	case orb.Polygon:
		// The outer ring bounds the polygon; holes cannot extend it.
		if len(v) > 0 {
			p.visit(v[0], acc)
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			p.visit(poly, acc)
		}
	case orb.Collection:
		for _, child := range v {
			p.visit(child, acc)
		}
	case orb.Bound:
		acc.add(p.Point(v.Min))
		acc.add(p.Point(v.Max))
	}
}

// ProjectEntities projects every entity, preserving dataset order.
func (p *Projector) ProjectEntities(entities []typedef.BoundaryEntity) []ProjectedShape {
	shapes := make([]ProjectedShape, 0, len(entities))
	for _, e := range entities {
		path := p.Project(e.Geometry)
		shapes = append(shapes, ProjectedShape{
			ID:    e.ID,
			Name:  e.Name,
			Path:  path,
			Bound: PathBound(path),
		})
	}
	return shapes
}

// PathBound is the bounding box of an already projected path.
func PathBound(mp orb.MultiPolygon) orb.Bound {
	var acc boundAccumulator
	for _, poly := range mp {
		if len(poly) == 0 {
			continue
		}
		for _, pt := range poly[0] {
			acc.add(pt)
		}
	}
	return acc.bound
}

// UnionBounds merges projected shape bounds, skipping shapes with no geometry.
func UnionBounds(shapes []ProjectedShape) orb.Bound {
	var acc boundAccumulator
	for _, s := range shapes {
		if len(s.Path) == 0 {
			continue
		}
		acc.add(s.Bound.Min)
		acc.add(s.Bound.Max)
	}
	return acc.bound
}

// Contains reports whether the content-space point lies inside the silhouette.
func (s ProjectedShape) Contains(x, y float64) bool {
	if len(s.Path) == 0 {
		return false
	}
	pt := orb.Point{x, y}
	if !s.Bound.Contains(pt) {
		return false
	}
	return planar.MultiPolygonContains(s.Path, pt)
}

type boundAccumulator struct {
	bound orb.Bound
	set   bool
}

func (a *boundAccumulator) add(pt orb.Point) {
	if math.IsNaN(pt[0]) || math.IsNaN(pt[1]) {
		return
	}
	if !a.set {
		a.bound = orb.Bound{Min: pt, Max: pt}
		a.set = true
		return
	}
	a.bound = a.bound.Extend(pt)
}
