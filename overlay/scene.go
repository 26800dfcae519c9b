package overlay

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/paulmach/orb"

	"github.com/aldo-g/earliest-elephant/geo"
	"github.com/aldo-g/earliest-elephant/typedef"
	"github.com/aldo-g/earliest-elephant/viewport"
)

// Op identifies the kind of draw command.
type Op string

const (
	OpShape Op = "shape" // base fill and outline of one entity
	OpImage Op = "image" // image rect clipped to a target silhouette
	OpHit   Op = "hit"   // interactive region, carries the resolved record
)

// Color is an opaque RGB colour serialised as #rrggbb.
type Color color.RGBA

// ToRGBA converts back to the standard library colour type.
func (c Color) ToRGBA() color.RGBA { return color.RGBA(c) }

func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), nil
}

var (
	BaseFill           = Color{R: 0xa9, G: 0xd3, B: 0xf5, A: 0xff}
	StrokeLowContrast  = Color{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	StrokeHighContrast = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// StrokeColor picks the outline colour for the current zoom level.
func StrokeColor(k float64) Color {
	if viewport.HighContrast(k) {
		return StrokeHighContrast
	}
	return StrokeLowContrast
}

// DrawCommand is one backend-neutral step of the render pass, in content space.
type DrawCommand struct {
	Op          Op                      `json:"op"`
	TargetID    string                  `json:"target"`
	EntityID    string                  `json:"entity,omitempty"`
	Path        orb.MultiPolygon        `json:"path,omitempty"`
	Bound       orb.Bound               `json:"-"`
	Fill        *Color                  `json:"fill,omitempty"`
	Stroke      *Color                  `json:"stroke,omitempty"`
	StrokeWidth float64                 `json:"strokeWidth,omitempty"`
	ImageRef    string                  `json:"imageRef,omitempty"`
	ImageRect   *Rect                   `json:"imageRect,omitempty"`
	Record      *typedef.SightingRecord `json:"record,omitempty"`
}

// RecordSource resolves identifiers (entity ids or region keys) to sighting records.
type RecordSource interface {
	Lookup(id string) (typedef.SightingRecord, bool)
}

// SceneInput is everything the render pass depends on.
type SceneInput struct {
	Shapes    []geo.ProjectedShape
	Regions   *RegionSet
	Records   RecordSource
	Tweaks    map[string]typedef.Tweak
	Transform viewport.Transform
}

// Scene is an ordered list of draw commands: shapes, region images, entity images, hit regions.
type Scene struct {
	Commands  []DrawCommand      `json:"commands"`
	Transform viewport.Transform `json:"transform"`
	hits      []int
}

// Hit is the result of a hit test. Record is nil for inert shapes.
type Hit struct {
	EntityID string
	TargetID string
	Record   *typedef.SightingRecord
}

// BuildScene is the render pass; it has no side effects.
func BuildScene(in SceneInput) *Scene {
	scene := &Scene{Transform: in.Transform}
	lookup := func(id string) *typedef.SightingRecord {
		if in.Records == nil {
			return nil
		}
		rec, ok := in.Records.Lookup(id)
		if !ok {
			return nil
		}
		return &rec
	}

	stroke := StrokeColor(in.Transform.K)
	fill := BaseFill
	width := viewport.StrokeWidth(in.Transform.K)
	for _, s := range in.Shapes {
		scene.Commands = append(scene.Commands, DrawCommand{
			Op:          OpShape,
			TargetID:    s.ID,
			Path:        s.Path,
			Bound:       s.Bound,
			Fill:        &fill,
			Stroke:      &stroke,
			StrokeWidth: width,
		})
	}

	regionRecords := make(map[string]*typedef.SightingRecord)
	for _, r := range in.Regions.Regions() {
		rec := lookup(r.Key)
		regionRecords[r.Key] = rec
		if rec == nil {
			continue
		}
		members := in.Regions.Members(r.Key, in.Shapes)
		if len(members) == 0 {
			continue
		}
		var path orb.MultiPolygon
		for _, m := range members {
			path = append(path, m.Path...)
		}
		bound := geo.UnionBounds(members)
		scene.appendImage(r.Key, path, bound, Place(bound, r.Tweak), rec)
	}

	for _, s := range in.Shapes {
		if _, member := in.Regions.RegionOf(s.ID); member {
			continue
		}
		rec := lookup(s.ID)
		if rec == nil || len(s.Path) == 0 {
			continue
		}
		scene.appendImage(s.ID, s.Path, s.Bound, Place(s.Bound, TweakFor(s.ID, in.Tweaks)), rec)
	}

	for _, s := range in.Shapes {
		target := s.ID
		var rec *typedef.SightingRecord
		if key, member := in.Regions.RegionOf(s.ID); member {
			target = key
			rec = regionRecords[key]
		} else {
			rec = lookup(s.ID)
		}
		scene.hits = append(scene.hits, len(scene.Commands))
		scene.Commands = append(scene.Commands, DrawCommand{
			Op:       OpHit,
			TargetID: target,
			Path:     s.Path,
			Bound:    s.Bound,
			EntityID: s.ID,
			Record:   rec,
		})
	}
	return scene
}

func (s *Scene) appendImage(target string, path orb.MultiPolygon, bound orb.Bound, rect Rect, rec *typedef.SightingRecord) {
	if rec.ImageRef == "" || rect.Empty() {
		return
	}
	s.Commands = append(s.Commands, DrawCommand{
		Op:        OpImage,
		TargetID:  target,
		Path:      path,
		Bound:     bound,
		ImageRef:  rec.ImageRef,
		ImageRect: &rect,
		Record:    rec,
	})
}

// HitTest resolves a content-space point against the hit regions, frontmost first.
// ok is false when the point is over no shape at all.
func (s *Scene) HitTest(x, y float64) (Hit, bool) {
	if s == nil {
		return Hit{}, false
	}
	for i := len(s.hits) - 1; i >= 0; i-- {
		cmd := s.Commands[s.hits[i]]
		shape := geo.ProjectedShape{Path: cmd.Path, Bound: cmd.Bound}
		if shape.Contains(x, y) {
			return Hit{EntityID: cmd.EntityID, TargetID: cmd.TargetID, Record: cmd.Record}, true
		}
	}
	return Hit{}, false
}

// Images returns the image commands in paint order.
func (s *Scene) Images() []DrawCommand {
	var out []DrawCommand
	for _, c := range s.Commands {
		if c.Op == OpImage {
			out = append(out, c)
		}
	}
	return out
}

// JSON serialises the command list for inspection.
func (s *Scene) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
