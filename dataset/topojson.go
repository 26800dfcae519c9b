package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"github.com/aldo-g/earliest-elephant/typedef"
)

var ErrObjectNotFound = errors.New("topology object not found")

type topology struct {
	Type      string                     `json:"type"`
	Transform *topoTransform             `json:"transform"`
	Arcs      [][][]float64              `json:"arcs"`
	Objects   map[string]json.RawMessage `json:"objects"`
}

type topoTransform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type topoGeometry struct {
	Type       string                 `json:"type"`
	ID         json.RawMessage        `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Arcs       json.RawMessage        `json:"arcs"`
	Geometries []topoGeometry         `json:"geometries"`
}

// decodeTopology converts the named object of a TopoJSON topology to entities. A collection
// yields one entity per member geometry. With an empty name a single-object topology is used.
func decodeTopology(data []byte, object string) ([]typedef.BoundaryEntity, error) {
	var topo topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}

	raw, err := topo.object(object)
	if err != nil {
		return nil, err
	}
	var root topoGeometry
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("decode topology object %q: %w", object, err)
	}

	arcs := topo.absoluteArcs()
	var entities []typedef.BoundaryEntity
	var walk func(g topoGeometry) error
	walk = func(g topoGeometry) error {
		if g.Type == "GeometryCollection" {
			for _, child := range g.Geometries {
				if err := walk(child); err != nil {
					return err
				}
			}
			return nil
		}
		geom, err := g.multiPolygon(arcs)
		if err != nil {
			return fmt.Errorf("geometry %s: %w", featureID(g.ID), err)
		}
		name, _ := g.Properties["name"].(string)
		entities = append(entities, typedef.BoundaryEntity{
			ID:       featureID(g.ID),
			Name:     name,
			Geometry: geom,
		})
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return entities, nil
}

func (t *topology) object(name string) (json.RawMessage, error) {
	if name == "" && len(t.Objects) == 1 {
		for _, raw := range t.Objects {
			return raw, nil
		}
	}
	raw, ok := t.Objects[name]
	if !ok {
		names := make([]string, 0, len(t.Objects))
		for n := range t.Objects {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrObjectNotFound, name, strings.Join(names, ", "))
	}
	return raw, nil
}

// absoluteArcs undoes delta encoding and quantization when a transform is present.
func (t *topology) absoluteArcs() []orb.LineString {
	out := make([]orb.LineString, len(t.Arcs))
	for i, arc := range t.Arcs {
		ls := make(orb.LineString, 0, len(arc))
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t.Transform != nil {
				x += pos[0]
				y += pos[1]
				ls = append(ls, orb.Point{
					x*t.Transform.Scale[0] + t.Transform.Translate[0],
					y*t.Transform.Scale[1] + t.Transform.Translate[1],
				})
				continue
			}
			ls = append(ls, orb.Point{pos[0], pos[1]})
		}
		out[i] = ls
	}
	return out
}

func (g topoGeometry) multiPolygon(arcs []orb.LineString) (orb.MultiPolygon, error) {
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil, err
		}
		poly, err := stitchPolygon(rings, arcs)
		if err != nil {
			return nil, err
		}
		if len(poly) == 0 {
			return orb.MultiPolygon{}, nil
		}
		return orb.MultiPolygon{poly}, nil
	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return nil, err
		}
		mp := make(orb.MultiPolygon, 0, len(polys))
		for _, rings := range polys {
			poly, err := stitchPolygon(rings, arcs)
			if err != nil {
				return nil, err
			}
			if len(poly) > 0 {
				mp = append(mp, poly)
			}
		}
		return mp, nil
	default:
		// Null geometries and non-areal types have no silhouette.
		return orb.MultiPolygon{}, nil
	}
}

func stitchPolygon(rings [][]int, arcs []orb.LineString) (orb.Polygon, error) {
	poly := make(orb.Polygon, 0, len(rings))
	for _, refs := range rings {
		var ring orb.Ring
		for _, ref := range refs {
			idx, reversed := ref, false
			if ref < 0 {
				idx, reversed = ^ref, true
			}
			if idx >= len(arcs) {
				return nil, fmt.Errorf("arc index %d out of range", idx)
			}
			arc := arcs[idx]
			for j := range arc {
				k := j
				if reversed {
					k = len(arc) - 1 - j
				}
				// Consecutive arcs share their joining point.
				if j == 0 && len(ring) > 0 {
					continue
				}
				ring = append(ring, arc[k])
			}
		}
		if len(ring) < 4 {
			continue
		}
		poly = append(poly, ring)
	}
	return poly, nil
}

// featureID accepts string or numeric identifiers; a missing id becomes "".
func featureID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
