package dataset

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/paulmach/orb"
)

// Two unit squares sharing the edge x=1. Arc 0 is the shared edge, written once and
// referenced reversed by the second square.
const quantizedTopology = `{
  "type": "Topology",
  "transform": {"scale": [0.5, 0.5], "translate": [10, 20]},
  "arcs": [
    [[2, 0], [0, 2]],
    [[2, 2], [-2, 0], [0, -2], [2, 0]],
    [[2, 0], [2, 0], [0, 2], [-2, 0]]
  ],
  "objects": {
    "countries": {
      "type": "GeometryCollection",
      "geometries": [
        {"type": "Polygon", "id": "036", "properties": {"name": "West"}, "arcs": [[0, 1]]},
        {"type": "MultiPolygon", "id": 124, "arcs": [[[2, -1]]]},
        {"type": null}
      ]
    }
  }
}`

func TestDecodeTopologyQuantized(t *testing.T) {
	c := qt.New(t)
	entities, err := DecodeBoundaries([]byte(quantizedTopology), "countries")
	c.Assert(err, qt.IsNil)
	c.Assert(entities, qt.HasLen, 3)

	west := entities[0]
	c.Assert(west.ID, qt.Equals, "036")
	c.Assert(west.Name, qt.Equals, "West")
	c.Assert(west.Geometry, qt.DeepEquals, orb.MultiPolygon{{{
		{11, 20}, {11, 21}, {10, 21}, {10, 20}, {11, 20},
	}}})

	east := entities[1]
	c.Assert(east.ID, qt.Equals, "124")
	c.Assert(east.Name, qt.Equals, "")
	c.Assert(east.Geometry, qt.DeepEquals, orb.MultiPolygon{{{
		{11, 20}, {12, 20}, {12, 21}, {11, 21}, {11, 20},
	}}})

	c.Assert(entities[2].ID, qt.Equals, "")
	c.Assert(entities[2].Geometry, qt.HasLen, 0)
}

func TestDecodeTopologyUnquantized(t *testing.T) {
	c := qt.New(t)
	doc := `{"type":"Topology","arcs":[[[0,0],[4,0],[4,3],[0,0]]],
	  "objects":{"land":{"type":"Polygon","id":"1","arcs":[[0]]}}}`

	entities, err := DecodeBoundaries([]byte(doc), "")
	c.Assert(err, qt.IsNil)
	c.Assert(entities, qt.HasLen, 1)
	c.Assert(entities[0].Geometry[0][0], qt.DeepEquals, orb.Ring{{0, 0}, {4, 0}, {4, 3}, {0, 0}})
}

func TestDecodeTopologyErrors(t *testing.T) {
	c := qt.New(t)

	_, err := DecodeBoundaries([]byte(quantizedTopology), "land")
	c.Assert(errors.Is(err, ErrObjectNotFound), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `.*"land" \(available: countries\)`)

	bad := `{"type":"Topology","arcs":[],"objects":{"x":{"type":"Polygon","arcs":[[3]]}}}`
	_, err = DecodeBoundaries([]byte(bad), "x")
	c.Assert(err, qt.ErrorMatches, `geometry : arc index 3 out of range`)

	_, err = DecodeBoundaries([]byte(`{"type":"Point","coordinates":[0,0]}`), "")
	c.Assert(err, qt.ErrorMatches, `decode boundaries: unsupported document type "Point"`)

	_, err = DecodeBoundaries([]byte(`not json`), "")
	c.Assert(err, qt.ErrorMatches, `decode boundaries: .*`)
}

func TestDecodeFeatureCollection(t *testing.T) {
	c := qt.New(t)
	doc := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","id":"356","properties":{"name":"India"},
	   "geometry":{"type":"Polygon","coordinates":[[[70,10],[80,10],[80,20],[70,10]]]}},
	  {"type":"Feature","id":764,"properties":{},
	   "geometry":{"type":"MultiPolygon","coordinates":[[[[100,10],[101,10],[101,11],[100,10]]],[[[102,10],[103,10],[103,11],[102,10]]]]}}
	]}`

	entities, err := DecodeBoundaries([]byte(doc), "ignored")
	c.Assert(err, qt.IsNil)
	c.Assert(entities, qt.HasLen, 2)
	c.Assert(entities[0].ID, qt.Equals, "356")
	c.Assert(entities[0].Name, qt.Equals, "India")
	c.Assert(entities[0].Geometry, qt.HasLen, 1)
	c.Assert(entities[1].ID, qt.Equals, "764")
	c.Assert(entities[1].Geometry, qt.HasLen, 2)
}
