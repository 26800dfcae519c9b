package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)
	s, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(s.SightingsPath, qt.Equals, "data/elephant-data.json")
	c.Assert(s.TopologyObject, qt.Equals, "countries")
	c.Assert(s.WindowWidth, qt.Equals, 1600)
	c.Assert(s.WindowHeight, qt.Equals, 900)
	c.Assert(s.ResizeDebounce, qt.Equals, 150*time.Millisecond)
	c.Assert(s.ScriptTimeout, qt.Equals, 5*time.Second)
	c.Assert(s.OverlayConfig, qt.Equals, "")
	c.Assert(s.AssetDir, qt.Equals, "public")
}

func TestLoadOverrides(t *testing.T) {
	c := qt.New(t)
	c.Setenv("EEMAP_WORLD_PATH", "https://example.org/world.json")
	c.Setenv("EEMAP_RESIZE_DEBOUNCE", "300ms")
	c.Setenv("EEMAP_API_ADDR", "")
	c.Setenv("EEMAP_WINDOW_WIDTH", "800")

	s, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(s.WorldPath, qt.Equals, "https://example.org/world.json")
	c.Assert(s.ResizeDebounce, qt.Equals, 300*time.Millisecond)
	c.Assert(s.APIAddr, qt.Equals, "")
	c.Assert(s.WindowWidth, qt.Equals, 800)
}

func TestLoadRejectsBadValues(t *testing.T) {
	c := qt.New(t)
	c.Setenv("EEMAP_WINDOW_HEIGHT", "0")
	_, err := Load()
	c.Assert(err, qt.ErrorMatches, `window size 1600x0 must be positive`)

	c.Setenv("EEMAP_WINDOW_HEIGHT", "tall")
	_, err = Load()
	c.Assert(err, qt.Not(qt.IsNil))
}
