package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/aldo-g/earliest-elephant/typedef"
)

func TestDefaultOverlay(t *testing.T) {
	c := qt.New(t)
	o := DefaultOverlay()
	c.Assert(o.Regions, qt.HasLen, 2)
	c.Assert(o.Regions[0].Key, qt.Equals, "AFRICA_CONTINENT")
	c.Assert(o.Regions[0].Members, qt.HasLen, 51)
	c.Assert(o.Regions[1].Key, qt.Equals, "ASIA_ELEPHANT_REGION")
	c.Assert(o.Regions[1].Members, qt.HasLen, 13)
	c.Assert(o.Tweaks["124"], qt.Equals, typedef.Tweak{ScaleFactor: 1.8, YOffsetPercent: 0.55})
	c.Assert(o.Tweaks["036"], qt.Equals, typedef.Tweak{ScaleFactor: 1})

	// Callers get their own copy.
	o.Regions[1].Members[0] = "changed"
	c.Assert(DefaultOverlay().Regions[1].Members[0], qt.Equals, "050")
}

func writeFile(c *qt.C, name, content string) string {
	path := filepath.Join(c.TempDir(), name)
	c.Assert(os.WriteFile(path, []byte(content), 0o644), qt.IsNil)
	return path
}

func TestLoadOverlayJSON(t *testing.T) {
	c := qt.New(t)
	path := writeFile(c, "overlay.json", `{
	  "regions": [{"key": "EUROPE", "members": ["250", "276"], "tweak": {"scaleFactor": 1.2, "yOffsetPercent": 0.1}}],
	  "keybinds": {"zoomIn": "+", "resetView": "not-a-key"}
	}`)

	o, err := LoadOverlay(context.Background(), path, time.Second)
	c.Assert(err, qt.IsNil)
	c.Assert(o.Regions, qt.DeepEquals, []typedef.Region{{
		Key: "EUROPE", Members: []string{"250", "276"},
		Tweak: typedef.Tweak{ScaleFactor: 1.2, YOffsetPercent: 0.1},
	}})
	c.Assert(o.Tweaks, qt.DeepEquals, DefaultOverlay().Tweaks)
	c.Assert(o.Keybinds.ZoomIn, qt.Equals, "EQUAL")
	c.Assert(o.Keybinds.ResetView, qt.Equals, "0")
	c.Assert(o.Keybinds.ClosePanel, qt.Equals, "ESCAPE")
}

func TestLoadOverlayScript(t *testing.T) {
	c := qt.New(t)
	path := writeFile(c, "overlay.js", `
	  var asia = defaults.regions[1];
	  ({
	    regions: [asia, {key: "EUROPE", members: ["250"], tweak: {scaleFactor: 1.4, yOffsetPercent: 0}}],
	    tweaks: {"250": {scaleFactor: 3, yOffsetPercent: -0.2}}
	  });
	`)

	o, err := LoadOverlay(context.Background(), path, time.Second)
	c.Assert(err, qt.IsNil)
	c.Assert(o.Regions, qt.HasLen, 2)
	c.Assert(o.Regions[0].Key, qt.Equals, "ASIA_ELEPHANT_REGION")
	c.Assert(o.Regions[0].Members, qt.HasLen, 13)
	c.Assert(o.Regions[1].Key, qt.Equals, "EUROPE")
	c.Assert(o.Regions[1].Tweak.ScaleFactor, qt.Equals, 1.4)
	c.Assert(o.Tweaks, qt.DeepEquals, map[string]typedef.Tweak{"250": {ScaleFactor: 3, YOffsetPercent: -0.2}})
}

func TestLoadOverlayErrors(t *testing.T) {
	c := qt.New(t)

	o, err := LoadOverlay(context.Background(), "", time.Second)
	c.Assert(err, qt.IsNil)
	c.Assert(o.Regions, qt.HasLen, 2)

	bad := writeFile(c, "bad.json", `{"regions": [{"members": ["1"]}]}`)
	_, err = LoadOverlay(context.Background(), bad, time.Second)
	c.Assert(errors.Is(err, ErrInvalidOverlay), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `invalid overlay configuration: region 0: region key cannot be empty`)

	yaml := writeFile(c, "overlay.yaml", `regions: []`)
	_, err = LoadOverlay(context.Background(), yaml, time.Second)
	c.Assert(errors.Is(err, ErrInvalidOverlay), qt.IsTrue)

	script := writeFile(c, "noop.js", `var x = 1;`)
	_, err = LoadOverlay(context.Background(), script, time.Second)
	c.Assert(errors.Is(err, ErrInvalidOverlay), qt.IsTrue)

	_, err = LoadOverlay(context.Background(), filepath.Join(c.TempDir(), "missing.json"), time.Second)
	c.Assert(errors.Is(err, os.ErrNotExist), qt.IsTrue)
}
