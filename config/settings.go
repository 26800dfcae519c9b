// Package config loads runtime settings from the environment and the overlay configuration
// (regions, per-entity tweaks, keybinds) from JSON or JavaScript files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "EEMAP"

// Settings are read from EEMAP_* variables, optionally seeded from a .env file.
type Settings struct {
	WorldPath      string        `envconfig:"WORLD_PATH" default:"data/world-countries.json"`
	SightingsPath  string        `envconfig:"SIGHTINGS_PATH" default:"data/elephant-data.json"`
	TopologyObject string        `envconfig:"TOPOLOGY_OBJECT" default:"countries"`
	OverlayConfig  string        `envconfig:"OVERLAY_CONFIG"`
	WindowWidth    int           `envconfig:"WINDOW_WIDTH" default:"1600"`
	WindowHeight   int           `envconfig:"WINDOW_HEIGHT" default:"900"`
	ResizeDebounce time.Duration `envconfig:"RESIZE_DEBOUNCE" default:"150ms"`
	APIAddr        string        `envconfig:"API_ADDR" default:":42069"`
	PprofAddr      string        `envconfig:"PPROF_ADDR"`
	DataDir        string        `envconfig:"DATA_DIR"`
	ScriptTimeout  time.Duration `envconfig:"SCRIPT_TIMEOUT" default:"5s"`
	AssetDir       string        `envconfig:"ASSET_DIR" default:"public"` // root for image refs starting with "/"
}

// Load reads .env from the working directory when present, then the environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	var s Settings
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings that cannot produce a usable window.
func (s *Settings) Validate() error {
	if s.WindowWidth <= 0 || s.WindowHeight <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", s.WindowWidth, s.WindowHeight)
	}
	if s.ResizeDebounce < 0 {
		return fmt.Errorf("resize debounce %s must not be negative", s.ResizeDebounce)
	}
	return nil
}
