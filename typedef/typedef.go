package typedef

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

var (
	ErrRecordIDEmpty  = errors.New("sighting record identifier cannot be empty")
	ErrRecordNoStory  = errors.New("sighting record has no story segments")
	ErrRegionKeyEmpty = errors.New("region key cannot be empty")
)

// Default placement tweak for entities that have no explicit override.
const (
	DefaultScaleFactor    = 2.0
	DefaultYOffsetPercent = 0.0
)

// BoundaryEntity is a single country/territory boundary in lon/lat coordinates.
type BoundaryEntity struct {
	ID       string           // Stable country code, e.g. "124"
	Name     string           // Display name from the dataset properties, may be empty
	Geometry orb.MultiPolygon // Polygons are normalised to a MultiPolygon on load
}

// SightingRecord is the narrative payload bound to an entity or a region key.
type SightingRecord struct {
	ID           string   `json:"countryCode"`
	DisplayName  string   `json:"countryName"`
	ElephantName string   `json:"elephantName"`
	ArrivalYear  int      `json:"arrivalYear"`
	ImageRef     string   `json:"imageUrl"`
	Story        []string `json:"story"`
}

// Validate reports whether the record satisfies the dataset contract.
func (r SightingRecord) Validate() error {
	if r.ID == "" {
		return ErrRecordIDEmpty
	}
	if len(r.Story) == 0 {
		return ErrRecordNoStory
	}
	return nil
}

// Title is the story panel heading, e.g. "Bandula in Sri Lanka (1805)".
func (r SightingRecord) Title() string {
	return fmt.Sprintf("%s in %s (%d)", r.ElephantName, r.DisplayName, r.ArrivalYear)
}

// Tweak overrides the default cover placement of a clip target.
type Tweak struct {
	ScaleFactor    float64 `json:"scaleFactor"`
	YOffsetPercent float64 `json:"yOffsetPercent"`
}

// DefaultTweak returns the entity-level placement used when no override exists.
func DefaultTweak() Tweak {
	return Tweak{ScaleFactor: DefaultScaleFactor, YOffsetPercent: DefaultYOffsetPercent}
}

// Valid reports whether the scale factor is usable for placement.
func (t Tweak) Valid() bool {
	return t.ScaleFactor > 0 && !math.IsNaN(t.ScaleFactor) && !math.IsInf(t.ScaleFactor, 0) &&
		!math.IsNaN(t.YOffsetPercent) && !math.IsInf(t.YOffsetPercent, 0)
}

// Region is a named, statically configured aggregate of entities that is clipped,
// placed and clicked as one target.
type Region struct {
	Key     string   `json:"key"`
	Members []string `json:"members"`
	Tweak   Tweak    `json:"tweak"`
}

// Validate checks the region has a key; empty member lists are allowed.
func (r Region) Validate() error {
	if r.Key == "" {
		return ErrRegionKeyEmpty
	}
	return nil
}
