package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aldo-g/earliest-elephant/javascript"
	"github.com/aldo-g/earliest-elephant/storage"
	"github.com/aldo-g/earliest-elephant/typedef"
)

var ErrInvalidOverlay = errors.New("invalid overlay configuration")

// Overlay is the static clip/region configuration plus input bindings.
type Overlay struct {
	Regions  []typedef.Region         `json:"regions"`
	Tweaks   map[string]typedef.Tweak `json:"tweaks"`
	Keybinds typedef.Keybinds         `json:"keybinds"`
}

var africaMembers = strings.Fields(`
	999 012 024 072 108 120 140 148 178 180 204 226 231 232 262 266 270 288 324 384
	404 426 430 434 450 454 466 478 504 508 516 562 566 624 646 686 694 706 710 716
	728 729 732 748 768 788 800 818 834 854 894`)

var asiaMembers = strings.Fields(`050 064 116 156 356 360 418 458 104 524 144 764 704`)

// DefaultOverlay is the configuration shipped with the web build.
func DefaultOverlay() Overlay {
	return Overlay{
		Regions: []typedef.Region{
			{
				Key:     "AFRICA_CONTINENT",
				Members: append([]string(nil), africaMembers...),
				Tweak:   typedef.Tweak{ScaleFactor: 1, YOffsetPercent: 0},
			},
			{
				Key:     "ASIA_ELEPHANT_REGION",
				Members: append([]string(nil), asiaMembers...),
				Tweak:   typedef.Tweak{ScaleFactor: 1, YOffsetPercent: 0},
			},
		},
		Tweaks: map[string]typedef.Tweak{
			"124": {ScaleFactor: 1.8, YOffsetPercent: 0.55},
			"036": {ScaleFactor: 1, YOffsetPercent: 0},
		},
		Keybinds: typedef.DefaultKeybinds(),
	}
}

// LoadOverlay reads the overlay configuration. An empty ref yields the defaults; ".js" files
// are evaluated with the defaults visible as `defaults` and must evaluate to the same shape.
func LoadOverlay(ctx context.Context, ref string, timeout time.Duration) (Overlay, error) {
	if ref == "" {
		return DefaultOverlay(), nil
	}
	data, err := storage.ReadFile(ref)
	if err != nil {
		return Overlay{}, fmt.Errorf("read overlay %s: %w", ref, err)
	}

	switch strings.ToLower(filepath.Ext(ref)) {
	case ".json":
		return ParseOverlay(data)
	case ".js":
		val, err := javascript.Evaluate(ctx, string(data), filepath.Base(ref),
			map[string]interface{}{"defaults": DefaultOverlay()}, timeout)
		if err != nil {
			return Overlay{}, fmt.Errorf("%w: %v", ErrInvalidOverlay, err)
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return Overlay{}, fmt.Errorf("%w: script result: %v", ErrInvalidOverlay, err)
		}
		return ParseOverlay(raw)
	default:
		return Overlay{}, fmt.Errorf("%w: unsupported file type %q", ErrInvalidOverlay, filepath.Ext(ref))
	}
}

// ParseOverlay decodes a JSON overlay. Sections that are absent keep their defaults.
func ParseOverlay(data []byte) (Overlay, error) {
	var raw struct {
		Regions  *[]typedef.Region         `json:"regions"`
		Tweaks   *map[string]typedef.Tweak `json:"tweaks"`
		Keybinds *typedef.Keybinds         `json:"keybinds"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Overlay{}, fmt.Errorf("%w: %v", ErrInvalidOverlay, err)
	}

	o := DefaultOverlay()
	if raw.Regions != nil {
		o.Regions = *raw.Regions
	}
	if raw.Tweaks != nil {
		o.Tweaks = *raw.Tweaks
	}
	if raw.Keybinds != nil {
		o.Keybinds = *raw.Keybinds
	}
	for i, r := range o.Regions {
		if err := r.Validate(); err != nil {
			return Overlay{}, fmt.Errorf("%w: region %d: %v", ErrInvalidOverlay, i, err)
		}
	}
	typedef.NormalizeKeybinds(&o.Keybinds)
	return o, nil
}
