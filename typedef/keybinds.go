package typedef

import (
	"strconv"
	"strings"
)

// Keybinds stores user-configurable keyboard shortcuts for map and panel actions.
type Keybinds struct {
	ZoomIn     string `json:"zoomIn,omitempty"`
	ZoomOut    string `json:"zoomOut,omitempty"`
	ResetView  string `json:"resetView,omitempty"`
	PanLeft    string `json:"panLeft,omitempty"`
	PanRight   string `json:"panRight,omitempty"`
	PanUp      string `json:"panUp,omitempty"`
	PanDown    string `json:"panDown,omitempty"`
	ClosePanel string `json:"closePanel,omitempty"`
	NextPage   string `json:"nextPage,omitempty"`
	CopyStory  string `json:"copyStory,omitempty"` // used together with Ctrl/Cmd
}

// DefaultKeybinds returns the baseline key configuration.
func DefaultKeybinds() Keybinds {
	return Keybinds{
		ZoomIn:     "EQUAL",
		ZoomOut:    "MINUS",
		ResetView:  "0",
		PanLeft:    "LEFT",
		PanRight:   "RIGHT",
		PanUp:      "UP",
		PanDown:    "DOWN",
		ClosePanel: "ESCAPE",
		NextPage:   "ENTER",
		CopyStory:  "C",
	}
}

// CanonicalizeBinding trims, uppercases, and validates supported key names.
// Allowed values: empty string (disabled), single letters A-Z, digits 0-9, function keys F1-F12,
// and the names SPACE, ESCAPE, ENTER, TAB, BACKSPACE, HOME, END, PAGEUP, PAGEDOWN, EQUAL, MINUS
// and the arrow keys (UP/DOWN/LEFT/RIGHT).
// Returns the canonical uppercase name and true when valid.
func CanonicalizeBinding(binding string) (string, bool) {
	val := strings.TrimSpace(binding)
	if val == "" {
		return "", true // empty means unbound/disabled
	}
	upper := strings.ToUpper(val)

	if len(upper) == 1 {
		ch := upper[0]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return upper, true
		}
		switch ch {
		case '=', '+':
			return "EQUAL", true
		case '-':
			return "MINUS", true
		}
	}

	if strings.HasPrefix(upper, "F") && len(upper) > 1 {
		if n, err := strconv.Atoi(upper[1:]); err == nil && n >= 1 && n <= 12 {
			return "F" + strconv.Itoa(n), true
		}
	}

	switch upper {
	case "SPACE", "SPACEBAR":
		return "SPACE", true
	case "ESC", "ESCAPE":
		return "ESCAPE", true
	case "ENTER", "RETURN":
		return "ENTER", true
	case "TAB":
		return "TAB", true
	case "BACKSPACE":
		return "BACKSPACE", true
	case "HOME":
		return "HOME", true
	case "END":
		return "END", true
	case "PAGEUP", "PGUP":
		return "PAGEUP", true
	case "PAGEDOWN", "PGDN":
		return "PAGEDOWN", true
	case "EQUAL", "PLUS":
		return "EQUAL", true
	case "MINUS":
		return "MINUS", true
	case "UP", "ARROWUP":
		return "UP", true
	case "DOWN", "ARROWDOWN":
		return "DOWN", true
	case "LEFT", "ARROWLEFT":
		return "LEFT", true
	case "RIGHT", "ARROWRIGHT":
		return "RIGHT", true
	default:
		return "", false
	}
}

// NormalizeKeybinds uppercases, canonicalizes, and fills defaults when missing or invalid.
func NormalizeKeybinds(k *Keybinds) {
	if k == nil {
		return
	}
	defaults := DefaultKeybinds()
	normalize := func(target *string, fallback string) {
		if *target == "" {
			*target = fallback
			return
		}
		if val, ok := CanonicalizeBinding(*target); ok {
			*target = val
			return
		}
		*target = fallback
	}

	normalize(&k.ZoomIn, defaults.ZoomIn)
	normalize(&k.ZoomOut, defaults.ZoomOut)
	normalize(&k.ResetView, defaults.ResetView)
	normalize(&k.PanLeft, defaults.PanLeft)
	normalize(&k.PanRight, defaults.PanRight)
	normalize(&k.PanUp, defaults.PanUp)
	normalize(&k.PanDown, defaults.PanDown)
	normalize(&k.ClosePanel, defaults.ClosePanel)
	normalize(&k.NextPage, defaults.NextPage)
	normalize(&k.CopyStory, defaults.CopyStory)
}
