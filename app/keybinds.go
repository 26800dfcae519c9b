package app

import (
	"strconv"
	"strings"

	"github.com/aldo-g/earliest-elephant/typedef"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyFromBinding converts a canonical binding (letter, digit, F-key, or named key) to an ebiten.Key.
func keyFromBinding(binding string) (ebiten.Key, bool) {
	canonical, ok := typedef.CanonicalizeBinding(binding)
	if !ok {
		return 0, false
	}
	if canonical == "" {
		return 0, false // disabled binding
	}

	if len(canonical) == 1 {
		ch := canonical[0]
		if ch >= '0' && ch <= '9' {
			return ebiten.KeyDigit0 + ebiten.Key(ch-'0'), true
		}
		return ebiten.KeyA + ebiten.Key(ch-'A'), true
	}

	if strings.HasPrefix(canonical, "F") {
		n, err := strconv.Atoi(canonical[1:])
		if err == nil && n >= 1 && n <= 12 {
			return ebiten.KeyF1 + ebiten.Key(n-1), true
		}
	}

	switch canonical {
	case "SPACE":
		return ebiten.KeySpace, true
	case "ESCAPE":
		return ebiten.KeyEscape, true
	case "ENTER":
		return ebiten.KeyEnter, true
	case "TAB":
		return ebiten.KeyTab, true
	case "BACKSPACE":
		return ebiten.KeyBackspace, true
	case "HOME":
		return ebiten.KeyHome, true
	case "END":
		return ebiten.KeyEnd, true
	case "PAGEUP":
		return ebiten.KeyPageUp, true
	case "PAGEDOWN":
		return ebiten.KeyPageDown, true
	case "EQUAL":
		return ebiten.KeyEqual, true
	case "MINUS":
		return ebiten.KeyMinus, true
	case "UP":
		return ebiten.KeyArrowUp, true
	case "DOWN":
		return ebiten.KeyArrowDown, true
	case "LEFT":
		return ebiten.KeyArrowLeft, true
	case "RIGHT":
		return ebiten.KeyArrowRight, true
	default:
		return 0, false
	}
}

// numpadAlias gives the keypad twin of a main-block key, if any.
func numpadAlias(k ebiten.Key) (ebiten.Key, bool) {
	switch {
	case k == ebiten.KeyEqual:
		return ebiten.KeyNumpadAdd, true
	case k == ebiten.KeyMinus:
		return ebiten.KeyNumpadSubtract, true
	case k == ebiten.KeyEnter:
		return ebiten.KeyNumpadEnter, true
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return ebiten.KeyNumpad0 + (k - ebiten.KeyDigit0), true
	}
	return 0, false
}

// bindingJustPressed reports whether the configured binding was just pressed this frame.
func bindingJustPressed(binding string) bool {
	k, ok := keyFromBinding(binding)
	if !ok {
		return false
	}
	if inpututil.IsKeyJustPressed(k) {
		return true
	}
	if alias, ok := numpadAlias(k); ok {
		return inpututil.IsKeyJustPressed(alias)
	}
	return false
}

// Key repeat in ticks, for held pan keys.
const (
	keyRepeatDelay    = 24
	keyRepeatInterval = 4
)

// bindingRepeated fires on press and then at a fixed rate while the key stays held.
func bindingRepeated(binding string) bool {
	k, ok := keyFromBinding(binding)
	if !ok {
		return false
	}
	return repeatTick(inpututil.KeyPressDuration(k))
}

func repeatTick(d int) bool {
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}
