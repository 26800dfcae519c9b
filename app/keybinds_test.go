package app

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestKeyFromBinding(t *testing.T) {
	c := qt.New(t)
	for binding, want := range map[string]ebiten.Key{
		"c":      ebiten.KeyC,
		"0":      ebiten.KeyDigit0,
		"7":      ebiten.KeyDigit7,
		"F5":     ebiten.KeyF5,
		"+":      ebiten.KeyEqual,
		"MINUS":  ebiten.KeyMinus,
		"esc":    ebiten.KeyEscape,
		"RETURN": ebiten.KeyEnter,
		"left":   ebiten.KeyArrowLeft,
	} {
		got, ok := keyFromBinding(binding)
		c.Assert(ok, qt.IsTrue, qt.Commentf("binding %q", binding))
		c.Assert(got, qt.Equals, want, qt.Commentf("binding %q", binding))
	}

	for _, binding := range []string{"", "NOPE", "F13"} {
		_, ok := keyFromBinding(binding)
		c.Assert(ok, qt.IsFalse, qt.Commentf("binding %q", binding))
	}
}

func TestNumpadAlias(t *testing.T) {
	c := qt.New(t)
	k, ok := numpadAlias(ebiten.KeyEqual)
	c.Assert(ok, qt.IsTrue)
	c.Assert(k, qt.Equals, ebiten.KeyNumpadAdd)

	k, ok = numpadAlias(ebiten.KeyDigit0)
	c.Assert(ok, qt.IsTrue)
	c.Assert(k, qt.Equals, ebiten.KeyNumpad0)

	_, ok = numpadAlias(ebiten.KeyA)
	c.Assert(ok, qt.IsFalse)
}

func TestRepeatTick(t *testing.T) {
	c := qt.New(t)
	var fired []int
	for d := 0; d <= keyRepeatDelay+2*keyRepeatInterval; d++ {
		if repeatTick(d) {
			fired = append(fired, d)
		}
	}
	c.Assert(fired, qt.DeepEquals, []int{1, keyRepeatDelay, keyRepeatDelay + keyRepeatInterval, keyRepeatDelay + 2*keyRepeatInterval})
}
