package app

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// TextRenderer provides helper methods for text rendering
type TextRenderer struct {
	face font.Face
}

// NewTextRenderer creates a new text renderer for the given font face
func NewTextRenderer(face font.Face) *TextRenderer {
	return &TextRenderer{face: face}
}

// DrawText draws text with its baseline at (x, y).
func (tr *TextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y int, clr color.Color) {
	text.Draw(screen, textStr, tr.face, x, y, clr)
}

// DrawCentered draws a single line centred horizontally on cx.
func (tr *TextRenderer) DrawCentered(screen *ebiten.Image, textStr string, cx, y int, clr color.Color) {
	tr.DrawText(screen, textStr, cx-tr.MeasureString(textStr)/2, y, clr)
}

// MeasureString returns the pixel advance of the given text
func (tr *TextRenderer) MeasureString(str string) int {
	return font.MeasureString(tr.face, str).Round()
}

// GetLineHeight returns the pixel height of a line of text
func (tr *TextRenderer) GetLineHeight() int {
	metrics := tr.face.Metrics()
	return (metrics.Ascent + metrics.Descent).Round()
}

// Ascent is the distance from the top of a line to its baseline.
func (tr *TextRenderer) Ascent() int {
	return tr.face.Metrics().Ascent.Round()
}

// Wrap breaks s into lines no wider than width pixels. Explicit newlines are kept and words
// wider than a line are left on a line of their own.
func (tr *TextRenderer) Wrap(s string, width int) []string {
	return wrapText(s, width, tr.MeasureString)
}

func wrapText(s string, width int, measure func(string) int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if measure(candidate) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
