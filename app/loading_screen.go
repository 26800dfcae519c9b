package app

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	loadingMessage = "Loading map..."
	failureHeading = "The map could not be loaded"
)

var (
	backgroundColor = color.RGBA{245, 248, 252, 255}
	spinnerColor    = color.RGBA{90, 140, 200, 255}
	messageColor    = color.RGBA{60, 70, 90, 255}
	failureColor    = color.RGBA{170, 40, 40, 255}
)

// drawLoading shows the spinner placeholder used while datasets load and while the viewport
// has no usable size.
func drawLoading(screen *ebiten.Image, now time.Time) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	screen.Fill(backgroundColor)
	if w <= 0 || h <= 0 {
		return
	}

	tr := NewTextRenderer(loadFont(24))
	spinnerRadius := 28.0
	arcThickness := 6.0
	spacing := 24.0
	totalHeight := spinnerRadius*2 + spacing + float64(tr.GetLineHeight())
	groupTop := float64(h)/2 - totalHeight/2
	centerX := float64(w) / 2
	spinnerCenterY := groupTop + spinnerRadius

	arcLength := math.Pi * 1.2
	angle := float64(now.UnixNano()%2000000000) / 2000000000 * 2 * math.Pi
	segments := 48
	for i := 0; i < segments; i++ {
		segAngle := angle + arcLength*float64(i)/float64(segments)
		col := spinnerColor
		col.A = uint8(80 + 175*float64(i)/float64(segments))
		x1 := centerX + spinnerRadius*math.Cos(segAngle)
		y1 := spinnerCenterY + spinnerRadius*math.Sin(segAngle)
		x2 := centerX + (spinnerRadius-arcThickness)*math.Cos(segAngle)
		y2 := spinnerCenterY + (spinnerRadius-arcThickness)*math.Sin(segAngle)
		vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), float32(arcThickness), col, true)
	}

	textY := int(groupTop+spinnerRadius*2+spacing) + tr.Ascent()
	tr.DrawCentered(screen, loadingMessage, int(centerX), textY, messageColor)
}

// drawFailure is the terminal screen for a dataset load error.
func drawFailure(screen *ebiten.Image, err error) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	screen.Fill(backgroundColor)
	if w <= 0 || h <= 0 {
		return
	}
	if err == nil {
		ebitenutil.DebugPrint(screen, failureHeading)
		return
	}

	heading := NewTextRenderer(loadFont(26))
	body := NewTextRenderer(loadFont(16))
	width := w - 80
	if width > 720 {
		width = 720
	}
	lines := body.Wrap(err.Error(), width)

	y := h/2 - (heading.GetLineHeight()+16+len(lines)*body.GetLineHeight())/2 + heading.Ascent()
	heading.DrawCentered(screen, failureHeading, w/2, y, failureColor)
	y += heading.GetLineHeight() + 16
	for _, line := range lines {
		body.DrawCentered(screen, line, w/2, y, messageColor)
		y += body.GetLineHeight()
	}
}
