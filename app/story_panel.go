package app

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/aldo-g/earliest-elephant/overlay"
	"github.com/aldo-g/earliest-elephant/typedef"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	panelMaxWidth    = 520
	panelMargin      = 20
	panelPadding     = 20
	panelGap         = 12
	panelImageHeight = 200
	panelCloseSize   = 28
	panelButtonH     = 36
)

var (
	panelDimColor     = color.RGBA{0, 0, 0, 128}
	panelColor        = color.RGBA{20, 30, 40, 235}
	panelBorderColor  = color.RGBA{120, 120, 160, 255}
	panelTextColor    = color.RGBA{230, 230, 235, 255}
	panelImageBgColor = color.RGBA{40, 50, 60, 255}
	panelButtonColor  = color.RGBA{60, 90, 130, 255}
)

// StoryPanel is the modal that pages through a record's story. It is a RecordSink.
type StoryPanel struct {
	visible bool
	record  typedef.SightingRecord
	title   string
	page    int

	images *ImageCache
	keys   typedef.Keybinds

	screenWidth  int
	screenHeight int
	onClose      []func()

	titleText *TextRenderer
	bodyText  *TextRenderer

	// layout, recomputed whenever contents or screen size change
	box        image.Rectangle
	closeBtn   image.Rectangle
	imageRect  image.Rectangle
	textRect   image.Rectangle
	moreBtn    image.Rectangle
	titleLines []string
	bodyLines  []string
}

func NewStoryPanel(images *ImageCache, keys typedef.Keybinds) *StoryPanel {
	typedef.NormalizeKeybinds(&keys)
	return &StoryPanel{
		images:    images,
		keys:      keys,
		titleText: NewTextRenderer(loadFont(22)),
		bodyText:  NewTextRenderer(loadFont(16)),
	}
}

// RecordSelected opens the panel on the first page of rec.
func (p *StoryPanel) RecordSelected(rec typedef.SightingRecord) {
	p.Show(rec)
}

// Show replaces the current record, if any, and resets to the first page.
func (p *StoryPanel) Show(rec typedef.SightingRecord) {
	p.record = rec
	p.title = rec.Title()
	p.page = 0
	p.visible = true
	p.layout()
	log.Printf("[PANEL] Showing %s (%d pages)", rec.ID, len(rec.Story))
}

// Hide closes the panel and notifies close listeners once.
func (p *StoryPanel) Hide() {
	if !p.visible {
		return
	}
	p.visible = false
	for _, fn := range p.onClose {
		fn()
	}
}

// OnClose registers fn to run whenever the panel is dismissed.
func (p *StoryPanel) OnClose(fn func()) {
	p.onClose = append(p.onClose, fn)
}

// IsVisible returns whether the panel is currently visible
func (p *StoryPanel) IsVisible() bool { return p.visible }

func (p *StoryPanel) Record() typedef.SightingRecord { return p.record }

func (p *StoryPanel) Page() int { return p.page }

func (p *StoryPanel) Pages() int { return len(p.record.Story) }

// CurrentText is the story segment on the current page.
func (p *StoryPanel) CurrentText() string {
	if p.page < 0 || p.page >= len(p.record.Story) {
		return ""
	}
	return p.record.Story[p.page]
}

// NextPage advances cyclically; single-page stories stay put.
func (p *StoryPanel) NextPage() {
	n := len(p.record.Story)
	if n <= 1 {
		return
	}
	p.page = (p.page + 1) % n
	p.layout()
}

// MoreLabel is the caption of the pagination button, empty when there is nothing to page.
func (p *StoryPanel) MoreLabel() string {
	if len(p.record.Story) <= 1 {
		return ""
	}
	return fmt.Sprintf("Learn More (%d/%d)", p.page+1, len(p.record.Story))
}

// SetScreenDimensions updates the screen dimensions
func (p *StoryPanel) SetScreenDimensions(width, height int) {
	if width == p.screenWidth && height == p.screenHeight {
		return
	}
	p.screenWidth = width
	p.screenHeight = height
	p.layout()
}

func (p *StoryPanel) layout() {
	if !p.visible || p.screenWidth <= 0 || p.screenHeight <= 0 {
		return
	}
	w := p.screenWidth - 2*panelMargin
	if w > panelMaxWidth {
		w = panelMaxWidth
	}
	if w < 2*panelPadding+panelCloseSize {
		w = p.screenWidth
	}
	inner := w - 2*panelPadding

	p.titleLines = p.titleText.Wrap(p.title, inner-panelCloseSize-panelGap)
	p.bodyLines = p.bodyText.Wrap(p.CurrentText(), inner)
	titleH := len(p.titleLines) * p.titleText.GetLineHeight()
	bodyH := len(p.bodyLines) * (p.bodyText.GetLineHeight() + 4)

	h := panelPadding + titleH + panelGap + panelImageHeight + panelGap + bodyH + panelPadding
	if p.MoreLabel() != "" {
		h += panelGap + panelButtonH
	}
	if maxH := p.screenHeight - 2*panelMargin; h > maxH && maxH > 0 {
		h = maxH
	}

	x := (p.screenWidth - w) / 2
	y := (p.screenHeight - h) / 2
	p.box = image.Rect(x, y, x+w, y+h)
	p.closeBtn = image.Rect(p.box.Max.X-panelPadding/2-panelCloseSize, y+panelPadding/2, p.box.Max.X-panelPadding/2, y+panelPadding/2+panelCloseSize)

	top := y + panelPadding + titleH + panelGap
	p.imageRect = image.Rect(x+panelPadding, top, x+w-panelPadding, top+panelImageHeight)
	textBottom := p.box.Max.Y - panelPadding
	if p.MoreLabel() != "" {
		p.moreBtn = image.Rect(x+panelPadding, textBottom-panelButtonH, x+w-panelPadding, textBottom)
		textBottom = p.moreBtn.Min.Y - panelGap
	} else {
		p.moreBtn = image.Rectangle{}
	}
	textTop := p.imageRect.Max.Y + panelGap
	if textBottom < textTop {
		textBottom = textTop
	}
	// image.Rect would swap inverted corners
	p.textRect = image.Rectangle{Min: image.Pt(x+panelPadding, textTop), Max: image.Pt(x+w-panelPadding, textBottom)}
}

// HandleClick applies a primary click at (x, y). Clicking the dimmed overlay or the X closes
// the panel; the pagination button advances.
func (p *StoryPanel) HandleClick(x, y int) {
	if !p.visible {
		return
	}
	switch {
	case pointInRect(x, y, p.closeBtn):
		p.Hide()
	case !pointInRect(x, y, p.box):
		p.Hide()
	case pointInRect(x, y, p.moreBtn):
		p.NextPage()
	}
}

// Update handles keyboard and pointer input while the panel is open.
func (p *StoryPanel) Update() {
	if !p.visible {
		return
	}
	if bindingJustPressed(p.keys.ClosePanel) {
		p.Hide()
		return
	}
	if bindingJustPressed(p.keys.NextPage) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		p.NextPage()
	}
	if modifierPressed() && bindingJustPressed(p.keys.CopyStory) {
		if err := writeClipboard(p.CurrentText()); err != nil {
			log.Printf("[PANEL] Copy failed: %v", err)
		}
	}
	if x, y, ok := primaryJustReleased(); ok {
		p.HandleClick(x, y)
	}
}

// Draw renders the panel overlay
func (p *StoryPanel) Draw(screen *ebiten.Image) {
	if !p.visible || p.box.Empty() {
		return
	}

	vector.DrawFilledRect(screen, 0, 0, float32(p.screenWidth), float32(p.screenHeight), panelDimColor, false)
	bx, by := float32(p.box.Min.X), float32(p.box.Min.Y)
	bw, bh := float32(p.box.Dx()), float32(p.box.Dy())
	vector.DrawFilledRect(screen, bx, by, bw, bh, panelColor, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 2, panelBorderColor, false)

	ctx, ok := NewScissorContext(screen).Push(p.box)
	if !ok {
		return
	}

	lh := p.titleText.GetLineHeight()
	y := p.box.Min.Y + panelPadding + p.titleText.Ascent()
	for _, line := range p.titleLines {
		p.titleText.DrawText(ctx.Image, line, p.box.Min.X+panelPadding, y, panelTextColor)
		y += lh
	}
	p.drawCloseButton(ctx.Image)
	p.drawImage(ctx)

	if body, ok := ctx.Push(p.textRect); ok {
		lh := p.bodyText.GetLineHeight() + 4
		y := p.textRect.Min.Y + p.bodyText.Ascent()
		for _, line := range p.bodyLines {
			p.bodyText.DrawText(body.Image, line, p.textRect.Min.X, y, panelTextColor)
			y += lh
		}
	}

	if label := p.MoreLabel(); label != "" {
		r := p.moreBtn
		vector.DrawFilledRect(ctx.Image, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), panelButtonColor, false)
		baseline := r.Min.Y + (r.Dy()-p.bodyText.GetLineHeight())/2 + p.bodyText.Ascent()
		p.bodyText.DrawCentered(ctx.Image, label, r.Min.X+r.Dx()/2, baseline, panelTextColor)
	}
}

func (p *StoryPanel) drawCloseButton(dst *ebiten.Image) {
	r := p.closeBtn
	inset := float32(8)
	x0, y0 := float32(r.Min.X)+inset, float32(r.Min.Y)+inset
	x1, y1 := float32(r.Max.X)-inset, float32(r.Max.Y)-inset
	vector.StrokeLine(dst, x0, y0, x1, y1, 2, panelTextColor, true)
	vector.StrokeLine(dst, x0, y1, x1, y0, 2, panelTextColor, true)
}

// drawImage fills imageRect with the record image, cover-fitted and centred.
func (p *StoryPanel) drawImage(ctx ScissorContext) {
	r := p.imageRect
	vector.DrawFilledRect(ctx.Image, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), panelImageBgColor, false)
	if p.images == nil {
		return
	}
	img, ok := p.images.Get(p.record.ImageRef)
	if !ok {
		return
	}
	clip, ok := ctx.Push(r)
	if !ok {
		return
	}
	b := img.Bounds()
	dst := overlay.Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
	crop, scale := overlay.CoverCrop(b.Dx(), b.Dy(), dst)
	if scale <= 0 {
		return
	}
	opts := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	opts.GeoM.Translate(-crop.X, -crop.Y)
	opts.GeoM.Scale(scale, scale)
	opts.GeoM.Translate(dst.X, dst.Y)
	clip.Image.DrawImage(img, opts)
}
