// Package app is the Ebiten front end: the interactive map session, its renderer, the story
// panel and the loading and failure screens.
package app

import (
	"image/color"
	"time"

	"github.com/aldo-g/earliest-elephant/config"
	"github.com/aldo-g/earliest-elephant/dataset"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Title is shown in the window bar and over the map.
const Title = "Earliest Elephant"

var titleBackdrop = color.RGBA{255, 255, 255, 200}

// RemotePanel is a panel living outside the process, e.g. websocket clients.
type RemotePanel interface {
	RecordSink
	PanelClosed()
	CloseRequests() <-chan struct{}
}

// Options wires a Game. Remote may be nil.
type Options struct {
	Loader   *dataset.Loader
	Overlay  config.Overlay
	Images   *ImageCache
	Debounce time.Duration
	Remote   RemotePanel
}

// Game implements ebiten.Game.
type Game struct {
	loader   *dataset.Loader
	overlay  config.Overlay
	images   *ImageCache
	debounce time.Duration
	remote   RemotePanel

	view     *MapView
	panel    *StoryPanel
	renderer *SceneRenderer
	title    *TextRenderer
	loadErr  error

	width, height int
}

func NewGame(opts Options) *Game {
	return &Game{
		loader:   opts.Loader,
		overlay:  opts.Overlay,
		images:   opts.Images,
		debounce: opts.Debounce,
		remote:   opts.Remote,
		renderer: NewSceneRenderer(opts.Images),
		title:    NewTextRenderer(loadFont(28)),
	}
}

// start builds the session once both datasets are in.
func (g *Game) start(res *dataset.Result) {
	g.view = NewMapView(res, g.overlay, g.debounce)
	g.panel = NewStoryPanel(g.images, g.overlay.Keybinds)
	g.view.AddSink(g.panel)
	if g.remote != nil {
		g.view.AddSink(g.remote)
		g.panel.OnClose(g.remote.PanelClosed)
	}
}

func (g *Game) Update() error {
	now := time.Now()
	if g.images != nil {
		g.images.Update()
	}

	if g.view == nil {
		switch g.loader.State() {
		case dataset.StateReady:
			res, _ := g.loader.Result()
			g.start(res)
		case dataset.StateFailed:
			if g.loadErr == nil {
				_, g.loadErr = g.loader.Result()
			}
			return nil
		default:
			return nil
		}
	}

	g.view.Resize(g.width, g.height, now)
	g.panel.SetScreenDimensions(g.width, g.height)
	g.pollRemote()

	panelOpen := g.panel.IsVisible()
	if panelOpen {
		g.panel.Update()
	}
	g.view.Update(now, !panelOpen)
	return nil
}

// pollRemote closes the panel when a remote client asked for it.
func (g *Game) pollRemote() {
	if g.remote == nil {
		return
	}
	for {
		select {
		case <-g.remote.CloseRequests():
			g.panel.Hide()
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch {
	case g.view == nil && g.loadErr != nil:
		drawFailure(screen, g.loadErr)
		return
	case g.view == nil, g.view.Degenerate():
		drawLoading(screen, time.Now())
		return
	}

	screen.Fill(backgroundColor)
	g.renderer.Draw(screen, g.view.Scene(), g.view.Generation())
	g.drawTitle(screen)
	g.panel.Draw(screen)
}

func (g *Game) drawTitle(screen *ebiten.Image) {
	pad := 10
	w := g.title.MeasureString(Title) + 2*pad
	h := g.title.GetLineHeight() + pad
	vector.DrawFilledRect(screen, 12, 12, float32(w), float32(h), titleBackdrop, false)
	g.title.DrawText(screen, Title, 12+pad, 12+pad/2+g.title.Ascent(), messageColor)
}

// Layout records the raw size for the map; Ebiten itself always needs a positive screen.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return max(outsideWidth, 1), max(outsideHeight, 1)
}
