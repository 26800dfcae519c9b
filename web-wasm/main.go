//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"log"
	"net/url"
	"runtime"
	"syscall/js"
	"time"

	"github.com/aldo-g/earliest-elephant/app"
	"github.com/aldo-g/earliest-elephant/config"
	"github.com/aldo-g/earliest-elephant/dataset"

	"github.com/hajimehoshi/ebiten/v2"
)

// Datasets are served next to the wasm binary.
const (
	worldPath     = "data/world-countries.json"
	sightingsPath = "data/elephant-data.json"
)

// pageURL resolves ref against the document location; the fetcher only goes to the network
// for absolute http(s) URLs.
func pageURL(ref string) string {
	base, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func main() {
	// Verify we're running in WASM environment
	if runtime.GOOS != "js" || runtime.GOARCH != "wasm" {
		log.Fatal("This build is specifically for WebAssembly (js/wasm)")
	}

	ctx := context.Background()
	fetcher := dataset.NewFetcher()
	loader := dataset.NewLoader(fetcher, dataset.Sources{
		Boundaries:     pageURL(worldPath),
		Sightings:      pageURL(sightingsPath),
		TopologyObject: "countries",
	})
	loader.Start(ctx)

	ebiten.SetWindowTitle(app.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := app.NewGame(app.Options{
		Loader:   loader,
		Overlay:  config.DefaultOverlay(),
		Images:   app.NewImageCache(ctx, fetcher, pageURL("/")),
		Debounce: 150 * time.Millisecond,
	})
	if err := ebiten.RunGame(game); err != nil {
		// In web environment, we can't easily show panic dialogs
		// so log to console and hope the browser dev tools catch it
		panic(err)
	}
}
