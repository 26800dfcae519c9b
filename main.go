package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aldo-g/earliest-elephant/api"
	"github.com/aldo-g/earliest-elephant/app"
	"github.com/aldo-g/earliest-elephant/config"
	"github.com/aldo-g/earliest-elephant/dataset"
	"github.com/aldo-g/earliest-elephant/geo"
	"github.com/aldo-g/earliest-elephant/overlay"
	"github.com/aldo-g/earliest-elephant/storage"
	"github.com/aldo-g/earliest-elephant/viewport"

	// hideconsole
	_ "github.com/ebitengine/hideconsole"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var (
		worldPath     string
		sightingsPath string
		overlayPath   string
		dumpPath      string
		width         int
		height        int
	)
	flag.StringVar(&worldPath, "world", "", "Boundary dataset (TopoJSON or GeoJSON, optionally .lz4)")
	flag.StringVar(&sightingsPath, "sightings", "", "Sighting records JSON")
	flag.StringVar(&overlayPath, "overlay", "", "Overlay configuration (.json or .js)")
	flag.StringVar(&dumpPath, "dump-scene", "", "Write the draw commands as JSON (.lz4 to compress) and exit")
	flag.IntVar(&width, "width", 1200, "Viewport width for -dump-scene")
	flag.IntVar(&height, "height", 600, "Viewport height for -dump-scene")
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	if worldPath != "" {
		settings.WorldPath = worldPath
	}
	if sightingsPath != "" {
		settings.SightingsPath = sightingsPath
	}
	if overlayPath != "" {
		settings.OverlayConfig = overlayPath
	}
	if settings.DataDir != "" {
		storage.SetDataDir(settings.DataDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ov, err := config.LoadOverlay(ctx, settings.OverlayConfig, settings.ScriptTimeout)
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	fetcher := dataset.NewFetcher()
	sources := dataset.Sources{
		Boundaries:     settings.WorldPath,
		Sightings:      settings.SightingsPath,
		TopologyObject: settings.TopologyObject,
	}

	if dumpPath != "" {
		if err := dumpScene(ctx, fetcher, sources, ov, dumpPath, width, height); err != nil {
			log.Fatalf("[DUMP] %v", err)
		}
		return
	}

	runWithGUI(ctx, settings, ov, fetcher, sources)
}

// dumpScene runs the render pass once without a window and writes the command list.
func dumpScene(ctx context.Context, f dataset.Fetcher, src dataset.Sources, ov config.Overlay, path string, width, height int) error {
	res, err := dataset.LoadAll(ctx, f, src)
	if err != nil {
		return err
	}
	proj, ok := geo.NewProjector(width, height)
	if !ok {
		return fmt.Errorf("viewport %dx%d has no area", width, height)
	}
	scene := overlay.BuildScene(overlay.SceneInput{
		Shapes:    proj.ProjectEntities(res.Entities),
		Regions:   overlay.NewRegionSet(ov.Regions),
		Records:   res.Records,
		Tweaks:    ov.Tweaks,
		Transform: viewport.Identity(),
	})
	data, err := scene.JSON()
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".lz4") {
		if data, err = dataset.Compress(data); err != nil {
			return fmt.Errorf("compress scene: %w", err)
		}
	}
	if err := storage.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Printf("[DUMP] Wrote %d commands to %s", len(scene.Commands), storage.Resolve(path))
	return nil
}

func runWithGUI(ctx context.Context, settings *config.Settings, ov config.Overlay, f dataset.Fetcher, src dataset.Sources) {
	if settings.PprofAddr != "" {
		go func() {
			log.Printf("[PPROF] Listening on %s", settings.PprofAddr)
			if err := http.ListenAndServe(settings.PprofAddr, nil); err != nil {
				log.Printf("[PPROF] %v", err)
			}
		}()
	}

	loader := dataset.NewLoader(f, src)
	loader.Start(ctx)

	opts := app.Options{
		Loader:   loader,
		Overlay:  ov,
		Images:   app.NewImageCache(ctx, f, settings.AssetDir),
		Debounce: settings.ResizeDebounce,
	}
	if settings.APIAddr != "" {
		hub := api.NewAPI()
		go hub.Run(ctx)
		go func() {
			if err := hub.Serve(ctx, settings.APIAddr); err != nil {
				log.Printf("[API] %v", err)
			}
		}()
		opts.Remote = hub
	}

	go func() {
		<-ctx.Done()
		log.Println("Received shutdown signal. Cleaning up...")
		os.Exit(0)
	}()

	ebiten.SetWindowTitle(app.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(settings.WindowWidth, settings.WindowHeight)

	game := app.NewGame(opts)
	if err := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{
		X11ClassName:    app.Title,
		X11InstanceName: "EarliestElephant",
	}); err != nil {
		log.Fatalf("[APP] %v", err)
	}
}
