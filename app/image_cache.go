package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/aldo-g/earliest-elephant/dataset"
	"github.com/aldo-g/earliest-elephant/metrics"

	"github.com/hajimehoshi/ebiten/v2"
)

type imageState int

const (
	imagePending imageState = iota
	imageReady
	imageFailed
)

type imageEntry struct {
	state imageState
	img   *ebiten.Image
}

type decodedImage struct {
	ref string
	img image.Image
	err error
}

// ImageCache loads overlay images in the background. Decoding happens on goroutines; the
// game loop turns decoded pixels into GPU images in Update.
type ImageCache struct {
	ctx      context.Context
	fetcher  dataset.Fetcher
	assetDir string

	entries map[string]*imageEntry // game loop only

	mu    sync.Mutex
	queue []decodedImage
	wg    sync.WaitGroup
}

func NewImageCache(ctx context.Context, f dataset.Fetcher, assetDir string) *ImageCache {
	return &ImageCache{
		ctx:      ctx,
		fetcher:  f,
		assetDir: assetDir,
		entries:  make(map[string]*imageEntry),
	}
}

// Get returns the image for ref once it is ready, starting the load on first request.
func (c *ImageCache) Get(ref string) (*ebiten.Image, bool) {
	if ref == "" {
		return nil, false
	}
	e, ok := c.entries[ref]
	if !ok {
		c.entries[ref] = &imageEntry{state: imagePending}
		c.wg.Add(1)
		go c.load(ref)
		return nil, false
	}
	return e.img, e.state == imageReady
}

// Update uploads images decoded since the last frame.
func (c *ImageCache) Update() {
	for _, d := range c.drain() {
		e := c.entries[d.ref]
		if e == nil {
			continue
		}
		if d.err != nil {
			e.state = imageFailed
			continue
		}
		e.img = ebiten.NewImageFromImage(d.img)
		e.state = imageReady
	}
}

func (c *ImageCache) drain() []decodedImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.queue
	c.queue = nil
	return out
}

func (c *ImageCache) load(ref string) {
	defer c.wg.Done()
	img, err := c.decode(ref)
	if err != nil {
		log.Printf("[IMAGE] %v", err)
		metrics.ImageLoadsTotal.WithLabelValues("failed").Inc()
	} else {
		metrics.ImageLoadsTotal.WithLabelValues("ok").Inc()
	}

	c.mu.Lock()
	c.queue = append(c.queue, decodedImage{ref: ref, img: img, err: err})
	c.mu.Unlock()
}

func (c *ImageCache) decode(ref string) (image.Image, error) {
	loc := c.resolve(ref)
	data, err := c.fetcher.Fetch(c.ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", ref, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", ref, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("image %q (%s) is empty", ref, format)
	}
	return img, nil
}

// resolve maps site-absolute refs ("/images/x.png") under the asset root, which may be a
// directory or a base URL. URLs and relative paths pass through unchanged.
func (c *ImageCache) resolve(ref string) string {
	if isURL(ref) {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		return ref
	}
	rel := strings.TrimLeft(ref, "/")
	switch {
	case c.assetDir == "":
		return rel
	case isURL(c.assetDir):
		return strings.TrimRight(c.assetDir, "/") + "/" + rel
	default:
		return filepath.Join(c.assetDir, filepath.FromSlash(rel))
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Wait blocks until every started load has been queued; used by tests and shutdown.
func (c *ImageCache) Wait() { c.wg.Wait() }
