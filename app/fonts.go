package app

import (
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Global font cache so faces are built once per size.
var (
	fontCache        = make(map[float64]font.Face)
	fontCacheMux     sync.RWMutex
	parsedFont       *opentype.Font
	fontLoadOnce     sync.Once
	fontLoadError    error
	maxFontCacheSize = 8
)

func initFont() {
	parsedFont, fontLoadError = opentype.Parse(goregular.TTF)
	if fontLoadError != nil {
		log.Printf("[UI] Failed to parse Go Regular font: %v, using default font", fontLoadError)
	}
}

// loadFont returns a cached face of the given size, falling back to basicfont.
func loadFont(size float64) font.Face {
	fontLoadOnce.Do(initFont)

	fontCacheMux.RLock()
	if cached, ok := fontCache[size]; ok {
		fontCacheMux.RUnlock()
		return cached
	}
	fontCacheMux.RUnlock()

	if fontLoadError != nil || parsedFont == nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("[UI] Failed to create font face: %v, using default font", err)
		return basicfont.Face7x13
	}

	fontCacheMux.Lock()
	if len(fontCache) >= maxFontCacheSize {
		for key := range fontCache {
			delete(fontCache, key)
			break
		}
	}
	fontCache[size] = face
	fontCacheMux.Unlock()

	return face
}
