//go:build !js || !wasm
// +build !js !wasm

package app

import (
	"log"
	"sync"

	atotto "github.com/atotto/clipboard"
	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// writeClipboard copies text using the native clipboard, falling back to atotto's
// command-line helpers (xclip, pbcopy...) when the native backend failed to initialise.
func writeClipboard(text string) error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
		if clipboardErr != nil {
			log.Printf("[UI] Native clipboard unavailable, using fallback: %v", clipboardErr)
		}
	})
	if clipboardErr == nil {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}
	return atotto.WriteAll(text)
}
