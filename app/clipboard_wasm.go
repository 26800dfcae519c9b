//go:build js && wasm
// +build js,wasm

package app

import (
	"errors"
	"log"
	"syscall/js"
)

// writeClipboard hands text to navigator.clipboard. The promise is not awaited; blocking
// the game loop on it would stall the browser event loop.
func writeClipboard(text string) error {
	cb := js.Global().Get("navigator").Get("clipboard")
	if cb.IsUndefined() || cb.IsNull() {
		return errors.New("clipboard API not available")
	}
	var onErr js.Func
	onErr = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			log.Printf("[UI] Clipboard write failed: %s", args[0].String())
		}
		onErr.Release()
		return nil
	})
	cb.Call("writeText", text).Call("catch", onErr)
	return nil
}
