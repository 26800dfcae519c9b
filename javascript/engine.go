// Package javascript evaluates small configuration scripts in a sandboxed goja VM.
package javascript

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dop251/goja"
)

// DefaultTimeout bounds a script when the caller passes no timeout.
const DefaultTimeout = 5 * time.Second

var ErrNoValue = errors.New("script returned no value")

// Evaluate runs src and returns the exported value of its last expression. Globals are made
// visible to the script under their map keys; Go structs expose their json field names.
// The script is interrupted when ctx is done or timeout elapses.
func Evaluate(ctx context.Context, src, scriptName string, globals map[string]interface{}, timeout time.Duration) (interface{}, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	// Utility functions
	vm.Set("sprintf", fmt.Sprintf)
	vm.Set("println", func(args ...interface{}) {
		log.Printf("[SCRIPT] %s: %s", scriptName, fmt.Sprint(args...))
	})
	for name, v := range globals {
		if err := vm.Set(name, v); err != nil {
			return nil, fmt.Errorf("script %s: set global %s: %w", scriptName, name, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val goja.Value
		err error
	}
	resultCh := make(chan result, 1)

	go func() {
		val, err := vm.RunString(src)
		resultCh <- result{val, err}
	}()

	select {
	case <-ctx.Done():
		vm.Interrupt("timeout")
		return nil, fmt.Errorf("script %s timed out: %w", scriptName, ctx.Err())
	case res := <-resultCh:
		if res.err != nil {
			return nil, fmt.Errorf("failed to run script %s: %w", scriptName, res.err)
		}
		if res.val == nil || goja.IsUndefined(res.val) || goja.IsNull(res.val) {
			return nil, fmt.Errorf("script %s: %w", scriptName, ErrNoValue)
		}
		return res.val.Export(), nil
	}
}
