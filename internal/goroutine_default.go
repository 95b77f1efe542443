//go:build !wasm

package internal

import (
	"github.com/petermattis/goid"
)

// GoroutineID returns the id of the calling goroutine.
func GoroutineID() int64 {
	return goid.Get()
}
