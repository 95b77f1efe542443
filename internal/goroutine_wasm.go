//go:build wasm

package internal

// GoroutineID always returns 0, wasm hosts run a single event loop.
func GoroutineID() int64 {
	return 0
}
