package preset

import (
	"context"
	"fmt"
	"os"

	"github.com/AnatoleLucet/motion"
	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/capitan"
)

// Watch loads the library at path into into, then reloads it every time the
// file is written until ctx is done. Libraries are decoded on a background
// goroutine and written to into on loop, so into is only ever touched from
// the goroutine draining loop. Invalid libraries are reported with
// LibraryRejected and leave into unchanged.
func Watch(ctx context.Context, path string, loop *motion.Loop, into *motion.Property[*Library]) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch presets %s: %w", path, err)
	}

	reload := func() {
		lib, err := Load(path)
		if err != nil {
			capitan.Emit(ctx, LibraryRejected,
				KeyPath.Field(path),
				KeyError.Field(err.Error()),
			)
			return
		}

		capitan.Emit(ctx, LibraryLoaded, KeyPath.Field(path))
		loop.Post(func() { into.SetValue(lib) })
	}

	go func() {
		defer watcher.Close()

		reload()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// Only reload on write or create events
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				if _, err := os.Stat(path); err != nil {
					continue
				}

				reload()

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return nil
}
