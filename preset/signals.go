package preset

import "github.com/zoobzio/capitan"

var (
	// LibraryLoaded is emitted when a watched library was applied.
	LibraryLoaded = capitan.NewSignal(
		"motion.preset.loaded",
		"Preset library loaded",
	)

	// LibraryRejected is emitted when a watched library failed to load.
	// The previous library stays in place.
	LibraryRejected = capitan.NewSignal(
		"motion.preset.rejected",
		"Preset library rejected",
	)
)

var (
	// KeyPath is the watched file.
	KeyPath = capitan.NewStringKey("path")

	// KeyError is the reason a library was rejected.
	KeyError = capitan.NewStringKey("error")
)
