package motion

import "github.com/zoobzio/capitan"

// Contract signals.
var (
	// ContractViolated is emitted in release builds instead of panicking.
	ContractViolated = capitan.NewSignal(
		"motion.contract.violated",
		"Contract violation, event dropped",
	)
)

// Property signals.
var (
	// PropertyWriteQueued is emitted when a property is written from one of
	// its own notifications.
	PropertyWriteQueued = capitan.NewSignal(
		"motion.property.write.queued",
		"Re-entrant property write queued",
	)
)

// Runtime signals.
var (
	// RuntimeInteractionAdded is emitted when an interaction is bound to a target.
	RuntimeInteractionAdded = capitan.NewSignal(
		"motion.runtime.interaction.added",
		"Interaction added to target",
	)

	// RuntimeStateChanged is emitted when the aggregate manipulation state flips.
	RuntimeStateChanged = capitan.NewSignal(
		"motion.runtime.state.changed",
		"Runtime manipulation state changed",
	)

	// RuntimeDisposed is emitted once a runtime released everything it held.
	RuntimeDisposed = capitan.NewSignal(
		"motion.runtime.disposed",
		"Runtime disposed",
	)
)

// Stream signals.
var (
	// StreamValueLogged is emitted by the Log operator.
	StreamValueLogged = capitan.NewSignal(
		"motion.stream.value",
		"Stream value logged",
	)

	// DelayDropped is emitted when a delayed delivery is discarded because
	// its subscription ended first.
	DelayDropped = capitan.NewSignal(
		"motion.stream.delay.dropped",
		"Delayed delivery dropped",
	)
)
