package motion

import "github.com/zoobzio/capitan"

// Field keys for motion events.
var (
	// KeyReason describes a contract violation.
	KeyReason = capitan.NewStringKey("reason")

	// KeyName is the name of the stream or property involved.
	KeyName = capitan.NewStringKey("name")

	// KeyValue is a formatted stream value.
	KeyValue = capitan.NewStringKey("value")

	// KeyState is a motion state.
	KeyState = capitan.NewStringKey("state")

	// KeyInteraction is the type name of an interaction.
	KeyInteraction = capitan.NewStringKey("interaction")

	// KeyWrappers is the number of reactive wrappers released.
	KeyWrappers = capitan.NewIntKey("wrappers")

	// KeyPending is the number of queued writes or tasks.
	KeyPending = capitan.NewIntKey("pending")

	// KeyDelay is the configured delay duration.
	KeyDelay = capitan.NewDurationKey("delay")
)
