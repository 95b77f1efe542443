//go:build motionrelease

package internal

// Strict is off in release builds, violations are reported and dropped.
const Strict = false
