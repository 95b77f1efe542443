//go:build !motionrelease

package internal

// Strict makes contract violations panic.
const Strict = true
