// Package motion is a push-based reactive engine for building
// interactions such as drag, spring, tween and gesture-driven transitions.
//
// Streams carry three channels through the same pipe: plain values, an
// Active/AtRest state signal, and declarative animation events that a
// rendering backend can play without per-frame values. Operators transform
// all of them, properties bridge the graph to external mutable state, and a
// Runtime binds interactions to targets and rolls up their state.
//
// Everything runs synchronously on a single goroutine. The only deferred
// delivery goes through a Loop owned by the embedding application.
package motion

// State tells whether a producer is currently in motion.
type State int

const (
	AtRest State = iota
	Active
)

func (s State) String() string {
	switch s {
	case AtRest:
		return "at rest"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}
