package motion

import (
	"slices"
	"time"

	"github.com/tanema/gween/ease"
)

// SpringDescription configures a physical spring. The simulation itself is
// left to the backend.
type SpringDescription struct {
	Tension           float64
	Friction          float64
	Mass              float64
	Threshold         float64
	SuggestedDuration time.Duration
}

// DefaultSpring matches the usual tension/friction pair of platform springs.
var DefaultSpring = SpringDescription{
	Tension:   342,
	Friction:  30,
	Mass:      1,
	Threshold: 0.01,
}

// TweenDescription configures a keyframed tween.
type TweenDescription[T any] struct {
	Duration time.Duration
	Delay    time.Duration
	Values   []T
	// KeyTimes are normalized offsets in [0, 1], one per value. When empty
	// the values are spread evenly.
	KeyTimes []float64
	// TimingFunctions apply to the segments between values. A single
	// function applies to every segment, none means linear.
	TimingFunctions []ease.TweenFunc
	// Repeat is the number of extra plays after the first one.
	Repeat int
}

// Animation is a declarative animation description. It is one of Basic,
// Keyframe or Spring.
type Animation[T any] interface {
	animation()
}

// Basic animates between two values.
type Basic[T any] struct {
	From     T
	To       T
	By       *T
	Duration time.Duration
	Timing   ease.TweenFunc
}

// Keyframe animates through a list of values.
type Keyframe[T any] struct {
	Values   []T
	KeyTimes []float64
	Timing   []ease.TweenFunc
	Duration time.Duration
	Repeat   int
}

// Spring animates towards To following a spring curve.
type Spring[T any] struct {
	From   T
	To     T
	Spring SpringDescription
}

func (Basic[T]) animation() {}
func (Keyframe[T]) animation() {}
func (Spring[T]) animation() {}

// AnimationEvent is sent through the animation channel. It is either an
// AnimationAdd or an AnimationRemove.
type AnimationEvent[T any] interface {
	animationEvent()
	AnimationKey() string
}

// AnimationAdd asks the consumer to start playing an animation under Key.
type AnimationAdd[T any] struct {
	Animation       Animation[T]
	Key             string
	InitialVelocity *T
	// Completion is called by the consumer once the animation finished.
	Completion func()
}

// AnimationRemove asks the consumer to stop the animation registered under Key.
type AnimationRemove[T any] struct {
	Key string
}

func (AnimationAdd[T]) animationEvent() {}
func (AnimationRemove[T]) animationEvent() {}

func (a AnimationAdd[T]) AnimationKey() string { return a.Key }
func (r AnimationRemove[T]) AnimationKey() string { return r.Key }

// MapAnimation applies fn to every value carried by the animation while
// keeping its shape. An unknown shape is a contract violation and reports
// false.
func MapAnimation[T, U any](a Animation[T], fn func(T) U) (Animation[U], bool) {
	switch a := a.(type) {
	case Basic[T]:
		return Basic[U]{
			From:     fn(a.From),
			To:       fn(a.To),
			By:       mapPtr(a.By, fn),
			Duration: a.Duration,
			Timing:   a.Timing,
		}, true

	case Keyframe[T]:
		values := make([]U, len(a.Values))
		for i, v := range a.Values {
			values[i] = fn(v)
		}

		return Keyframe[U]{
			Values:   values,
			KeyTimes: slices.Clone(a.KeyTimes),
			Timing:   slices.Clone(a.Timing),
			Duration: a.Duration,
			Repeat:   a.Repeat,
		}, true

	case Spring[T]:
		return Spring[U]{
			From:   fn(a.From),
			To:     fn(a.To),
			Spring: a.Spring,
		}, true

	default:
		violation("cannot transform animation of type %T", a)
		return nil, false
	}
}

// MapAnimationEvent is MapAnimation lifted to animation events. Removals
// carry no values and are always forwarded.
func MapAnimationEvent[T, U any](ev AnimationEvent[T], fn func(T) U) (AnimationEvent[U], bool) {
	switch ev := ev.(type) {
	case AnimationAdd[T]:
		animation, ok := MapAnimation(ev.Animation, fn)
		if !ok {
			return nil, false
		}

		return AnimationAdd[U]{
			Animation:       animation,
			Key:             ev.Key,
			InitialVelocity: mapPtr(ev.InitialVelocity, fn),
			Completion:      ev.Completion,
		}, true

	case AnimationRemove[T]:
		return AnimationRemove[U]{Key: ev.Key}, true

	default:
		violation("cannot transform animation event of type %T", ev)
		return nil, false
	}
}

// animationValues lists every endpoint value of an animation, used by
// operators that can only transform some values.
func animationValues[T any](a Animation[T]) []T {
	switch a := a.(type) {
	case Basic[T]:
		values := []T{a.From, a.To}
		if a.By != nil {
			values = append(values, *a.By)
		}
		return values
	case Keyframe[T]:
		return slices.Clone(a.Values)
	case Spring[T]:
		return []T{a.From, a.To}
	default:
		return nil
	}
}

func mapPtr[T, U any](v *T, fn func(T) U) *U {
	if v == nil {
		return nil
	}

	u := fn(*v)
	return &u
}

// Observer is a bundle of optional callbacks, one per channel. A nil
// callback means the channel is not supported and events sent to it are
// absorbed.
type Observer[T any] struct {
	OnNext          func(T)
	OnState         func(State)
	OnAnimation     func(AnimationEvent[T])
	OnVisualization func(any)
}

// Next delivers a value.
func (o Observer[T]) Next(v T) {
	if o.OnNext != nil {
		o.OnNext(v)
	}
}

// State delivers a state change.
func (o Observer[T]) State(s State) {
	if o.OnState != nil {
		o.OnState(s)
	}
}

// Animate delivers an animation event.
func (o Observer[T]) Animate(ev AnimationEvent[T]) {
	if o.OnAnimation != nil {
		o.OnAnimation(ev)
	}
}

// Visualize delivers an opaque visualization handle.
func (o Observer[T]) Visualize(handle any) {
	if o.OnVisualization != nil {
		o.OnVisualization(handle)
	}
}

func (o Observer[T]) HasState() bool { return o.OnState != nil }
func (o Observer[T]) HasAnimation() bool { return o.OnAnimation != nil }
func (o Observer[T]) HasVisualization() bool { return o.OnVisualization != nil }
