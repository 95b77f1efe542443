package motion

import (
	"cmp"
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// passthrough builds an upstream observer that forwards the state and
// visualization channels of obs untouched.
func passthrough[T, U any](obs Observer[U]) Observer[T] {
	return Observer[T]{
		OnState:         obs.OnState,
		OnVisualization: obs.OnVisualization,
	}
}

// forward builds an upstream observer that relays every channel to obs.
func forward[T any](obs Observer[T]) Observer[T] {
	return Observer[T]{
		OnNext:          obs.OnNext,
		OnState:         obs.OnState,
		OnAnimation:     obs.OnAnimation,
		OnVisualization: obs.OnVisualization,
	}
}

// Map transforms every value with fn. Animation events are transformed too:
// their from/to/by values, keyframes and initial velocity go through fn so
// a declarative consumer plays the same motion the value channel describes.
func Map[T, U any](o *Observable[T], fn func(T) U) *Observable[U] {
	return NewObservable(func(obs Observer[U]) Disconnect {
		upstream := passthrough[T](obs)
		upstream.OnNext = func(v T) { obs.Next(fn(v)) }

		if obs.HasAnimation() {
			upstream.OnAnimation = func(ev AnimationEvent[T]) {
				if mapped, ok := MapAnimationEvent(ev, fn); ok {
					obs.Animate(mapped)
				}
			}
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}

// Filter only forwards values for which keep returns true. Animation
// events are forwarded unchanged.
func Filter[T any](o *Observable[T], keep func(T) bool) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		upstream := forward(obs)
		upstream.OnNext = func(v T) {
			if keep(v) {
				obs.Next(v)
			}
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}

// Dedupe drops values equal to the previously forwarded one.
func Dedupe[T comparable](o *Observable[T]) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		var (
			last T
			seen bool
		)

		upstream := forward(obs)
		upstream.OnNext = func(v T) {
			if seen && v == last {
				return
			}

			last, seen = v, true
			obs.Next(v)
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}

// Merge forwards everything emitted by any of the given observables.
func Merge[T any](observables ...*Observable[T]) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		subs := make([]*Subscription, 0, len(observables))
		for _, o := range observables {
			subs = append(subs, o.Subscribe(forward(obs)))
		}

		return func() {
			for _, sub := range subs {
				sub.Unsubscribe()
			}
		}
	})
}

// Rewrite emits table[v] for every value present in the table and drops
// the others. An animation is rewritten only if every value it carries has
// an entry, otherwise it is dropped as well.
func Rewrite[K comparable, V any](o *Observable[K], table map[K]V) *Observable[V] {
	lookup := func(k K) V { return table[k] }

	return NewObservable(func(obs Observer[V]) Disconnect {
		upstream := passthrough[K](obs)
		upstream.OnNext = func(k K) {
			if v, ok := table[k]; ok {
				obs.Next(v)
			}
		}

		if obs.HasAnimation() {
			upstream.OnAnimation = func(ev AnimationEvent[K]) {
				if add, ok := ev.(AnimationAdd[K]); ok {
					values := animationValues[K](add.Animation)
					if add.InitialVelocity != nil {
						values = append(values, *add.InitialVelocity)
					}

					for _, k := range values {
						if _, ok := table[k]; !ok {
							return
						}
					}
				}

				if mapped, ok := MapAnimationEvent(ev, lookup); ok {
					obs.Animate(mapped)
				}
			}
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}

// RewriteTo replaces every value with value.
func RewriteTo[T, U any](o *Observable[T], value U) *Observable[U] {
	return Map(o, func(T) U { return value })
}

// Inverted negates boolean values.
func Inverted(o *Observable[bool]) *Observable[bool] {
	return Map(o, func(v bool) bool { return !v })
}

// X extracts the horizontal component of points.
func X(o *Observable[Point]) *Observable[float64] {
	return Map(o, func(p Point) float64 { return p.X })
}

// Y extracts the vertical component of points.
func Y(o *Observable[Point]) *Observable[float64] {
	return Map(o, func(p Point) float64 { return p.Y })
}

func OffsetBy[T Number](o *Observable[T], offset T) *Observable[T] {
	return Map(o, func(v T) T { return v + offset })
}

func ScaledBy[T Number](o *Observable[T], factor T) *Observable[T] {
	return Map(o, func(v T) T { return v * factor })
}

// Normalized divides every value by amount.
func Normalized(o *Observable[float64], amount float64) *Observable[float64] {
	return Map(o, func(v float64) float64 { return v / amount })
}

// LowerBound clamps values below bound to bound.
func LowerBound[T cmp.Ordered](o *Observable[T], bound T) *Observable[T] {
	return Map(o, func(v T) T { return max(v, bound) })
}

// UpperBound clamps values above bound to bound.
func UpperBound[T cmp.Ordered](o *Observable[T], bound T) *Observable[T] {
	return Map(o, func(v T) T { return min(v, bound) })
}

// StartWith emits value to each new subscriber before anything upstream.
func StartWith[T any](o *Observable[T], value T) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		obs.Next(value)
		return o.Subscribe(forward(obs)).Unsubscribe
	})
}

// States turns the state channel of o into a value stream. Repeated states
// are dropped, so only transitions are emitted.
func States[T any](o *Observable[T]) *Observable[State] {
	return NewObservable(func(obs Observer[State]) Disconnect {
		var (
			last State
			seen bool
		)

		return o.Subscribe(Observer[T]{
			OnState: func(s State) {
				if seen && s == last {
					return
				}

				last, seen = s, true
				obs.Next(s)
			},
		}).Unsubscribe
	})
}

// Log emits every value flowing through o as a StreamValueLogged signal
// tagged with name.
func Log[T any](o *Observable[T], name string) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		upstream := forward(obs)
		upstream.OnNext = func(v T) {
			capitan.Emit(context.Background(), StreamValueLogged,
				KeyName.Field(name),
				KeyValue.Field(fmt.Sprint(v)),
			)

			obs.Next(v)
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}
