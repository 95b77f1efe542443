package motion

import (
	"context"
	"slices"
	"time"

	"github.com/zoobzio/capitan"
)

// Valve only keeps o subscribed while the latest value of open is true.
// Closing the valve unsubscribes immediately, opening it again restarts o
// from scratch. Nothing is buffered while closed.
func Valve[T any](o *Observable[T], open *Observable[bool]) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		var (
			upstream *Subscription
			opened   bool
			active   bool
		)

		relay := forward(obs)
		relay.OnState = func(s State) {
			active = s == Active
			obs.State(s)
		}

		shut := func() {
			opened = false

			if upstream != nil {
				upstream.Unsubscribe()
				upstream = nil
			}

			if active {
				active = false
				obs.State(AtRest)
			}
		}

		gate := open.SubscribeNext(func(isOpen bool) {
			if !isOpen {
				shut()
				return
			}

			if opened {
				return
			}
			opened = true

			sub := o.Subscribe(relay)
			if opened {
				upstream = sub
			} else {
				sub.Unsubscribe()
			}
		})

		return func() {
			gate.Unsubscribe()
			shut()
		}
	})
}

type toggleMode int

const (
	toggleUnknown toggleMode = iota
	togglePreferred
	toggleBase
)

// Toggled forwards preferred while it reports Active and base while it
// reports AtRest. base stays unsubscribed whenever preferred is active.
// Until preferred reports its first state nothing is forwarded from either
// stream.
func Toggled[T any](base, preferred *Observable[T]) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		var (
			mode     toggleMode
			baseSub  *Subscription
			baseOpen bool
		)

		openBase := func() {
			if baseOpen {
				return
			}
			baseOpen = true

			sub := base.Subscribe(forward(obs))
			if baseOpen {
				baseSub = sub
			} else {
				sub.Unsubscribe()
			}
		}

		closeBase := func() {
			baseOpen = false

			if baseSub != nil {
				baseSub.Unsubscribe()
				baseSub = nil
			}
		}

		relay := Observer[T]{
			OnNext: func(v T) {
				if mode == togglePreferred {
					obs.Next(v)
				}
			},
			OnState: func(s State) {
				switch {
				case s == Active && mode != togglePreferred:
					mode = togglePreferred
					closeBase()
					obs.State(Active)

				case s == AtRest && mode != toggleBase:
					mode = toggleBase
					obs.State(AtRest)
					openBase()
				}
			},
			OnVisualization: obs.OnVisualization,
		}

		if obs.HasAnimation() {
			relay.OnAnimation = func(ev AnimationEvent[T]) {
				if mode == togglePreferred {
					obs.Animate(ev)
				}
			}
		}

		preferredSub := preferred.Subscribe(relay)

		return func() {
			preferredSub.Unsubscribe()
			closeBase()
		}
	})
}

type hub[T any] struct {
	source   *Observable[T]
	remember bool

	observers []*hubEntry[T]
	upstream  *Subscription
	connected bool

	value      T
	hasValue   bool
	state      State
	hasState   bool
	animations []AnimationAdd[T]
}

type hubEntry[T any] struct {
	obs Observer[T]
}

// Multicast shares one upstream subscription between every subscriber.
// The upstream is connected by the first subscriber and disconnected when
// the last one leaves. The shared connection declares support for every
// channel.
func Multicast[T any](o *Observable[T]) *Observable[T] {
	h := &hub[T]{source: o}
	return NewObservable(h.connect)
}

// Remember is Multicast that also retains the last value, the last state
// and every in-flight animation. They are replayed synchronously to each
// new subscriber, including after the upstream was torn down.
func Remember[T any](o *Observable[T]) *Observable[T] {
	h := &hub[T]{source: o, remember: true}
	return NewObservable(h.connect)
}

func (h *hub[T]) connect(obs Observer[T]) Disconnect {
	entry := &hubEntry[T]{obs: obs}
	h.observers = append(h.observers, entry)

	if h.remember {
		if h.hasValue {
			obs.Next(h.value)
		}
		if h.hasState {
			obs.State(h.state)
		}
		if obs.HasAnimation() {
			for _, add := range slices.Clone(h.animations) {
				obs.Animate(add)
			}
		}
	}

	if !h.connected {
		h.connected = true

		sub := h.source.Subscribe(Observer[T]{
			OnNext:          h.next,
			OnState:         h.setState,
			OnAnimation:     h.animate,
			OnVisualization: h.visualize,
		})

		if h.connected {
			h.upstream = sub
		} else {
			sub.Unsubscribe()
		}
	}

	return func() {
		h.observers = slices.DeleteFunc(h.observers, func(e *hubEntry[T]) bool { return e == entry })

		if len(h.observers) == 0 && h.connected {
			h.connected = false

			if h.upstream != nil {
				h.upstream.Unsubscribe()
				h.upstream = nil
			}
		}
	}
}

func (h *hub[T]) next(v T) {
	if h.remember {
		h.value, h.hasValue = v, true
	}

	for _, e := range slices.Clone(h.observers) {
		e.obs.Next(v)
	}
}

func (h *hub[T]) setState(s State) {
	if h.remember {
		h.state, h.hasState = s, true
	}

	for _, e := range slices.Clone(h.observers) {
		e.obs.State(s)
	}
}

func (h *hub[T]) animate(ev AnimationEvent[T]) {
	if h.remember {
		switch ev := ev.(type) {
		case AnimationAdd[T]:
			h.forget(ev.Key)

			completion := ev.Completion
			key := ev.Key
			ev.Completion = func() {
				h.forget(key)
				if completion != nil {
					completion()
				}
			}

			h.animations = append(h.animations, ev)
			h.broadcast(ev)
			return

		case AnimationRemove[T]:
			h.forget(ev.Key)
		}
	}

	h.broadcast(ev)
}

func (h *hub[T]) broadcast(ev AnimationEvent[T]) {
	for _, e := range slices.Clone(h.observers) {
		e.obs.Animate(ev)
	}
}

func (h *hub[T]) forget(key string) {
	h.animations = slices.DeleteFunc(h.animations, func(add AnimationAdd[T]) bool {
		return add.Key == key
	})
}

func (h *hub[T]) visualize(handle any) {
	for _, e := range slices.Clone(h.observers) {
		e.obs.Visualize(handle)
	}
}

// Delay re-emits every value d later, on a later turn of loop. Values still
// pending when the subscription ends are never delivered.
func Delay[T any](o *Observable[T], d time.Duration, loop *Loop) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		var (
			live    = true
			nextID  int
			pending = make(map[int]func())
		)

		relay := forward(obs)
		relay.OnNext = func(v T) {
			id := nextID
			nextID++

			pending[id] = loop.After(d, func() {
				delete(pending, id)

				if !live {
					capitan.Emit(context.Background(), DelayDropped,
						KeyDelay.Field(d),
					)
					return
				}

				obs.Next(v)
			})
		}

		sub := o.Subscribe(relay)

		return func() {
			live = false
			sub.Unsubscribe()

			for _, cancel := range pending {
				cancel()
			}
			clear(pending)
		}
	})
}
