package motion

// Disconnect tears down what a connect function set up. It may be nil.
type Disconnect func()

// Observable is a cold producer. Every Subscribe runs the connect function
// again, so subscriptions never share upstream state unless an operator
// such as Multicast or Remember introduces it.
type Observable[T any] struct {
	connect func(Observer[T]) Disconnect
}

// NewObservable creates an observable from a connect function. connect is
// called once per subscription with an observer that only supports the
// channels the subscriber declared.
func NewObservable[T any](connect func(Observer[T]) Disconnect) *Observable[T] {
	return &Observable[T]{connect: connect}
}

// Subscribe connects obs to the producer.
func (o *Observable[T]) Subscribe(obs Observer[T]) *Subscription {
	s := &Subscription{live: true}

	disconnect := o.connect(guard(s, obs))

	if !s.live {
		// unsubscribed while connecting
		if disconnect != nil {
			disconnect()
		}
		return s
	}

	s.disconnect = disconnect
	return s
}

// SubscribeNext subscribes to the value channel only.
func (o *Observable[T]) SubscribeNext(fn func(T)) *Subscription {
	return o.Subscribe(Observer[T]{OnNext: fn})
}

// guard wraps every callback declared by obs so nothing is delivered once
// the subscription is gone.
func guard[T any](s *Subscription, obs Observer[T]) Observer[T] {
	var guarded Observer[T]

	if obs.OnNext != nil {
		guarded.OnNext = func(v T) {
			if s.live {
				obs.OnNext(v)
			}
		}
	}
	if obs.OnState != nil {
		guarded.OnState = func(st State) {
			if s.live {
				obs.OnState(st)
			}
		}
	}
	if obs.OnAnimation != nil {
		guarded.OnAnimation = func(ev AnimationEvent[T]) {
			if s.live {
				obs.OnAnimation(ev)
			}
		}
	}
	if obs.OnVisualization != nil {
		guarded.OnVisualization = func(handle any) {
			if s.live {
				obs.OnVisualization(handle)
			}
		}
	}

	return guarded
}

// Subscription keeps a connection alive until Unsubscribe is called.
type Subscription struct {
	live       bool
	disconnect Disconnect
}

// Unsubscribe detaches the observer before returning. Calling it again is a
// no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.live {
		return
	}
	s.live = false

	if s.disconnect != nil {
		disconnect := s.disconnect
		s.disconnect = nil
		disconnect()
	}
}

// Live reports whether the subscription still delivers.
func (s *Subscription) Live() bool {
	return s != nil && s.live
}

// Empty is an observable that never emits.
func Empty[T any]() *Observable[T] {
	return NewObservable(func(Observer[T]) Disconnect { return nil })
}

// Just emits the given values to every subscriber, then nothing.
func Just[T any](values ...T) *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		for _, v := range values {
			obs.Next(v)
		}
		return nil
	})
}
