package motion

import "slices"

// source is a hand driven producer for tests.
type source[T any] struct {
	observers   []*Observer[T]
	connects    int
	disconnects int
}

func newSource[T any]() *source[T] {
	return &source[T]{}
}

func (s *source[T]) Observable() *Observable[T] {
	return NewObservable(func(obs Observer[T]) Disconnect {
		s.connects++
		entry := &obs
		s.observers = append(s.observers, entry)

		return func() {
			s.disconnects++
			s.observers = slices.DeleteFunc(s.observers, func(o *Observer[T]) bool { return o == entry })
		}
	})
}

func (s *source[T]) Next(v T) {
	for _, o := range slices.Clone(s.observers) {
		o.Next(v)
	}
}

func (s *source[T]) State(st State) {
	for _, o := range slices.Clone(s.observers) {
		o.State(st)
	}
}

func (s *source[T]) Animate(ev AnimationEvent[T]) {
	for _, o := range slices.Clone(s.observers) {
		o.Animate(ev)
	}
}

func (s *source[T]) Subscribed() int {
	return len(s.observers)
}

// recorder collects everything delivered to it.
type recorder[T any] struct {
	values     []T
	states     []State
	animations []AnimationEvent[T]
}

func (r *recorder[T]) Observer() Observer[T] {
	return Observer[T]{
		OnNext:      func(v T) { r.values = append(r.values, v) },
		OnState:     func(s State) { r.states = append(r.states, s) },
		OnAnimation: func(ev AnimationEvent[T]) { r.animations = append(r.animations, ev) },
	}
}

// stateful is a Stateful Enableable interaction driven by hand.
type stateful struct {
	name    string
	state   *Property[State]
	enabled *Property[bool]
}

func newStateful(name string, initial State) *stateful {
	return &stateful{
		name:    name,
		state:   NewProperty(name+".state", initial),
		enabled: NewProperty(name+".enabled", true),
	}
}

func (s *stateful) State() *Observable[State] { return s.state.Observable() }
func (s *stateful) Enabled() *Property[bool] { return s.enabled }

func (s *stateful) Add(to *Property[float64], r *Runtime) {}

// wobble is an animation shape operators do not know about.
type wobble[T any] struct{}

func (wobble[T]) animation() {}
