package motion

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/AnatoleLucet/motion/internal"
	"github.com/zoobzio/capitan"
)

var propertyIDs atomic.Uint64

// Property is a hot, always-current reactive cell. It mirrors an external
// piece of state: writes go to the external write hook first, then to every
// observer in subscription order. New observers receive the current value
// right away.
//
// Writing a property from one of its own notifications queues the write;
// it is applied once the current fan-out is done, in FIFO order.
type Property[T any] struct {
	name string
	key  string

	value     T
	observers []*propertyObserver[T]

	write    func(T)
	animator func(AnimationEvent[T])

	batcher *internal.Batcher
	pending *internal.Queue[T]

	observable *Observable[T]

	// goroutine the property belongs to
	gid int64
}

type propertyObserver[T any] struct {
	obs  Observer[T]
	live bool
}

// PropertyOption configures a Property.
type PropertyOption[T any] func(*Property[T])

// WithExternalWrite sets the hook called with every new value before
// observers are notified.
func WithExternalWrite[T any](write func(T)) PropertyOption[T] {
	return func(p *Property[T]) {
		p.write = write
	}
}

// WithAnimator sets the consumer of declarative animations. Keys passed to
// it are namespaced with the property key so two properties never collide.
func WithAnimator[T any](animator func(AnimationEvent[T])) PropertyOption[T] {
	return func(p *Property[T]) {
		p.animator = animator
	}
}

// NewProperty creates a property holding initial.
func NewProperty[T any](name string, initial T, opts ...PropertyOption[T]) *Property[T] {
	p := &Property[T]{
		name:    name,
		key:     fmt.Sprintf("%s#%d", name, propertyIDs.Add(1)),
		value:   initial,
		batcher: internal.NewBatcher(),
		pending: internal.NewQueue[T](),
		gid:     internal.GoroutineID(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.observable = NewObservable(p.attach)

	return p
}

func (p *Property[T]) Name() string { return p.name }

// Key is unique per property instance.
func (p *Property[T]) Key() string { return p.key }

// Value returns the last written value.
func (p *Property[T]) Value() T {
	return p.value
}

// SetValue stores v, forwards it to the external write hook, then notifies
// every observer before returning.
func (p *Property[T]) SetValue(v T) {
	if !p.owned() {
		return
	}

	if p.batcher.IsBatching() {
		p.pending.Enqueue(v)

		capitan.Emit(context.Background(), PropertyWriteQueued,
			KeyName.Field(p.name),
			KeyPending.Field(p.pending.Len()),
		)
		return
	}

	p.batcher.Batch(func() { p.apply(v) }, p.drain)
}

func (p *Property[T]) apply(v T) {
	p.value = v

	if p.write != nil {
		p.write(v)
	}

	// observers may (un)subscribe while being notified
	for _, o := range slices.Clone(p.observers) {
		if o.live {
			o.obs.Next(v)
		}
	}
}

func (p *Property[T]) drain() {
	for {
		v, ok := p.pending.Dequeue()
		if !ok {
			return
		}

		p.batcher.Batch(func() { p.apply(v) }, nil)
	}
}

// Subscribe attaches obs and delivers the current value immediately.
func (p *Property[T]) Subscribe(obs Observer[T]) *Subscription {
	return p.observable.Subscribe(obs)
}

// Observable exposes the property as a stream.
func (p *Property[T]) Observable() *Observable[T] {
	return p.observable
}

func (p *Property[T]) attach(obs Observer[T]) Disconnect {
	if !p.owned() {
		return nil
	}

	entry := &propertyObserver[T]{obs: obs, live: true}
	p.observers = append(p.observers, entry)

	obs.Next(p.value)

	return func() {
		entry.live = false
		p.observers = slices.DeleteFunc(p.observers, func(o *propertyObserver[T]) bool {
			return o == entry
		})
	}
}

// SupportsAnimation reports whether the property hands animations to an
// animator.
func (p *Property[T]) SupportsAnimation() bool {
	return p.animator != nil
}

// Animate hands ev to the animator and to every observer listening on the
// animation channel.
func (p *Property[T]) Animate(ev AnimationEvent[T]) {
	if !p.owned() {
		return
	}

	if p.animator != nil {
		switch ev := ev.(type) {
		case AnimationAdd[T]:
			ev.Key = p.animationKey(ev.Key)
			p.animator(ev)
		case AnimationRemove[T]:
			ev.Key = p.animationKey(ev.Key)
			p.animator(ev)
		default:
			violation("property %q cannot animate event of type %T", p.name, ev)
			return
		}
	}

	for _, o := range slices.Clone(p.observers) {
		if o.live {
			o.obs.Animate(ev)
		}
	}
}

func (p *Property[T]) animationKey(key string) string {
	return p.key + "/" + key
}

func (p *Property[T]) owned() bool {
	if gid := internal.GoroutineID(); gid != p.gid {
		violation("property %q used from goroutine %d, it belongs to goroutine %d", p.name, gid, p.gid)
		return false
	}
	return true
}

func (p *Property[T]) String() string {
	return fmt.Sprintf("%s(%v)", p.name, p.value)
}

// PropertiesEqual compares the current values of two properties.
func PropertiesEqual[T comparable](a, b *Property[T]) bool {
	return a.Value() == b.Value()
}
