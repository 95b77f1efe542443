package motion

import (
	"context"
	"fmt"
	"reflect"

	"github.com/AnatoleLucet/motion/internal"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Runtime binds interactions to targets and owns every subscription it
// creates. Dispose releases all of them.
//
// A runtime belongs to the goroutine that created it.
type Runtime struct {
	owner *internal.Owner
	loop  *Loop

	// arena of reactive wrappers, indexed by Handle
	handles map[any]Handle
	arena   []*Reactive

	interactions map[any][]any
	state        *AggregateState

	attach    func(*Reactive)
	visualize func(handle any) (detach func())

	gid      int64
	disposed bool
}

// config holds configuration options for a Runtime.
type config struct {
	clock     clockz.Clock
	loop      *Loop
	attach    func(*Reactive)
	visualize func(any) func()
}

// Option configures a Runtime.
type Option func(*config)

// WithClock sets the clock of the runtime's loop.
// Use this with clockz.FakeClock for deterministic delay testing.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLoop shares an existing loop instead of creating one.
func WithLoop(loop *Loop) Option {
	return func(c *config) {
		c.loop = loop
	}
}

// WithAttacher sets a hook called once per target, when its reactive
// wrapper is first created. It is where platform observers get installed.
func WithAttacher(attach func(*Reactive)) Option {
	return func(c *config) {
		c.attach = attach
	}
}

// WithVisualizer enables the visualization channel. visualize receives
// every handle sent through it by connected streams and returns how to
// detach it when the runtime is disposed.
func WithVisualizer(visualize func(handle any) (detach func())) Option {
	return func(c *config) {
		c.visualize = visualize
	}
}

func NewRuntime(opts ...Option) *Runtime {
	cfg := &config{
		clock: clockz.RealClock,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	loop := cfg.loop
	if loop == nil {
		loop = NewLoop(cfg.clock)
	}

	r := &Runtime{
		owner:        internal.NewOwner(),
		loop:         loop,
		handles:      make(map[any]Handle),
		interactions: make(map[any][]any),
		state:        NewAggregateState(),
		attach:       cfg.attach,
		visualize:    cfg.visualize,
		gid:          internal.GoroutineID(),
	}

	sub := r.state.State().SubscribeNext(func(s State) {
		capitan.Emit(context.Background(), RuntimeStateChanged,
			KeyState.Field(s.String()),
		)
	})
	r.owner.OnCleanup(sub.Unsubscribe)

	return r
}

// Loop is where deferred deliveries such as Delay run.
func (r *Runtime) Loop() *Loop {
	return r.loop
}

// State is Active while any added stateful interaction is active.
func (r *Runtime) State() *Observable[State] {
	return r.state.State()
}

// IsBeingManipulated reports whether any added interaction is active.
func (r *Runtime) IsBeingManipulated() bool {
	return r.state.Value() == Active
}

// Dispose unsubscribes everything the runtime created, detaches
// visualizations and drops every wrapper. Calling it again is a no-op.
func (r *Runtime) Dispose() {
	if r.disposed || !r.owned() {
		return
	}
	r.disposed = true

	r.owner.Dispose()

	wrappers := len(r.arena)
	clear(r.handles)
	clear(r.interactions)
	r.arena = nil

	capitan.Emit(context.Background(), RuntimeDisposed,
		KeyWrappers.Field(wrappers),
	)
}

// OnDispose registers fn to run when the runtime is disposed.
func (r *Runtime) OnDispose(fn func()) {
	r.owner.OnCleanup(fn)
}

// Connect writes every value of stream into p and hands animation events
// to p when it has an animator. The subscription lives as long as the
// runtime unless it is unsubscribed earlier.
func Connect[T any](r *Runtime, stream *Observable[T], p *Property[T]) *Subscription {
	if !r.usable() {
		return &Subscription{}
	}

	binding := r.owner.NewChild()

	obs := Observer[T]{OnNext: p.SetValue}

	if p.SupportsAnimation() {
		obs.OnAnimation = p.Animate
	}

	if r.visualize != nil {
		obs.OnVisualization = func(handle any) {
			if detach := r.visualize(handle); detach != nil {
				binding.OnCleanup(detach)
			}
		}
	}

	binding.OnCleanup(stream.Subscribe(obs).Unsubscribe)

	return &Subscription{live: true, disconnect: binding.Dispose}
}

// track keeps sub alive until the runtime is disposed. Unsubscribing the
// returned subscription releases sub and forgets it.
func (r *Runtime) track(sub *Subscription) *Subscription {
	binding := r.owner.NewChild()
	binding.OnCleanup(sub.Unsubscribe)

	return &Subscription{live: true, disconnect: binding.Dispose}
}

func (r *Runtime) usable() bool {
	if r.disposed {
		violation("runtime used after Dispose")
		return false
	}
	return r.owned()
}

func (r *Runtime) owned() bool {
	if gid := internal.GoroutineID(); gid != r.gid {
		violation("runtime used from goroutine %d, it belongs to goroutine %d", gid, r.gid)
		return false
	}
	return true
}

func isComparable(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Comparable()
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
