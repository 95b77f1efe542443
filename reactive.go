package motion

import "fmt"

// Handle identifies a reactive wrapper inside its runtime's arena.
type Handle int

// Reactive wraps an external object. It caches one property per name so
// repeated lookups compose on the same state.
type Reactive struct {
	handle     Handle
	target     any
	runtime    *Runtime
	properties map[string]any
}

func (w *Reactive) Handle() Handle { return w.handle }
func (w *Reactive) Target() any { return w.target }
func (w *Reactive) Runtime() *Runtime { return w.runtime }

// Get returns the reactive wrapper of target, creating it on first use.
// The same target always yields the same wrapper for the life of the
// runtime. target must be comparable, typically a pointer.
func (r *Runtime) Get(target any) *Reactive {
	if !r.usable() {
		return nil
	}

	if !isComparable(target) {
		violation("cannot key a reactive wrapper by %s, it is not comparable", typeName(target))
		return nil
	}

	if h, ok := r.handles[target]; ok {
		return r.arena[h]
	}

	w := &Reactive{
		handle:     Handle(len(r.arena)),
		target:     target,
		runtime:    r,
		properties: make(map[string]any),
	}
	r.arena = append(r.arena, w)
	r.handles[target] = w.handle

	if r.attach != nil {
		r.attach(w)
	}

	return w
}

// Lookup returns the wrapper stored under h.
func (r *Runtime) Lookup(h Handle) (*Reactive, bool) {
	if h < 0 || int(h) >= len(r.arena) {
		return nil, false
	}
	return r.arena[h], true
}

// ReactiveProperty returns the property called name on w, creating it with
// initial and opts on first use. Asking for an existing name with another
// value type is a contract violation.
func ReactiveProperty[T any](w *Reactive, name string, initial T, opts ...PropertyOption[T]) *Property[T] {
	if existing, ok := w.properties[name]; ok {
		p, ok := existing.(*Property[T])
		if !ok {
			violation("property %q of %s is a %T, not a *Property[%T]", name, typeName(w.target), existing, initial)
			return NewProperty(name, initial, opts...)
		}
		return p
	}

	p := NewProperty(fmt.Sprintf("%d.%s", w.handle, name), initial, opts...)
	w.properties[name] = p

	return p
}
