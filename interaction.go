package motion

import (
	"context"
	"slices"

	"github.com/zoobzio/capitan"
)

// Interaction binds itself to a target of type T.
type Interaction[T any] interface {
	Add(to T, runtime *Runtime)
}

// ConstrainedInteraction binds itself to a target of type T under
// constraints of type C.
type ConstrainedInteraction[T, C any] interface {
	AddConstrained(to T, runtime *Runtime, constraints C)
}

// Stateful is implemented by interactions that report whether they are
// in motion. State should only emit transitions.
type Stateful interface {
	State() *Observable[State]
}

// Enableable is implemented by interactions that can be switched on and off.
type Enableable interface {
	Enabled() *Property[bool]
}

// Add binds interaction to target, records it and feeds its state, if
// any, into the runtime's aggregate state.
func Add[T any](r *Runtime, interaction Interaction[T], target T) {
	r.bind(interaction, target, func() {
		interaction.Add(target, r)
	})
}

// AddConstrained is Add for interactions taking constraints.
func AddConstrained[T, C any](r *Runtime, interaction ConstrainedInteraction[T, C], target T, constraints C) {
	r.bind(interaction, target, func() {
		interaction.AddConstrained(target, r, constraints)
	})
}

func (r *Runtime) bind(interaction, target any, add func()) {
	if !r.usable() {
		return
	}

	add()

	if isComparable(target) {
		r.interactions[target] = append(r.interactions[target], interaction)
	}

	if s, ok := interaction.(Stateful); ok {
		// one identity per Add, the same interaction may be added twice
		r.track(r.state.Observe(s.State(), new(int)))
	}

	capitan.Emit(context.Background(), RuntimeInteractionAdded,
		KeyInteraction.Field(typeName(interaction)),
	)
}

// InteractionsOf returns the interactions of type I added to target, in
// the order they were added.
func InteractionsOf[I any](r *Runtime, target any) []I {
	if !isComparable(target) {
		return nil
	}

	var found []I
	for _, interaction := range r.interactions[target] {
		if i, ok := interaction.(I); ok {
			found = append(found, i)
		}
	}

	return found
}

// Toggle disables interaction while other is active and enables it again
// once other comes to rest.
func Toggle(r *Runtime, interaction Enableable, other Stateful) {
	enabled := Rewrite(Dedupe(other.State()), map[State]bool{
		Active: false,
		AtRest: true,
	})

	Connect(r, enabled, interaction.Enabled())
}

// WhenAllAtRest calls body once, the first time every listed interaction
// is at rest after at least one of them was active. With no interactions
// body is called right away.
func WhenAllAtRest(r *Runtime, interactions []Stateful, body func()) {
	if len(interactions) == 0 {
		body()
		return
	}

	if !r.usable() {
		return
	}

	active := make(map[int]struct{})

	var (
		wasActive bool
		fired     bool
		subs      []*Subscription
	)

	release := func() {
		for _, sub := range slices.Clone(subs) {
			sub.Unsubscribe()
		}
	}

	for i, interaction := range interactions {
		sub := Dedupe(interaction.State()).SubscribeNext(func(s State) {
			if fired {
				return
			}

			if s == Active {
				active[i] = struct{}{}
				wasActive = true
			} else {
				delete(active, i)
			}

			if wasActive && len(active) == 0 {
				fired = true
				release()
				body()
			}
		})

		subs = append(subs, r.track(sub))
	}

	if fired {
		release()
	}
}
