package motion

// AggregateState rolls up many state streams into one: it is Active while
// at least one observed stream is Active.
type AggregateState struct {
	active  map[any]struct{}
	current State
	state   *Property[State]
}

func NewAggregateState() *AggregateState {
	return &AggregateState{
		active: make(map[any]struct{}),
		state:  NewProperty("aggregate.state", AtRest),
	}
}

// Observe tracks stream under id. Only transitions count, repeated states
// are ignored. Unsubscribing forgets id, so a stream that stops while
// active does not keep the aggregate active.
func (a *AggregateState) Observe(stream *Observable[State], id any) *Subscription {
	sub := Dedupe(stream).SubscribeNext(func(s State) {
		if s == Active {
			a.active[id] = struct{}{}
		} else {
			delete(a.active, id)
		}

		a.recompute()
	})

	return &Subscription{
		live: true,
		disconnect: func() {
			sub.Unsubscribe()
			delete(a.active, id)
			a.recompute()
		},
	}
}

func (a *AggregateState) recompute() {
	next := AtRest
	if len(a.active) > 0 {
		next = Active
	}

	// current leads state.Value() while a write is queued
	if next != a.current {
		a.current = next
		a.state.SetValue(next)
	}
}

// State streams the aggregate state, starting with the current one.
func (a *AggregateState) State() *Observable[State] {
	return a.state.Observable()
}

func (a *AggregateState) Value() State {
	return a.current
}

func (a *AggregateState) AtRest() bool {
	return a.current == AtRest
}

// ActiveCount is the number of observed streams currently active.
func (a *AggregateState) ActiveCount() int {
	return len(a.active)
}
