//go:build motionrelease

package motion

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zoobzio/capitan"
)

// violations collects the reasons of ContractViolated events.
func violations(t *testing.T) <-chan string {
	t.Helper()

	reasons := make(chan string, 64)
	listener := capitan.Hook(ContractViolated, func(_ context.Context, e *capitan.Event) {
		if reason, ok := KeyReason.From(e); ok {
			reasons <- reason
		}
	})
	t.Cleanup(func() { listener.Close() })

	return reasons
}

// expectViolation waits for a reason containing want.
func expectViolation(t *testing.T, reasons <-chan string, want string) {
	t.Helper()

	timeout := time.After(time.Second)
	for {
		select {
		case reason := <-reasons:
			if strings.Contains(reason, want) {
				return
			}
		case <-timeout:
			t.Fatalf("no violation containing %q", want)
		}
	}
}

func TestViolationsDrop(t *testing.T) {
	t.Run("unknown animation shapes", func(t *testing.T) {
		reasons := violations(t)

		src := newSource[int]()
		rec := &recorder[int]{}
		Map(src.Observable(), func(v int) int { return v * 2 }).Subscribe(rec.Observer())

		src.Animate(AnimationAdd[int]{Animation: wobble[int]{}, Key: "w"})
		src.Next(2)

		assert.Empty(t, rec.animations)
		assert.Equal(t, []int{4}, rec.values)
		expectViolation(t, reasons, "cannot transform animation")
	})

	t.Run("inverted threshold range", func(t *testing.T) {
		reasons := violations(t)

		got := collectFrom(ThresholdRange(Just(-1, 5, 11), 10, 0))

		assert.Equal(t, []ThresholdSide{Below, Within, Above}, *got)
		expectViolation(t, reasons, "threshold range")
	})

	t.Run("mismatched property types", func(t *testing.T) {
		reasons := violations(t)

		r := NewRuntime()
		w := r.Get(&view{})
		x := ReactiveProperty(w, "x", 1.0)

		other := ReactiveProperty(w, "x", "nope")
		other.SetValue("still nope")

		assert.Equal(t, 1.0, x.Value())
		assert.Same(t, x, ReactiveProperty(w, "x", 0.0))
		expectViolation(t, reasons, "not a *Property")
	})

	t.Run("non comparable targets", func(t *testing.T) {
		reasons := violations(t)

		r := NewRuntime()
		assert.Nil(t, r.Get([]int{1}))
		expectViolation(t, reasons, "not comparable")
	})

	t.Run("use after dispose", func(t *testing.T) {
		reasons := violations(t)

		r := NewRuntime()
		src := newSource[float64]()
		r.Dispose()

		assert.Nil(t, r.Get(&view{}))

		Connect(r, src.Observable(), NewProperty("x", 0.0))
		assert.Equal(t, 0, src.Subscribed())
		expectViolation(t, reasons, "after Dispose")
	})

	t.Run("property from another goroutine", func(t *testing.T) {
		reasons := violations(t)

		count := NewProperty("count", 0)

		var wg sync.WaitGroup
		wg.Go(func() { count.SetValue(1) })
		wg.Wait()

		assert.Equal(t, 0, count.Value())
		expectViolation(t, reasons, `property "count"`)
	})
}
