package motion

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("transforms values", func(t *testing.T) {
		got := []string{}
		Map(Just(1, 2, 3), func(v int) string { return fmt.Sprint(v * 10) }).
			SubscribeNext(func(v string) { got = append(got, v) })

		assert.Equal(t, []string{"10", "20", "30"}, got)
	})

	t.Run("transforms basic animations", func(t *testing.T) {
		src := newSource[float64]()
		rec := &recorder[float64]{}

		Map(src.Observable(), func(v float64) float64 { return v * 10 }).Subscribe(rec.Observer())

		velocity := 5.0
		src.Animate(AnimationAdd[float64]{
			Animation:       Basic[float64]{From: 10, To: 20},
			Key:             "move",
			InitialVelocity: &velocity,
		})

		require.Len(t, rec.animations, 1)
		add, ok := rec.animations[0].(AnimationAdd[float64])
		require.True(t, ok)

		basic, ok := add.Animation.(Basic[float64])
		require.True(t, ok)
		assert.Equal(t, 100.0, basic.From)
		assert.Equal(t, 200.0, basic.To)
		assert.Nil(t, basic.By)
		assert.Equal(t, "move", add.Key)
		require.NotNil(t, add.InitialVelocity)
		assert.Equal(t, 50.0, *add.InitialVelocity)
	})

	t.Run("keeps the animation shape", func(t *testing.T) {
		src := newSource[int]()
		rec := &recorder[string]{}

		Map(src.Observable(), func(v int) string { return fmt.Sprint(v) }).Subscribe(rec.Observer())

		src.Animate(AnimationAdd[int]{
			Animation: Keyframe[int]{Values: []int{1, 2, 3}, KeyTimes: []float64{0, 0.2, 1}, Repeat: 2},
			Key:       "frames",
		})
		src.Animate(AnimationAdd[int]{
			Animation: Spring[int]{From: 4, To: 5, Spring: DefaultSpring},
			Key:       "spring",
		})
		src.Animate(AnimationRemove[int]{Key: "frames"})

		require.Len(t, rec.animations, 3)

		keyframe := rec.animations[0].(AnimationAdd[string]).Animation.(Keyframe[string])
		assert.Equal(t, []string{"1", "2", "3"}, keyframe.Values)
		assert.Equal(t, []float64{0, 0.2, 1}, keyframe.KeyTimes)
		assert.Equal(t, 2, keyframe.Repeat)

		spring := rec.animations[1].(AnimationAdd[string]).Animation.(Spring[string])
		assert.Equal(t, "4", spring.From)
		assert.Equal(t, "5", spring.To)
		assert.Equal(t, DefaultSpring, spring.Spring)

		assert.Equal(t, AnimationRemove[string]{Key: "frames"}, rec.animations[2])
	})

	t.Run("does not share keyframe slices", func(t *testing.T) {
		src := newSource[int]()
		rec := &recorder[int]{}
		Map(src.Observable(), func(v int) int { return v }).Subscribe(rec.Observer())

		keyTimes := []float64{0, 1}
		src.Animate(AnimationAdd[int]{Animation: Keyframe[int]{Values: []int{1, 2}, KeyTimes: keyTimes}, Key: "k"})

		keyframe := rec.animations[0].(AnimationAdd[int]).Animation.(Keyframe[int])
		keyframe.KeyTimes[1] = 0.5

		assert.Equal(t, []float64{0, 1}, keyTimes)
	})

	t.Run("does not ask for animations nobody consumes", func(t *testing.T) {
		src := newSource[int]()
		Map(src.Observable(), func(v int) int { return v }).SubscribeNext(func(int) {})

		require.Len(t, src.observers, 1)
		assert.False(t, src.observers[0].HasAnimation())
	})

	t.Run("forwards state", func(t *testing.T) {
		src := newSource[int]()
		rec := &recorder[int]{}
		Map(src.Observable(), func(v int) int { return v }).Subscribe(rec.Observer())

		src.State(Active)
		src.State(AtRest)

		assert.Equal(t, []State{Active, AtRest}, rec.states)
	})
}

func TestFilterDedupeMerge(t *testing.T) {
	t.Run("filter", func(t *testing.T) {
		got := []int{}
		Filter(Just(1, 2, 3, 4), func(v int) bool { return v%2 == 0 }).
			SubscribeNext(func(v int) { got = append(got, v) })

		assert.Equal(t, []int{2, 4}, got)
	})

	t.Run("filter forwards animations unchanged", func(t *testing.T) {
		src := newSource[int]()
		rec := &recorder[int]{}
		Filter(src.Observable(), func(int) bool { return false }).Subscribe(rec.Observer())

		src.Next(1)
		src.Animate(AnimationRemove[int]{Key: "k"})

		assert.Empty(t, rec.values)
		assert.Len(t, rec.animations, 1)
	})

	t.Run("dedupe", func(t *testing.T) {
		got := []int{}
		Dedupe(Just(1, 1, 2, 2, 1)).SubscribeNext(func(v int) { got = append(got, v) })

		assert.Equal(t, []int{1, 2, 1}, got)
	})

	t.Run("merge", func(t *testing.T) {
		a, b := newSource[int](), newSource[int]()
		got := []int{}

		sub := Merge(a.Observable(), b.Observable()).SubscribeNext(func(v int) { got = append(got, v) })
		a.Next(1)
		b.Next(2)
		a.Next(3)
		sub.Unsubscribe()

		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Equal(t, 1, a.disconnects)
		assert.Equal(t, 1, b.disconnects)
	})
}

func TestRewrite(t *testing.T) {
	t.Run("drops unmapped values", func(t *testing.T) {
		got := []string{}
		Rewrite(Just(1, 2, 3), map[int]string{1: "one", 3: "three"}).
			SubscribeNext(func(v string) { got = append(got, v) })

		assert.Equal(t, []string{"one", "three"}, got)
	})

	t.Run("rewrites fully mapped animations only", func(t *testing.T) {
		src := newSource[State]()
		rec := &recorder[float64]{}
		Rewrite(src.Observable(), map[State]float64{AtRest: 0, Active: 1}).Subscribe(rec.Observer())

		src.Animate(AnimationAdd[State]{Animation: Basic[State]{From: AtRest, To: Active}, Key: "a"})
		src.Animate(AnimationAdd[State]{Animation: Basic[State]{From: AtRest, To: State(7)}, Key: "b"})

		require.Len(t, rec.animations, 1)
		basic := rec.animations[0].(AnimationAdd[float64]).Animation.(Basic[float64])
		assert.Equal(t, 0.0, basic.From)
		assert.Equal(t, 1.0, basic.To)
	})

	t.Run("drops animations with an unmapped velocity", func(t *testing.T) {
		src := newSource[int]()
		rec := &recorder[string]{}
		Rewrite(src.Observable(), map[int]string{1: "a", 2: "b"}).Subscribe(rec.Observer())

		unmapped, mapped := 3, 2
		src.Animate(AnimationAdd[int]{Animation: Basic[int]{From: 1, To: 2}, Key: "fast", InitialVelocity: &unmapped})
		src.Animate(AnimationAdd[int]{Animation: Basic[int]{From: 1, To: 2}, Key: "slow", InitialVelocity: &mapped})

		require.Len(t, rec.animations, 1)
		add := rec.animations[0].(AnimationAdd[string])
		assert.Equal(t, "slow", add.Key)
		require.NotNil(t, add.InitialVelocity)
		assert.Equal(t, "b", *add.InitialVelocity)
	})

	t.Run("rewrite to", func(t *testing.T) {
		got := []string{}
		RewriteTo(Just(1, 2), "x").SubscribeNext(func(v string) { got = append(got, v) })

		assert.Equal(t, []string{"x", "x"}, got)
	})
}

func TestNumericOperators(t *testing.T) {
	collect := func(o *Observable[float64]) []float64 {
		got := []float64{}
		o.SubscribeNext(func(v float64) { got = append(got, v) })
		return got
	}

	t.Run("offset, scale and normalize", func(t *testing.T) {
		assert.Equal(t, []float64{11, 12}, collect(OffsetBy(Just(1.0, 2.0), 10)))
		assert.Equal(t, []float64{3, 6}, collect(ScaledBy(Just(1.0, 2.0), 3)))
		assert.Equal(t, []float64{0.5, 1}, collect(Normalized(Just(1.0, 2.0), 2)))
	})

	t.Run("bounds", func(t *testing.T) {
		assert.Equal(t, []float64{0, 5}, collect(LowerBound(Just(-1.0, 5.0), 0)))
		assert.Equal(t, []float64{-1, 2}, collect(UpperBound(Just(-1.0, 5.0), 2)))
	})

	t.Run("components", func(t *testing.T) {
		points := Just(Point{X: 1, Y: 2}, Point{X: 3, Y: 4})
		assert.Equal(t, []float64{1, 3}, collect(X(points)))
		assert.Equal(t, []float64{2, 4}, collect(Y(points)))
	})

	t.Run("inverted", func(t *testing.T) {
		got := []bool{}
		Inverted(Just(true, false)).SubscribeNext(func(v bool) { got = append(got, v) })
		assert.Equal(t, []bool{false, true}, got)
	})

	t.Run("rubber band leaves values in range alone", func(t *testing.T) {
		assert.Equal(t, []float64{0, 50, 100}, collect(RubberBanded(Just(0.0, 50.0, 100.0), 0, 100, 20)))
	})

	t.Run("rubber band resists overshoot", func(t *testing.T) {
		got := collect(RubberBanded(Just(110.0, 1000.0, -10.0, -1000.0), 0, 100, 20))
		require.Len(t, got, 4)

		assert.Greater(t, got[0], 100.0)
		assert.Less(t, got[0], 110.0)
		assert.Less(t, got[1], 120.0)
		assert.Greater(t, got[1], got[0])

		assert.Less(t, got[2], 0.0)
		assert.Greater(t, got[2], -10.0)
		assert.Greater(t, got[3], -20.0)
	})

	t.Run("rubber band without length clamps", func(t *testing.T) {
		assert.Equal(t, []float64{100, 0}, collect(RubberBanded(Just(150.0, -5.0), 0, 100, 0)))
	})

	t.Run("rubber band rect", func(t *testing.T) {
		rect := Rect{Size: Size{Width: 100, Height: 100}}
		got := []Point{}
		RubberBandedRect(Just(Point{X: 50, Y: 150}), rect, 20).SubscribeNext(func(p Point) { got = append(got, p) })

		require.Len(t, got, 1)
		assert.Equal(t, 50.0, got[0].X)
		assert.Greater(t, got[0].Y, 100.0)
		assert.Less(t, got[0].Y, 120.0)
	})

	t.Run("distance to a fixed point", func(t *testing.T) {
		assert.Equal(t, []float64{5, 0}, collect(DistanceTo(Just(Point{X: 3, Y: 4}, Point{}), Point{})))
	})

	t.Run("distance between two streams waits for both", func(t *testing.T) {
		a, b := newSource[Point](), newSource[Point]()
		got := collectFrom(DistanceBetween(a.Observable(), b.Observable()))

		a.Next(Point{X: 3, Y: 4})
		a.Next(Point{X: 6, Y: 8})
		assert.Empty(t, *got)

		b.Next(Point{})
		b.Next(Point{X: 6, Y: 0})

		assert.Equal(t, []float64{10, 8}, *got)
	})

	t.Run("anchor point adjustment", func(t *testing.T) {
		frame := Rect{Origin: Point{X: 100, Y: 100}, Size: Size{Width: 200, Height: 100}}
		got := []AnchorAdjustment{}
		AnchorPointAdjustment(Just(Point{X: 150, Y: 175}), frame).
			SubscribeNext(func(a AnchorAdjustment) { got = append(got, a) })

		assert.Equal(t, []AnchorAdjustment{
			{AnchorPoint: Point{X: 0.25, Y: 0.75}, Position: Point{X: 150, Y: 175}},
		}, got)
	})
}

func collectFrom[T any](o *Observable[T]) *[]T {
	got := []T{}
	o.SubscribeNext(func(v T) { got = append(got, v) })
	return &got
}

func TestThreshold(t *testing.T) {
	t.Run("range", func(t *testing.T) {
		got := collectFrom(ThresholdRange(Just(-1.0, 0.0, 5.0, 10.0, 11.0), 0, 10))
		assert.Equal(t, []ThresholdSide{Below, Within, Within, Within, Above}, *got)
	})

	t.Run("single threshold", func(t *testing.T) {
		got := collectFrom(Threshold(Just(1, 2, 3), 2))
		assert.Equal(t, []ThresholdSide{Below, Within, Above}, *got)
	})
}

func TestSlop(t *testing.T) {
	t.Run("emits each crossing once", func(t *testing.T) {
		got := collectFrom(Slop(Just(-10.0, -20.0, -10.0, 10.0, 20.0, 0.0), 10))

		assert.Equal(t, []SlopEvent{SlopExit, SlopReturn, SlopExit, SlopReturn}, *got)
	})

	t.Run("stays quiet inside the region", func(t *testing.T) {
		got := collectFrom(Slop(Just(1.0, -3.0, 9.9), 10))
		assert.Empty(t, *got)
	})

	t.Run("each subscription tracks its own side", func(t *testing.T) {
		src := newSource[float64]()
		slop := Slop(src.Observable(), 1)

		first := collectFrom(slop)
		src.Next(5)
		second := collectFrom(slop)
		src.Next(6)

		assert.Equal(t, []SlopEvent{SlopExit}, *first)
		assert.Equal(t, []SlopEvent{SlopExit}, *second)
	})
}

func TestStartWithStatesLog(t *testing.T) {
	t.Run("start with", func(t *testing.T) {
		got := collectFrom(StartWith(Just(2, 3), 1))
		assert.Equal(t, []int{1, 2, 3}, *got)
	})

	t.Run("states emits transitions only", func(t *testing.T) {
		src := newSource[int]()
		got := collectFrom(States(src.Observable()))

		src.State(AtRest)
		src.State(Active)
		src.State(Active)
		src.Next(1)
		src.State(AtRest)

		assert.Equal(t, []State{AtRest, Active, AtRest}, *got)
	})

	t.Run("log forwards values", func(t *testing.T) {
		got := collectFrom(Log(Just(math.Pi), "pi"))
		assert.Equal(t, []float64{math.Pi}, *got)
	})
}
