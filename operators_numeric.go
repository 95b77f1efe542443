package motion

import (
	"cmp"
	"math"
)

// ThresholdSide tells where a value sits relative to a threshold or range.
type ThresholdSide int

const (
	Below ThresholdSide = iota
	Within
	Above
)

func (s ThresholdSide) String() string {
	switch s {
	case Below:
		return "below"
	case Within:
		return "within"
	case Above:
		return "above"
	default:
		return "unknown"
	}
}

// Threshold emits the side of threshold every value falls on. A value
// equal to threshold is Within.
func Threshold[T cmp.Ordered](o *Observable[T], threshold T) *Observable[ThresholdSide] {
	return ThresholdRange(o, threshold, threshold)
}

// ThresholdRange emits Below, Within or Above for every value relative to
// [lower, upper].
func ThresholdRange[T cmp.Ordered](o *Observable[T], lower, upper T) *Observable[ThresholdSide] {
	if upper < lower {
		violation("threshold range upper bound %v is below lower bound %v", upper, lower)
		lower, upper = upper, lower
	}

	return NewObservable(func(obs Observer[ThresholdSide]) Disconnect {
		upstream := passthrough[T](obs)
		upstream.OnNext = func(v T) {
			switch {
			case v < lower:
				obs.Next(Below)
			case v > upper:
				obs.Next(Above)
			default:
				obs.Next(Within)
			}
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}

// SlopEvent is emitted by Slop when the tracked value crosses the region.
type SlopEvent int

const (
	SlopExit SlopEvent = iota
	SlopReturn
)

func (e SlopEvent) String() string {
	if e == SlopExit {
		return "exit"
	}
	return "return"
}

// Slop emits SlopExit the first time a value leaves [-size, size] and
// SlopReturn the first time it comes back in. Nothing is emitted while
// values stay on the same side.
func Slop(o *Observable[float64], size float64) *Observable[SlopEvent] {
	size = math.Abs(size)

	return NewObservable(func(obs Observer[SlopEvent]) Disconnect {
		outside := false

		upstream := passthrough[float64](obs)
		upstream.OnNext = func(v float64) {
			isOutside := v < -size || v > size
			if isOutside == outside {
				return
			}
			outside = isOutside

			if outside {
				obs.Next(SlopExit)
			} else {
				obs.Next(SlopReturn)
			}
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}

// DistanceTo emits the distance between every point and reference.
func DistanceTo(o *Observable[Point], reference Point) *Observable[float64] {
	return Map(o, func(p Point) float64 { return p.Distance(reference) })
}

// DistanceBetween emits the distance between the latest points of a and b.
// Nothing is emitted until both emitted at least once. The state channel
// of a is forwarded.
func DistanceBetween(a, b *Observable[Point]) *Observable[float64] {
	return NewObservable(func(obs Observer[float64]) Disconnect {
		var (
			lastA, lastB Point
			hasA, hasB   bool
		)

		emit := func() {
			if hasA && hasB {
				obs.Next(lastA.Distance(lastB))
			}
		}

		upstreamA := passthrough[Point](obs)
		upstreamA.OnNext = func(p Point) {
			lastA, hasA = p, true
			emit()
		}

		subA := a.Subscribe(upstreamA)
		subB := b.SubscribeNext(func(p Point) {
			lastB, hasB = p, true
			emit()
		})

		return func() {
			subA.Unsubscribe()
			subB.Unsubscribe()
		}
	})
}

// rubberBandCoefficient is the usual resistance of scroll views.
const rubberBandCoefficient = 0.55

func rubberBand(v, lower, upper, length float64) float64 {
	if v >= lower && v <= upper {
		return v
	}

	if length <= 0 {
		return math.Max(lower, math.Min(v, upper))
	}

	band := func(overshoot float64) float64 {
		return (1 - 1/(overshoot*rubberBandCoefficient/length+1)) * length
	}

	if v > upper {
		return upper + band(v-upper)
	}
	return lower - band(lower-v)
}

// RubberBanded applies a diminishing resistance to values outside
// [lower, upper], never exceeding length past either bound.
func RubberBanded(o *Observable[float64], lower, upper, length float64) *Observable[float64] {
	return Map(o, func(v float64) float64 {
		return rubberBand(v, lower, upper, length)
	})
}

// RubberBandedRect rubber bands both axes of every point against rect.
func RubberBandedRect(o *Observable[Point], rect Rect, length float64) *Observable[Point] {
	return Map(o, func(p Point) Point {
		return Point{
			X: rubberBand(p.X, rect.MinX(), rect.MaxX(), length),
			Y: rubberBand(p.Y, rect.MinY(), rect.MaxY(), length),
		}
	})
}

// AnchorAdjustment moves a layer's anchor point without moving the layer:
// the new anchor point and the position that keeps the layer in place.
type AnchorAdjustment struct {
	AnchorPoint Point
	Position    Point
}

// AnchorPointAdjustment turns points expressed in the coordinate space of
// frame's parent into anchor adjustments for a layer occupying frame, so
// that later rotations and scales pivot around that point.
func AnchorPointAdjustment(o *Observable[Point], frame Rect) *Observable[AnchorAdjustment] {
	return NewObservable(func(obs Observer[AnchorAdjustment]) Disconnect {
		upstream := passthrough[Point](obs)
		upstream.OnNext = func(p Point) {
			var anchor Point
			if frame.Size.Width != 0 {
				anchor.X = (p.X - frame.MinX()) / frame.Size.Width
			}
			if frame.Size.Height != 0 {
				anchor.Y = (p.Y - frame.MinY()) / frame.Size.Height
			}

			obs.Next(AnchorAdjustment{AnchorPoint: anchor, Position: p})
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}
