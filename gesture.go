package motion

// GesturePhase is the lifecycle phase of a gesture recognizer.
type GesturePhase int

const (
	GesturePossible GesturePhase = iota
	GestureBegan
	GestureChanged
	GestureEnded
	GestureCancelled
	GestureFailed
)

func (p GesturePhase) String() string {
	switch p {
	case GesturePossible:
		return "possible"
	case GestureBegan:
		return "began"
	case GestureChanged:
		return "changed"
	case GestureEnded:
		return "ended"
	case GestureCancelled:
		return "cancelled"
	case GestureFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Active reports whether the gesture is in progress.
func (p GesturePhase) Active() bool {
	return p == GestureBegan || p == GestureChanged
}

// GestureSnapshot is the state of a recognizer at one point in time.
// Translation is relative to where the gesture began.
type GestureSnapshot struct {
	Phase       GesturePhase
	Location    Point
	Translation Point
	Velocity    Point
	Centroid    Point
}

// GestureRecognizer is a platform gesture source.
type GestureRecognizer interface {
	Snapshot() GestureSnapshot
	AddListener(fn func(GestureSnapshot)) (remove func())
}

// Gestures streams the snapshots of rec, starting with the current one.
// The state channel is Active while the gesture is in progress.
func Gestures(rec GestureRecognizer) *Observable[GestureSnapshot] {
	return NewObservable(func(obs Observer[GestureSnapshot]) Disconnect {
		deliver := func(s GestureSnapshot) {
			if s.Phase.Active() {
				obs.State(Active)
				obs.Next(s)
				return
			}

			obs.Next(s)
			obs.State(AtRest)
		}

		deliver(rec.Snapshot())

		return Disconnect(rec.AddListener(deliver))
	})
}

// TranslationAddedTo emits initial's value at the start of the gesture plus
// the gesture translation, for as long as the gesture is in progress.
func TranslationAddedTo(o *Observable[GestureSnapshot], initial *Property[Point]) *Observable[Point] {
	return NewObservable(func(obs Observer[Point]) Disconnect {
		var (
			start    Point
			tracking bool
		)

		upstream := passthrough[GestureSnapshot](obs)
		upstream.OnNext = func(s GestureSnapshot) {
			switch s.Phase {
			case GestureBegan:
				start, tracking = initial.Value(), true

			case GestureChanged:
				if !tracking {
					// joined mid gesture
					start, tracking = initial.Value().Sub(s.Translation), true
				}

			default:
				tracking = false
				return
			}

			obs.Next(start.Add(s.Translation))
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}

// VelocityOnRelease emits the gesture velocity when the gesture ends.
func VelocityOnRelease(o *Observable[GestureSnapshot]) *Observable[Point] {
	return whenPhase(o, func(s GestureSnapshot) Point { return s.Velocity }, GestureEnded)
}

// CentroidOnRecognition emits the gesture centroid when the gesture is
// recognized.
func CentroidOnRecognition(o *Observable[GestureSnapshot]) *Observable[Point] {
	return whenPhase(o, func(s GestureSnapshot) Point { return s.Centroid }, GestureBegan)
}

func whenPhase(o *Observable[GestureSnapshot], pick func(GestureSnapshot) Point, phase GesturePhase) *Observable[Point] {
	return NewObservable(func(obs Observer[Point]) Disconnect {
		upstream := passthrough[GestureSnapshot](obs)
		upstream.OnNext = func(s GestureSnapshot) {
			if s.Phase == phase {
				obs.Next(pick(s))
			}
		}

		return o.Subscribe(upstream).Unsubscribe
	})
}
