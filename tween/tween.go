// Package tween plays keyframed tweens described by a
// motion.TweenDescription. Consumers that understand declarative animations
// receive a single keyframe animation, the others receive sampled values on
// every Update.
package tween

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/AnatoleLucet/motion"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ErrInvalidDescription is returned by New for descriptions that cannot be played.
var ErrInvalidDescription = errors.New("invalid tween description")

var keys atomic.Uint64

// Tween drives a float64 value through the keyframes of a description. It
// is advanced by calling Update once per frame.
type Tween struct {
	desc motion.TweenDescription[float64]
	key  string

	enabled *motion.Property[bool]
	state   *motion.Property[motion.State]

	observers []*observer
	values    *motion.Observable[float64]

	playing   bool
	delayLeft float32
	sequence  *gween.Sequence
	current   float64
}

type observer struct {
	obs motion.Observer[float64]
}

// config holds configuration options for a Tween.
type config struct {
	key string
}

// Option configures a Tween.
type Option func(*config)

// WithKey sets the animation key used in animation events.
func WithKey(key string) Option {
	return func(c *config) {
		c.key = key
	}
}

// New validates desc and creates a disabled tween.
func New(desc motion.TweenDescription[float64], opts ...Option) (*Tween, error) {
	if err := validate(desc); err != nil {
		return nil, err
	}

	desc.Values = slices.Clone(desc.Values)
	desc.KeyTimes = slices.Clone(desc.KeyTimes)
	desc.TimingFunctions = slices.Clone(desc.TimingFunctions)

	cfg := &config{
		key: fmt.Sprintf("tween.%d", keys.Add(1)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Tween{
		desc:    desc,
		key:     cfg.key,
		enabled: motion.NewProperty(cfg.key+".enabled", false),
		state:   motion.NewProperty(cfg.key+".state", motion.AtRest),
		current: desc.Values[0],
	}
	t.values = motion.NewObservable(t.attach)

	t.enabled.Subscribe(motion.Observer[bool]{OnNext: t.setEnabled})

	return t, nil
}

func validate(desc motion.TweenDescription[float64]) error {
	if len(desc.Values) < 2 {
		return fmt.Errorf("%w: need at least 2 values, got %d", ErrInvalidDescription, len(desc.Values))
	}

	if desc.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidDescription, desc.Duration)
	}

	if desc.Repeat < 0 {
		return fmt.Errorf("%w: negative repeat count %d", ErrInvalidDescription, desc.Repeat)
	}

	if n := len(desc.KeyTimes); n > 0 {
		if n != len(desc.Values) {
			return fmt.Errorf("%w: %d key times for %d values", ErrInvalidDescription, n, len(desc.Values))
		}

		for i, kt := range desc.KeyTimes {
			if kt < 0 || kt > 1 || (i > 0 && kt < desc.KeyTimes[i-1]) {
				return fmt.Errorf("%w: key times must be ascending within [0, 1]", ErrInvalidDescription)
			}
		}
	}

	if n := len(desc.TimingFunctions); n > 1 && n != len(desc.Values)-1 {
		return fmt.Errorf("%w: %d timing functions for %d segments", ErrInvalidDescription, n, len(desc.Values)-1)
	}

	return nil
}

// Key is the animation key of the tween.
func (t *Tween) Key() string { return t.key }

// Enabled starts a new leg when set to true and stops the current one when
// set to false.
func (t *Tween) Enabled() *motion.Property[bool] { return t.enabled }

// State is Active while a leg plays.
func (t *Tween) State() *motion.Observable[motion.State] { return t.state.Observable() }

// Values streams the tween output. See the package documentation for what
// each kind of consumer receives.
func (t *Tween) Values() *motion.Observable[float64] { return t.values }

// Value is the last sampled value.
func (t *Tween) Value() float64 { return t.current }

func (t *Tween) Start() { t.enabled.SetValue(true) }
func (t *Tween) Stop() { t.enabled.SetValue(false) }

// Add connects the tween output to property.
func (t *Tween) Add(property *motion.Property[float64], runtime *motion.Runtime) {
	motion.Connect(runtime, t.values, property)
}

func (t *Tween) destination() float64 {
	return t.desc.Values[len(t.desc.Values)-1]
}

func (t *Tween) animation() motion.AnimationAdd[float64] {
	return motion.AnimationAdd[float64]{
		Animation: motion.Keyframe[float64]{
			Values:   slices.Clone(t.desc.Values),
			KeyTimes: slices.Clone(t.desc.KeyTimes),
			Timing:   slices.Clone(t.desc.TimingFunctions),
			Duration: t.desc.Duration,
			Repeat:   t.desc.Repeat,
		},
		Key:        t.key,
		Completion: t.finish,
	}
}

func (t *Tween) attach(obs motion.Observer[float64]) motion.Disconnect {
	o := &observer{obs: obs}
	t.observers = append(t.observers, o)

	obs.State(t.state.Value())

	if t.playing && obs.HasAnimation() {
		obs.Animate(t.animation())
		obs.Next(t.destination())
	} else {
		obs.Next(t.current)
	}

	return func() {
		t.observers = slices.DeleteFunc(t.observers, func(e *observer) bool { return e == o })
	}
}

func (t *Tween) setEnabled(enabled bool) {
	if enabled {
		t.start()
	} else {
		t.cancel()
	}
}

func (t *Tween) start() {
	if t.playing {
		return
	}

	t.playing = true
	t.delayLeft = float32(t.desc.Delay.Seconds())
	t.rewind()

	t.setState(motion.Active)

	add := t.animation()
	for _, o := range slices.Clone(t.observers) {
		if o.obs.HasAnimation() {
			o.obs.Animate(add)
			o.obs.Next(t.destination())
		} else {
			o.obs.Next(t.current)
		}
	}
}

func (t *Tween) cancel() {
	if !t.playing {
		return
	}
	t.playing = false

	remove := motion.AnimationRemove[float64]{Key: t.key}
	for _, o := range slices.Clone(t.observers) {
		o.obs.Animate(remove)
	}

	t.setState(motion.AtRest)
}

// finish ends the current leg at its destination.
func (t *Tween) finish() {
	if !t.playing {
		return
	}
	t.playing = false
	t.current = t.destination()

	for _, o := range slices.Clone(t.observers) {
		if !o.obs.HasAnimation() {
			o.obs.Next(t.current)
		}
	}

	t.setState(motion.AtRest)
}

func (t *Tween) setState(s motion.State) {
	if t.state.Value() == s {
		return
	}

	t.state.SetValue(s)
	for _, o := range slices.Clone(t.observers) {
		o.obs.State(s)
	}
}

// rewind rebuilds the segment sequence and moves back to the first value.
// The sequence plays Repeat+1 times and carries time left over by one
// segment into the next.
func (t *Tween) rewind() {
	values := t.desc.Values
	keyTimes := t.desc.KeyTimes
	if len(keyTimes) == 0 {
		keyTimes = evenKeyTimes(len(values))
	}

	total := float32(t.desc.Duration.Seconds())

	segments := make([]*gween.Tween, 0, len(values)-1)
	for i := 0; i < len(values)-1; i++ {
		duration := float32(keyTimes[i+1]-keyTimes[i]) * total
		segments = append(segments, gween.New(float32(values[i]), float32(values[i+1]), duration, t.timing(i)))
	}

	t.sequence = gween.NewSequence(segments...)
	t.sequence.SetLoop(t.desc.Repeat + 1)
	t.current = values[0]
}

func (t *Tween) timing(segment int) ease.TweenFunc {
	switch len(t.desc.TimingFunctions) {
	case 0:
		return ease.Linear
	case 1:
		return t.desc.TimingFunctions[0]
	default:
		return t.desc.TimingFunctions[segment]
	}
}

// Update advances the tween by dt seconds. Value-only observers receive the
// sampled value.
func (t *Tween) Update(dt float32) {
	if !t.playing {
		return
	}

	if t.delayLeft > 0 {
		t.delayLeft -= dt
		if t.delayLeft > 0 {
			return
		}
		dt = -t.delayLeft
		t.delayLeft = 0
	}

	v, _, done := t.sequence.Update(dt)
	t.current = float64(v)

	if done {
		t.finish()
		return
	}

	for _, o := range slices.Clone(t.observers) {
		if !o.obs.HasAnimation() {
			o.obs.Next(t.current)
		}
	}
}

func evenKeyTimes(n int) []float64 {
	keyTimes := make([]float64, n)
	for i := range keyTimes {
		keyTimes[i] = float64(i) / float64(n-1)
	}
	return keyTimes
}

// Duration is the total play time of one leg, repeats and delay included.
func (t *Tween) Duration() time.Duration {
	return t.desc.Delay + t.desc.Duration*time.Duration(t.desc.Repeat+1)
}
