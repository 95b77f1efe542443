// Package preset loads named spring and tween presets from YAML (or JSON)
// so motion curves can be tuned without recompiling.
//
//	springs:
//	  snappy:
//	    tension: 342
//	    friction: 30
//	tweens:
//	  fadeIn:
//	    duration: 300ms
//	    values: [0, 1]
//	    timing: [outCubic]
package preset

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AnatoleLucet/motion"
	"github.com/go-playground/validator/v10"
	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when a preset name is unknown.
	ErrNotFound = errors.New("preset not found")

	// ErrInvalid is returned when a library fails validation.
	ErrInvalid = errors.New("invalid preset library")
)

// validate is the shared validator instance.
var validate = validator.New()

// timings maps timing names to easing functions.
var timings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
	"outBounce":  ease.OutBounce,
}

// Spring is the YAML form of a motion.SpringDescription.
type Spring struct {
	Tension           float64       `yaml:"tension" validate:"gt=0"`
	Friction          float64       `yaml:"friction" validate:"gte=0"`
	Mass              float64       `yaml:"mass" validate:"gte=0"`
	Threshold         float64       `yaml:"threshold" validate:"gte=0"`
	SuggestedDuration time.Duration `yaml:"suggestedDuration" validate:"gte=0"`
}

// Tween is the YAML form of a motion.TweenDescription.
type Tween struct {
	Duration time.Duration `yaml:"duration" validate:"gt=0"`
	Delay    time.Duration `yaml:"delay" validate:"gte=0"`
	Values   []float64     `yaml:"values" validate:"min=2"`
	KeyTimes []float64     `yaml:"keyTimes" validate:"omitempty,dive,gte=0,lte=1"`
	Timing   []string      `yaml:"timing" validate:"dive,timing"`
	Repeat   int           `yaml:"repeat" validate:"gte=0"`
}

// Library is a set of named presets.
type Library struct {
	Springs map[string]Spring `yaml:"springs" validate:"dive"`
	Tweens  map[string]Tween  `yaml:"tweens" validate:"dive"`
}

func init() {
	err := validate.RegisterValidation("timing", func(fl validator.FieldLevel) bool {
		_, ok := timings[fl.Field().String()]
		return ok
	})
	if err != nil {
		panic(err)
	}
}

// Parse decodes and validates a library.
func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}

	if err := lib.Validate(); err != nil {
		return nil, err
	}

	return &lib, nil
}

// Load reads and parses the library stored at path.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets %s: %w", path, err)
	}

	return Parse(data)
}

// Validate checks struct tags and the rules spanning several fields.
func (l *Library) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	for name, t := range l.Tweens {
		if len(t.KeyTimes) > 0 && len(t.KeyTimes) != len(t.Values) {
			return fmt.Errorf("%w: tween %q has %d key times for %d values", ErrInvalid, name, len(t.KeyTimes), len(t.Values))
		}

		if n := len(t.Timing); n > 1 && n != len(t.Values)-1 {
			return fmt.Errorf("%w: tween %q has %d timing functions for %d segments", ErrInvalid, name, n, len(t.Values)-1)
		}
	}

	return nil
}

// Spring returns the spring called name.
func (l *Library) Spring(name string) (motion.SpringDescription, error) {
	s, ok := l.Springs[name]
	if !ok {
		return motion.SpringDescription{}, fmt.Errorf("%w: spring %q", ErrNotFound, name)
	}

	desc := motion.SpringDescription{
		Tension:           s.Tension,
		Friction:          s.Friction,
		Mass:              s.Mass,
		Threshold:         s.Threshold,
		SuggestedDuration: s.SuggestedDuration,
	}

	if desc.Mass == 0 {
		desc.Mass = motion.DefaultSpring.Mass
	}
	if desc.Threshold == 0 {
		desc.Threshold = motion.DefaultSpring.Threshold
	}

	return desc, nil
}

// Tween returns the tween called name.
func (l *Library) Tween(name string) (motion.TweenDescription[float64], error) {
	t, ok := l.Tweens[name]
	if !ok {
		return motion.TweenDescription[float64]{}, fmt.Errorf("%w: tween %q", ErrNotFound, name)
	}

	desc := motion.TweenDescription[float64]{
		Duration: t.Duration,
		Delay:    t.Delay,
		Values:   t.Values,
		KeyTimes: t.KeyTimes,
		Repeat:   t.Repeat,
	}

	for _, timing := range t.Timing {
		desc.TimingFunctions = append(desc.TimingFunctions, timings[timing])
	}

	return desc, nil
}
