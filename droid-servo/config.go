// Package droidservo contains the servo tuning config for the drive and dome servos.
package droidservo

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/rdk/resource"
)

// Shipped tuning values.
const (
	DefaultSpeed  = 5
	DefaultMin    = 40
	DefaultMax    = 150
	DefaultCenter = 90
	DefaultDrive  = 40
	DefaultTurn   = 40
	DefaultDome   = 50

	MinSpeed = 1
	MaxSpeed = 10
)

// Tuning is the servo tuning for a droid. Drive, Turn and Dome are offsets
// from Center used for each maneuver.
type Tuning struct {
	Speed  int `json:"speed" yaml:"speed"` // 1 = slow/smooth, 10 = fast/snappy
	Min    int `json:"min" yaml:"min"`
	Max    int `json:"max" yaml:"max"`
	Center int `json:"center" yaml:"center"` // neutral/stop position
	Drive  int `json:"drive" yaml:"drive"`   // forward/back: center ± drive
	Turn   int `json:"turn" yaml:"turn"`     // one wheel forward, one back
	Dome   int `json:"dome" yaml:"dome"`
}

// DefaultTuning returns the shipped tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Speed:  DefaultSpeed,
		Min:    DefaultMin,
		Max:    DefaultMax,
		Center: DefaultCenter,
		Drive:  DefaultDrive,
		Turn:   DefaultTurn,
		Dome:   DefaultDome,
	}
}

// Validate ensures all parts of the config are valid.
func (config *Tuning) Validate(path string) error {
	var errs error
	fail := func(err error) {
		errs = multierr.Append(errs, resource.NewConfigValidationError(path, err))
	}

	if config.Speed < MinSpeed || config.Speed > MaxSpeed {
		fail(errors.Errorf("speed must be between %d and %d, got %d", MinSpeed, MaxSpeed, config.Speed))
	}
	if config.Min < 0 {
		fail(errors.Errorf("min must not be negative, got %d", config.Min))
	}
	if config.Max > servoDefaultMaxRotation {
		fail(errors.Errorf("max must not exceed %d, got %d", servoDefaultMaxRotation, config.Max))
	}
	if config.Min > config.Center {
		fail(errors.Errorf("min (%d) is greater than center (%d)", config.Min, config.Center))
	}
	if config.Center > config.Max {
		fail(errors.Errorf("center (%d) is greater than max (%d)", config.Center, config.Max))
	}

	for _, offset := range []struct {
		name  string
		value int
	}{
		{"drive", config.Drive},
		{"turn", config.Turn},
		{"dome", config.Dome},
	} {
		if offset.value < 0 {
			fail(errors.Errorf("%s must not be negative, got %d", offset.name, offset.value))
			continue
		}
		if config.Center+offset.value > config.Max || config.Center-offset.value < config.Min {
			fail(errors.Errorf("%s %d moves outside %d-%d from center %d",
				offset.name, offset.value, config.Min, config.Max, config.Center))
		}
	}
	return errs
}
