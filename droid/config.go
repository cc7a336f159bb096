// Package droid resolves the configuration of one BB-R2 droid: its identity,
// board, features, servo tuning, battery calibration and debug output.
package droid

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/rdk/resource"

	"bb-r2-wifi/battery"
	"bb-r2-wifi/boards"
	droidservo "bb-r2-wifi/droid-servo"
)

// MaxDroidNumber is the highest droid number. 0 is the demo unit, 1-16 are workshop droids.
const MaxDroidNumber = 16

// DefaultSerialBaud is the serial monitor baud rate.
const DefaultSerialBaud = 115200

var standardBaudRates = []int{9600, 19200, 38400, 57600, 74880, 115200, 230400, 460800, 921600}

// Features toggles optional firmware subsystems. Sound is the DFPlayer module.
type Features struct {
	Sound          bool `json:"sound" yaml:"sound"`
	BatteryMonitor bool `json:"battery_monitor" yaml:"battery_monitor"`
	LED            bool `json:"led" yaml:"led"`
}

// Debug controls diagnostic serial output.
type Debug struct {
	Serial bool `json:"serial" yaml:"serial"`
	Baud   int  `json:"baud" yaml:"baud"`
}

// A Config is everything an operator sets before building a droid's firmware.
type Config struct {
	DroidNumber int                 `json:"droid_number" yaml:"droid_number"`
	Board       string              `json:"board" yaml:"board"`
	Features    Features            `json:"features" yaml:"features"`
	Servo       droidservo.Tuning   `json:"servo" yaml:"servo"`
	Battery     battery.Calibration `json:"battery" yaml:"battery"`
	Debug       Debug               `json:"debug" yaml:"debug"`
}

// Default returns the configuration the workshop ships with.
func Default() Config {
	return Config{
		DroidNumber: 1,
		Board:       boards.ESP32DevKit.String(),
		Features: Features{
			Sound:          true,
			BatteryMonitor: true,
			LED:            true,
		},
		Servo:   droidservo.DefaultTuning(),
		Battery: battery.DefaultCalibration(),
		Debug: Debug{
			Serial: true,
			Baud:   DefaultSerialBaud,
		},
	}
}

// Validate ensures all parts of the config are valid. Every problem found is
// reported, not just the first.
func (conf *Config) Validate(path string) error {
	var errs error

	if conf.DroidNumber < 0 || conf.DroidNumber > MaxDroidNumber {
		errs = multierr.Append(errs, resource.NewConfigValidationError(path,
			errors.Errorf("droid_number must be between 0 and %d, got %d", MaxDroidNumber, conf.DroidNumber)))
	}

	if conf.Board == "" {
		errs = multierr.Append(errs, resource.NewConfigValidationFieldRequiredError(path, "board"))
	} else if _, err := boards.ParseProfile(conf.Board); err != nil {
		errs = multierr.Append(errs, resource.NewConfigValidationError(path, err))
	}

	errs = multierr.Append(errs, conf.Servo.Validate(fmt.Sprintf("%s.%s", path, "servo")))
	errs = multierr.Append(errs, conf.Battery.Validate(fmt.Sprintf("%s.%s", path, "battery")))

	if conf.Debug.Serial && !slices.Contains(standardBaudRates, conf.Debug.Baud) {
		errs = multierr.Append(errs, resource.NewConfigValidationError(fmt.Sprintf("%s.%s", path, "debug"),
			errors.Errorf("baud %d is not a standard rate, use one of %v", conf.Debug.Baud, standardBaudRates)))
	}
	return errs
}
