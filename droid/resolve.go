package droid

import (
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"

	"bb-r2-wifi/battery"
	"bb-r2-wifi/boards"
	droidservo "bb-r2-wifi/droid-servo"
	droidutils "bb-r2-wifi/utils"
)

// Resolved is the final configuration handed to the firmware. It is built once
// by Resolve and not modified afterwards.
type Resolved struct {
	DroidNumber int                 `json:"droid_number"`
	Board       boards.Profile      `json:"board"`
	SSID        string              `json:"ssid"`
	Password    string              `json:"password"`
	Pins        boards.Pins         `json:"pins"`
	Features    Features            `json:"features"`
	Servo       droidservo.Tuning   `json:"servo"`
	Targets     droidservo.Targets  `json:"targets"`
	Battery     battery.Calibration `json:"battery"`
	Debug       Debug               `json:"debug"`
}

// Resolve validates conf, selects the board and derives the pins, access point
// credentials and servo targets. Nothing is returned if any check fails.
func Resolve(conf Config, logger logging.Logger) (*Resolved, error) {
	if err := conf.Validate("droid"); err != nil {
		return nil, errors.Wrap(err, "invalid droid configuration")
	}

	profile, err := boards.Select([]string{conf.Board})
	if err != nil {
		return nil, err
	}
	pins, err := profile.Pins()
	if err != nil {
		return nil, err
	}

	roles := activeRoles(pins, conf.Features)
	if err := profile.ValidatePins(roles); err != nil {
		return nil, errors.Wrapf(err, "invalid pin assignment for %s", profile)
	}
	for _, warning := range boards.SharedPins(roles) {
		logger.Warnw("pin shared with battery sense", "board", profile.String(), "detail", warning)
	}

	ssid, password := Credentials(conf.DroidNumber)
	r := &Resolved{
		DroidNumber: conf.DroidNumber,
		Board:       profile,
		SSID:        ssid,
		Password:    password,
		Pins:        pins,
		Features:    conf.Features,
		Servo:       conf.Servo,
		Targets:     conf.Servo.Targets(),
		Battery:     conf.Battery,
		Debug:       conf.Debug,
	}

	logger.Infow("resolved droid configuration",
		"droid", r.DroidNumber, "board", profile.String(), "ssid", r.SSID)
	if !conf.Features.Sound {
		logger.Debugf("sound disabled, pins %d/%d left unused", pins.SoundRX, pins.SoundTX)
	}
	if !conf.Features.BatteryMonitor {
		logger.Debug("battery monitor disabled")
	}
	if !conf.Features.LED {
		logger.Debugf("status LED disabled, pin %d left unused", pins.LED)
	}
	return r, nil
}

// activeRoles drops the pin roles of disabled features.
func activeRoles(pins boards.Pins, features Features) []droidutils.PinConfig {
	var roles []droidutils.PinConfig
	for _, rc := range pins.Roles() {
		switch rc.Role {
		case droidutils.RoleSoundRX, droidutils.RoleSoundTX:
			if !features.Sound {
				continue
			}
		case droidutils.RoleBattery:
			if !features.BatteryMonitor {
				continue
			}
		case droidutils.RoleLED:
			if !features.LED {
				continue
			}
		case droidutils.RoleServoLeft, droidutils.RoleServoRight, droidutils.RoleServoDome:
		}
		roles = append(roles, rc)
	}
	return roles
}

// PinRoles returns the role bindings for the enabled features.
func (r *Resolved) PinRoles() []droidutils.PinConfig {
	return activeRoles(r.Pins, r.Features)
}

// BatteryReading estimates the battery state from a raw ADC sample.
func (r *Resolved) BatteryReading(raw int) (battery.Reading, error) {
	if !r.Features.BatteryMonitor {
		return battery.Reading{}, errors.New("battery monitor is disabled")
	}
	return r.Battery.Estimate(raw)
}
