package boards

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	droidutils "bb-r2-wifi/utils"
)

// AnalogPin is the battery sense input. Label is the board's analog name when
// the firmware refers to it by label rather than GPIO number.
type AnalogPin struct {
	Label string `json:"label,omitempty"`
	GPIO  int    `json:"gpio"`
}

// Pins is the fixed pin set of one board.
type Pins struct {
	ServoLeft  int       `json:"servo_left"`
	ServoRight int       `json:"servo_right"`
	ServoDome  int       `json:"servo_dome"`
	LED        int       `json:"led"`
	SoundRX    int       `json:"sound_rx"`
	SoundTX    int       `json:"sound_tx"`
	Battery    AnalogPin `json:"battery"`
}

// Pins returns the pin set for the profile.
func (p Profile) Pins() (Pins, error) {
	switch p {
	case XiaoESP32C3:
		return Pins{
			ServoLeft:  2,
			ServoRight: 3,
			ServoDome:  4,
			LED:        5,
			SoundRX:    20,
			SoundTX:    21,
			Battery:    AnalogPin{Label: "A0", GPIO: 2},
		}, nil
	case ESP32DevKit:
		// Avoiding: GPIO 0 (boot), 1 (TX0), 3 (RX0), 6-11 (flash SPI)
		return Pins{
			ServoLeft:  13,
			ServoRight: 12,
			ServoDome:  14,
			LED:        2, // built-in LED on most DevKits
			SoundRX:    16,
			SoundTX:    17,
			Battery:    AnalogPin{GPIO: 34}, // ADC1, input only
		}, nil
	case Unknown:
		return Pins{}, ErrNoBoard
	default:
		return Pins{}, errors.Errorf("no pin mapping for board %d", int(p))
	}
}

// Roles flattens the pin set into role bindings, in header order.
func (pins Pins) Roles() []droidutils.PinConfig {
	return []droidutils.PinConfig{
		{Role: droidutils.RoleServoLeft, Pin: pins.ServoLeft},
		{Role: droidutils.RoleServoRight, Pin: pins.ServoRight},
		{Role: droidutils.RoleServoDome, Pin: pins.ServoDome},
		{Role: droidutils.RoleLED, Pin: pins.LED},
		{Role: droidutils.RoleSoundRX, Pin: pins.SoundRX},
		{Role: droidutils.RoleSoundTX, Pin: pins.SoundTX},
		{Role: droidutils.RoleBattery, Pin: pins.Battery.GPIO, Label: pins.Battery.Label},
	}
}

// reserved pins per board; using them for I/O breaks boot, flash or the USB console.
var reservedPins = map[Profile]map[int]string{
	XiaoESP32C3: {
		12: "flash SPI", 13: "flash SPI", 14: "flash SPI",
		15: "flash SPI", 16: "flash SPI", 17: "flash SPI",
	},
	ESP32DevKit: {
		0: "boot", 1: "TX0", 3: "RX0",
		6: "flash SPI", 7: "flash SPI", 8: "flash SPI",
		9: "flash SPI", 10: "flash SPI", 11: "flash SPI",
	},
}

// inputOnlyPins cannot drive an output.
var inputOnlyPins = map[Profile][]int{
	ESP32DevKit: {34, 35, 36, 37, 38, 39},
}

// maxGPIO is the highest GPIO number on each board.
var maxGPIO = map[Profile]int{
	XiaoESP32C3: 21,
	ESP32DevKit: 39,
}

// Reserved reports whether gpio is reserved on the board and why.
func (p Profile) Reserved(gpio int) (string, bool) {
	why, ok := reservedPins[p][gpio]
	return why, ok
}

// ValidatePins checks role bindings against the board: pins must exist, avoid
// reserved pins, only inputs may use input-only pins, and no two output roles
// may share a pin. The battery input is allowed to share a pin; see SharedPins.
func (p Profile) ValidatePins(roles []droidutils.PinConfig) error {
	var errs error
	owner := map[int]droidutils.PinRole{}
	for _, rc := range roles {
		path := fmt.Sprintf("pins.%s", rc.Role)
		if err := rc.Validate(path); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if rc.Pin > maxGPIO[p] {
			errs = multierr.Append(errs, errors.Errorf("%s pin %d does not exist on %s", rc.Role, rc.Pin, p))
			continue
		}
		if why, ok := p.Reserved(rc.Pin); ok {
			errs = multierr.Append(errs, errors.Errorf("%s pin %d is reserved (%s) on %s", rc.Role, rc.Pin, why, p))
		}
		if !rc.Role.IsInput() && slices.Contains(inputOnlyPins[p], rc.Pin) {
			errs = multierr.Append(errs, errors.Errorf("%s pin %d is input only on %s", rc.Role, rc.Pin, p))
		}
		if rc.Role == droidutils.RoleBattery {
			continue
		}
		if prev, ok := owner[rc.Pin]; ok {
			errs = multierr.Append(errs, errors.Errorf("%s and %s both use pin %d", prev, rc.Role, rc.Pin))
			continue
		}
		owner[rc.Pin] = rc.Role
	}
	return errs
}

// SharedPins describes every role the battery input shares its pin with.
func SharedPins(roles []droidutils.PinConfig) []string {
	battery := -1
	for _, rc := range roles {
		if rc.Role == droidutils.RoleBattery {
			battery = rc.Pin
		}
	}
	if battery < 0 {
		return nil
	}
	var shared []string
	for _, rc := range roles {
		if rc.Role != droidutils.RoleBattery && rc.Pin == battery {
			shared = append(shared, fmt.Sprintf("battery sense shares GPIO%d with %s", battery, rc.Role))
		}
	}
	return shared
}
