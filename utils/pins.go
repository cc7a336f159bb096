package droidutils

import (
	"fmt"

	"go.viam.com/rdk/resource"
)

// PinRole names the logical job a board pin performs on the droid.
type PinRole string

const (
	// RoleServoLeft drives the left wheel servo.
	RoleServoLeft PinRole = "servo_left"
	// RoleServoRight drives the right wheel servo.
	RoleServoRight PinRole = "servo_right"
	// RoleServoDome drives the dome rotation servo.
	RoleServoDome PinRole = "servo_dome"
	// RoleLED is the status LED.
	RoleLED PinRole = "led"
	// RoleSoundRX is the sound module receive line.
	RoleSoundRX PinRole = "sound_rx"
	// RoleSoundTX is the sound module transmit line.
	RoleSoundTX PinRole = "sound_tx"
	// RoleBattery is the battery sense analog input.
	RoleBattery PinRole = "battery"
)

// Validate validates that the role is one we know about.
func (role PinRole) Validate() error {
	switch role {
	case RoleServoLeft:
	case RoleServoRight:
	case RoleServoDome:
	case RoleLED:
	case RoleSoundRX:
	case RoleSoundTX:
	case RoleBattery:
	default:
		return fmt.Errorf("invalid pin role %q, supported roles are servo_left, servo_right, servo_dome, led, sound_rx, sound_tx and battery", string(role))
	}
	return nil
}

// IsInput reports whether the role only ever reads from its pin.
func (role PinRole) IsInput() bool {
	return role == RoleSoundRX || role == RoleBattery
}

// PinConfig binds a role to a GPIO number on the selected board.
type PinConfig struct {
	Role  PinRole `json:"role"`
	Pin   int     `json:"pin"`
	Label string  `json:"label,omitempty"` // board silkscreen label when it differs from the GPIO number, e.g. A0
}

// Validate ensures all parts of the config are valid.
func (config *PinConfig) Validate(path string) error {
	if config.Role == "" {
		return resource.NewConfigValidationFieldRequiredError(path, "role")
	}
	if err := config.Role.Validate(); err != nil {
		return resource.NewConfigValidationError(path, err)
	}
	if config.Pin < 0 {
		return resource.NewConfigValidationError(path,
			fmt.Errorf("pin for %s must not be negative, got %d", config.Role, config.Pin))
	}
	return nil
}

// HeaderValue is how the pin is written in a firmware header.
func (config *PinConfig) HeaderValue() string {
	if config.Label != "" {
		return config.Label
	}
	return fmt.Sprint(config.Pin)
}
