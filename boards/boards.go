// Package boards describes the ESP32 boards a droid can be built on and the
// fixed pin set each one uses.
package boards

import (
	"strings"

	"github.com/pkg/errors"
)

// Profile selects one supported board.
type Profile int

const (
	// Unknown is the zero value and never a valid selection.
	Unknown Profile = iota
	// XiaoESP32C3 is the Seeed Xiao ESP32C3, the original dev board.
	XiaoESP32C3
	// ESP32DevKit is a generic ESP32-WROOM-32 DevKit / NodeMCU.
	ESP32DevKit
)

var (
	// ErrNoBoard is returned when no board profile was selected.
	ErrNoBoard = errors.New("no board type defined, select xiao_esp32c3 or esp32_devkit")
	// ErrMultipleBoards is returned when more than one board profile was selected.
	ErrMultipleBoards = errors.New("more than one board type defined, select exactly one")
)

// Profiles lists every supported board in declaration order.
func Profiles() []Profile {
	return []Profile{XiaoESP32C3, ESP32DevKit}
}

// String returns the config name of the profile.
func (p Profile) String() string {
	switch p {
	case XiaoESP32C3:
		return "xiao_esp32c3"
	case ESP32DevKit:
		return "esp32_devkit"
	case Unknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// HeaderDefine is the firmware header macro that selects the profile.
func (p Profile) HeaderDefine() string {
	return "BOARD_" + strings.ToUpper(p.String())
}

// Description is a human readable board name.
func (p Profile) Description() string {
	switch p {
	case XiaoESP32C3:
		return "Seeed Xiao ESP32C3 (original dev board)"
	case ESP32DevKit:
		return "Generic ESP32-WROOM-32 DevKit / NodeMCU"
	case Unknown:
		return ""
	default:
		return ""
	}
}

// ParseProfile accepts a config name ("esp32_devkit") or a header macro
// ("BOARD_ESP32_DEVKIT"), case insensitively.
func ParseProfile(name string) (Profile, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "board_")
	n = strings.ReplaceAll(n, "-", "_")
	for _, p := range Profiles() {
		if p.String() == n {
			return p, nil
		}
	}
	return Unknown, errors.Errorf("unknown board type %q, supported boards are xiao_esp32c3 and esp32_devkit", name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) {
	if p == Unknown {
		return nil, ErrNoBoard
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profile) UnmarshalText(text []byte) error {
	parsed, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Select picks the single profile named in selected. Empty names are ignored and
// repeating the same board counts once.
func Select(selected []string) (Profile, error) {
	chosen := Unknown
	for _, name := range selected {
		if strings.TrimSpace(name) == "" {
			continue
		}
		p, err := ParseProfile(name)
		if err != nil {
			return Unknown, err
		}
		if chosen != Unknown && chosen != p {
			return Unknown, errors.Wrapf(ErrMultipleBoards, "got %s and %s", chosen, p)
		}
		chosen = p
	}
	if chosen == Unknown {
		return Unknown, ErrNoBoard
	}
	return chosen, nil
}
