package droid

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/rdk/logging"

	"bb-r2-wifi/boards"
	droidutils "bb-r2-wifi/utils"
)

// Header macro names shared by ImportHeader, RenderHeader and PatchHeader.
const (
	defDroidNumber    = "DROID_NUMBER"
	defEnableSound    = "ENABLE_SOUND"
	defEnableBattery  = "ENABLE_BATTERY_MON"
	defEnableLED      = "ENABLE_LED"
	defServoSpeed     = "SERVO_SPEED"
	defServoMin       = "SERVO_MIN"
	defServoMax       = "SERVO_MAX"
	defServoCenter    = "SERVO_CENTER"
	defDriveSpeed     = "DRIVE_SPEED"
	defTurnSpeed      = "TURN_SPEED"
	defDomeSpeed      = "DOME_SPEED"
	defBatteryR1      = "BATTERY_R1"
	defBatteryR2      = "BATTERY_R2"
	defADCResolution  = "ADC_RESOLUTION"
	defADCReferenceMV = "ADC_REFERENCE_MV"
	defBatteryMinMV   = "BATTERY_MIN_MV"
	defBatteryMaxMV   = "BATTERY_MAX_MV"
	defDebugSerial    = "DEBUG_SERIAL"
	defSerialBaud     = "SERIAL_BAUD"
	boardDefinePrefix = "BOARD_"
)

func parseHeaderBool(name, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, errors.Errorf("%s must be true or false, got %q", name, value)
	}
}

func parseHeaderInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Errorf("%s must be an integer, got %q", name, value)
	}
	return n, nil
}

func parseHeaderFloat(name, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Errorf("%s must be a number, got %q", name, value)
	}
	return f, nil
}

// ImportHeader reads the settings from a firmware config.h. Macros it does not
// know, including pin and WiFi macros that are derived, are ignored. Values the
// header leaves out keep their defaults, except the board which must be selected
// by exactly one active BOARD_* macro.
func ImportHeader(path string) (Config, error) {
	defines, err := droidutils.ReadDefines(path)
	if err != nil {
		return Config{}, err
	}

	conf := Default()
	conf.Board = ""

	var errs error
	var selected []string
	setInt := func(dst *int, d droidutils.Define) {
		n, err := parseHeaderInt(d.Name, d.Value)
		if err != nil {
			errs = multierr.Append(errs, err)
			return
		}
		*dst = n
	}
	setBool := func(dst *bool, d droidutils.Define) {
		b, err := parseHeaderBool(d.Name, d.Value)
		if err != nil {
			errs = multierr.Append(errs, err)
			return
		}
		*dst = b
	}
	setFloat := func(dst *float64, d droidutils.Define) {
		f, err := parseHeaderFloat(d.Name, d.Value)
		if err != nil {
			errs = multierr.Append(errs, err)
			return
		}
		*dst = f
	}

	for _, d := range defines {
		switch d.Name {
		case defDroidNumber:
			setInt(&conf.DroidNumber, d)
		case defEnableSound:
			setBool(&conf.Features.Sound, d)
		case defEnableBattery:
			setBool(&conf.Features.BatteryMonitor, d)
		case defEnableLED:
			setBool(&conf.Features.LED, d)
		case defServoSpeed:
			setInt(&conf.Servo.Speed, d)
		case defServoMin:
			setInt(&conf.Servo.Min, d)
		case defServoMax:
			setInt(&conf.Servo.Max, d)
		case defServoCenter:
			setInt(&conf.Servo.Center, d)
		case defDriveSpeed:
			setInt(&conf.Servo.Drive, d)
		case defTurnSpeed:
			setInt(&conf.Servo.Turn, d)
		case defDomeSpeed:
			setInt(&conf.Servo.Dome, d)
		case defBatteryR1:
			setFloat(&conf.Battery.R1Ohms, d)
		case defBatteryR2:
			setFloat(&conf.Battery.R2Ohms, d)
		case defADCResolution:
			setInt(&conf.Battery.ADCResolution, d)
		case defADCReferenceMV:
			setInt(&conf.Battery.ReferenceMV, d)
		case defBatteryMinMV:
			setInt(&conf.Battery.MinMV, d)
		case defBatteryMaxMV:
			setInt(&conf.Battery.MaxMV, d)
		case defDebugSerial:
			setBool(&conf.Debug.Serial, d)
		case defSerialBaud:
			setInt(&conf.Debug.Baud, d)
		default:
			if strings.HasPrefix(d.Name, boardDefinePrefix) {
				selected = append(selected, d.Name)
			}
		}
	}
	if errs != nil {
		return Config{}, errors.Wrapf(errs, "import header %s", path)
	}

	if len(selected) > 0 {
		profile, err := boards.Select(selected)
		if err != nil {
			return Config{}, errors.Wrapf(err, "import header %s", path)
		}
		conf.Board = profile.String()
	}
	return conf, nil
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func formatOhms(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// RenderHeader renders a resolved configuration as a firmware config.h with
// every value already derived: no board conditionals and literal WiFi credentials.
func RenderHeader(r *Resolved) []byte {
	var b bytes.Buffer
	section := func(title string) {
		fmt.Fprintf(&b, "\n// %s\n// %s\n// %s\n\n", strings.Repeat("=", 76), title, strings.Repeat("=", 76))
	}
	define := func(name, value, comment string) {
		line := "#define " + name
		if value != "" {
			line += " " + value
		}
		if comment != "" {
			line = fmt.Sprintf("%-32s // %s", line, comment)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("/*\n * BB-R2 WiFi Configuration Header\n * Generated for droid " +
		strconv.Itoa(r.DroidNumber) + ", do not edit by hand.\n */\n\n")
	b.WriteString("#ifndef CONFIG_H\n#define CONFIG_H\n")

	section("DROID IDENTITY")
	define(defDroidNumber, strconv.Itoa(r.DroidNumber), "0 = demo unit, 1-16 = workshop droids")

	section("BOARD SELECTION")
	for _, p := range boards.Profiles() {
		if p == r.Board {
			define(p.HeaderDefine(), "", p.Description())
			continue
		}
		fmt.Fprintf(&b, "// #define %s\n", p.HeaderDefine())
	}

	section("FEATURE TOGGLES")
	define(defEnableSound, formatBool(r.Features.Sound), "DFPlayer sound module")
	define(defEnableBattery, formatBool(r.Features.BatteryMonitor), "battery monitoring")
	define(defEnableLED, formatBool(r.Features.LED), "LED control")

	section("SERVO TUNING")
	define(defServoSpeed, strconv.Itoa(r.Servo.Speed), "1 = slow/smooth, 10 = fast/snappy")
	define(defServoMin, strconv.Itoa(r.Servo.Min), "minimum servo angle")
	define(defServoMax, strconv.Itoa(r.Servo.Max), "maximum servo angle")
	define(defServoCenter, strconv.Itoa(r.Servo.Center), "neutral/stop position")
	define(defDriveSpeed, strconv.Itoa(r.Servo.Drive), "forward/back: center +/- this value")
	define(defTurnSpeed, strconv.Itoa(r.Servo.Turn), "turning: one wheel forward, one back")
	define(defDomeSpeed, strconv.Itoa(r.Servo.Dome), "dome rotation speed")

	section("PIN ASSIGNMENTS - " + strings.ToUpper(r.Board.String()))
	headerNames := map[droidutils.PinRole]string{
		droidutils.RoleServoLeft:  "SERVO_LEFT_PIN",
		droidutils.RoleServoRight: "SERVO_RIGHT_PIN",
		droidutils.RoleServoDome:  "SERVO_DOME_PIN",
		droidutils.RoleLED:        "LED_PIN",
		droidutils.RoleSoundRX:    "DFPLAYER_RX",
		droidutils.RoleSoundTX:    "DFPLAYER_TX",
		droidutils.RoleBattery:    "BATTERY_PIN",
	}
	for _, rc := range r.Pins.Roles() {
		define(headerNames[rc.Role], rc.HeaderValue(), "")
	}

	section("WIFI CREDENTIALS")
	define("WIFI_SSID", strconv.Quote(r.SSID), "")
	define("WIFI_PASS", strconv.Quote(r.Password), "")

	section("BATTERY MONITORING")
	define(defBatteryR1, formatOhms(r.Battery.R1Ohms), "voltage divider R1 (ohms)")
	define(defBatteryR2, formatOhms(r.Battery.R2Ohms), "voltage divider R2 (ohms)")
	define(defADCResolution, strconv.Itoa(r.Battery.ADCResolution), "ADC full-scale count")
	define(defADCReferenceMV, strconv.Itoa(r.Battery.ReferenceMV), "ADC full-scale input (mV)")
	define(defBatteryMinMV, strconv.Itoa(r.Battery.MinMV), "pack minimum voltage (mV)")
	define(defBatteryMaxMV, strconv.Itoa(r.Battery.MaxMV), "pack maximum voltage (mV)")

	section("DEBUG OUTPUT")
	define(defDebugSerial, formatBool(r.Debug.Serial), "enable Serial.print debug messages")
	define(defSerialBaud, strconv.Itoa(r.Debug.Baud), "serial monitor baud rate")

	b.WriteString("\n#endif // CONFIG_H\n")
	return b.Bytes()
}

// WriteHeader renders r and atomically replaces the header at path.
func WriteHeader(path string, r *Resolved, logger logging.Logger) error {
	if err := droidutils.WriteFileAtomic(path, RenderHeader(r), 0o644, logger); err != nil {
		return err
	}
	logger.Infof("wrote %s for %s on %s", path, r.SSID, r.Board)
	return nil
}

// PatchHeader edits an existing hand-maintained config.h in place so it selects
// r's board and carries r's identity and tuning. Pin macros under the board
// conditionals and everything else in the file are left alone.
func PatchHeader(path string, r *Resolved, logger logging.Logger) (bool, error) {
	changed := false
	for _, p := range boards.Profiles() {
		var did bool
		var err error
		if p == r.Board {
			did, err = droidutils.EnableDefine(path, p.HeaderDefine(), logger)
		} else {
			did, err = droidutils.CommentOutDefine(path, p.HeaderDefine(), logger)
		}
		if err != nil {
			return changed, err
		}
		changed = changed || did
	}

	values := []struct{ name, value string }{
		{defDroidNumber, strconv.Itoa(r.DroidNumber)},
		{defEnableSound, formatBool(r.Features.Sound)},
		{defEnableBattery, formatBool(r.Features.BatteryMonitor)},
		{defEnableLED, formatBool(r.Features.LED)},
		{defServoSpeed, strconv.Itoa(r.Servo.Speed)},
		{defServoMin, strconv.Itoa(r.Servo.Min)},
		{defServoMax, strconv.Itoa(r.Servo.Max)},
		{defServoCenter, strconv.Itoa(r.Servo.Center)},
		{defDriveSpeed, strconv.Itoa(r.Servo.Drive)},
		{defTurnSpeed, strconv.Itoa(r.Servo.Turn)},
		{defDomeSpeed, strconv.Itoa(r.Servo.Dome)},
		{defBatteryR1, formatOhms(r.Battery.R1Ohms)},
		{defBatteryR2, formatOhms(r.Battery.R2Ohms)},
		{defADCResolution, strconv.Itoa(r.Battery.ADCResolution)},
		{defADCReferenceMV, strconv.Itoa(r.Battery.ReferenceMV)},
		{defBatteryMinMV, strconv.Itoa(r.Battery.MinMV)},
		{defBatteryMaxMV, strconv.Itoa(r.Battery.MaxMV)},
		{defDebugSerial, formatBool(r.Debug.Serial)},
		{defSerialBaud, strconv.Itoa(r.Debug.Baud)},
	}
	for _, v := range values {
		did, err := droidutils.UpdateDefine(path, v.name, v.value, logger)
		if err != nil {
			return changed, errors.Wrapf(err, "patch %s", v.name)
		}
		changed = changed || did
	}
	return changed, nil
}
