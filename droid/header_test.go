package droid

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"go.viam.com/test"

	"bb-r2-wifi/boards"
	droidutils "bb-r2-wifi/utils"
)

// workshopHeader mirrors the layout of the header operators edit by hand.
const workshopHeader = `/*
 * Set DROID_NUMBER, uncomment one board, save and upload.
 */
#ifndef CONFIG_H
#define CONFIG_H

#define DROID_NUMBER 3

// #define BOARD_XIAO_ESP32C3      // Seeed Xiao ESP32C3
#define BOARD_ESP32_DEVKIT      // ESP32-WROOM-32 DevKit

#define ENABLE_SOUND        false
#define ENABLE_BATTERY_MON  true
#define ENABLE_LED          true

#define SERVO_SPEED         7
#define SERVO_MIN           40
#define SERVO_MAX           150
#define SERVO_CENTER        90
#define DRIVE_SPEED         30
#define TURN_SPEED          40
#define DOME_SPEED          50

#ifdef BOARD_XIAO_ESP32C3
  #define SERVO_LEFT_PIN    2
  #define BATTERY_PIN       A0
#elif defined(BOARD_ESP32_DEVKIT)
  #define SERVO_LEFT_PIN    13
  #define BATTERY_PIN       34
#else
  #error "No board type defined!"
#endif

#define STRINGIFY(x) #x
#define TOSTRING(x) STRINGIFY(x)

#if DROID_NUMBER < 10
  #define WIFI_SSID "R2-BK0" TOSTRING(DROID_NUMBER)
#else
  #define WIFI_SSID "R2-BK" TOSTRING(DROID_NUMBER)
#endif

#define BATTERY_R1          10000.0
#define BATTERY_R2          4700.0
#define ADC_RESOLUTION      4095
#define BATTERY_MIN_MV      4400
#define BATTERY_MAX_MV      6000

#define DEBUG_SERIAL        true
#define SERIAL_BAUD         115200

#endif // CONFIG_H
`

func TestImportHeader(t *testing.T) {
	t.Run("workshop header", func(t *testing.T) {
		conf, err := ImportHeader(writeFile(t, "config.h", workshopHeader))
		test.That(t, err, test.ShouldBeNil)

		expected := Default()
		expected.DroidNumber = 3
		expected.Board = "esp32_devkit"
		expected.Features.Sound = false
		expected.Servo.Speed = 7
		expected.Servo.Drive = 30
		expected.Battery.R2Ohms = 4700
		test.That(t, cmp.Diff(expected, conf), test.ShouldBeEmpty)
	})

	t.Run("no board selected", func(t *testing.T) {
		header := strings.Replace(workshopHeader, "#define BOARD_ESP32_DEVKIT", "// #define BOARD_ESP32_DEVKIT", 1)
		conf, err := ImportHeader(writeFile(t, "config.h", header))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, conf.Board, test.ShouldEqual, "")

		_, err = Resolve(conf, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("two boards selected", func(t *testing.T) {
		header := strings.Replace(workshopHeader, "// #define BOARD_XIAO_ESP32C3", "#define BOARD_XIAO_ESP32C3", 1)
		_, err := ImportHeader(writeFile(t, "config.h", header))
		test.That(t, errors.Is(err, boards.ErrMultipleBoards), test.ShouldBeTrue)
	})

	t.Run("bad values", func(t *testing.T) {
		header := strings.Replace(workshopHeader, "ENABLE_LED          true", "ENABLE_LED          maybe", 1)
		header = strings.Replace(header, "SERVO_SPEED         7", "SERVO_SPEED         fast", 1)
		_, err := ImportHeader(writeFile(t, "config.h", header))
		test.That(t, err.Error(), test.ShouldContainSubstring, `ENABLE_LED must be true or false, got "maybe"`)
		test.That(t, err.Error(), test.ShouldContainSubstring, `SERVO_SPEED must be an integer, got "fast"`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ImportHeader(filepath.Join(t.TempDir(), "config.h"))
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestRenderHeader(t *testing.T) {
	logger := logging.NewTestLogger(t)

	conf := Default()
	conf.DroidNumber = 4
	conf.Board = "xiao_esp32c3"
	r, err := Resolve(conf, logger)
	test.That(t, err, test.ShouldBeNil)

	rendered := string(RenderHeader(r))
	test.That(t, rendered, test.ShouldContainSubstring, `#define WIFI_SSID "R2-BK04"`)
	test.That(t, rendered, test.ShouldContainSubstring, `#define WIFI_PASS "droidBK04"`)
	test.That(t, rendered, test.ShouldContainSubstring, "#define BATTERY_PIN A0")
	test.That(t, rendered, test.ShouldContainSubstring, "#define SERVO_LEFT_PIN 2")
	test.That(t, rendered, test.ShouldContainSubstring, "// #define BOARD_ESP32_DEVKIT\n")
	test.That(t, rendered, test.ShouldNotContainSubstring, "#ifdef")
	test.That(t, strings.HasSuffix(rendered, "#endif // CONFIG_H\n"), test.ShouldBeTrue)

	t.Run("round trip through import", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.h")
		test.That(t, WriteHeader(path, r, logger), test.ShouldBeNil)

		imported, err := ImportHeader(path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cmp.Diff(conf, imported), test.ShouldBeEmpty)
	})
}

func TestPatchHeader(t *testing.T) {
	logger := logging.NewTestLogger(t)
	path := writeFile(t, "config.h", workshopHeader)

	conf := Default()
	conf.DroidNumber = 11
	conf.Board = "xiao_esp32c3"
	r, err := Resolve(conf, logger)
	test.That(t, err, test.ShouldBeNil)

	changed, err := PatchHeader(path, r, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, changed, test.ShouldBeTrue)

	imported, err := ImportHeader(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmp.Diff(conf, imported), test.ShouldBeEmpty)

	content, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	// board conditionals stay as they were
	test.That(t, string(content), test.ShouldContainSubstring, "#ifdef BOARD_XIAO_ESP32C3\n  #define SERVO_LEFT_PIN    2")
	test.That(t, string(content), test.ShouldContainSubstring, "#define STRINGIFY(x) #x")

	active := []string{}
	for _, d := range droidutils.ParseDefines(string(content)) {
		if strings.HasPrefix(d.Name, "BOARD_") {
			active = append(active, d.Name)
		}
	}
	test.That(t, active, test.ShouldResemble, []string{"BOARD_XIAO_ESP32C3"})

	t.Run("second patch is a no-op", func(t *testing.T) {
		changed, err := PatchHeader(path, r, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, changed, test.ShouldBeFalse)
	})
}
