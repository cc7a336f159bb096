package droidutils

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestPinRoleValidate(t *testing.T) {
	for _, role := range []PinRole{
		RoleServoLeft, RoleServoRight, RoleServoDome, RoleLED, RoleSoundRX, RoleSoundTX, RoleBattery,
	} {
		test.That(t, role.Validate(), test.ShouldBeNil)
	}
	err := PinRole("horn").Validate()
	test.That(t, err.Error(), test.ShouldContainSubstring, `invalid pin role "horn"`)

	test.That(t, RoleBattery.IsInput(), test.ShouldBeTrue)
	test.That(t, RoleSoundRX.IsInput(), test.ShouldBeTrue)
	test.That(t, RoleSoundTX.IsInput(), test.ShouldBeFalse)
	test.That(t, RoleLED.IsInput(), test.ShouldBeFalse)
}

func TestPinConfigValidate(t *testing.T) {
	conf := PinConfig{Role: RoleLED, Pin: 2}
	test.That(t, conf.Validate("pins.0"), test.ShouldBeNil)

	conf = PinConfig{Pin: 2}
	err := conf.Validate("pins.0")
	test.That(t, err.Error(), test.ShouldContainSubstring, "role")

	conf = PinConfig{Role: RoleLED, Pin: -1}
	err = conf.Validate("pins.0")
	test.That(t, err.Error(), test.ShouldContainSubstring, "must not be negative")
}

func TestHeaderValue(t *testing.T) {
	conf := PinConfig{Role: RoleBattery, Pin: 2, Label: "A0"}
	test.That(t, conf.HeaderValue(), test.ShouldEqual, "A0")
	conf = PinConfig{Role: RoleBattery, Pin: 34}
	test.That(t, conf.HeaderValue(), test.ShouldEqual, "34")
}

func TestLookupEnv(t *testing.T) {
	env := map[string]string{
		EnvDroidNumber: " 12 ",
		EnvBoard:       "esp32_devkit",
		"EMPTY":        "   ",
		"BAD":          "twelve",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	v, ok := LookupString(lookup, EnvBoard)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldEqual, "esp32_devkit")

	_, ok = LookupString(lookup, "EMPTY")
	test.That(t, ok, test.ShouldBeFalse)

	n, ok, err := LookupInt(lookup, EnvDroidNumber)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, n, test.ShouldEqual, 12)

	_, ok, err = LookupInt(lookup, "UNSET")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)

	_, _, err = LookupInt(lookup, "BAD")
	test.That(t, err.Error(), test.ShouldContainSubstring, "BAD must be an integer")
	test.That(t, errors.Cause(err), test.ShouldNotBeNil)
}
