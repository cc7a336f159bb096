// Package droidutils contains helpers shared by the droid configuration packages.
package droidutils

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Environment variables that override values from a config file.
const (
	EnvDroidNumber = "BBR2_DROID_NUMBER"
	EnvBoard       = "BBR2_BOARD"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// OSLookup reads from the process environment.
var OSLookup LookupFunc = os.LookupEnv

// LookupString returns the trimmed value of key, if it is set and non-empty.
func LookupString(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// LookupInt returns the integer value of key. An unset or empty variable is
// not an error.
func LookupInt(lookup LookupFunc, key string) (int, bool, error) {
	v, ok := LookupString(lookup, key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, errors.Wrapf(err, "%s must be an integer", key)
	}
	return n, true, nil
}
