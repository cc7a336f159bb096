package droid

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	droidutils "bb-r2-wifi/utils"
)

// LoadConfig reads a JSON or YAML config file on top of Default. Fields the
// file leaves out keep their default values; unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	conf := Default()
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&conf); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	default:
		return Config{}, errors.Errorf("unsupported config format %q, use .json, .yaml or .yml", ext)
	}
	return conf, nil
}

// ApplyEnv overrides the droid number and board from the environment.
func ApplyEnv(conf *Config, lookup droidutils.LookupFunc) error {
	n, ok, err := droidutils.LookupInt(lookup, droidutils.EnvDroidNumber)
	if err != nil {
		return err
	}
	if ok {
		conf.DroidNumber = n
	}
	if board, ok := droidutils.LookupString(lookup, droidutils.EnvBoard); ok {
		conf.Board = board
	}
	return nil
}
