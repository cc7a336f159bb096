package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"go.viam.com/utils"

	"bb-r2-wifi/droid"
	"bb-r2-wifi/serialmon"
	droidutils "bb-r2-wifi/utils"
)

// Arguments are the command line flags of bb-r2.
type Arguments struct {
	ConfigFile string `flag:"config,usage=droid config file (.json or .yaml or .yml)"`
	Board      string `flag:"board,usage=board profile: xiao_esp32c3 or esp32_devkit"`
	Droid      string `flag:"droid,usage=droid number 0-16"`
	Port       string `flag:"port,usage=serial port for the monitor command"`
	Command    string `flag:"0,required,usage=resolve|header|patch|import|battery|monitor"`
	Target     string `flag:"1,usage=header path or raw ADC sample for battery"`
}

func main() {
	utils.ContextualMain(mainWithArgs, logging.NewLogger("bb-r2"))
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	conf, err := loadConfig(argsParsed)
	if err != nil {
		return err
	}
	resolved, err := droid.Resolve(conf, logger)
	if err != nil {
		return err
	}

	switch argsParsed.Command {
	case "resolve", "import":
		return printJSON(resolved)
	case "header":
		if argsParsed.Target == "" {
			return errors.New("header needs an output path")
		}
		return droid.WriteHeader(argsParsed.Target, resolved, logger)
	case "patch":
		if argsParsed.Target == "" {
			return errors.New("patch needs the path of an existing header")
		}
		changed, err := droid.PatchHeader(argsParsed.Target, resolved, logger)
		if err != nil {
			return err
		}
		if !changed {
			logger.Infof("%s already up to date", argsParsed.Target)
		}
		return nil
	case "battery":
		raw, err := strconv.Atoi(argsParsed.Target)
		if err != nil {
			return errors.Errorf("battery needs a raw ADC sample, got %q", argsParsed.Target)
		}
		reading, err := resolved.BatteryReading(raw)
		if err != nil {
			return err
		}
		return printJSON(reading)
	case "monitor":
		return monitor(ctx, argsParsed.Port, resolved, logger)
	default:
		return errors.Errorf("unknown command %q", argsParsed.Command)
	}
}

// loadConfig layers the config sources: defaults or a file (or a header for
// import), then the environment, then flags.
func loadConfig(args Arguments) (droid.Config, error) {
	var conf droid.Config
	var err error
	switch {
	case args.Command == "import":
		if args.Target == "" {
			return droid.Config{}, errors.New("import needs the path of a header")
		}
		conf, err = droid.ImportHeader(args.Target)
	case args.ConfigFile != "":
		conf, err = droid.LoadConfig(args.ConfigFile)
	default:
		conf = droid.Default()
	}
	if err != nil {
		return droid.Config{}, err
	}

	if err := droid.ApplyEnv(&conf, droidutils.OSLookup); err != nil {
		return droid.Config{}, err
	}
	if args.Board != "" {
		conf.Board = args.Board
	}
	if args.Droid != "" {
		n, err := strconv.Atoi(args.Droid)
		if err != nil {
			return droid.Config{}, errors.Errorf("-droid must be a number, got %q", args.Droid)
		}
		conf.DroidNumber = n
	}
	return conf, nil
}

func monitor(ctx context.Context, port string, resolved *droid.Resolved, logger logging.Logger) error {
	if port == "" {
		ports, err := serialmon.Ports()
		if err != nil {
			return err
		}
		return errors.Errorf("monitor needs -port, available ports: %v", ports)
	}
	m, err := serialmon.New(port, resolved.Debug, logger)
	if err != nil {
		return err
	}
	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
