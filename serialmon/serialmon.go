// Package serialmon streams a droid's debug serial output into a logger, using
// the baud rate from the droid's configuration.
package serialmon

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.viam.com/rdk/logging"

	"bb-r2-wifi/droid"
)

// ErrDebugDisabled is returned when the droid was configured without debug output.
var ErrDebugDisabled = errors.New("debug serial output is disabled in the droid configuration")

// Opener opens a serial port in the given mode.
type Opener func(portName string, mode *serial.Mode) (io.ReadCloser, error)

func openSerial(portName string, mode *serial.Mode) (io.ReadCloser, error) {
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// Monitor reads lines from a droid's serial console.
type Monitor struct {
	portName string
	mode     *serial.Mode
	open     Opener
	logger   logging.Logger
	onLine   func(line string)
}

// New returns a monitor for portName that talks at the configured debug baud rate.
func New(portName string, debug droid.Debug, logger logging.Logger) (*Monitor, error) {
	if !debug.Serial {
		return nil, ErrDebugDisabled
	}
	if portName == "" {
		return nil, errors.New("need a serial port to monitor")
	}
	m := &Monitor{
		portName: portName,
		mode: &serial.Mode{
			BaudRate: debug.Baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
		open:   openSerial,
		logger: logger,
	}
	m.onLine = func(line string) {
		m.logger.Infow("droid", "port", m.portName, "line", line)
	}
	return m, nil
}

// Run copies console lines to the logger until the port reaches EOF or ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	port, err := m.open(m.portName, m.mode)
	if err != nil {
		return errors.Wrapf(err, "open serial port %s at %d baud", m.portName, m.mode.BaudRate)
	}
	m.logger.Infof("monitoring %s at %d baud", m.portName, m.mode.BaudRate)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		if err := port.Close(); err != nil {
			m.logger.Debugf("closing %s: %v", m.portName, err)
		}
	}()

	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		m.onLine(line)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "read serial port %s", m.portName)
	}
	return nil
}

// Ports lists the serial ports present on this machine.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "list serial ports")
	}
	return ports, nil
}
