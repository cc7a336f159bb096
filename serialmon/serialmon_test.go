package serialmon

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.viam.com/rdk/logging"
	"go.viam.com/test"

	"bb-r2-wifi/droid"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func TestNew(t *testing.T) {
	logger := logging.NewTestLogger(t)

	_, err := New("/dev/ttyUSB0", droid.Debug{Serial: false, Baud: 115200}, logger)
	test.That(t, errors.Is(err, ErrDebugDisabled), test.ShouldBeTrue)

	_, err = New("", droid.Debug{Serial: true, Baud: 115200}, logger)
	test.That(t, err.Error(), test.ShouldContainSubstring, "need a serial port")

	m, err := New("/dev/ttyUSB0", droid.Debug{Serial: true, Baud: 9600}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.mode.BaudRate, test.ShouldEqual, 9600)
	test.That(t, m.mode.DataBits, test.ShouldEqual, 8)
}

func TestRun(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("reads lines until eof", func(t *testing.T) {
		m, err := New("/dev/ttyUSB0", droid.Debug{Serial: true, Baud: 115200}, logger)
		test.That(t, err, test.ShouldBeNil)

		var gotBaud int
		m.open = func(_ string, mode *serial.Mode) (io.ReadCloser, error) {
			gotBaud = mode.BaudRate
			return io.NopCloser(strings.NewReader("boot\r\n\r\nAP started: R2-BK01\r\nbattery 87%\r\n")), nil
		}
		rec := &recorder{}
		m.onLine = rec.add

		test.That(t, m.Run(context.Background()), test.ShouldBeNil)
		test.That(t, gotBaud, test.ShouldEqual, 115200)
		test.That(t, rec.get(), test.ShouldResemble, []string{"boot", "AP started: R2-BK01", "battery 87%"})
	})

	t.Run("open failure", func(t *testing.T) {
		m, err := New("/dev/ttyUSB9", droid.Debug{Serial: true, Baud: 115200}, logger)
		test.That(t, err, test.ShouldBeNil)
		m.open = func(string, *serial.Mode) (io.ReadCloser, error) {
			return nil, errors.New("no such port")
		}
		err = m.Run(context.Background())
		test.That(t, err.Error(), test.ShouldContainSubstring, "open serial port /dev/ttyUSB9 at 115200 baud")
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		m, err := New("/dev/ttyUSB0", droid.Debug{Serial: true, Baud: 115200}, logger)
		test.That(t, err, test.ShouldBeNil)

		pr, pw := io.Pipe()
		m.open = func(string, *serial.Mode) (io.ReadCloser, error) {
			return pr, nil
		}
		rec := &recorder{}
		m.onLine = rec.add

		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)
		go func() { result <- m.Run(ctx) }()

		_, err = pw.Write([]byte("hello\n"))
		test.That(t, err, test.ShouldBeNil)
		cancel()

		select {
		case err := <-result:
			test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
		case <-time.After(5 * time.Second):
			t.Fatal("monitor did not stop")
		}
		test.That(t, rec.get(), test.ShouldResemble, []string{"hello"})
	})
}
