package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"go.bug.st/serial"
)

// DialTCP connects to address ("host:port"). Every address the host
// resolves to is tried in turn until one accepts the connection.
func DialTCP(ctx context.Context, address string, timeout time.Duration) (*Stream, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("could not open socket to %s: %w", address, err)
	}
	return NewStream(conn), nil
}

// OpenFile opens a character device (or any file) for reading and writing.
// The line must already be configured; nothing is changed on it.
func OpenFile(path string) (*Stream, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return NewStream(f), nil
}

// OpenSerial opens and configures a serial port.
func OpenSerial(path string, cfg SerialConfig) (*Serial, error) {
	port, err := serial.Open(path, cfg.mode())
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %s: %w", path, describePortError(err))
	}
	return NewSerial(port), nil
}

func describePortError(err error) error {
	var code serial.PortErrorCode
	var portErr serial.PortError
	var portErrPtr *serial.PortError
	switch {
	case errors.As(err, &portErr):
		code = portErr.Code()
	case errors.As(err, &portErrPtr):
		code = portErrPtr.Code()
	default:
		return err
	}
	switch code {
	case serial.PortNotFound:
		return fmt.Errorf("port not found: %w", err)
	case serial.PortBusy:
		return fmt.Errorf("port busy: %w", err)
	case serial.PermissionDenied:
		return fmt.Errorf("permission denied: %w", err)
	case serial.InvalidSpeed, serial.InvalidDataBits, serial.InvalidParity, serial.InvalidStopBits:
		return fmt.Errorf("invalid line settings: %w", err)
	default:
		return err
	}
}
