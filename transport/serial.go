package transport

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

// Port is the subset of serial.Port used by Serial.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Serial adapts a serial port to Transport.
//
// go.bug.st/serial reports a read timeout as a zero-byte read with no
// error; ReadExact turns that into ErrTimeout and keeps the whole call
// within the requested timeout across partial reads.
type Serial struct {
	port Port
}

// NewSerial wraps an open, configured port. The Serial takes ownership and
// closes the port on Close.
func NewSerial(port Port) *Serial {
	return &Serial{port: port}
}

// WriteAll implements Transport.
func (s *Serial) WriteAll(p []byte) error {
	return writeAll(s.port, p)
}

// ReadExact implements Transport.
func (s *Serial) ReadExact(n int, timeout time.Duration) ([]byte, error) {
	buf := make([]byte, n)
	bounded := timeout > 0
	deadline := time.Now().Add(timeout)

	if !bounded {
		if err := s.port.SetReadTimeout(serial.NoTimeout); err != nil {
			return readResult(buf, 0, fmt.Errorf("set read timeout: %w", err))
		}
	}

	got := 0
	for got < n {
		if bounded {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return readResult(buf, got, ErrTimeout)
			}
			if err := s.port.SetReadTimeout(remaining); err != nil {
				return readResult(buf, got, fmt.Errorf("set read timeout: %w", err))
			}
		}

		m, err := s.port.Read(buf[got:])
		got += m
		if err != nil {
			return readResult(buf, got, err)
		}
		if m == 0 {
			return readResult(buf, got, ErrTimeout)
		}
	}
	return buf, nil
}

// Close implements Transport.
func (s *Serial) Close() error {
	return s.port.Close()
}

// SerialConfig describes the line settings for OpenSerial.
type SerialConfig struct {
	// BaudRate defaults to DefaultBaudRate
	BaudRate int

	// DataBits defaults to 8
	DataBits int

	// Parity defaults to serial.NoParity
	Parity serial.Parity

	// StopBits defaults to serial.OneStopBit
	StopBits serial.StopBits
}

// DefaultBaudRate is the PLI adaptor's line speed.
const DefaultBaudRate = 9600

// DefaultSerialConfig returns 9600 8N1.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

func (c SerialConfig) mode() *serial.Mode {
	def := DefaultSerialConfig()
	if c.BaudRate <= 0 {
		c.BaudRate = def.BaudRate
	}
	if c.DataBits <= 0 {
		c.DataBits = def.DataBits
	}
	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   c.Parity,
		StopBits: c.StopBits,
	}
}

// ParseParity converts "none", "odd", "even", "mark" or "space" (or their
// first letter) to a serial.Parity.
func ParseParity(s string) (serial.Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "n", "none":
		return serial.NoParity, nil
	case "o", "odd":
		return serial.OddParity, nil
	case "e", "even":
		return serial.EvenParity, nil
	case "m", "mark":
		return serial.MarkParity, nil
	case "s", "space":
		return serial.SpaceParity, nil
	default:
		return serial.NoParity, fmt.Errorf("unknown parity %q", s)
	}
}

// ParseStopBits converts "1", "1.5" or "2" to serial.StopBits.
func ParseStopBits(s string) (serial.StopBits, error) {
	switch strings.TrimSpace(s) {
	case "", "1":
		return serial.OneStopBit, nil
	case "1.5":
		return serial.OnePointFiveStopBits, nil
	case "2":
		return serial.TwoStopBits, nil
	default:
		return serial.OneStopBit, fmt.Errorf("unknown stop bits %q", s)
	}
}
