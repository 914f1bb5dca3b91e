// Package transport provides the byte channels the PLI client runs over.
//
// A Transport is a duplex stream that can write a whole buffer and read an
// exact number of bytes within a timeout. It knows nothing about framing or
// retries. Two backends are provided:
//
//   - Stream wraps any io.ReadWriteCloser, typically a TCP connection or an
//     already-configured tty opened as a file
//   - Serial wraps a go.bug.st/serial port
//
// Establishing the channel (resolving an address, configuring a serial
// line) is done by DialTCP, OpenFile and OpenSerial. The client never does
// it itself.
package transport

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Transport is the capability the PLI client depends on.
//
// Implementations are not safe for concurrent use.
type Transport interface {
	io.Closer

	// WriteAll writes all of p or returns an error.
	WriteAll(p []byte) error

	// ReadExact reads exactly n bytes, waiting at most timeout for them.
	// A timeout of zero or less waits without bound.
	// On failure it returns the bytes that did arrive along with
	// ErrTimeout, a *ShortReadError or the underlying I/O error.
	ReadExact(n int, timeout time.Duration) ([]byte, error)
}

// ErrTimeout indicates that a read did not complete within its timeout.
var ErrTimeout = errors.New("transport: read timeout")

// ShortReadError indicates that fewer bytes than requested arrived before
// the stream ended or timed out.
type ShortReadError struct {
	Want int
	Got  int

	// Err is the condition that ended the read
	Err error
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("short read: got %d of %d bytes: %v", e.Got, e.Want, e.Err)
}

func (e *ShortReadError) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if err is or wraps ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// writeAll loops until p is fully written.
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("write: %w", io.ErrShortWrite)
		}
		p = p[n:]
	}
	return nil
}

// readResult maps the outcome of a bounded read to the package's errors.
func readResult(buf []byte, got int, err error) ([]byte, error) {
	if got == len(buf) {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.ErrUnexpectedEOF
	}
	if got == 0 && IsTimeout(err) {
		return buf[:0], err
	}
	return buf[:got], &ShortReadError{Want: len(buf), Got: got, Err: err}
}
