package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"time"
)

// deadliner is implemented by net.Conn and by pollable *os.File values.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Stream adapts an io.ReadWriteCloser to Transport.
//
// When the wrapped value implements SetReadDeadline the timeout passed to
// ReadExact is enforced through it. Otherwise the read blocks until the
// bytes arrive or the stream fails, and the timeout is only advisory.
type Stream struct {
	rwc io.ReadWriteCloser
	dl  deadliner
}

// NewStream wraps rwc. The Stream takes ownership and closes rwc on Close.
func NewStream(rwc io.ReadWriteCloser) *Stream {
	s := &Stream{rwc: rwc}
	if dl, ok := rwc.(deadliner); ok {
		s.dl = dl
	}
	return s
}

// WriteAll implements Transport.
func (s *Stream) WriteAll(p []byte) error {
	return writeAll(s.rwc, p)
}

// ReadExact implements Transport.
func (s *Stream) ReadExact(n int, timeout time.Duration) ([]byte, error) {
	buf := make([]byte, n)

	bounded := false
	if s.dl != nil && timeout > 0 {
		err := s.dl.SetReadDeadline(time.Now().Add(timeout))
		switch {
		case err == nil:
			bounded = true
			defer func() { _ = s.dl.SetReadDeadline(time.Time{}) }()
		case errors.Is(err, os.ErrNoDeadline):
			// regular file or non-pollable device
		default:
			return buf[:0], err
		}
	}

	got, err := io.ReadFull(s.rwc, buf)
	if bounded && isDeadlineErr(err) {
		err = ErrTimeout
	}
	return readResult(buf, got, err)
}

// Close implements Transport.
func (s *Stream) Close() error {
	return s.rwc.Close()
}

func isDeadlineErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
