package transport

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func TestStreamWriteAll(t *testing.T) {
	client, device := net.Pipe()
	defer device.Close()

	s := NewStream(client)
	defer s.Close()

	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 4)
		_, _ = io.ReadFull(device, buf)
		got <- buf
	}()

	frame := []byte{0x14, 0x32, 0x00, 0xEB}
	if err := s.WriteAll(frame); err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}
	if b := <-got; !bytes.Equal(b, frame) {
		t.Errorf("device received % X, want % X", b, frame)
	}
}

func TestStreamReadExact(t *testing.T) {
	client, device := net.Pipe()
	defer device.Close()

	s := NewStream(client)
	defer s.Close()

	go func() {
		// split across writes to exercise ReadFull
		_, _ = device.Write([]byte{0xC8})
		_, _ = device.Write([]byte{0x2A})
	}()

	b, err := s.ReadExact(2, time.Second)
	if err != nil {
		t.Fatalf("ReadExact() error: %v", err)
	}
	if !bytes.Equal(b, []byte{0xC8, 0x2A}) {
		t.Errorf("ReadExact() = % X", b)
	}
}

func TestStreamReadExactTimeout(t *testing.T) {
	client, device := net.Pipe()
	defer device.Close()

	s := NewStream(client)
	defer s.Close()

	b, err := s.ReadExact(2, 20*time.Millisecond)
	if !IsTimeout(err) {
		t.Fatalf("error = %v, want timeout", err)
	}
	if len(b) != 0 {
		t.Errorf("got %d bytes, want 0", len(b))
	}

	// deadline must be cleared for the next read
	go func() { _, _ = device.Write([]byte{0xC8, 0x01}) }()
	if _, err := s.ReadExact(2, time.Second); err != nil {
		t.Fatalf("ReadExact() after timeout error: %v", err)
	}
}

func TestStreamReadExactUnbounded(t *testing.T) {
	client, device := net.Pipe()
	defer device.Close()

	s := NewStream(client)
	defer s.Close()

	go func() {
		time.Sleep(30 * time.Millisecond)
		_, _ = device.Write([]byte{0xC8, 0x05})
	}()

	b, err := s.ReadExact(2, 0)
	if err != nil {
		t.Fatalf("ReadExact() error: %v", err)
	}
	if !bytes.Equal(b, []byte{0xC8, 0x05}) {
		t.Errorf("ReadExact() = % X", b)
	}
}

func TestStreamShortReadTimeout(t *testing.T) {
	client, device := net.Pipe()
	defer device.Close()

	s := NewStream(client)
	defer s.Close()

	go func() { _, _ = device.Write([]byte{0xC8}) }()

	b, err := s.ReadExact(2, 50*time.Millisecond)
	var sre *ShortReadError
	if !errors.As(err, &sre) {
		t.Fatalf("error = %v, want *ShortReadError", err)
	}
	if sre.Want != 2 || sre.Got != 1 {
		t.Errorf("ShortReadError = %+v", sre)
	}
	if !IsTimeout(err) {
		t.Error("short read caused by timeout should satisfy IsTimeout")
	}
	if !bytes.Equal(b, []byte{0xC8}) {
		t.Errorf("partial bytes = % X", b)
	}
}

type plainRWC struct {
	r      io.Reader
	w      bytes.Buffer
	closed bool
}

func (p *plainRWC) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *plainRWC) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *plainRWC) Close() error                { p.closed = true; return nil }

func TestStreamWithoutDeadline(t *testing.T) {
	rwc := &plainRWC{r: bytes.NewReader([]byte{0xC8})}
	s := NewStream(rwc)

	_, err := s.ReadExact(2, time.Second)
	var sre *ShortReadError
	if !errors.As(err, &sre) {
		t.Fatalf("error = %v, want *ShortReadError", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrUnexpectedEOF cause", err)
	}
	if IsTimeout(err) {
		t.Error("EOF reported as timeout")
	}

	if err := s.Close(); err != nil || !rwc.closed {
		t.Errorf("Close() = %v, closed = %v", err, rwc.closed)
	}
}

type zeroWriter struct{ plainRWC }

func (z *zeroWriter) Write(b []byte) (int, error) { return 0, nil }

func TestWriteAllZeroProgress(t *testing.T) {
	s := NewStream(&zeroWriter{})
	if err := s.WriteAll([]byte{1}); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("error = %v, want io.ErrShortWrite", err)
	}
}
