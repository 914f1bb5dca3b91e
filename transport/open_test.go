package transport

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func TestDialTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4)
		if _, err := conn.Read(buf); err == nil {
			_, _ = conn.Write([]byte{0x80})
		}
	}()

	s, err := DialTCP(context.Background(), ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("DialTCP() error: %v", err)
	}
	defer s.Close()

	if err := s.WriteAll([]byte{0xBB, 0x00, 0x00, 0x44}); err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}
	b, err := s.ReadExact(1, time.Second)
	if err != nil || b[0] != 0x80 {
		t.Fatalf("ReadExact() = % X, %v", b, err)
	}
}

func TestDialTCPRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := DialTCP(context.Background(), addr, time.Second); err == nil {
		t.Fatal("expected error dialing closed port")
	}
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "ttyMissing"))
	if err == nil {
		t.Fatal("expected error for missing device")
	}
}

func TestOpenSerialMissing(t *testing.T) {
	_, err := OpenSerial(filepath.Join(t.TempDir(), "ttyMissing"), DefaultSerialConfig())
	if err == nil {
		t.Fatal("expected error for missing serial port")
	}
}
