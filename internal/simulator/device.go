// Package simulator emulates a PLI adaptor and its controller so the
// client can be exercised without hardware.
package simulator

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/moffa90/go-pli/protocol"
)

// StatusRejected is the status the simulator answers unknown commands with.
const StatusRejected = 0x00

// Device simulates a PL controller behind a PLI adaptor.
// It validates command frames and generates responses.
type Device struct {
	mu       sync.Mutex
	ram      [256]byte
	eeprom   [256]byte
	drop     int
	reject   int
	latency  time.Duration
	commands []protocol.CommandFrame
}

// New returns a device with battery readings preloaded.
func New() *Device {
	d := &Device{}
	d.ram[protocol.BatteryVoltage] = 0x87
	d.ram[protocol.BatteryTemp] = 0x19
	d.eeprom[protocol.VoltageSetting] = 0x01
	return d
}

// SetRAM sets a volatile location.
func (d *Device) SetRAM(index, value byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ram[index] = value
}

// SetEEPROM sets a non-volatile location.
func (d *Device) SetEEPROM(index, value byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.eeprom[index] = value
}

// EEPROM returns a non-volatile location.
func (d *Device) EEPROM(index byte) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.eeprom[index]
}

// DropResponses makes the device swallow the next n replies, so the
// client times out.
func (d *Device) DropResponses(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drop = n
}

// RejectResponses makes the device answer the next n commands with
// StatusRejected.
func (d *Device) RejectResponses(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reject = n
}

// SetLatency delays every reply.
func (d *Device) SetLatency(latency time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latency = latency
}

// Commands returns every valid frame received so far.
func (d *Device) Commands() []protocol.CommandFrame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]protocol.CommandFrame(nil), d.commands...)
}

// Handle processes one command frame and returns the reply, or nil when
// no reply is sent. Frames with a bad checksum are ignored, as the
// adaptor does.
func (d *Device) Handle(frame []byte) []byte {
	cmd, err := protocol.ParseCommand(frame)
	if err != nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.commands = append(d.commands, cmd)

	// Loopback is answered by the adaptor itself
	if cmd.Command == protocol.LoopbackTest {
		return []byte{protocol.LoopbackSuccess}
	}

	if d.drop > 0 {
		d.drop--
		return nil
	}
	if d.reject > 0 {
		d.reject--
		return protocol.EncodeResponse(StatusRejected, 0)
	}

	switch cmd.Command {
	case protocol.ReadProcessorLocation:
		return protocol.EncodeResponse(protocol.ResponseSuccess, d.ram[cmd.Address])
	case protocol.WriteProcessorLocation:
		d.ram[cmd.Address] = cmd.Data
		return protocol.EncodeResponse(protocol.ResponseSuccess, cmd.Data)
	case protocol.ReadEEPROMLocation:
		return protocol.EncodeResponse(protocol.ResponseSuccess, d.eeprom[cmd.Address])
	case protocol.WriteEEPROMLocation:
		d.eeprom[cmd.Address] = cmd.Data
		return protocol.EncodeResponse(protocol.ResponseSuccess, cmd.Data)
	default:
		return protocol.EncodeResponse(StatusRejected, 0)
	}
}

// Serve answers commands read from conn until it fails or is closed.
func (d *Device) Serve(conn io.ReadWriter) error {
	frame := make([]byte, protocol.CommandSize)
	for {
		if _, err := io.ReadFull(conn, frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		reply := d.Handle(frame)
		if reply == nil {
			continue
		}

		d.mu.Lock()
		latency := d.latency
		d.mu.Unlock()
		if latency > 0 {
			time.Sleep(latency)
		}

		if _, err := conn.Write(reply); err != nil {
			return err
		}
	}
}

// ListenAndServe accepts connections on ln and serves each until ctx is
// done or ln is closed.
func (d *Device) ListenAndServe(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go func() {
			defer conn.Close()
			_ = d.Serve(conn)
		}()
	}
}

// Pipe returns the client end of an in-memory connection served by d.
func (d *Device) Pipe() net.Conn {
	client, server := net.Pipe()
	go func() {
		defer server.Close()
		_ = d.Serve(server)
	}()
	return client
}
