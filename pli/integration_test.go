package pli

import (
	"errors"
	"testing"
	"time"

	"github.com/moffa90/go-pli/internal/simulator"
	"github.com/moffa90/go-pli/protocol"
	"github.com/moffa90/go-pli/transport"
)

func newSimulatedClient(t *testing.T, opts ...Option) (*Client, *simulator.Device) {
	t.Helper()
	dev := simulator.New()
	opts = append([]Option{
		WithReadTimeout(50 * time.Millisecond),
		WithRetryDelay(time.Millisecond),
	}, opts...)
	c, err := New(transport.NewStream(dev.Pipe()), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, dev
}

func TestSimulatedSession(t *testing.T) {
	c, dev := newSimulatedClient(t)
	dev.SetRAM(protocol.BatteryVoltage, 0x87)

	ok, err := c.LoopbackTest()
	if err != nil || !ok {
		t.Fatalf("LoopbackTest() = %v, %v", ok, err)
	}

	v, err := c.ReadVolatile(protocol.BatteryVoltage)
	if err != nil {
		t.Fatalf("ReadVolatile() error = %v", err)
	}
	if v != 0x87 {
		t.Errorf("ReadVolatile() = 0x%02X, want 0x87", v)
	}

	ack, err := c.WriteEEPROM(protocol.VoltageSetting, 0x02)
	if err != nil {
		t.Fatalf("WriteEEPROM() error = %v", err)
	}
	if ack != 0x02 {
		t.Errorf("WriteEEPROM() = 0x%02X, want 0x02", ack)
	}
	if got := dev.EEPROM(protocol.VoltageSetting); got != 0x02 {
		t.Errorf("device eeprom = 0x%02X, want 0x02", got)
	}

	got, err := c.ReadEEPROM(protocol.VoltageSetting)
	if err != nil || got != 0x02 {
		t.Errorf("ReadEEPROM() = 0x%02X, %v", got, err)
	}

	want := []protocol.CommandFrame{
		{Command: protocol.LoopbackTest},
		{Command: protocol.ReadProcessorLocation, Address: protocol.BatteryVoltage},
		{Command: protocol.WriteEEPROMLocation, Address: protocol.VoltageSetting, Data: 0x02},
		{Command: protocol.ReadEEPROMLocation, Address: protocol.VoltageSetting},
	}
	cmds := dev.Commands()
	if len(cmds) != len(want) {
		t.Fatalf("device saw %d commands, want %d", len(cmds), len(want))
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Errorf("command %d = %v, want %v", i, cmds[i], want[i])
		}
	}
}

func TestSimulatedRecovery(t *testing.T) {
	var attempts []Attempt
	c, dev := newSimulatedClient(t, WithAttemptCallback(func(a Attempt) {
		attempts = append(attempts, a)
	}))
	dev.SetRAM(0x10, 0x42)
	dev.DropResponses(1)
	dev.RejectResponses(1)

	v, err := c.ReadVolatile(0x10)
	if err != nil {
		t.Fatalf("ReadVolatile() error = %v", err)
	}
	if v != 0x42 {
		t.Errorf("ReadVolatile() = 0x%02X, want 0x42", v)
	}

	if len(attempts) != 3 {
		t.Fatalf("got %d attempts, want 3", len(attempts))
	}
	if !transport.IsTimeout(attempts[0].Err) {
		t.Errorf("attempt 1 error = %v, want timeout", attempts[0].Err)
	}
	if !protocol.IsUnexpectedStatus(attempts[1].Err) {
		t.Errorf("attempt 2 error = %v, want unexpected status", attempts[1].Err)
	}
	if attempts[2].Err != nil || attempts[2].State != StateSuccess {
		t.Errorf("attempt 3 = %+v, want success", attempts[2])
	}
	for _, a := range attempts {
		if a.TransactionID != attempts[0].TransactionID {
			t.Error("attempts of one call must share a transaction id")
		}
	}
}

func TestSimulatedExhaustion(t *testing.T) {
	c, dev := newSimulatedClient(t)
	dev.RejectResponses(DefaultMaxAttempts)

	_, err := c.ReadEEPROM(0x00)
	var exhausted *RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("ReadEEPROM() error = %v, want RetriesExhaustedError", err)
	}
	diags := exhausted.Diagnostics()
	if len(diags) != DefaultMaxAttempts {
		t.Fatalf("got %d diagnostics, want %d", len(diags), DefaultMaxAttempts)
	}
	for i, d := range diags {
		if d != "00" {
			t.Errorf("diagnostic %d = %q, want \"00\"", i, d)
		}
	}

	// The device recovers and the client keeps working.
	if _, err := c.ReadEEPROM(0x00); err != nil {
		t.Errorf("ReadEEPROM() after exhaustion error = %v", err)
	}
}
