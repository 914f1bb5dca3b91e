package protocol

import "fmt"

// EncodeCommand constructs a command frame.
//
// Frame structure:
//
//	[CMD][ADDRESS][DATA][~CMD]
//
// Returns the CommandSize-byte frame ready to send.
func EncodeCommand(command, address, data byte) []byte {
	return CommandFrame{Command: command, Address: address, Data: data}.Bytes()
}

// EncodeCommandInt is EncodeCommand for callers holding wider integers.
// Each field is truncated to its low byte rather than rejected, which is
// how the adaptor itself treats overflowed values.
func EncodeCommandInt(command, address, data int) []byte {
	return EncodeCommand(byte(command&ByteMask), byte(address&ByteMask), byte(data&ByteMask))
}

// BuildReadProcessorCmd constructs a Read Processor Location frame.
func BuildReadProcessorCmd(index byte) []byte {
	return EncodeCommand(ReadProcessorLocation, index, 0)
}

// BuildReadEEPROMCmd constructs a Read EEPROM Location frame.
func BuildReadEEPROMCmd(index byte) []byte {
	return EncodeCommand(ReadEEPROMLocation, index, 0)
}

// BuildWriteEEPROMCmd constructs a Write EEPROM Location frame.
func BuildWriteEEPROMCmd(index, value byte) []byte {
	return EncodeCommand(WriteEEPROMLocation, index, value)
}

// BuildLoopbackCmd constructs the Loopback Test frame.
//
//	[0xBB][0x00][0x00][0x44]
func BuildLoopbackCmd() []byte {
	return EncodeCommand(LoopbackTest, 0, 0)
}

// ParseCommand decodes a CommandSize-byte frame, validating its checksum.
// The adaptor side of the protocol uses this; clients normally don't.
func ParseCommand(frame []byte) (CommandFrame, error) {
	if len(frame) != CommandSize {
		return CommandFrame{}, fmt.Errorf("invalid command length: got %d bytes, expected %d", len(frame), CommandSize)
	}
	if !validChecksum(frame) {
		return CommandFrame{}, fmt.Errorf("checksum mismatch: got 0x%02X, expected 0x%02X", frame[3], Checksum(frame[0]))
	}
	return CommandFrame{Command: frame[0], Address: frame[1], Data: frame[2]}, nil
}

// CommandName returns a human-readable name for a command code.
func CommandName(code byte) string {
	switch code {
	case ReadProcessorLocation:
		return "read processor location"
	case ReadEEPROMLocation:
		return "read eeprom location"
	case WriteProcessorLocation:
		return "write processor location"
	case WriteEEPROMLocation:
		return "write eeprom location"
	case LoopbackTest:
		return "loopback test"
	default:
		return fmt.Sprintf("command 0x%02X", code)
	}
}
