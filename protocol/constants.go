package protocol

// Frame sizes in bytes.
const (
	// CommandSize is the length of every command frame:
	// CMD(1) + ADDRESS(1) + DATA(1) + CHECKSUM(1)
	CommandSize = 4

	// ResponseSize is the length of every response frame except loopback:
	// STATUS(1) + VALUE(1)
	ResponseSize = 2

	// LoopbackResponseSize is the length of the loopback test response
	LoopbackResponseSize = 1
)

// Command codes understood by the PLI adaptor.
const (
	// ReadProcessorLocation reads one byte from a volatile (RAM) location
	ReadProcessorLocation = 0x14

	// ReadEEPROMLocation reads one byte from non-volatile storage
	ReadEEPROMLocation = 0x48

	// WriteProcessorLocation writes one byte to a volatile location.
	// Reserved; no client operation issues it.
	WriteProcessorLocation = 0x98

	// WriteEEPROMLocation writes one byte to non-volatile storage
	WriteEEPROMLocation = 0xCA

	// LoopbackTest asks the adaptor to answer with LoopbackSuccess
	LoopbackTest = 0xBB
)

// Response codes.
const (
	// ResponseSuccess is the status byte of a successful response
	ResponseSuccess = 0xC8

	// LoopbackSuccess is the single byte returned by a healthy adaptor
	// in response to LoopbackTest
	LoopbackSuccess = 0x80
)

// Well-known controller locations.
const (
	// BatteryVoltage is the volatile location holding battery voltage
	BatteryVoltage = 0x32

	// BatteryTemp is the volatile location holding battery temperature
	BatteryTemp = 0x34

	// VoltageSetting is the location of the system voltage setting
	VoltageSetting = 0x2B
)

// ByteMask truncates wider integers to a single wire byte.
const ByteMask = 0xFF
