package protocol

import "fmt"

// CommandFrame is a single outgoing request.
type CommandFrame struct {
	// Command is the command code (see ReadProcessorLocation etc.)
	Command byte

	// Address is the controller location the command targets
	Address byte

	// Data is the value to write; zero for reads
	Data byte
}

// Checksum returns the frame's checksum byte.
func (f CommandFrame) Checksum() byte {
	return Checksum(f.Command)
}

// Bytes serializes the frame to its CommandSize wire form.
func (f CommandFrame) Bytes() []byte {
	return []byte{f.Command, f.Address, f.Data, f.Checksum()}
}

func (f CommandFrame) String() string {
	return fmt.Sprintf("%s(addr=0x%02X, data=0x%02X)", CommandName(f.Command), f.Address, f.Data)
}

// ResponseFrame is a single incoming reply.
type ResponseFrame struct {
	// Status is ResponseSuccess when the adaptor accepted the command
	Status byte

	// Value is the byte read, or the acknowledgement for writes
	Value byte
}

// OK reports whether the response carries the success status.
func (r ResponseFrame) OK() bool {
	return r.Status == ResponseSuccess
}
