// Package protocol implements the PLI serial interface adaptor protocol
// used by PL series solar charge controllers.
//
// This package provides pure functions to build command frames and parse
// response frames. It performs no I/O.
//
// # Protocol Overview
//
// Every exchange is a fixed-size request followed by a fixed-size reply:
//
//	Command:  [CMD][ADDRESS][DATA][~CMD]
//	Response: [STATUS][VALUE]
//
// Where:
//   - CMD is one of the command codes (ReadProcessorLocation etc.)
//   - ~CMD is the one's complement of CMD, used as a framing marker
//   - STATUS is ResponseSuccess (0xC8) on success
//
// The loopback test is the exception: its reply is a single byte,
// LoopbackSuccess (0x80) when the adaptor is healthy.
//
// # Command Builders
//
//	frame := protocol.BuildReadProcessorCmd(protocol.BatteryVoltage)
//	frame := protocol.BuildWriteEEPROMCmd(index, value)
//	frame := protocol.EncodeCommand(code, address, data)
//
// # Response Parsers
//
//	resp, err := protocol.DecodeResponse(buf)
//	if err != nil {
//	    // short read
//	}
//	if !resp.OK() {
//	    return &protocol.UnexpectedStatusError{
//	        Command:  code,
//	        Expected: protocol.ResponseSuccess,
//	        Actual:   resp.Status,
//	    }
//	}
package protocol
