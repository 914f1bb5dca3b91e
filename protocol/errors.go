package protocol

import (
	"errors"
	"fmt"
)

// MalformedResponseError indicates the adaptor's reply was shorter than
// the frame it should have sent. Treated as a transport failure.
type MalformedResponseError struct {
	Want int
	Got  int
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: got %d bytes, expected %d", e.Got, e.Want)
}

// UnexpectedStatusError represents a well-formed response whose status
// byte is not the expected success code.
type UnexpectedStatusError struct {
	// Command is the command that was answered
	Command byte

	// Expected is the success status
	Expected byte

	// Actual is the status byte received
	Actual byte
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status 0x%02X (expected 0x%02X)",
		CommandName(e.Command), e.Actual, e.Expected)
}

// IsUnexpectedStatus returns true if err is or wraps an UnexpectedStatusError.
func IsUnexpectedStatus(err error) bool {
	var se *UnexpectedStatusError
	return errors.As(err, &se)
}

// IsMalformed returns true if err is or wraps a MalformedResponseError.
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
