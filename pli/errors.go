package pli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moffa90/go-pli/protocol"
)

// ErrClosed is returned by operations on a closed Client.
var ErrClosed = errors.New("pli: client is closed")

// ConstructionError indicates that no usable transport could be
// established. It is never retried.
type ConstructionError struct {
	// Target is the address or device path, empty for New
	Target string

	Err error
}

func (e *ConstructionError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("pli: cannot create client: %v", e.Err)
	}
	return fmt.Sprintf("pli: cannot connect to %s: %v", e.Target, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// AttemptKind classifies a failed attempt.
type AttemptKind int

const (
	// AttemptTransport is a write failure, timeout, short or malformed read
	AttemptTransport AttemptKind = iota

	// AttemptStatus is a well-formed response with the wrong status byte
	AttemptStatus
)

// AttemptError records why one attempt failed.
type AttemptError struct {
	// Number is the 1-based attempt number
	Number int

	Kind AttemptKind

	// Status is the offending status byte when Kind is AttemptStatus
	Status byte

	Err error
}

func newAttemptError(number int, err error) AttemptError {
	ae := AttemptError{Number: number, Kind: AttemptTransport, Err: err}
	var se *protocol.UnexpectedStatusError
	if errors.As(err, &se) {
		ae.Kind = AttemptStatus
		ae.Status = se.Actual
	}
	return ae
}

// String renders a status failure as two hex digits ("00", "c9") and a
// transport failure as its error text.
func (e AttemptError) String() string {
	if e.Kind == AttemptStatus {
		return fmt.Sprintf("%02x", e.Status)
	}
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

func (e AttemptError) Error() string {
	return fmt.Sprintf("attempt %d: %s", e.Number, e.String())
}

func (e AttemptError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is returned when every attempt of a transaction
// failed. Attempts lists the failures in the order they occurred.
type RetriesExhaustedError struct {
	Command byte

	// Expected is the success status that was never received
	Expected byte

	Attempts []AttemptError
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: expected %02x but got: %s",
		protocol.CommandName(e.Command), len(e.Attempts), e.Expected,
		strings.Join(e.Diagnostics(), ", "))
}

// Diagnostics returns the String form of every attempt error.
func (e *RetriesExhaustedError) Diagnostics() []string {
	out := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		out[i] = a.String()
	}
	return out
}

// Unwrap exposes the attempt errors to errors.Is and errors.As.
func (e *RetriesExhaustedError) Unwrap() []error {
	out := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		out[i] = a
	}
	return out
}

// IsRetriesExhausted returns true if err is or wraps a RetriesExhaustedError.
func IsRetriesExhausted(err error) bool {
	var re *RetriesExhaustedError
	return errors.As(err, &re)
}
