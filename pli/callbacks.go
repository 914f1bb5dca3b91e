package pli

import (
	"time"

	"github.com/google/uuid"
)

// State is a step of a single transaction.
//
//	Idle → Sending → AwaitingResponse → Validating → Success
//	                                               → RetryPending → Sending
//	                                                              → Failed
type State int

const (
	StateIdle State = iota
	StateSending
	StateAwaitingResponse
	StateValidating
	StateSuccess
	StateRetryPending
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateValidating:
		return "validating"
	case StateSuccess:
		return "success"
	case StateRetryPending:
		return "retry_pending"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Attempt describes one finished write+read cycle.
// Passed to AttemptCallback.
type Attempt struct {
	// TransactionID is shared by all attempts of one call
	TransactionID uuid.UUID

	// Command and Address identify the request
	Command byte
	Address byte

	// Number is the 1-based attempt number
	Number int

	// MaxAttempts is the policy limit
	MaxAttempts int

	// State is StateSuccess, StateRetryPending or StateFailed
	State State

	// Err is nil on success
	Err error

	// Elapsed is the duration of this attempt alone
	Elapsed time.Duration
}

// AttemptCallback is called after each attempt.
// Implementations should return quickly; the transaction waits for them.
//
// Example:
//
//	client, err := pli.New(t,
//	    pli.WithAttemptCallback(func(a pli.Attempt) {
//	        if a.Err != nil {
//	            fmt.Printf("attempt %d/%d: %v\n", a.Number, a.MaxAttempts, a.Err)
//	        }
//	    }),
//	)
type AttemptCallback func(Attempt)

// Logger is an optional logging interface that can be provided to the client.
// This allows integration with any logging framework; package logging
// provides a zerolog implementation.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
