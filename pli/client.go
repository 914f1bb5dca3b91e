package pli

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/moffa90/go-pli/protocol"
	"github.com/moffa90/go-pli/transport"
)

// Client talks to a PLI adaptor over an already-open transport.
//
// Client is NOT safe for concurrent use: the protocol has no request
// identifiers, so two transactions in flight on one transport corrupt each
// other's framing. Callers sharing a Client must serialize access.
//
// For the same reason a reply that arrives after its read timed out stays
// in the transport. If that was the final attempt, the next transaction
// reads the stale reply and, when its status is ResponseSuccess, returns
// its value as its own. After a RetriesExhaustedError caused by timeouts,
// callers that cannot tolerate this should Close the client and reconnect.
type Client struct {
	transport transport.Transport
	config    Config

	// sleep waits between attempts; replaced in tests
	sleep func(ctx context.Context, d time.Duration) error

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// New creates a Client that owns t. The transport is closed by Close.
//
// New performs no I/O. It fails with a *ConstructionError if t is nil or
// the options describe an invalid retry policy.
//
// Example:
//
//	t, err := transport.DialTCP(ctx, "172.31.2.110:26000", 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := pli.New(t,
//	    pli.WithMaxAttempts(5),
//	    pli.WithRetryDelay(5*time.Second),
//	)
func New(t transport.Transport, opts ...Option) (*Client, error) {
	if t == nil {
		return nil, &ConstructionError{Err: fmt.Errorf("transport cannot be nil")}
	}

	cfg := buildConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, &ConstructionError{Err: err}
	}

	return &Client{
		transport: t,
		config:    cfg,
		sleep:     sleepContext,
	}, nil
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// ReadVolatile reads one byte from a volatile (RAM) location.
//
// Example:
//
//	volts, err := client.ReadVolatile(protocol.BatteryVoltage)
func (c *Client) ReadVolatile(index byte) (byte, error) {
	return c.ReadVolatileContext(context.Background(), index)
}

// ReadVolatileContext is ReadVolatile with a context. Cancelling ctx stops
// further attempts; an attempt in progress is not interrupted.
func (c *Client) ReadVolatileContext(ctx context.Context, index byte) (byte, error) {
	return c.execute(ctx, protocol.ReadProcessorLocation, index, 0)
}

// ReadEEPROM reads one byte from non-volatile storage.
func (c *Client) ReadEEPROM(index byte) (byte, error) {
	return c.ReadEEPROMContext(context.Background(), index)
}

// ReadEEPROMContext is ReadEEPROM with a context.
func (c *Client) ReadEEPROMContext(ctx context.Context, index byte) (byte, error) {
	return c.execute(ctx, protocol.ReadEEPROMLocation, index, 0)
}

// WriteEEPROM writes one byte to non-volatile storage and returns the
// adaptor's acknowledgement byte.
//
// The write is retried like any other transaction. When a response is
// lost after the adaptor applied the write, the retry applies it again.
func (c *Client) WriteEEPROM(index, value byte) (byte, error) {
	return c.WriteEEPROMContext(context.Background(), index, value)
}

// WriteEEPROMContext is WriteEEPROM with a context.
func (c *Client) WriteEEPROMContext(ctx context.Context, index, value byte) (byte, error) {
	return c.execute(ctx, protocol.WriteEEPROMLocation, index, value)
}

// LoopbackTest sends the loopback command once and reports whether the
// adaptor answered with LoopbackSuccess. The loopback reply is a single
// byte and the exchange is not retried.
//
// A well-formed reply with any other byte returns false and a nil error.
func (c *Client) LoopbackTest() (bool, error) {
	return c.LoopbackTestContext(context.Background())
}

// LoopbackTestContext is LoopbackTest with a context.
func (c *Client) LoopbackTestContext(ctx context.Context) (bool, error) {
	if c.closed.Load() {
		return false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("loopback test: %w", err)
	}

	if err := c.transport.WriteAll(protocol.BuildLoopbackCmd()); err != nil {
		return false, fmt.Errorf("loopback test: write command: %w", err)
	}

	response, err := c.transport.ReadExact(protocol.LoopbackResponseSize, c.config.ReadTimeout)
	if err != nil {
		return false, fmt.Errorf("loopback test: read response: %w", err)
	}

	ok, err := protocol.DecodeLoopback(response)
	if err != nil {
		return false, fmt.Errorf("loopback test: %w", err)
	}

	c.logDebug("loopback test", "ok", ok, "response", fmt.Sprintf("0x%02X", response[0]))
	return ok, nil
}

// Close releases the transport. Only the first call closes it; later
// calls return nil.
func (c *Client) Close() error {
	first := false
	c.closeOnce.Do(func() {
		first = true
		c.closed.Store(true)
		c.closeErr = c.transport.Close()
	})
	if !first {
		return nil
	}
	return c.closeErr
}

// logDebug logs a debug message if a logger is configured.
func (c *Client) logDebug(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (c *Client) logInfo(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (c *Client) logError(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Error(msg, keysAndValues...)
	}
}
