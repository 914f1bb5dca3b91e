package pli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moffa90/go-pli/protocol"
)

// execute runs one transaction: encode, write, read, decode and validate,
// repeating the whole exchange until it succeeds or the retry policy is
// spent. Transport and status failures are retried alike.
func (c *Client) execute(ctx context.Context, command, address, data byte) (byte, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}

	frame := protocol.CommandFrame{Command: command, Address: address, Data: data}
	policy := c.config.Retry
	txn := uuid.New()

	var failures []AttemptError
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, c.cancelled(frame, failures, err)
		}

		start := time.Now()
		value, err := c.attempt(txn, frame)
		elapsed := time.Since(start)

		if err == nil {
			c.reportAttempt(Attempt{
				TransactionID: txn,
				Command:       command,
				Address:       address,
				Number:        attempt,
				MaxAttempts:   policy.MaxAttempts,
				State:         StateSuccess,
				Elapsed:       elapsed,
			})
			c.logDebug("transaction complete",
				"txn", txn.String(),
				"frame", frame.String(),
				"value", fmt.Sprintf("0x%02X", value),
				"attempts", attempt,
			)
			return value, nil
		}

		failures = append(failures, newAttemptError(attempt, err))

		state := StateRetryPending
		if attempt >= policy.MaxAttempts {
			state = StateFailed
		}
		c.reportAttempt(Attempt{
			TransactionID: txn,
			Command:       command,
			Address:       address,
			Number:        attempt,
			MaxAttempts:   policy.MaxAttempts,
			State:         state,
			Err:           err,
			Elapsed:       elapsed,
		})
		c.logDebug("attempt failed",
			"txn", txn.String(),
			"frame", frame.String(),
			"attempt", attempt,
			"state", state.String(),
			"error", err.Error(),
		)

		if state == StateFailed {
			break
		}
		if err := c.sleep(ctx, policy.Delay); err != nil {
			return 0, c.cancelled(frame, failures, err)
		}
	}

	exhausted := &RetriesExhaustedError{
		Command:  command,
		Expected: protocol.ResponseSuccess,
		Attempts: failures,
	}
	c.logError("transaction failed",
		"txn", txn.String(),
		"frame", frame.String(),
		"error", exhausted.Error(),
	)
	return 0, exhausted
}

// attempt performs a single write+read cycle. Nothing carries over from
// a previous attempt.
func (c *Client) attempt(txn uuid.UUID, frame protocol.CommandFrame) (byte, error) {
	c.logState(txn, StateSending)
	if err := c.transport.WriteAll(frame.Bytes()); err != nil {
		return 0, fmt.Errorf("write command: %w", err)
	}

	c.logState(txn, StateAwaitingResponse)
	response, err := c.transport.ReadExact(protocol.ResponseSize, c.config.ReadTimeout)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	c.logState(txn, StateValidating)
	resp, err := protocol.DecodeResponse(response)
	if err != nil {
		return 0, err
	}
	if !resp.OK() {
		return 0, &protocol.UnexpectedStatusError{
			Command:  frame.Command,
			Expected: protocol.ResponseSuccess,
			Actual:   resp.Status,
		}
	}
	return resp.Value, nil
}

func (c *Client) cancelled(frame protocol.CommandFrame, failures []AttemptError, err error) error {
	c.logInfo("transaction cancelled",
		"frame", frame.String(),
		"attempts", len(failures),
	)
	return fmt.Errorf("%s cancelled after %d attempts: %w",
		protocol.CommandName(frame.Command), len(failures), err)
}

// reportAttempt calls the attempt callback if configured.
func (c *Client) reportAttempt(a Attempt) {
	if c.config.AttemptCallback != nil {
		c.config.AttemptCallback(a)
	}
}

func (c *Client) logState(txn uuid.UUID, s State) {
	c.logDebug("transaction state", "txn", txn.String(), "state", s.String())
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
