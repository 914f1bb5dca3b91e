package pli

import (
	"fmt"
	"time"
)

// Defaults applied by New.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
	DefaultReadTimeout = 5 * time.Second
)

// RetryPolicy controls how a transaction is retried.
// It is fixed for the lifetime of a Client.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, at least 1
	MaxAttempts int

	// Delay is the pause between attempts, not applied after the last one
	Delay time.Duration
}

// DefaultRetryPolicy returns 3 attempts one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultRetryDelay,
	}
}

func (p RetryPolicy) validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.Delay < 0 {
		return fmt.Errorf("retry delay must not be negative, got %s", p.Delay)
	}
	return nil
}

// Config holds the client configuration.
type Config struct {
	// Retry is the retry policy for ReadVolatile, ReadEEPROM and WriteEEPROM
	Retry RetryPolicy

	// ReadTimeout bounds each response read
	ReadTimeout time.Duration

	// Logger is used for logging operations (optional)
	Logger Logger

	// AttemptCallback is called after every attempt (optional)
	AttemptCallback AttemptCallback
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Retry:       DefaultRetryPolicy(),
		ReadTimeout: DefaultReadTimeout,
	}
}

func buildConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c Config) validate() error {
	if err := c.Retry.validate(); err != nil {
		return err
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %s", c.ReadTimeout)
	}
	return nil
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithRetryPolicy replaces the whole retry policy.
//
// Example:
//
//	client, err := pli.New(t, pli.WithRetryPolicy(pli.RetryPolicy{
//	    MaxAttempts: 5,
//	    Delay:       5 * time.Second,
//	}))
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Config) {
		c.Retry = policy
	}
}

// WithMaxAttempts sets the total number of attempts per transaction.
// New rejects values below 1.
func WithMaxAttempts(attempts int) Option {
	return func(c *Config) {
		c.Retry.MaxAttempts = attempts
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.Retry.Delay = delay
	}
}

// WithReadTimeout sets the timeout for each response read.
// New rejects values that are not positive.
//
// Example:
//
//	client, err := pli.New(t, pli.WithReadTimeout(30*time.Second))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = timeout
	}
}

// WithLogger sets a logger for client operations.
//
// Example:
//
//	client, err := pli.New(t, pli.WithLogger(logging.New(zlog)))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAttemptCallback sets a callback invoked after every attempt.
func WithAttemptCallback(callback AttemptCallback) Option {
	return func(c *Config) {
		c.AttemptCallback = callback
	}
}
