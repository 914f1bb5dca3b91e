package pli

import (
	"context"

	"github.com/moffa90/go-pli/transport"
)

// Dial connects to a PLI adaptor over TCP ("host:port") and returns a
// Client owning the connection. The read timeout doubles as the connect
// timeout. Connection failures are returned as *ConstructionError.
//
// Example:
//
//	client, err := pli.Dial(ctx, "172.31.2.110:26000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func Dial(ctx context.Context, address string, opts ...Option) (*Client, error) {
	cfg := buildConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, &ConstructionError{Target: address, Err: err}
	}

	t, err := transport.DialTCP(ctx, address, cfg.ReadTimeout)
	if err != nil {
		return nil, &ConstructionError{Target: address, Err: err}
	}
	return newOwned(address, t, opts)
}

// OpenSerial opens and configures a serial port and returns a Client
// owning it.
func OpenSerial(path string, serialCfg transport.SerialConfig, opts ...Option) (*Client, error) {
	if err := buildConfig(opts).validate(); err != nil {
		return nil, &ConstructionError{Target: path, Err: err}
	}

	t, err := transport.OpenSerial(path, serialCfg)
	if err != nil {
		return nil, &ConstructionError{Target: path, Err: err}
	}
	return newOwned(path, t, opts)
}

// OpenFile opens an already-configured tty device read/write and returns
// a Client owning it.
func OpenFile(path string, opts ...Option) (*Client, error) {
	if err := buildConfig(opts).validate(); err != nil {
		return nil, &ConstructionError{Target: path, Err: err}
	}

	t, err := transport.OpenFile(path)
	if err != nil {
		return nil, &ConstructionError{Target: path, Err: err}
	}
	return newOwned(path, t, opts)
}

func newOwned(target string, t transport.Transport, opts []Option) (*Client, error) {
	c, err := New(t, opts...)
	if err != nil {
		_ = t.Close()
		if ce, ok := err.(*ConstructionError); ok {
			ce.Target = target
		}
		return nil, err
	}
	c.logInfo("connected", "target", target)
	return c, nil
}
