// Package pli provides a client for the PLI serial interface adaptor used
// with PL series solar charge controllers.
//
// # Overview
//
// Every operation is one transaction: a 4-byte command frame is written,
// a 2-byte response is read and its status checked. A transaction that
// fails, whether from a timeout, a short read or an unexpected status
// byte, is repeated from scratch according to the RetryPolicy.
//
// # Basic Usage
//
//	client, err := pli.Dial(context.Background(), "172.31.2.110:26000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	ok, err := client.LoopbackTest()
//	if err != nil || !ok {
//	    log.Fatal("adaptor not responding")
//	}
//
//	volts, err := client.ReadVolatile(protocol.BatteryVoltage)
//
// # Transports
//
// New accepts any transport.Transport. Dial, OpenSerial and OpenFile are
// shortcuts that establish one with package transport first:
//
//	t, err := transport.OpenSerial("/dev/ttyUSB0", transport.DefaultSerialConfig())
//	client, err := pli.New(t)
//
// # Configuration Options
//
//	client, err := pli.New(t,
//	    pli.WithMaxAttempts(5),
//	    pli.WithRetryDelay(5*time.Second),
//	    pli.WithReadTimeout(30*time.Second),
//	    pli.WithLogger(logger),
//	    pli.WithAttemptCallback(func(a pli.Attempt) { ... }),
//	)
//
// # Error Handling
//
// Retryable failures never leave the client on their own. When all
// attempts fail the caller receives a *RetriesExhaustedError listing each
// attempt's failure in order:
//
//	_, err := client.ReadEEPROM(0x10)
//	var re *pli.RetriesExhaustedError
//	if errors.As(err, &re) {
//	    fmt.Println(re.Diagnostics()) // e.g. [00 read response: transport: read timeout 00]
//	}
//
// Dial, OpenSerial, OpenFile and New return *ConstructionError when no
// usable transport is available. LoopbackTest is never retried and
// returns transport errors directly.
//
// # Concurrency
//
// A Client must not be used from more than one goroutine at a time.
// Worst-case latency of a transaction is
// MaxAttempts × (ReadTimeout + Delay).
package pli
