// Package cli implements the plictl command line tool.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-pli/logging"
	"github.com/moffa90/go-pli/pli"
	"github.com/moffa90/go-pli/protocol"
)

// app holds state shared by all subcommands, set during PersistentPreRun.
type app struct {
	cfgFile      string
	mode         string
	address      string
	device       string
	baud         int
	timeout      time.Duration
	attempts     int
	retryDelay   time.Duration
	outputFormat string
	logLevel     string
	verbose      bool
	skipLoopback bool

	cfg       Config
	formatter Formatter
	logger    *logging.Logger
}

// NewRootCmd builds the plictl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "plictl",
		Short: "Talk to a PL solar charge controller through a PLI adaptor",
		Long: `plictl reads and writes PL controller locations through a PLI serial
interface adaptor, reached over TCP or a serial line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is "+DefaultConfigPath()+")")
	pf.StringVar(&a.mode, "mode", "", "transport: tcp, serial or file")
	pf.StringVarP(&a.address, "address", "a", "", "adaptor TCP address (host:port)")
	pf.StringVarP(&a.device, "device", "d", "", "serial device path")
	pf.IntVar(&a.baud, "baud", 0, "serial baud rate (default 9600)")
	pf.DurationVar(&a.timeout, "timeout", 0, "response read timeout (default 5s)")
	pf.IntVar(&a.attempts, "attempts", 0, "attempts per transaction (default 3)")
	pf.DurationVar(&a.retryDelay, "retry-delay", 0, "delay between attempts (default 1s)")
	pf.StringVarP(&a.outputFormat, "output", "o", "", "output format: table, json, yaml (default \"table\")")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "report every failed attempt")

	root.AddCommand(
		a.newLoopbackCmd(),
		a.newReadCmd(),
		a.newEEPROMCmd(),
		a.newScanCmd(),
		a.newBatteryCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.cfgFile
	required := path != ""
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with flags
	flags := cmd.Flags()
	if flags.Changed("address") {
		cfg.Address = a.address
		cfg.Mode = ModeTCP
	}
	if flags.Changed("device") {
		cfg.Device = a.device
		cfg.Mode = ModeSerial
	}
	if flags.Changed("mode") {
		cfg.Mode = strings.ToLower(a.mode)
	}
	if flags.Changed("baud") {
		cfg.Serial.BaudRate = a.baud
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if flags.Changed("attempts") {
		cfg.MaxAttempts = a.attempts
	}
	if flags.Changed("retry-delay") {
		cfg.RetryDelay = a.retryDelay
	}
	if flags.Changed("output") {
		cfg.Output = a.outputFormat
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
		logCfg.Level = lvl
	}
	logging.ApplyEnv(&logCfg, os.Getenv)
	logCfg.Output = cmd.ErrOrStderr()
	a.logger = logging.New(logging.NewZerolog(logCfg))

	a.formatter = NewFormatter(cfg.Output)
	return nil
}

// connect opens a client for the configured target.
func (a *app) connect(cmd *cobra.Command) (*pli.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []pli.Option{
		pli.WithReadTimeout(a.cfg.Timeout),
		pli.WithMaxAttempts(a.cfg.MaxAttempts),
		pli.WithRetryDelay(a.cfg.RetryDelay),
		pli.WithLogger(a.logger),
	}
	if a.verbose {
		errOut := cmd.ErrOrStderr()
		opts = append(opts, pli.WithAttemptCallback(func(at pli.Attempt) {
			if at.Err != nil {
				fmt.Fprintf(errOut, "%s 0x%02X: attempt %d/%d failed: %v\n",
					protocol.CommandName(at.Command), at.Address, at.Number, at.MaxAttempts, at.Err)
			}
		}))
	}

	switch a.cfg.Mode {
	case ModeSerial:
		return pli.OpenSerial(a.cfg.Device, a.cfg.Serial, opts...)
	case ModeFile:
		return pli.OpenFile(a.cfg.Device, opts...)
	default:
		return pli.Dial(cmd.Context(), a.cfg.Address, opts...)
	}
}

// withClient connects, runs fn and closes the client.
func (a *app) withClient(cmd *cobra.Command, fn func(ctx context.Context, c *pli.Client) error) error {
	c, err := a.connect(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, c)
}

// requireLoopback fails unless the adaptor passes its self-test.
func (a *app) requireLoopback(ctx context.Context, c *pli.Client) error {
	if a.skipLoopback {
		return nil
	}
	ok, err := c.LoopbackTestContext(ctx)
	if err != nil {
		return fmt.Errorf("loopback test: %w", err)
	}
	if !ok {
		return fmt.Errorf("loopback test failed: adaptor did not answer 0x%02X", protocol.LoopbackSuccess)
	}
	return nil
}

// parseByte accepts decimal, 0x-prefixed hex or 0-prefixed octal.
func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q: must be 0-255 or 0x00-0xFF", s)
	}
	return byte(v), nil
}
