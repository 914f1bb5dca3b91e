package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/moffa90/go-pli/pli"
	"github.com/moffa90/go-pli/transport"
)

// Transport modes.
const (
	ModeTCP    = "tcp"
	ModeSerial = "serial"
	ModeFile   = "file"
)

// Config is the resolved plictl configuration.
type Config struct {
	Mode        string
	Address     string
	Device      string
	Serial      transport.SerialConfig
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	Output      string
	LogLevel    string
}

// DefaultConfig mirrors the library defaults.
func DefaultConfig() Config {
	return Config{
		Mode:        ModeTCP,
		Serial:      transport.DefaultSerialConfig(),
		Timeout:     pli.DefaultReadTimeout,
		MaxAttempts: pli.DefaultMaxAttempts,
		RetryDelay:  pli.DefaultRetryDelay,
		Output:      "table",
		LogLevel:    "warn",
	}
}

type fileConfig struct {
	Mode        string `toml:"mode"`
	Address     string `toml:"address"`
	Device      string `toml:"device"`
	BaudRate    int    `toml:"baud_rate"`
	DataBits    int    `toml:"data_bits"`
	Parity      string `toml:"parity"`
	StopBits    string `toml:"stop_bits"`
	Timeout     string `toml:"timeout"`
	MaxAttempts int    `toml:"max_attempts"`
	RetryDelay  string `toml:"retry_delay"`
	Output      string `toml:"output"`
	LogLevel    string `toml:"log_level"`
}

// DefaultConfigPath returns ~/.config/plictl/config.toml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "plictl", "config.toml")
}

// LoadConfig reads path over the defaults. A missing file is not an error
// unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("mode") {
		cfg.Mode = strings.ToLower(strings.TrimSpace(raw.Mode))
	}
	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
		if !meta.IsDefined("mode") {
			cfg.Mode = ModeTCP
		}
	}
	if meta.IsDefined("device") {
		cfg.Device = strings.TrimSpace(raw.Device)
		if !meta.IsDefined("mode") {
			cfg.Mode = ModeSerial
		}
	}
	if meta.IsDefined("baud_rate") {
		cfg.Serial.BaudRate = raw.BaudRate
	}
	if meta.IsDefined("data_bits") {
		cfg.Serial.DataBits = raw.DataBits
	}
	if meta.IsDefined("parity") {
		p, err := transport.ParseParity(raw.Parity)
		if err != nil {
			return Config{}, fmt.Errorf("parse parity: %w", err)
		}
		cfg.Serial.Parity = p
	}
	if meta.IsDefined("stop_bits") {
		sb, err := transport.ParseStopBits(raw.StopBits)
		if err != nil {
			return Config{}, fmt.Errorf("parse stop_bits: %w", err)
		}
		cfg.Serial.StopBits = sb
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("max_attempts") {
		cfg.MaxAttempts = raw.MaxAttempts
	}
	if meta.IsDefined("retry_delay") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RetryDelay))
		if err != nil {
			return Config{}, fmt.Errorf("parse retry_delay: %w", err)
		}
		cfg.RetryDelay = d
	}
	if meta.IsDefined("output") {
		cfg.Output = strings.TrimSpace(raw.Output)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

// Validate checks that a target is set for the selected mode.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeTCP:
		if c.Address == "" {
			return fmt.Errorf("tcp mode requires an address (host:port)")
		}
	case ModeSerial, ModeFile:
		if c.Device == "" {
			return fmt.Errorf("%s mode requires a device path", c.Mode)
		}
	default:
		return fmt.Errorf("unknown mode %q (want tcp, serial or file)", c.Mode)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1")
	}
	return nil
}
