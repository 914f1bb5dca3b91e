package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.bug.st/serial"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), false)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfigRequiredMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), true); err == nil {
		t.Fatal("LoadConfig() expected error for missing required file")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
device = "/dev/ttyUSB0"
baud_rate = 19200
parity = "even"
stop_bits = "2"
timeout = "250ms"
max_attempts = 5
retry_delay = "10ms"
output = "json"
log_level = "debug"
`)

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Mode != ModeSerial {
		t.Errorf("Mode = %q, want %q (implied by device)", cfg.Mode, ModeSerial)
	}
	if cfg.Device != "/dev/ttyUSB0" {
		t.Errorf("Device = %q", cfg.Device)
	}
	if cfg.Serial.BaudRate != 19200 {
		t.Errorf("BaudRate = %d, want 19200", cfg.Serial.BaudRate)
	}
	if cfg.Serial.Parity != serial.EvenParity {
		t.Errorf("Parity = %v, want even", cfg.Serial.Parity)
	}
	if cfg.Serial.StopBits != serial.TwoStopBits {
		t.Errorf("StopBits = %v, want two", cfg.Serial.StopBits)
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d", cfg.MaxAttempts)
	}
	if cfg.RetryDelay != 10*time.Millisecond {
		t.Errorf("RetryDelay = %v", cfg.RetryDelay)
	}
	if cfg.Output != "json" || cfg.LogLevel != "debug" {
		t.Errorf("Output/LogLevel = %q/%q", cfg.Output, cfg.LogLevel)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad toml", `address = `},
		{"bad timeout", `timeout = "soon"`},
		{"bad retry delay", `retry_delay = "5"`},
		{"bad parity", `parity = "sideways"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body), true); err == nil {
				t.Error("LoadConfig() expected error")
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"tcp with address", func(c *Config) { c.Address = "localhost:4000" }, false},
		{"tcp without address", func(c *Config) {}, true},
		{"serial with device", func(c *Config) { c.Mode = ModeSerial; c.Device = "/dev/ttyS0" }, false},
		{"file without device", func(c *Config) { c.Mode = ModeFile }, true},
		{"unknown mode", func(c *Config) { c.Mode = "carrier-pigeon"; c.Address = "x" }, true},
		{"zero attempts", func(c *Config) { c.Address = "x:1"; c.MaxAttempts = 0 }, true},
		{"zero timeout", func(c *Config) { c.Address = "x:1"; c.Timeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseByte(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{"0", 0, false},
		{"50", 50, false},
		{"0x32", 0x32, false},
		{"0xFF", 0xFF, false},
		{" 0x2b ", 0x2B, false},
		{"256", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseByte(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseByte(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseByte(%q) = 0x%02X, want 0x%02X", tt.in, got, tt.want)
		}
	}
}
