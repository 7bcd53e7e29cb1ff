// Package config loads the YAML configuration of the faststepper tools.
//
// Example:
//
//	serial:
//	  port: /dev/ttyUSB0
//	  baud: 1000000
//	  readTimeout: 100ms
//	client:
//	  requestTimeout: 1s
//	capture:
//	  file: session.hlog
//	log:
//	  level: debug
//
// Fields left out keep their defaults. Command-line flags override file
// values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harp-tech/faststepper-go/pkg/register"
	"github.com/harp-tech/faststepper-go/pkg/transport"
)

// Config is the complete tool configuration.
type Config struct {
	Serial  Serial  `yaml:"serial"`
	Client  Client  `yaml:"client"`
	Capture Capture `yaml:"capture"`
	Metrics Metrics `yaml:"metrics"`
	Log     Log     `yaml:"log"`
}

// Serial configures the serial link.
type Serial struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"readTimeout"`
}

// Client configures the command client.
type Client struct {
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	WhoAmI         uint16        `yaml:"whoAmI"`
	Simulate       bool          `yaml:"simulate"`
}

// Capture configures protocol capture.
type Capture struct {
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// Metrics configures the Prometheus endpoint. Empty Listen disables it.
type Metrics struct {
	Listen string `yaml:"listen"`
}

// Log configures operational logging.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Serial: Serial{
			Baud:        transport.DefaultBaud,
			ReadTimeout: transport.DefaultReadTimeout,
		},
		Client: Client{
			RequestTimeout: time.Second,
			WhoAmI:         register.FastStepperWhoAmI,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a configuration file on top of the defaults. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges. A missing serial port is allowed; commands
// that need one check it themselves.
func (c Config) Validate() error {
	var errs []error
	if c.Serial.Baud <= 0 {
		errs = append(errs, fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud))
	}
	if c.Serial.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("serial.readTimeout must not be negative"))
	}
	if c.Client.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("client.requestTimeout must not be negative"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel maps the configured level name to a slog level.
func (l Log) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level: unknown level %q (use debug, info, warn, error)", l.Level)
	}
}

// TransportConfig returns the serial settings for transport.Open.
func (s Serial) TransportConfig() transport.SerialConfig {
	return transport.SerialConfig{
		Port:        s.Port,
		Baud:        s.Baud,
		ReadTimeout: s.ReadTimeout,
	}
}
