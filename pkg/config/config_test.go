package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1_000_000, cfg.Serial.Baud)
	assert.Equal(t, 100*time.Millisecond, cfg.Serial.ReadTimeout)
	assert.Equal(t, uint16(2120), cfg.Client.WhoAmI)
	assert.Equal(t, time.Second, cfg.Client.RequestTimeout)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
serial:
  port: /dev/ttyUSB0
  readTimeout: 50ms
client:
  requestTimeout: 250ms
capture:
  file: session.hlog
  console: true
metrics:
  listen: ":9100"
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 1_000_000, cfg.Serial.Baud)
	assert.Equal(t, 50*time.Millisecond, cfg.Serial.ReadTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.RequestTimeout)
	assert.Equal(t, "session.hlog", cfg.Capture.File)
	assert.True(t, cfg.Capture.Console)
	assert.Equal(t, ":9100", cfg.Metrics.Listen)

	sc := cfg.Serial.TransportConfig()
	assert.Equal(t, "/dev/ttyUSB0", sc.Port)
	assert.Equal(t, 50*time.Millisecond, sc.ReadTimeout)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "serial:\n  speed: 9600\n"},
		{"bad baud", "serial:\n  baud: 0\n"},
		{"negative timeout", "client:\n  requestTimeout: -1s\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad duration", "serial:\n  readTimeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faststepper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial:\n  port: COM3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "COM3", cfg.Serial.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "warn", "error", ""} {
		_, err := Log{Level: name}.SlogLevel()
		assert.NoError(t, err, name)
	}
}
