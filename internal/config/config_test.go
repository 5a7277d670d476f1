package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SLABKIT_LOG_LEVEL",
	"SLABKIT_LOG_FORMAT",
	"SLABKIT_ASSUME_ALIGNED",
	"SLABKIT_GROWABLE_RESERVE",
	"SLABKIT_TABLE_WIDTH",
	"SLABKIT_TABLE_HASH",
	"SLABKIT_TRACK_HEAP",
}

// clearEnv unsets every SLABKIT variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.AssumeAligned)
	assert.Equal(t, 16, cfg.GrowableReserve)
	assert.Equal(t, 64, cfg.TableWidth)
	assert.Equal(t, "djb2", cfg.TableHash)
	assert.False(t, cfg.TrackHeap)
	assert.Equal(t, "djb2", cfg.Strategy().Name)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLABKIT_LOG_LEVEL", "debug")
	t.Setenv("SLABKIT_LOG_FORMAT", "console")
	t.Setenv("SLABKIT_ASSUME_ALIGNED", "true")
	t.Setenv("SLABKIT_GROWABLE_RESERVE", "32")
	t.Setenv("SLABKIT_TABLE_WIDTH", "128")
	t.Setenv("SLABKIT_TABLE_HASH", "fnv1a")
	t.Setenv("SLABKIT_TRACK_HEAP", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.AssumeAligned)
	assert.Equal(t, 32, cfg.GrowableReserve)
	assert.Equal(t, 128, cfg.TableWidth)
	assert.Equal(t, "fnv1a", cfg.Strategy().Name)
	assert.True(t, cfg.TrackHeap)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv writes into the process environment; the cleanup from
	// clearEnv restores it.
	t.Setenv("SLABKIT_TABLE_WIDTH", "256")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SLABKIT_TABLE_HASH=fnv1a\nSLABKIT_GROWABLE_RESERVE=8\nSLABKIT_TABLE_WIDTH=4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "fnv1a", cfg.TableHash)
	assert.Equal(t, 8, cfg.GrowableReserve)
	assert.Equal(t, 256, cfg.TableWidth, "environment wins over file")
}

func TestLoad_LevelCasing(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLABKIT_LOG_LEVEL", "WARN")
	t.Setenv("SLABKIT_LOG_FORMAT", "Console")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "WARN", cfg.LogLevel)

	_, err = logging.NewLogger(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, Output: io.Discard})
	assert.NoError(t, err, "every level that validates must build a logger")
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLABKIT_TABLE_WIDTH", "wide")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			LogLevel:        "info",
			LogFormat:       "json",
			GrowableReserve: 16,
			TableWidth:      64,
			TableHash:       "djb2",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, ErrInvalidLogLevel},
		{"upper case level", func(c *Config) { c.LogLevel = "WARN" }, nil},
		{"fatal level", func(c *Config) { c.LogLevel = "fatal" }, nil},
		{"disabled level", func(c *Config) { c.LogLevel = "Disabled" }, nil},
		{"warning alias", func(c *Config) { c.LogLevel = "warning" }, nil},
		{"upper case format", func(c *Config) { c.LogFormat = "JSON" }, nil},
		{"zero reserve", func(c *Config) { c.GrowableReserve = 0 }, ErrInvalidGrowableReserve},
		{"negative width", func(c *Config) { c.TableWidth = -1 }, ErrInvalidTableWidth},
		{"unknown hash", func(c *Config) { c.TableHash = "crc32" }, ErrInvalidTableHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
		})
	}
}
