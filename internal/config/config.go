// Package config loads slabkit settings from the environment and optional
// .env files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/hash"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SLABKIT"

// Config validation errors
var (
	ErrInvalidLogFormat       = fmt.Errorf("%w: log_format must be 'json' or 'console'", errors.ErrInvalidConfig)
	ErrInvalidLogLevel        = fmt.Errorf("%w: log_level must be debug, info, warn, or error", errors.ErrInvalidConfig)
	ErrInvalidGrowableReserve = fmt.Errorf("%w: growable_reserve must be positive", errors.ErrInvalidConfig)
	ErrInvalidTableWidth      = fmt.Errorf("%w: table_width must be positive", errors.ErrInvalidConfig)
	ErrInvalidTableHash       = fmt.Errorf("%w: table_hash must name a known strategy", errors.ErrInvalidConfig)
)

// Config holds process-wide allocator settings
type Config struct {
	LogLevel        string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat       string `envconfig:"LOG_FORMAT" default:"json"`
	AssumeAligned   bool   `envconfig:"ASSUME_ALIGNED" default:"false"` // skip alignment checks on Remove
	GrowableReserve int    `envconfig:"GROWABLE_RESERVE" default:"16"`
	TableWidth      int    `envconfig:"TABLE_WIDTH" default:"64"`
	TableHash       string `envconfig:"TABLE_HASH" default:"djb2"`
	TrackHeap       bool   `envconfig:"TRACK_HEAP" default:"false"`
}

// Load reads the given .env files, then the SLABKIT_* environment, and
// validates the result. Missing files are skipped. Variables already present
// in the environment take precedence over file values.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfiguration, "config.Load",
				"failed to read env file").WithContext("file", file)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfiguration, "config.Load",
			"failed to process environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and returns an error if invalid
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "json", "console", "text":
	default:
		return ErrInvalidLogFormat
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "fatal", "disabled", "off":
	default:
		return ErrInvalidLogLevel
	}
	if c.GrowableReserve <= 0 {
		return ErrInvalidGrowableReserve
	}
	if c.TableWidth <= 0 {
		return ErrInvalidTableWidth
	}
	if _, err := hash.ByName(c.TableHash); err != nil {
		return ErrInvalidTableHash
	}
	return nil
}

// Strategy resolves the configured table hash.
func (c *Config) Strategy() hash.Strategy {
	s, err := hash.ByName(c.TableHash)
	if err != nil {
		return hash.DJB2
	}
	return s
}
