// Package bootstrap applies a Config to the process-wide defaults of the
// logging, memory, buffer and reftable packages.
package bootstrap

import (
	"io"
	"os"

	"github.com/23skdu/slabkit/internal/buffer"
	"github.com/23skdu/slabkit/internal/config"
	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/logging"
	"github.com/23skdu/slabkit/internal/memory"
	"github.com/23skdu/slabkit/internal/reftable"
	"github.com/rs/zerolog"
)

// Runtime is what Init installed.
type Runtime struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Tracker *memory.Tracker // nil unless TrackHeap is set
}

// Init validates cfg and installs it. Log output goes to w, or stderr when
// w is nil.
func Init(cfg *config.Config, w io.Writer) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfiguration, "bootstrap.Init", "nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	logger, err := logging.NewLogger(logging.Config{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Output: w,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfiguration, "bootstrap.Init", "failed to build logger")
	}
	logging.SetDefault(logger)

	var tracker *memory.Tracker
	if cfg.TrackHeap {
		tracker = memory.NewTracker()
	}
	memory.SetDefaults(tracker, cfg.AssumeAligned)
	buffer.SetDefaultReserve(cfg.GrowableReserve)
	reftable.SetDefaultStrategy(cfg.Strategy())

	logger.Info().
		Str("table_hash", cfg.TableHash).
		Int("table_width", cfg.TableWidth).
		Int("growable_reserve", cfg.GrowableReserve).
		Bool("assume_aligned", cfg.AssumeAligned).
		Bool("track_heap", cfg.TrackHeap).
		Msg("slabkit initialized")

	return &Runtime{Config: cfg, Logger: logger, Tracker: tracker}, nil
}

// FromEnv loads the configuration from envFiles and the environment, then
// calls Init.
func FromEnv(w io.Writer, envFiles ...string) (*Runtime, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	return Init(cfg, w)
}

// NewTable builds a reference table with the configured default width.
func NewTable[K, V any](rt *Runtime, opts ...reftable.Option) (*reftable.Table[K, V], error) {
	return reftable.New[K, V](rt.Config.TableWidth, opts...)
}
