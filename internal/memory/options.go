package memory

import (
	"sync/atomic"

	"github.com/23skdu/slabkit/internal/logging"
	"github.com/rs/zerolog"
)

// Options carries the ambient collaborators shared by slabs, pools, buffers
// and tables.
type Options struct {
	Logger        zerolog.Logger
	Tracker       *Tracker
	AssumeAligned bool
}

// Option configures an allocator at construction time.
type Option func(*Options)

// WithLogger overrides the process default logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithTracker records allocations on t. A nil tracker disables tracking.
func WithTracker(t *Tracker) Option {
	return func(o *Options) { o.Tracker = t }
}

// WithAssumeAligned makes Remove skip the alignment check. Use it only when
// every reference handed back came from Insert on the same allocator.
func WithAssumeAligned(v bool) Option {
	return func(o *Options) { o.AssumeAligned = v }
}

type defaultOptions struct {
	tracker       *Tracker
	assumeAligned bool
}

var defaults atomic.Pointer[defaultOptions]

func init() {
	defaults.Store(&defaultOptions{})
}

// SetDefaults sets the tracker and alignment policy applied when no Option
// overrides them. The logger default comes from logging.Default.
func SetDefaults(tracker *Tracker, assumeAligned bool) {
	defaults.Store(&defaultOptions{tracker: tracker, assumeAligned: assumeAligned})
}

// DefaultTracker returns the tracker installed by SetDefaults, possibly nil.
func DefaultTracker() *Tracker {
	return defaults.Load().tracker
}

// Resolve applies opts over the process defaults.
func Resolve(opts ...Option) Options {
	d := defaults.Load()
	o := Options{
		Logger:        logging.Default(),
		Tracker:       d.tracker,
		AssumeAligned: d.assumeAligned,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
