package reftable

import (
	"sync/atomic"

	"github.com/23skdu/slabkit/internal/hash"
	"github.com/23skdu/slabkit/internal/logging"
	"github.com/23skdu/slabkit/internal/memory"
	"github.com/rs/zerolog"
)

type options struct {
	strategy hash.Strategy
	logger   zerolog.Logger
	tracker  *memory.Tracker
}

// Option configures a Table.
type Option func(*options)

// WithStrategy selects the bucket hash. New rejects a strategy whose
// Accumulate is nil.
func WithStrategy(s hash.Strategy) Option {
	return func(o *options) { o.strategy = s }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTracker records the node pool and bucket array on t.
func WithTracker(t *memory.Tracker) Option {
	return func(o *options) { o.tracker = t }
}

var defaultStrategy atomic.Pointer[hash.Strategy]

func init() {
	s := hash.DJB2
	defaultStrategy.Store(&s)
}

// SetDefaultStrategy changes the strategy used by tables built without
// WithStrategy. A strategy without an accumulate function is ignored.
func SetDefaultStrategy(s hash.Strategy) {
	if s.Accumulate == nil {
		return
	}
	defaultStrategy.Store(&s)
}

// DefaultStrategy returns the strategy used when WithStrategy is omitted.
func DefaultStrategy() hash.Strategy {
	return *defaultStrategy.Load()
}

func resolve(opts []Option) options {
	o := options{
		strategy: DefaultStrategy(),
		logger:   logging.Default(),
		tracker:  memory.DefaultTracker(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
