// Package slabkit is the public entry point to the slab allocator, the
// buffers built on it and the reference table.
package slabkit

import (
	"io"

	"github.com/23skdu/slabkit/internal/bootstrap"
	"github.com/23skdu/slabkit/internal/buffer"
	"github.com/23skdu/slabkit/internal/config"
	"github.com/23skdu/slabkit/internal/errors"
	"github.com/23skdu/slabkit/internal/hash"
	"github.com/23skdu/slabkit/internal/memory"
	"github.com/23skdu/slabkit/internal/reftable"
)

type (
	Slab[T any]           = memory.Slab[T]
	Pool[T any]           = memory.Pool[T]
	PoolStats             = memory.PoolStats
	Tracker               = memory.Tracker
	Option                = memory.Option
	FixedBuffer[T any]    = buffer.FixedBuffer[T]
	GrowableBuffer[T any] = buffer.GrowableBuffer[T]
	Table[K, V any]       = reftable.Table[K, V]
	TableOption           = reftable.Option
	Strategy              = hash.Strategy
	Config                = config.Config
	Runtime               = bootstrap.Runtime
	Error                 = errors.StructuredError
)

// Built-in hash strategies.
var (
	DJB2  = hash.DJB2
	FNV1a = hash.FNV1a
)

// Sentinel causes. Match them with errors.Is.
var (
	ErrFull             = errors.ErrFull
	ErrOutOfBounds      = errors.ErrOutOfBounds
	ErrMisaligned       = errors.ErrMisaligned
	ErrDoubleFree       = errors.ErrDoubleFree
	ErrShapeMismatch    = errors.ErrShapeMismatch
	ErrForeignReference = errors.ErrForeignReference
	ErrEmpty            = errors.ErrEmpty
	ErrInvalidGeometry  = errors.ErrInvalidGeometry
	ErrInvalidConfig    = errors.ErrInvalidConfig
)

// Slab, pool and buffer options.
var (
	WithLogger        = memory.WithLogger
	WithTracker       = memory.WithTracker
	WithAssumeAligned = memory.WithAssumeAligned
)

// Table options.
var (
	WithStrategy     = reftable.WithStrategy
	WithTableLogger  = reftable.WithLogger
	WithTableTracker = reftable.WithTracker
)

func NewTracker() *Tracker { return memory.NewTracker() }

// NewSlab creates a single slab of chunkCount chunks.
func NewSlab[T any](chunkCount int, opts ...Option) (*Slab[T], error) {
	return memory.NewSlab[T](chunkCount, opts...)
}

// NewPool creates a pool that grows by slabs of chunkCount chunks.
func NewPool[T any](chunkCount int, opts ...Option) (*Pool[T], error) {
	return memory.NewPool[T](chunkCount, opts...)
}

func NewFixed[T any](elements int, opts ...Option) (*FixedBuffer[T], error) {
	return buffer.NewFixed[T](elements, opts...)
}

func NewFixedFrom[T any](src []T, opts ...Option) *FixedBuffer[T] {
	return buffer.NewFixedFrom(src, opts...)
}

// NewGrowable creates an empty buffer. A non-positive reserved uses the
// configured default reserve.
func NewGrowable[T any](reserved int, opts ...Option) *GrowableBuffer[T] {
	return buffer.NewGrowable[T](reserved, opts...)
}

func NewGrowableFrom[T any](src []T, opts ...Option) *GrowableBuffer[T] {
	return buffer.NewGrowableFrom(src, opts...)
}

// NewTable creates a reference table with width buckets.
func NewTable[K, V any](width int, opts ...TableOption) (*Table[K, V], error) {
	return reftable.New[K, V](width, opts...)
}

// LoadConfig reads SLABKIT_* settings from envFiles and the environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	return config.Load(envFiles...)
}

// Init installs cfg as the process-wide defaults. Logs go to w, or stderr
// when w is nil.
func Init(cfg *Config, w io.Writer) (*Runtime, error) {
	return bootstrap.Init(cfg, w)
}
